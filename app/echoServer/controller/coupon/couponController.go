package coupon

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bookshop/app/echoServer/jwtx"
	couponsvc "bookshop/service/coupon"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc couponsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := jwtx.RoleFromContext(c)
	return role == "admin"
}

// POST /v1/coupons  (admin)
func (h *Controller) Create(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req CreateCouponReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	expiry, err := time.Parse(time.DateOnly, req.ExpiryDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "expiry_date must be YYYY-MM-DD"})
	}
	// Coupons stay valid through the whole expiry day.
	expiry = expiry.Add(24*time.Hour - time.Second)

	cp, err := h.Svc.Create(c.Request().Context(), req.Code, req.DiscountPercentage, expiry, req.IsActive)
	if err != nil {
		switch couponsvc.Code(err) {
		case couponsvc.ErrBadPercent:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "discount percentage must be between 0 and 100"})
		case couponsvc.ErrCodeTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "coupon code already exists"})
		default:
			h.Log.Error("coupon create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, cp)
}

// POST /v1/coupons/validate
func (h *Controller) Validate(c echo.Context) error {
	var req ValidateCouponReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	cp, err := h.Svc.Validate(c.Request().Context(), req.Code)
	if err != nil {
		switch couponsvc.Code(err) {
		case couponsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "coupon not found"})
		case couponsvc.ErrInactive:
			return c.JSON(http.StatusConflict, echo.Map{"message": "coupon is inactive"})
		case couponsvc.ErrExpired:
			return c.JSON(http.StatusConflict, echo.Map{"message": "coupon has expired"})
		default:
			h.Log.Error("coupon validate", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, cp)
}

// GET /v1/coupons
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("coupon list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PATCH /v1/coupons/:id/active  (admin)
func (h *Controller) SetActive(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "is_active is required"})
	}

	if err := h.Svc.SetActive(c.Request().Context(), id, *req.IsActive); err != nil {
		switch couponsvc.Code(err) {
		case couponsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "coupon not found"})
		default:
			h.Log.Error("coupon set active", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/coupons/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch couponsvc.Code(err) {
		case couponsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "coupon not found"})
		default:
			h.Log.Error("coupon delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
