package checkout

import (
	"log/slog"
	"net/http"

	"bookshop/app/echoServer/jwtx"
	"bookshop/model"
	cartsvc "bookshop/service/cart"
	checkoutsvc "bookshop/service/checkout"
	couponsvc "bookshop/service/coupon"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc   checkoutsvc.Service
	Store *cartsvc.Store
	V     *validator.Validate
	Log   *slog.Logger
}

type CheckoutReq struct {
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=Cash GCash"`
	CashReceived  float64 `json:"cash_received" validate:"gte=0"`
	CouponCode    string  `json:"coupon_code"`
}

// POST /v1/checkout
func (h *Controller) Checkout(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	crt := h.Store.Get(uid)
	rcpt, err := h.Svc.Checkout(c.Request().Context(), checkoutsvc.Input{
		Items:         crt.Items(),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		CashReceived:  req.CashReceived,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		switch checkoutsvc.Code(err) {
		case checkoutsvc.ErrEmptyCart:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cart is empty"})
		case checkoutsvc.ErrBadPayment:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unsupported payment method"})
		case checkoutsvc.ErrInsufficientCash:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cash received is less than the total"})
		case checkoutsvc.ErrPartialFailure:
			return c.JSON(http.StatusConflict, echo.Map{"message": "some books are no longer available", "detail": err.Error()})
		}
		switch couponsvc.Code(err) {
		case couponsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "coupon not found"})
		case couponsvc.ErrInactive:
			return c.JSON(http.StatusConflict, echo.Map{"message": "coupon is inactive"})
		case couponsvc.ErrExpired:
			return c.JSON(http.StatusConflict, echo.Map{"message": "coupon has expired"})
		}
		h.Log.Error("checkout", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	// The cart survives every failed attempt; only a committed sale
	// clears it.
	crt.Clear()

	return c.JSON(http.StatusCreated, rcpt)
}
