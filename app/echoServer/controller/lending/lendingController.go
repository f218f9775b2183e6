package lending

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookshop/app/echoServer/jwtx"
	lendingsvc "bookshop/service/lending"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc lendingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := jwtx.RoleFromContext(c)
	return role == "admin"
}

// POST /v1/lendings
func (h *Controller) Borrow(c echo.Context) error {
	var req BorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	rec, err := h.Svc.Borrow(c.Request().Context(), req.BookID, req.ContactNumber)
	if err != nil {
		switch lendingsvc.Code(err) {
		case lendingsvc.ErrBorrowerNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "borrower not found, register them first"})
		case lendingsvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case lendingsvc.ErrBookSold:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book has been sold"})
		case lendingsvc.ErrAlreadyBorrowed:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book is already out on loan"})
		default:
			h.Log.Error("lending borrow", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, rec)
}

// POST /v1/lendings/:id/return
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	rec, err := h.Svc.Return(c.Request().Context(), id)
	if err != nil {
		switch lendingsvc.Code(err) {
		case lendingsvc.ErrRecordNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "lending record not found"})
		case lendingsvc.ErrAlreadyReturned:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book already returned"})
		default:
			h.Log.Error("lending return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, rec)
}

// GET /v1/lendings
func (h *Controller) History(c echo.Context) error {
	rows, err := h.Svc.History(c.Request().Context())
	if err != nil {
		h.Log.Error("lending history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// DELETE /v1/lendings/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch lendingsvc.Code(err) {
		case lendingsvc.ErrRecordNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "lending record not found"})
		default:
			h.Log.Error("lending delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
