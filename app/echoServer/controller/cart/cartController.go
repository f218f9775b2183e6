package cart

import (
	"log/slog"
	"net/http"

	"bookshop/app/echoServer/jwtx"
	"bookshop/model"
	cartsvc "bookshop/service/cart"
	catalogsvc "bookshop/service/catalog"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Store   *cartsvc.Store
	Catalog catalogsvc.Service
	V       *validator.Validate
	Log     *slog.Logger
}

func (h *Controller) userCart(c echo.Context) (*cartsvc.Cart, error) {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return h.Store.Get(uid), nil
}

func view(crt *cartsvc.Cart) echo.Map {
	return echo.Map{
		"items": crt.Items(),
		"total": crt.TotalPrice(),
	}
}

// GET /v1/cart
func (h *Controller) Show(c echo.Context) error {
	crt, err := h.userCart(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view(crt))
}

// POST /v1/cart/items
func (h *Controller) AddItem(c echo.Context) error {
	crt, err := h.userCart(c)
	if err != nil {
		return err
	}
	var req AddItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	b, err := h.Catalog.Detail(c.Request().Context(), req.BookID)
	if err != nil {
		switch catalogsvc.Code(err) {
		case catalogsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("cart add item", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	crt.AddItem(*b, model.AcquisitionMode(req.Mode), req.Amount)
	return c.JSON(http.StatusOK, view(crt))
}

// POST /v1/cart/items/increment
func (h *Controller) Increment(c echo.Context) error {
	return h.bump(c, (*cartsvc.Cart).Increment)
}

// POST /v1/cart/items/decrement
func (h *Controller) Decrement(c echo.Context) error {
	return h.bump(c, (*cartsvc.Cart).Decrement)
}

// POST /v1/cart/items/remove
func (h *Controller) Remove(c echo.Context) error {
	return h.bump(c, (*cartsvc.Cart).Remove)
}

func (h *Controller) bump(c echo.Context, op func(*cartsvc.Cart, int64, model.AcquisitionMode)) error {
	crt, err := h.userCart(c)
	if err != nil {
		return err
	}
	var req LineRef
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	op(crt, req.BookID, model.AcquisitionMode(req.Mode))
	return c.JSON(http.StatusOK, view(crt))
}

// DELETE /v1/cart
func (h *Controller) Clear(c echo.Context) error {
	crt, err := h.userCart(c)
	if err != nil {
		return err
	}
	crt.Clear()
	return c.JSON(http.StatusOK, view(crt))
}
