package auth

import (
	"log/slog"
	"net/http"

	"bookshop/model"
	authsvc "bookshop/service/auth"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Login
// @Summary      Staff login
// @Description  Exchange a 6-digit staff pincode for a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /v1/auth/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req.Pincode)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrBadPincode:
			return echo.NewHTTPError(http.StatusBadRequest, "pincode must be 6 digits")
		case authsvc.ErrInvalidPincode:
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid pincode")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("login failed", "err", err, "req_id", rid, "path", c.Path())
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login success",
		"token":   token,
		"user":    u,
	})
}
