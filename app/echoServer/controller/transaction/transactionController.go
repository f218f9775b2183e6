package transaction

import (
	"log/slog"
	"net/http"
	"time"

	txnsvc "bookshop/service/transaction"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc txnsvc.Service
	Log *slog.Logger
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GET /v1/transactions?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Controller) List(c echo.Context) error {
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "from must be YYYY-MM-DD"})
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "to must be YYYY-MM-DD"})
	}

	rows, err := h.Svc.List(c.Request().Context(), from, to)
	if err != nil {
		h.Log.Error("transaction list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
