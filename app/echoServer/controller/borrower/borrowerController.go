package borrower

import (
	"io"
	"log/slog"
	"net/http"

	borrowersvc "bookshop/service/borrower"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc borrowersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/borrowers  (multipart: full_name, contact_number, id_card)
func (h *Controller) Register(c echo.Context) error {
	fullName := c.FormValue("full_name")
	contact := c.FormValue("contact_number")

	var idCard []byte
	var idCardName, contentType string
	if fh, err := c.FormFile("id_card"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unreadable id card file"})
		}
		defer f.Close()
		idCard, err = io.ReadAll(f)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unreadable id card file"})
		}
		idCardName = fh.Filename
		contentType = fh.Header.Get("Content-Type")
	}

	b, err := h.Svc.Register(c.Request().Context(), fullName, contact, idCard, idCardName, contentType)
	if err != nil {
		switch borrowersvc.Code(err) {
		case borrowersvc.ErrBadPayload:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "full_name and contact_number are required"})
		case borrowersvc.ErrContactTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "contact number already registered"})
		default:
			h.Log.Error("borrower register", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, b)
}

// GET /v1/borrowers
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("borrower list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
