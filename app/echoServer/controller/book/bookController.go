package book

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bookshop/app/echoServer/jwtx"
	"bookshop/model"
	catalogsvc "bookshop/service/catalog"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc catalogsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := jwtx.RoleFromContext(c)
	return role == "admin"
}

// readCover pulls the optional cover file out of a multipart form.
func readCover(c echo.Context) (data []byte, name, contentType string, err error) {
	fh, err := c.FormFile("cover")
	if err != nil {
		// No file part at all is fine.
		return nil, "", "", nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", err
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", err
	}
	return data, fh.Filename, fh.Header.Get("Content-Type"), nil
}

// POST /v1/books  (admin, multipart)
func (h *Controller) Create(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	price, _ := strconv.ParseFloat(c.FormValue("price"), 64)
	rentalPrice, _ := strconv.ParseFloat(c.FormValue("rental_price"), 64)
	qty, _ := strconv.ParseInt(c.FormValue("quantity"), 10, 64)

	b := &model.Book{
		SKU:         c.FormValue("sku"),
		Title:       c.FormValue("title"),
		Author:      c.FormValue("author"),
		Genre:       c.FormValue("genre"),
		Price:       price,
		RentalPrice: rentalPrice,
		Quantity:    qty,
	}
	if s := c.FormValue("published_date"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "published_date must be YYYY-MM-DD"})
		}
		b.PublishedDate = &d
	}

	cover, coverName, contentType, err := readCover(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unreadable cover file"})
	}

	if err := h.Svc.Create(c.Request().Context(), b, cover, coverName, contentType); err != nil {
		switch catalogsvc.Code(err) {
		case catalogsvc.ErrBadPayload:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "title and author are required, prices must be non-negative"})
		default:
			h.Log.Error("book create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, b)
}

// PUT /v1/books/:id  (admin)
func (h *Controller) Update(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b := &model.Book{
		ID:          id,
		SKU:         req.SKU,
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Price:       req.Price,
		RentalPrice: req.RentalPrice,
		Quantity:    req.Quantity,
	}
	if req.PublishedDate != "" {
		d, err := time.Parse(time.DateOnly, req.PublishedDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "published_date must be YYYY-MM-DD"})
		}
		b.PublishedDate = &d
	}

	if err := h.Svc.Update(c.Request().Context(), b); err != nil {
		switch catalogsvc.Code(err) {
		case catalogsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case catalogsvc.ErrBadPayload:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad payload"})
		default:
			h.Log.Error("book update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/books/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch catalogsvc.Code(err) {
		case catalogsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("book delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

func filterFromQuery(c echo.Context) catalogsvc.Filter {
	return catalogsvc.Filter{
		Search: c.QueryParam("search"),
		Genre:  c.QueryParam("genre"),
		Author: c.QueryParam("author"),
		Status: c.QueryParam("status"),
	}
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		switch catalogsvc.Code(err) {
		case catalogsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("book detail", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, row)
}

// GET /v1/books/export
func (h *Controller) Export(c echo.Context) error {
	out, err := h.Svc.ExportCSV(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		h.Log.Error("book export", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="books.csv"`)
	return c.Blob(http.StatusOK, "text/csv", out)
}
