package catalogsvc

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"strconv"
	"time"

	"bookshop/model"
	blobrepo "bookshop/repository/blob"
	bookrepo "bookshop/repository/book"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound   ErrCode = "BOOK_NOT_FOUND"
	ErrBadPayload ErrCode = "BAD_PAYLOAD"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Filter = repository shape
type Filter = bookrepo.Filter

const coverBucket = "book-covers"

type Service interface {
	Create(ctx context.Context, b *model.Book, cover []byte, coverName, contentType string) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)

	// ExportCSV renders the filtered inventory as CSV with the
	// Sold/Borrowed/Available status column.
	ExportCSV(ctx context.Context, f Filter) ([]byte, error)
}

type service struct {
	r    bookrepo.Repo
	blob blobrepo.Repo
}

func New(r bookrepo.Repo, blob blobrepo.Repo) Service {
	return &service{r: r, blob: blob}
}

func (s *service) Create(ctx context.Context, b *model.Book, cover []byte, coverName, contentType string) error {
	if b.Title == "" || b.Author == "" || b.Price < 0 || b.RentalPrice < 0 {
		return makeErr(ErrBadPayload)
	}
	if len(cover) > 0 {
		path, err := s.blob.Upload(ctx, coverBucket, coverName, cover, contentType)
		if err != nil {
			return err
		}
		b.ImageURL = path
	}
	if err := s.r.Create(ctx, b); err != nil {
		return err
	}
	b.PublicImageURL = s.blob.PublicURL(coverBucket, b.ImageURL)
	return nil
}

func (s *service) Update(ctx context.Context, b *model.Book) error {
	if b.Title == "" || b.Author == "" || b.Price < 0 || b.RentalPrice < 0 {
		return makeErr(ErrBadPayload)
	}
	if err := s.r.Update(ctx, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return nil
}

// List attaches the derived borrow state and public cover URL to every
// book. The denormalized available flag on the row is never consulted.
func (s *service) List(ctx context.Context, f Filter) ([]model.Book, error) {
	books, err := s.r.List(ctx, f)
	if err != nil {
		return nil, err
	}
	borrowed, err := s.r.OpenBorrowedIDs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].IsBorrowed = borrowed[books[i].ID]
		books[i].PublicImageURL = s.blob.PublicURL(coverBucket, books[i].ImageURL)
	}
	return books, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	borrowed, err := s.r.OpenBorrowedIDs(ctx)
	if err != nil {
		return nil, err
	}
	b.IsBorrowed = borrowed[b.ID]
	b.PublicImageURL = s.blob.PublicURL(coverBucket, b.ImageURL)
	return b, nil
}

func (s *service) ExportCSV(ctx context.Context, f Filter) ([]byte, error) {
	books, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"SKU", "Title", "Author", "Genre", "Price", "Published", "Status"})
	for _, b := range books {
		published := ""
		if b.PublishedDate != nil {
			published = b.PublishedDate.Format(time.DateOnly)
		}
		_ = w.Write([]string{
			b.SKU,
			b.Title,
			b.Author,
			b.Genre,
			strconv.FormatFloat(b.Price, 'f', 2, 64),
			published,
			b.Status(),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
