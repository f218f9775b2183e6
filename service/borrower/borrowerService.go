package borrowersvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"bookshop/model"
	blobrepo "bookshop/repository/blob"
	borrowerrepo "bookshop/repository/borrower"
)

// errors used by controllers

type ErrCode string

const (
	ErrBadPayload   ErrCode = "BAD_PAYLOAD"
	ErrContactTaken ErrCode = "CONTACT_NUMBER_TAKEN"
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

const assetBucket = "book-assets"

type Service interface {
	// Register creates a borrower profile, uploading the optional ID
	// card image first so the stored record carries its public URL.
	Register(ctx context.Context, fullName, contactNumber string, idCard []byte, idCardName, contentType string) (*model.Borrower, error)

	List(ctx context.Context) ([]model.Borrower, error)
}

type service struct {
	r    borrowerrepo.Repo
	blob blobrepo.Repo
}

func New(r borrowerrepo.Repo, blob blobrepo.Repo) Service {
	return &service{r: r, blob: blob}
}

func (s *service) Register(ctx context.Context, fullName, contactNumber string, idCard []byte, idCardName, contentType string) (*model.Borrower, error) {
	fullName = strings.TrimSpace(fullName)
	contactNumber = strings.TrimSpace(contactNumber)
	if fullName == "" || contactNumber == "" {
		return nil, makeErr(ErrBadPayload)
	}

	b := &model.Borrower{
		FullName:      fullName,
		ContactNumber: contactNumber,
	}

	if len(idCard) > 0 {
		path := fmt.Sprintf("id-cards/%s-%s", uuid.NewString(), idCardName)
		stored, err := s.blob.Upload(ctx, assetBucket, path, idCard, contentType)
		if err != nil {
			return nil, err
		}
		url := s.blob.PublicURL(assetBucket, stored)
		b.IDCardURL = &url
	}

	if err := s.r.Create(ctx, b); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrContactTaken)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context) ([]model.Borrower, error) {
	return s.r.List(ctx)
}
