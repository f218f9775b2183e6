package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"bookshop/model"
	staffrepo "bookshop/repository/staff"
	jwtutil "bookshop/util/jwt"
)

// errors used by controllers

type ErrCode string

const (
	ErrBadPincode     ErrCode = "BAD_PINCODE"
	ErrInvalidPincode ErrCode = "INVALID_PINCODE"
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

type Repo interface {
	ByPincode(ctx context.Context, pincode string) (*model.User, error)
}

var _ Repo = staffrepo.Repo(nil)

type Service interface {
	// Login exchanges a staff pincode for a signed token. The shared
	// 6-digit pincode is the original scheme and is not treated as a
	// hardened credential.
	Login(ctx context.Context, pincode string) (*model.User, string, error)
}

type service struct {
	r      Repo
	secret string
}

func New(r Repo, secret string) Service { return &service{r: r, secret: secret} }

func (s *service) Login(ctx context.Context, pincode string) (*model.User, string, error) {
	pincode = strings.TrimSpace(pincode)
	if len(pincode) != 6 {
		return nil, "", makeErr(ErrBadPincode)
	}
	for _, r := range pincode {
		if r < '0' || r > '9' {
			return nil, "", makeErr(ErrBadPincode)
		}
	}

	u, err := s.r.ByPincode(ctx, pincode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", makeErr(ErrInvalidPincode)
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
