package couponsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"bookshop/model"
	"bookshop/util/clock"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound   ErrCode = "COUPON_NOT_FOUND"
	ErrInactive   ErrCode = "COUPON_INACTIVE"
	ErrExpired    ErrCode = "COUPON_EXPIRED"
	ErrCodeTaken  ErrCode = "COUPON_CODE_TAKEN"
	ErrBadPercent ErrCode = "BAD_DISCOUNT_PERCENTAGE"
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
	Create(ctx context.Context, c *model.Coupon) error
	ByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	// Validate returns the coupon only when it is active and not yet
	// expired. Callers must re-validate at checkout time; validity is
	// never cached across the session boundary.
	Validate(ctx context.Context, code string) (*model.Coupon, error)

	Create(ctx context.Context, code string, pct float64, expiry time.Time, active bool) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	r   Repo
	clk clock.Clock
}

func New(r Repo, clk clock.Clock) Service { return &service{r: r, clk: clk} }

func (s *service) Validate(ctx context.Context, code string) (*model.Coupon, error) {
	c, err := s.r.ByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if !c.IsActive {
		return nil, makeErr(ErrInactive)
	}
	// Expiry wins over the active flag: a stale coupon is rejected even
	// when still flagged active.
	if c.ExpiryDate.Before(s.clk.Now()) {
		return nil, makeErr(ErrExpired)
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, code string, pct float64, expiry time.Time, active bool) (*model.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || pct < 0 || pct > 100 {
		return nil, makeErr(ErrBadPercent)
	}
	c := &model.Coupon{
		Code:               code,
		DiscountPercentage: pct,
		ExpiryDate:         expiry,
		IsActive:           active,
	}
	if err := s.r.Create(ctx, c); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrCodeTaken)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]model.Coupon, error) {
	return s.r.List(ctx)
}

func (s *service) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.r.SetActive(ctx, id, active); err != nil {
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
