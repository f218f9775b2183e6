package checkoutsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"bookshop/model"
	checkoutrepo "bookshop/repository/checkout"
	"bookshop/service/cart"
	"bookshop/util/clock"
)

// errors used by controllers

type ErrCode string

const (
	ErrEmptyCart        ErrCode = "EMPTY_CART"
	ErrInsufficientCash ErrCode = "INSUFFICIENT_CASH"
	ErrBadPayment       ErrCode = "BAD_PAYMENT_METHOD"
	ErrPartialFailure   ErrCode = "PARTIAL_FAILURE"
)

type codedError struct {
	code ErrCode
	err  error
}

func (e codedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.code, e.err)
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.err }

func makeErr(c ErrCode) error            { return codedError{code: c} }
func wrapErr(c ErrCode, err error) error { return codedError{code: c, err: err} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Begin(ctx context.Context) (checkoutrepo.Tx, error)
	InsertTransaction(ctx context.Context, tx checkoutrepo.Tx, t *model.Transaction) error
	MarkBookSold(ctx context.Context, tx checkoutrepo.Tx, bookID int64) error
}

// CouponValidator re-checks the coupon at checkout time; an earlier
// validation in the session is never trusted.
type CouponValidator interface {
	Validate(ctx context.Context, code string) (*model.Coupon, error)
}

// Input is one checkout attempt over the session's cart contents.
type Input struct {
	Items         []cart.LineItem
	PaymentMethod model.PaymentMethod
	CashReceived  float64
	CouponCode    string // optional
}

// Receipt reports the committed sale.
type Receipt struct {
	Subtotal       float64             `json:"subtotal"`
	DiscountAmount float64             `json:"discount_amount"`
	Total          float64             `json:"total"`
	Change         float64             `json:"change"`
	CouponID       *int64              `json:"coupon_id,omitempty"`
	Transactions   []model.Transaction `json:"transactions"`
}

type Service interface {
	// Checkout commits every cart line as one all-or-nothing sale:
	// transaction rows first, then the conditional sold flip per buy
	// line. Nothing is written if validation fails.
	Checkout(ctx context.Context, in Input) (*Receipt, error)
}

type service struct {
	r   Repo
	cv  CouponValidator
	clk clock.Clock
}

func New(r Repo, cv CouponValidator, clk clock.Clock) Service {
	return &service{r: r, cv: cv, clk: clk}
}

func (s *service) Checkout(ctx context.Context, in Input) (_ *Receipt, err error) {
	if len(in.Items) == 0 {
		return nil, makeErr(ErrEmptyCart)
	}
	switch in.PaymentMethod {
	case model.PaymentCash, model.PaymentGCash:
	default:
		return nil, makeErr(ErrBadPayment)
	}

	var subtotal float64
	for _, li := range in.Items {
		subtotal += li.Subtotal()
	}

	var pct float64
	var couponID *int64
	if in.CouponCode != "" {
		c, err := s.cv.Validate(ctx, in.CouponCode)
		if err != nil {
			return nil, err
		}
		pct = c.DiscountPercentage
		couponID = &c.ID
	}

	discount := subtotal * pct / 100
	total := subtotal - discount

	// Payment is checked before any write reaches the store.
	if in.PaymentMethod == model.PaymentCash && in.CashReceived < total {
		return nil, makeErr(ErrInsufficientCash)
	}

	now := s.clk.Now()

	tx, err := s.r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txns := make([]model.Transaction, 0, len(in.Items))
	for _, li := range in.Items {
		itemTotal := li.Subtotal()
		qty := li.Quantity
		if li.Mode == model.ModeRent {
			qty = li.Days
		}
		t := model.Transaction{
			BookID:         li.BookID,
			Type:           li.Mode,
			Quantity:       qty,
			PaymentMethod:  in.PaymentMethod,
			Total:          itemTotal,
			CouponID:       couponID,
			DiscountAmount: itemTotal * pct / 100,
			CreatedAt:      now,
		}
		if err = s.r.InsertTransaction(ctx, tx, &t); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}

	// Rent lines go through the lending ledger's borrow flow; only buy
	// lines flip the sold flag here.
	var merr *multierror.Error
	for _, li := range in.Items {
		if li.Mode != model.ModeBuy {
			continue
		}
		if uerr := s.r.MarkBookSold(ctx, tx, li.BookID); uerr != nil {
			if errors.Is(uerr, checkoutrepo.ErrBookUnavailable) {
				merr = multierror.Append(merr, fmt.Errorf("book %q (id %d): %w", li.Title, li.BookID, uerr))
				continue
			}
			err = uerr
			return nil, err
		}
	}
	if merr != nil {
		// All-or-nothing: roll the whole sale back, naming every book
		// that could not be marked sold.
		err = wrapErr(ErrPartialFailure, merr.ErrorOrNil())
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	change := 0.0
	if in.PaymentMethod == model.PaymentCash {
		if c := in.CashReceived - total; c > 0 {
			change = c
		}
	}
	return &Receipt{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          total,
		Change:         change,
		CouponID:       couponID,
		Transactions:   txns,
	}, nil
}
