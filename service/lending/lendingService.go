package lendingsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookshop/model"
	lendingrepo "bookshop/repository/lending"
	"bookshop/util/clock"
)

// errors used by controllers

type ErrCode string

const (
	ErrBorrowerNotFound ErrCode = "BORROWER_NOT_FOUND"
	ErrBookNotFound     ErrCode = "BOOK_NOT_FOUND"
	ErrBookSold         ErrCode = "BOOK_SOLD"
	ErrAlreadyBorrowed  ErrCode = "ALREADY_BORROWED"
	ErrRecordNotFound   ErrCode = "RECORD_NOT_FOUND"
	ErrAlreadyReturned  ErrCode = "ALREADY_RETURNED"
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

// HistoryRow = repository shape
type HistoryRow = lendingrepo.HistoryRow

type Repo interface {
	Begin(ctx context.Context) (lendingrepo.Tx, error)

	BorrowerByContact(ctx context.Context, contact string) (*model.Borrower, error)

	BookForUpdate(ctx context.Context, tx lendingrepo.Tx, bookID int64) (*model.Book, error)
	OpenRecordExists(ctx context.Context, tx lendingrepo.Tx, bookID int64) (bool, error)
	InsertRecord(ctx context.Context, tx lendingrepo.Tx, rec *model.LendingRecord) error
	RecordForUpdate(ctx context.Context, tx lendingrepo.Tx, id int64) (*model.LendingRecord, error)
	MarkReturned(ctx context.Context, tx lendingrepo.Tx, id int64, at time.Time) error
	SetBookAvailable(ctx context.Context, tx lendingrepo.Tx, bookID int64, available bool) error

	HasOpenRecord(ctx context.Context, bookID int64) (bool, error)
	History(ctx context.Context) ([]HistoryRow, error)
	DeleteRecord(ctx context.Context, id int64) error
}

type Service interface {
	// Borrow lends a book to the borrower with the given contact
	// number and returns the new lending record.
	Borrow(ctx context.Context, bookID int64, contactNumber string) (*model.LendingRecord, error)

	// Return closes an open lending record and restores the book's
	// availability.
	Return(ctx context.Context, recordID int64) (*model.LendingRecord, error)

	// IsBorrowed is the authoritative availability read: true iff an
	// open lending record exists for the book.
	IsBorrowed(ctx context.Context, bookID int64) (bool, error)

	History(ctx context.Context) ([]HistoryRow, error)
	Delete(ctx context.Context, recordID int64) error
}

type service struct {
	r Repo

	// loanPeriod is the policy duration added to "now" for due dates.
	// Configured via LOAN_PERIOD_HOURS; the default is 7 days.
	loanPeriod time.Duration
	clk        clock.Clock
}

func New(r Repo, loanPeriod time.Duration, clk clock.Clock) Service {
	return &service{r: r, loanPeriod: loanPeriod, clk: clk}
}

func (s *service) Borrow(ctx context.Context, bookID int64, contactNumber string) (_ *model.LendingRecord, err error) {
	borrower, err := s.r.BorrowerByContact(ctx, contactNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBorrowerNotFound)
		}
		return nil, err
	}

	tx, err := s.r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	book, err := s.r.BookForUpdate(ctx, tx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	if book.Sold {
		// Sold is terminal; a sold book can never be lent out.
		return nil, makeErr(ErrBookSold)
	}

	// The open-record check is the ground truth, not book.available.
	open, err := s.r.OpenRecordExists(ctx, tx, bookID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, makeErr(ErrAlreadyBorrowed)
	}

	now := s.clk.Now()
	rec := &model.LendingRecord{
		BookID:       bookID,
		BorrowerID:   borrower.ID,
		DateBorrowed: now,
		DueDate:      now.Add(s.loanPeriod),
	}
	if err = s.r.InsertRecord(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err = s.r.SetBookAvailable(ctx, tx, bookID, false); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Return(ctx context.Context, recordID int64) (_ *model.LendingRecord, err error) {
	tx, err := s.r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rec, err := s.r.RecordForUpdate(ctx, tx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrRecordNotFound)
		}
		return nil, err
	}
	if !rec.Open() {
		return nil, makeErr(ErrAlreadyReturned)
	}

	now := s.clk.Now()
	if err = s.r.MarkReturned(ctx, tx, recordID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrAlreadyReturned)
		}
		return nil, err
	}
	if err = s.r.SetBookAvailable(ctx, tx, rec.BookID, true); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	rec.ReturnedAt = &now
	return rec, nil
}

func (s *service) IsBorrowed(ctx context.Context, bookID int64) (bool, error) {
	return s.r.HasOpenRecord(ctx, bookID)
}

func (s *service) History(ctx context.Context) ([]HistoryRow, error) {
	return s.r.History(ctx)
}

func (s *service) Delete(ctx context.Context, recordID int64) error {
	if err := s.r.DeleteRecord(ctx, recordID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrRecordNotFound)
		}
		return err
	}
	return nil
}
