package txnsvc

import (
	"context"
	"time"

	txnrepo "bookshop/repository/transaction"
)

// Row = repository shape
type Row = txnrepo.Row

type Service interface {
	// List returns committed transactions, newest first, optionally
	// bounded by an inclusive date range.
	List(ctx context.Context, from, to *time.Time) ([]Row, error)
}

type service struct{ r txnrepo.Repo }

func New(r txnrepo.Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, from, to *time.Time) ([]Row, error) {
	if to != nil {
		// Make the end date inclusive for whole-day filters.
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return s.r.List(ctx, from, to)
}
