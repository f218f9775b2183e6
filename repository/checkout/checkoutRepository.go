package checkout

import (
	"context"
	"database/sql"
	"errors"

	"bookshop/model"
)

// ErrBookUnavailable: the conditional sold-update matched no row, i.e.
// the book was already sold or deleted out from under the sale.
var ErrBookUnavailable = errors.New("book not available for sale")

type Tx interface {
	Commit() error
	Rollback() error
}

type Repo interface {
	Begin(ctx context.Context) (Tx, error)
	InsertTransaction(ctx context.Context, tx Tx, t *model.Transaction) error

	// MarkBookSold flips sold only where the book is still unsold and
	// not out on loan; this conditional write is the backstop against
	// two sessions selling the same book.
	MarkBookSold(ctx context.Context, tx Tx, bookID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Begin(ctx context.Context) (Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

func sqlTx(tx Tx) *sql.Tx { return tx.(*sql.Tx) }

func (r *repo) InsertTransaction(ctx context.Context, tx Tx, t *model.Transaction) error {
	const q = `
		INSERT INTO transactions (book_id, type, quantity, payment_method, total, coupon_id, discount_amount, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id`
	return sqlTx(tx).QueryRowContext(ctx, q,
		t.BookID, t.Type, t.Quantity, t.PaymentMethod, t.Total,
		t.CouponID, t.DiscountAmount, t.CreatedAt,
	).Scan(&t.ID)
}

func (r *repo) MarkBookSold(ctx context.Context, tx Tx, bookID int64) error {
	const q = `
		UPDATE books
		SET sold = TRUE, available = FALSE
		WHERE id = $1
		AND sold = FALSE
		AND NOT EXISTS (
			SELECT 1 FROM borrowed_books
			WHERE book_id = $1 AND returned_at IS NULL
		)`
	res, err := sqlTx(tx).ExecContext(ctx, q, bookID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrBookUnavailable
	}
	return nil
}
