package txnrepo

import (
	"context"
	"database/sql"
	"time"

	"bookshop/model"
)

// Row is a transaction joined with its book, as shown on the history screen.
type Row struct {
	model.Transaction
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
}

type Repo interface {
	List(ctx context.Context, from, to *time.Time) ([]Row, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) List(ctx context.Context, from, to *time.Time) ([]Row, error) {
	const q = `
		SELECT
			t.id, t.book_id, t.type, t.quantity, t.payment_method,
			t.total, t.coupon_id, t.discount_amount, t.created_at,
			b.title, b.author
		FROM transactions t
		JOIN books b ON b.id = t.book_id
		WHERE ($1::timestamptz IS NULL OR t.created_at >= $1)
		AND   ($2::timestamptz IS NULL OR t.created_at <= $2)
		ORDER BY t.created_at DESC, t.id DESC`
	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(
			&row.ID, &row.BookID, &row.Type, &row.Quantity, &row.PaymentMethod,
			&row.Total, &row.CouponID, &row.DiscountAmount, &row.CreatedAt,
			&row.BookTitle, &row.BookAuthor,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
