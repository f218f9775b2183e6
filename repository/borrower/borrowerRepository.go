package borrowerrepo

import (
	"context"
	"database/sql"

	"bookshop/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Borrower) error
	List(ctx context.Context) ([]model.Borrower, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, b *model.Borrower) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO borrowers (full_name, contact_number, id_card)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`,
		b.FullName, b.ContactNumber, b.IDCardURL,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) List(ctx context.Context) ([]model.Borrower, error) {
	const q = `
		SELECT id, full_name, contact_number, id_card, created_at
		FROM borrowers
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Borrower
	for rows.Next() {
		var b model.Borrower
		if err := rows.Scan(&b.ID, &b.FullName, &b.ContactNumber, &b.IDCardURL, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
