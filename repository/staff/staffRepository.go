package staffrepo

import (
	"context"
	"database/sql"

	"bookshop/model"
)

type Repo interface {
	ByPincode(ctx context.Context, pincode string) (*model.User, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) ByPincode(ctx context.Context, pincode string) (*model.User, error) {
	const q = `
		SELECT id, name, role, pincode, created_at
		FROM users
		WHERE pincode = $1`
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, q, pincode).
		Scan(&u.ID, &u.Name, &u.Role, &u.Pincode, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
