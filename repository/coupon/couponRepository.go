package couponrepo

import (
	"context"
	"database/sql"

	"bookshop/model"
)

type Repo interface {
	Create(ctx context.Context, c *model.Coupon) error
	ByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, c *model.Coupon) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (code, discount_percentage, expiry_date, is_active)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		c.Code, c.DiscountPercentage, c.ExpiryDate, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *repo) ByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const q = `
		SELECT id, code, discount_percentage, expiry_date, is_active, created_at
		FROM coupons
		WHERE lower(code) = lower($1)`
	c := &model.Coupon{}
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&c.ID, &c.Code, &c.DiscountPercentage, &c.ExpiryDate, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) List(ctx context.Context) ([]model.Coupon, error) {
	const q = `
		SELECT id, code, discount_percentage, expiry_date, is_active, created_at
		FROM coupons
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Coupon
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountPercentage, &c.ExpiryDate, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE coupons SET is_active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
