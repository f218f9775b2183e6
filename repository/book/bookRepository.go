package bookrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bookshop/model"
)

// Filter narrows List. Status is "", "sold" or "available".
type Filter struct {
	Search string
	Genre  string
	Author string
	Status string
}

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)

	// OpenBorrowedIDs returns the ids of books with an open lending
	// record. This derived lookup, not the available flag, is the
	// availability signal.
	OpenBorrowedIDs(ctx context.Context) (map[int64]bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookCols = `id, sku, title, author, genre, price, rental_price, quantity,
	published_date, COALESCE(image_url,''), sold, available, created_at`

func scanBook(row interface{ Scan(...any) error }, b *model.Book) error {
	return row.Scan(&b.ID, &b.SKU, &b.Title, &b.Author, &b.Genre, &b.Price,
		&b.RentalPrice, &b.Quantity, &b.PublishedDate, &b.ImageURL,
		&b.Sold, &b.Available, &b.CreatedAt)
}

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (sku, title, author, genre, price, rental_price, quantity, published_date, image_url)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		b.SKU, b.Title, b.Author, b.Genre, b.Price, b.RentalPrice,
		b.Quantity, b.PublishedDate, b.ImageURL,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	const q = `
UPDATE books
SET sku=$2, title=$3, author=$4, genre=$5, price=$6, rental_price=$7,
    quantity=$8, published_date=$9, image_url=$10
WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q,
		b.ID, b.SKU, b.Title, b.Author, b.Genre, b.Price, b.RentalPrice,
		b.Quantity, b.PublishedDate, b.ImageURL)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) List(ctx context.Context, f Filter) ([]model.Book, error) {
	q := `SELECT ` + bookCols + ` FROM books`
	var conds []string
	var args []any

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if f.Genre != "" {
		args = append(args, "%"+f.Genre+"%")
		conds = append(conds, fmt.Sprintf("genre ILIKE $%d", len(args)))
	}
	if f.Author != "" {
		args = append(args, f.Author)
		conds = append(conds, fmt.Sprintf("author = $%d", len(args)))
	}
	switch f.Status {
	case "sold":
		conds = append(conds, "sold = TRUE")
	case "available":
		conds = append(conds, "sold = FALSE")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY title ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	q := `SELECT ` + bookCols + ` FROM books WHERE id=$1`
	var b model.Book
	if err := scanBook(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) OpenBorrowedIDs(ctx context.Context) (map[int64]bool, error) {
	const q = `SELECT book_id FROM borrowed_books WHERE returned_at IS NULL`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}
