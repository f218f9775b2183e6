// repository/lending/repo.go
package lending

import (
	"context"
	"database/sql"
	"time"

	"bookshop/model"
)

// HistoryRow is one lending record joined with book and borrower names,
// as shown on the borrowed-books table.
type HistoryRow struct {
	RecordID     int64      `json:"record_id"`
	BookID       int64      `json:"book_id"`
	BookTitle    string     `json:"book_title"`
	BorrowerID   int64      `json:"borrower_id"`
	BorrowerName string     `json:"borrower_name"`
	DateBorrowed time.Time  `json:"date_borrowed"`
	DueDate      time.Time  `json:"due_date"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
}

// Tx is the commit/rollback handle handed back by Begin. The Postgres
// implementation returns *sql.Tx; tests hand in fakes.
type Tx interface {
	Commit() error
	Rollback() error
}

type Repo interface {
	Begin(ctx context.Context) (Tx, error)

	BorrowerByContact(ctx context.Context, contact string) (*model.Borrower, error)

	BookForUpdate(ctx context.Context, tx Tx, bookID int64) (*model.Book, error)
	OpenRecordExists(ctx context.Context, tx Tx, bookID int64) (bool, error)
	InsertRecord(ctx context.Context, tx Tx, rec *model.LendingRecord) error
	RecordForUpdate(ctx context.Context, tx Tx, id int64) (*model.LendingRecord, error)
	MarkReturned(ctx context.Context, tx Tx, id int64, at time.Time) error
	SetBookAvailable(ctx context.Context, tx Tx, bookID int64, available bool) error

	HasOpenRecord(ctx context.Context, bookID int64) (bool, error)
	History(ctx context.Context) ([]HistoryRow, error)
	DeleteRecord(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Begin(ctx context.Context) (Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

func sqlTx(tx Tx) *sql.Tx { return tx.(*sql.Tx) }

func (r *repo) BorrowerByContact(ctx context.Context, contact string) (*model.Borrower, error) {
	const q = `
		SELECT id, full_name, contact_number, id_card, created_at
		FROM borrowers
		WHERE contact_number = $1`
	b := &model.Borrower{}
	err := r.db.QueryRowContext(ctx, q, contact).
		Scan(&b.ID, &b.FullName, &b.ContactNumber, &b.IDCardURL, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) BookForUpdate(ctx context.Context, tx Tx, bookID int64) (*model.Book, error) {
	const q = `
		SELECT id, title, sold, available
		FROM books
		WHERE id = $1
		FOR UPDATE`
	b := &model.Book{}
	err := sqlTx(tx).QueryRowContext(ctx, q, bookID).
		Scan(&b.ID, &b.Title, &b.Sold, &b.Available)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) OpenRecordExists(ctx context.Context, tx Tx, bookID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM borrowed_books
			WHERE book_id = $1 AND returned_at IS NULL
		)`
	var exists bool
	err := sqlTx(tx).QueryRowContext(ctx, q, bookID).Scan(&exists)
	return exists, err
}

func (r *repo) InsertRecord(ctx context.Context, tx Tx, rec *model.LendingRecord) error {
	const q = `
		INSERT INTO borrowed_books (book_id, borrower_id, date_borrowed, due_date)
		VALUES ($1,$2,$3,$4)
		RETURNING id`
	return sqlTx(tx).QueryRowContext(ctx, q,
		rec.BookID, rec.BorrowerID, rec.DateBorrowed, rec.DueDate,
	).Scan(&rec.ID)
}

func (r *repo) RecordForUpdate(ctx context.Context, tx Tx, id int64) (*model.LendingRecord, error) {
	const q = `
		SELECT id, book_id, borrower_id, date_borrowed, due_date, returned_at
		FROM borrowed_books
		WHERE id = $1
		FOR UPDATE`
	rec := &model.LendingRecord{}
	err := sqlTx(tx).QueryRowContext(ctx, q, id).
		Scan(&rec.ID, &rec.BookID, &rec.BorrowerID, &rec.DateBorrowed, &rec.DueDate, &rec.ReturnedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repo) MarkReturned(ctx context.Context, tx Tx, id int64, at time.Time) error {
	// Guard: only an open record may be closed.
	const q = `
		UPDATE borrowed_books
		SET returned_at = $2
		WHERE id = $1
		AND returned_at IS NULL`
	res, err := sqlTx(tx).ExecContext(ctx, q, id, at)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) SetBookAvailable(ctx context.Context, tx Tx, bookID int64, available bool) error {
	const q = `
		UPDATE books
		SET available = $2
		WHERE id = $1`
	_, err := sqlTx(tx).ExecContext(ctx, q, bookID, available)
	return err
}

func (r *repo) HasOpenRecord(ctx context.Context, bookID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM borrowed_books
			WHERE book_id = $1 AND returned_at IS NULL
		)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, bookID).Scan(&exists)
	return exists, err
}

func (r *repo) History(ctx context.Context) ([]HistoryRow, error) {
	const q = `
		SELECT
			bb.id            AS record_id,
			bb.book_id       AS book_id,
			b.title          AS book_title,
			bb.borrower_id   AS borrower_id,
			br.full_name     AS borrower_name,
			bb.date_borrowed AS date_borrowed,
			bb.due_date      AS due_date,
			bb.returned_at   AS returned_at
		FROM borrowed_books bb
		JOIN books b      ON b.id  = bb.book_id
		JOIN borrowers br ON br.id = bb.borrower_id
		ORDER BY bb.date_borrowed DESC, bb.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.RecordID, &h.BookID, &h.BookTitle, &h.BorrowerID,
			&h.BorrowerName, &h.DateBorrowed, &h.DueDate, &h.ReturnedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) DeleteRecord(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM borrowed_books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
