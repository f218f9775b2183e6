// model/lending.go
package model

import "time"

// LendingRecord is one borrow event. A record with ReturnedAt unset is
// "open": the book is currently out, and at most one open record may
// exist per book.
type LendingRecord struct {
	ID           int64      `json:"id"`
	BookID       int64      `json:"book_id"`
	BorrowerID   int64      `json:"borrower_id"`
	DateBorrowed time.Time  `json:"date_borrowed"`
	DueDate      time.Time  `json:"due_date"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
}

func (r LendingRecord) Open() bool { return r.ReturnedAt == nil }
