// model/borrower.go
package model

import "time"

type Borrower struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	ContactNumber string    `json:"contact_number"`
	IDCardURL     *string   `json:"id_card,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
