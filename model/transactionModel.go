// model/transaction.go
package model

import "time"

type AcquisitionMode string

const (
	ModeBuy  AcquisitionMode = "buy"
	ModeRent AcquisitionMode = "rent"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentGCash PaymentMethod = "GCash"
)

// Transaction is one committed sale line. Rows are append-only; nothing
// updates or deletes them after checkout.
type Transaction struct {
	ID             int64           `json:"id"`
	BookID         int64           `json:"book_id"`
	Type           AcquisitionMode `json:"type"`
	Quantity       int             `json:"quantity"` // copies for buy, days for rent
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Total          float64         `json:"total"`
	CouponID       *int64          `json:"coupon_id,omitempty"`
	DiscountAmount float64         `json:"discount_amount"`
	CreatedAt      time.Time       `json:"created_at"`
}
