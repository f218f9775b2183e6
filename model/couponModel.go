// model/coupon.go
package model

import "time"

type Coupon struct {
	ID                 int64     `json:"id"`
	Code               string    `json:"code"` // stored uppercase, matched case-insensitively
	DiscountPercentage float64   `json:"discount_percentage"`
	ExpiryDate         time.Time `json:"expiry_date"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}
