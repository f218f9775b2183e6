// model/book.go
package model

import "time"

type Book struct {
	ID            int64      `json:"id"`
	SKU           string     `json:"sku"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Genre         string     `json:"genre"` // comma-separated tags
	Price         float64    `json:"price"`
	RentalPrice   float64    `json:"rental_price"` // per day
	Quantity      int64      `json:"quantity"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	Sold          bool       `json:"sold"`
	Available     bool       `json:"available"`
	CreatedAt     time.Time  `json:"created_at"`

	// Derived fields, never read from the books row itself.
	IsBorrowed     bool   `json:"is_borrowed"`
	PublicImageURL string `json:"public_image_url,omitempty"`
}

// Status labels as shown on the inventory screen.
const (
	StatusAvailable = "Available"
	StatusBorrowed  = "Borrowed"
	StatusSold      = "Sold"
)

// Status derives the display status. Sold is terminal and wins over
// an open lending record.
func (b Book) Status() string {
	switch {
	case b.Sold:
		return StatusSold
	case b.IsBorrowed:
		return StatusBorrowed
	default:
		return StatusAvailable
	}
}
