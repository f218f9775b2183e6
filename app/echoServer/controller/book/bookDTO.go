package book

type UpdateBookReq struct {
	SKU           string  `json:"sku"`
	Title         string  `json:"title" validate:"required"`
	Author        string  `json:"author" validate:"required"`
	Genre         string  `json:"genre"`
	Price         float64 `json:"price" validate:"gte=0"`
	RentalPrice   float64 `json:"rental_price" validate:"gte=0"`
	Quantity      int64   `json:"quantity" validate:"gte=0"`
	PublishedDate string  `json:"published_date"` // YYYY-MM-DD, optional
}
