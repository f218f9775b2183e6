package cart

type AddItemReq struct {
	BookID int64  `json:"book_id" validate:"required,gt=0"`
	Mode   string `json:"mode" validate:"required,oneof=buy rent"`
	Amount int    `json:"amount"` // rent: days; buy: merge amount, defaults to 1
}

type LineRef struct {
	BookID int64  `json:"book_id" validate:"required,gt=0"`
	Mode   string `json:"mode" validate:"required,oneof=buy rent"`
}
