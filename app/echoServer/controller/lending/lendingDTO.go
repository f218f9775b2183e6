package lending

type BorrowReq struct {
	BookID        int64  `json:"book_id" validate:"required,gt=0"`
	ContactNumber string `json:"contact_number" validate:"required"`
}
