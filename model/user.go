package model

import "time"

// User is a staff account. The shop authenticates with a shared 6-digit
// pincode per user; this is the original scheme and not a hardened
// security boundary.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Pincode   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginReq represents the pincode login payload
// swagger:model LoginReq
type LoginReq struct {
	Pincode string `json:"pincode" validate:"required,len=6,numeric"`
}
