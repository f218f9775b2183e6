package coupon

type CreateCouponReq struct {
	Code               string  `json:"code" validate:"required"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"gte=0,lte=100"`
	ExpiryDate         string  `json:"expiry_date" validate:"required"` // YYYY-MM-DD
	IsActive           bool    `json:"is_active"`
}

type ValidateCouponReq struct {
	Code string `json:"code" validate:"required"`
}

type SetActiveReq struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
