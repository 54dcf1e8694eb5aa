package service

import "errors"

// 业务错误，由 HTTP 层映射为 i18n 文案
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product not available")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrCouponInvalid     = errors.New("coupon invalid")
	ErrCouponExpired     = errors.New("coupon expired")
	ErrCouponExhausted   = errors.New("coupon usage limit reached")
	ErrCouponMinAmount   = errors.New("order amount below coupon minimum")
	ErrInvalidCEP        = errors.New("invalid cep")
	ErrOutOfDeliveryArea = errors.New("address outside delivery area")
	ErrEmailTaken        = errors.New("email already registered")
	ErrLoginFailed       = errors.New("invalid credentials")
	ErrCheckoutFailed    = errors.New("checkout failed")
)
