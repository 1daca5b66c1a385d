package orders

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrNotActionable      = errors.New("order not actionable")
)
