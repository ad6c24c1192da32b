package cart

import "errors"

var (
	ErrNegativePrice = errors.New("custom price must not be negative")
	ErrItemNotFound  = errors.New("product is not in the cart")
)
