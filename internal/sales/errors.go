package sales

import (
	"errors"
	"fmt"
)

var ErrSaleNotFound = errors.New("sale not found")

// InsufficientStockError reports which product made the authoritative
// stock check fail. The client's snapshot was stale; the cart stays
// intact for a retry after the user adjusts quantities.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q", e.ProductName)
}
