// Package cart implements the in-memory cart a cashier or storefront
// customer builds up before checkout. It is a plain synchronous data
// structure: stock ceilings, price resolution and totals live here, while
// authorization, persistence and transport belong to the callers.
package cart

import "math"

type Unit string

const (
	UnitPiece    Unit = "UNIT"
	UnitKilogram Unit = "KG"
)

// DefaultTaxPercent applies when a product carries no explicit tax rate.
const DefaultTaxPercent = 19.0

// Snapshot is a point-in-time view of a catalog product. The engine never
// refreshes it; a stale snapshot can admit a quantity the backend will
// later reject, which is caught by server-side re-validation at submit.
type Snapshot struct {
	ID           string
	SKU          string
	Name         string
	Unit         Unit
	StockCurrent float64
	PriceNet     float64
	TaxPercent   *float64
	PriceFinal   *float64
}

// UnitPrice resolves the catalog sale price: the precomputed final price
// when present, otherwise derived from the net price plus tax.
func (s Snapshot) UnitPrice() float64 {
	if s.PriceFinal != nil {
		return *s.PriceFinal
	}
	tax := DefaultTaxPercent
	if s.TaxPercent != nil {
		tax = *s.TaxPercent
	}
	return math.Round(s.PriceNet * (1 + tax/100))
}

// Price is the active unit price of a line item. Whether the amount is the
// catalog price or a cashier override is carried in the type, not in an
// undefined-check convention.
type Price struct {
	amount     float64
	overridden bool
}

func Catalog(amount float64) Price    { return Price{amount: amount} }
func Overridden(amount float64) Price { return Price{amount: amount, overridden: true} }

func (p Price) Amount() float64  { return p.amount }
func (p Price) Overridden() bool { return p.overridden }

// Item is one product's entry in the cart. Subtotal is always recomputed
// from quantity and the active price, never mutated independently.
type Item struct {
	Product  Snapshot
	Quantity float64
	Price    Price
	Subtotal float64
}

func (it *Item) recompute() {
	it.Subtotal = math.Round(it.Quantity * it.Price.Amount())
}

// Cart is an ordered collection of line items scoped to one cashier or
// customer session. Count and total are derived reads; the item list is
// the single source of truth.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID string) *Item {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return &c.items[i]
		}
	}
	return nil
}

// Add puts qty units of the product into the cart, merging with an
// existing line item for the same product. It returns false and leaves
// the cart untouched when qty is not positive or when the resulting
// quantity would exceed the snapshot's stock. Rejection is an expected
// outcome the caller surfaces to the user, not a failure.
func (c *Cart) Add(product Snapshot, qty float64) bool {
	if qty <= 0 {
		return false
	}

	existing := c.find(product.ID)

	inCart := 0.0
	if existing != nil {
		inCart = existing.Quantity
	}
	if inCart+qty > product.StockCurrent {
		return false
	}

	if existing != nil {
		// A cashier-set override survives re-adds; only the catalog
		// price is refreshed from the snapshot.
		existing.Quantity += qty
		if !existing.Price.Overridden() {
			existing.Price = Catalog(product.UnitPrice())
		}
		existing.recompute()
		return true
	}

	item := Item{
		Product:  product,
		Quantity: qty,
		Price:    Catalog(product.UnitPrice()),
	}
	item.recompute()
	c.items = append(c.items, item)
	return true
}

// Decrease lowers the product's quantity by one. A quantity at or below
// zero removes the line item entirely; no zero-quantity lines persist.
func (c *Cart) Decrease(productID string) {
	item := c.find(productID)
	if item == nil {
		return
	}
	item.Quantity -= 1
	if item.Quantity <= 0 {
		c.Remove(productID)
		return
	}
	item.recompute()
}

// Remove deletes the line item unconditionally.
func (c *Cart) Remove(productID string) {
	filtered := c.items[:0]
	for _, it := range c.items {
		if it.Product.ID != productID {
			filtered = append(filtered, it)
		}
	}
	c.items = filtered
}

// SetCustomPrice overrides the line item's active price. The engine trusts
// its caller here: gating the override behind PIN verification is the
// caller's responsibility.
func (c *Cart) SetCustomPrice(productID string, price float64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	item := c.find(productID)
	if item == nil {
		return ErrItemNotFound
	}
	item.Price = Overridden(price)
	item.recompute()
	return nil
}

// Clear empties the cart. Called after the backend confirms a submission,
// and available for manual cancellation.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the current line items in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Quantity reports how much of a product is already in the cart, zero when
// absent.
func (c *Cart) Quantity(productID string) float64 {
	if item := c.find(productID); item != nil {
		return item.Quantity
	}
	return 0
}

// Count is the sum of line item quantities.
func (c *Cart) Count() float64 {
	var count float64
	for _, it := range c.items {
		count += it.Quantity
	}
	return count
}

// Total is the sum of line item subtotals.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Subtotal
	}
	return total
}
