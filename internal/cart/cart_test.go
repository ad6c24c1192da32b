package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func snapshot(id string, stock, priceFinal float64) Snapshot {
	return Snapshot{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Product " + id,
		Unit:         UnitPiece,
		StockCurrent: stock,
		PriceNet:     priceFinal,
		PriceFinal:   floatPtr(priceFinal),
	}
}

// checkInvariants asserts the derived-state invariants that must hold at
// every observation point.
func checkInvariants(t *testing.T, c *Cart) {
	t.Helper()
	var total, count float64
	for _, it := range c.Items() {
		require.Greater(t, it.Quantity, 0.0, "no zero-quantity lines may persist")
		require.InDelta(t, it.Quantity*it.Price.Amount(), it.Subtotal, 0.5)
		total += it.Subtotal
		count += it.Quantity
	}
	require.Equal(t, total, c.Total())
	require.Equal(t, count, c.Count())
}

func TestAdd_NewItem(t *testing.T) {
	c := New()

	ok := c.Add(snapshot("p1", 10, 1500), 2)
	require.True(t, ok)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.Equal(t, 1500.0, items[0].Price.Amount())
	assert.False(t, items[0].Price.Overridden())
	assert.Equal(t, 3000.0, items[0].Subtotal)
	checkInvariants(t, c)
}

func TestAdd_MergesExistingLine(t *testing.T) {
	c := New()
	p := snapshot("p1", 10, 1000)

	require.True(t, c.Add(p, 2))
	require.True(t, c.Add(p, 3))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5.0, items[0].Quantity)
	assert.Equal(t, 5000.0, items[0].Subtotal)
	checkInvariants(t, c)
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	p := snapshot("p1", 10, 1000)

	assert.False(t, c.Add(p, 0))
	assert.False(t, c.Add(p, -1))
	assert.Empty(t, c.Items())
}

func TestAdd_StockCeiling(t *testing.T) {
	c := New()
	p := snapshot("p1", 5, 1000)

	require.True(t, c.Add(p, 3))
	before := c.Items()

	// 3 + 3 > 5: rejected, cart unchanged.
	ok := c.Add(p, 3)
	assert.False(t, ok)
	assert.Equal(t, before, c.Items())
	assert.Equal(t, 3.0, c.Count())

	// Exactly reaching the ceiling is allowed.
	assert.True(t, c.Add(p, 2))
	assert.Equal(t, 5.0, c.Quantity("p1"))
	checkInvariants(t, c)
}

func TestAdd_FractionalQuantities(t *testing.T) {
	c := New()
	p := Snapshot{
		ID:           "cheese",
		Unit:         UnitKilogram,
		StockCurrent: 2.5,
		PriceNet:     8000,
		PriceFinal:   floatPtr(8000),
	}

	require.True(t, c.Add(p, 0.5))
	require.True(t, c.Add(p, 1.25))
	assert.Equal(t, 1.75, c.Quantity("cheese"))
	assert.Equal(t, 14000.0, c.Total())

	assert.False(t, c.Add(p, 1.0), "1.75 + 1.0 exceeds 2.5")
	checkInvariants(t, c)
}

func TestPriceResolution_DerivedFromNet(t *testing.T) {
	c := New()

	// No final price, explicit tax rate.
	withTax := Snapshot{ID: "p1", StockCurrent: 10, PriceNet: 1000, TaxPercent: floatPtr(10)}
	require.True(t, c.Add(withTax, 1))
	assert.Equal(t, 1100.0, c.Items()[0].Price.Amount())

	// No final price, no tax rate: default 19%.
	defaultTax := Snapshot{ID: "p2", StockCurrent: 10, PriceNet: 1000}
	require.True(t, c.Add(defaultTax, 1))
	assert.Equal(t, 1190.0, c.Items()[1].Price.Amount())

	// Precomputed final price wins over derivation.
	final := Snapshot{ID: "p3", StockCurrent: 10, PriceNet: 1000, TaxPercent: floatPtr(19), PriceFinal: floatPtr(990)}
	require.True(t, c.Add(final, 1))
	assert.Equal(t, 990.0, c.Items()[2].Price.Amount())
	checkInvariants(t, c)
}

func TestDecrease(t *testing.T) {
	c := New()
	p := snapshot("p1", 10, 1000)
	require.True(t, c.Add(p, 2))

	c.Decrease("p1")
	assert.Equal(t, 1.0, c.Quantity("p1"))
	assert.Equal(t, 1000.0, c.Total())

	// Reaching zero removes the line entirely.
	c.Decrease("p1")
	assert.Empty(t, c.Items())
	assert.Equal(t, 0.0, c.Count())
	assert.Equal(t, 0.0, c.Total())

	// Decreasing an absent product is a no-op.
	c.Decrease("ghost")
	assert.Empty(t, c.Items())
}

func TestRemove(t *testing.T) {
	c := New()
	require.True(t, c.Add(snapshot("p1", 10, 1000), 2))
	require.True(t, c.Add(snapshot("p2", 10, 500), 1))

	c.Remove("p1")

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].Product.ID)
	assert.Equal(t, 500.0, c.Total())
	checkInvariants(t, c)
}

func TestSetCustomPrice(t *testing.T) {
	c := New()
	p := snapshot("p1", 10, 1000)
	require.True(t, c.Add(p, 2))

	require.NoError(t, c.SetCustomPrice("p1", 800))

	item := c.Items()[0]
	assert.True(t, item.Price.Overridden())
	assert.Equal(t, 800.0, item.Price.Amount())
	assert.Equal(t, 1600.0, item.Subtotal)

	// The override survives a re-add; only catalog prices refresh.
	require.True(t, c.Add(p, 1))
	item = c.Items()[0]
	assert.Equal(t, 3.0, item.Quantity)
	assert.True(t, item.Price.Overridden())
	assert.Equal(t, 800.0, item.Price.Amount())
	assert.Equal(t, 2400.0, item.Subtotal)

	// The override also sticks on decrease.
	c.Decrease("p1")
	item = c.Items()[0]
	assert.Equal(t, 1600.0, item.Subtotal)

	assert.ErrorIs(t, c.SetCustomPrice("p1", -1), ErrNegativePrice)
	assert.ErrorIs(t, c.SetCustomPrice("ghost", 100), ErrItemNotFound)

	// Zero is a valid override (free item).
	require.NoError(t, c.SetCustomPrice("p1", 0))
	assert.Equal(t, 0.0, c.Total())
	checkInvariants(t, c)
}

func TestClear(t *testing.T) {
	c := New()
	require.True(t, c.Add(snapshot("p1", 10, 1000), 2))
	require.True(t, c.Add(snapshot("p2", 10, 500), 1))

	c.Clear()

	assert.Empty(t, c.Items())
	assert.Equal(t, 0.0, c.Count())
	assert.Equal(t, 0.0, c.Total())
}

func TestBuildSubmission(t *testing.T) {
	c := New()
	require.True(t, c.Add(snapshot("p1", 10, 1000), 2))
	require.True(t, c.Add(snapshot("p2", 10, 500), 3))
	require.NoError(t, c.SetCustomPrice("p2", 450))

	sub := c.BuildSubmission("CASH")

	require.Len(t, sub.Items, 2)
	assert.Equal(t, "CASH", sub.PaymentMethod)
	assert.Equal(t, 3350.0, sub.TotalAmount)

	assert.Equal(t, "p1", sub.Items[0].ProductID)
	assert.Equal(t, 1000.0, sub.Items[0].UnitPrice)
	assert.Nil(t, sub.Items[0].CustomPrice, "catalog-priced items carry no override")

	assert.Equal(t, "p2", sub.Items[1].ProductID)
	assert.Equal(t, 450.0, sub.Items[1].UnitPrice)
	require.NotNil(t, sub.Items[1].CustomPrice)
	assert.Equal(t, 450.0, *sub.Items[1].CustomPrice)

	// Pure read: the cart is untouched and a retry sees the same payload.
	assert.Equal(t, 5.0, c.Count())
	assert.Equal(t, sub, c.BuildSubmission("CASH"))
}

// The end-to-end scenario from the checkout flow: stock ceiling, decrease,
// override, and override-preserving re-add in sequence.
func TestCheckoutScenario(t *testing.T) {
	c := New()
	p := snapshot("P", 5, 1000)

	require.True(t, c.Add(p, 3))
	assert.Equal(t, 3000.0, c.Items()[0].Subtotal)

	assert.False(t, c.Add(p, 3), "3+3 exceeds stock of 5")
	assert.Equal(t, 3.0, c.Quantity("P"))

	c.Decrease("P")
	assert.Equal(t, 2.0, c.Quantity("P"))
	assert.Equal(t, 2000.0, c.Items()[0].Subtotal)

	require.NoError(t, c.SetCustomPrice("P", 800))
	assert.Equal(t, 1600.0, c.Items()[0].Subtotal)

	require.True(t, c.Add(p, 1))
	item := c.Items()[0]
	assert.Equal(t, 3.0, item.Quantity)
	assert.Equal(t, 800.0, item.Price.Amount())
	assert.Equal(t, 2400.0, item.Subtotal)
	checkInvariants(t, c)
}

func TestWatcher(t *testing.T) {
	c := New()
	w := Watch(c)

	var gotCount, gotTotal float64
	var notifications int
	w.Subscribe(func(items []Item, count, total float64) {
		notifications++
		gotCount = count
		gotTotal = total
	})

	p := snapshot("p1", 5, 1000)
	require.True(t, w.Add(p, 2))
	assert.Equal(t, 1, notifications)
	assert.Equal(t, 2.0, gotCount)
	assert.Equal(t, 2000.0, gotTotal)

	// A stock rejection mutates nothing, so nobody is notified.
	assert.False(t, w.Add(p, 10))
	assert.Equal(t, 1, notifications)

	w.Decrease("p1")
	assert.Equal(t, 2, notifications)
	assert.Equal(t, 1.0, gotCount)

	w.Clear()
	assert.Equal(t, 3, notifications)
	assert.Equal(t, 0.0, gotTotal)
}
