// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddIncrementsQuantity(t *testing.T) {
	c := NewCart()

	line := c.Add("shoe-1", "m")
	assert.Equal(t, 1, line.Quantity)

	line = c.Add("shoe-1", "m")
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 2, c.Quantity("shoe-1", "m"))
}

func TestCartSizesAreSeparateLines(t *testing.T) {
	c := NewCart()

	c.Add("shoe-1", "m")
	c.Add("shoe-1", "l")
	c.Add("mug-1", SizeKeyDefault)

	assert.Equal(t, 1, c.Quantity("shoe-1", "m"))
	assert.Equal(t, 1, c.Quantity("shoe-1", "l"))
	assert.Len(t, c.Lines(), 3)
}

func TestCartSetQuantityZeroPrunesLine(t *testing.T) {
	c := NewCart()
	c.Add("shoe-1", "m")
	c.Add("shoe-1", "l")

	line := c.SetQuantity("shoe-1", "m", 0)
	assert.Equal(t, 0, line.Quantity)
	assert.Equal(t, 0, c.Quantity("shoe-1", "m"))
	assert.Equal(t, 1, c.Quantity("shoe-1", "l"))

	// Removing the last size removes the item entry entirely
	c.SetQuantity("shoe-1", "l", -3)
	assert.True(t, c.IsEmpty())
	_, present := c.Items["shoe-1"]
	assert.False(t, present)
}

func TestCartSetQuantityRemovingAbsentLineIsHarmless(t *testing.T) {
	c := NewCart()

	line := c.SetQuantity("ghost", "m", 0)
	assert.Equal(t, 0, line.Quantity)
	assert.True(t, c.IsEmpty())
}

func TestCartCountSumsAllQuantities(t *testing.T) {
	c := NewCart()
	c.SetQuantity("shoe-1", "m", 2)
	c.SetQuantity("shoe-1", "l", 1)
	c.SetQuantity("mug-1", SizeKeyDefault, 4)

	assert.Equal(t, 7, c.Count())
}

func TestCartLinesStableOrder(t *testing.T) {
	c := NewCart()
	c.Add("b-item", "s")
	c.Add("a-item", "m")
	c.Add("a-item", "l")

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, Line{ItemID: "a-item", SizeKey: "l", Quantity: 1}, lines[0])
	assert.Equal(t, Line{ItemID: "a-item", SizeKey: "m", Quantity: 1}, lines[1])
	assert.Equal(t, Line{ItemID: "b-item", SizeKey: "s", Quantity: 1}, lines[2])
}

func TestCartSubtotalSkipsUnresolvableItems(t *testing.T) {
	c := NewCart()
	c.SetQuantity("shoe-1", "m", 2)
	c.SetQuantity("deleted-item", SizeKeyDefault, 5)

	prices := map[string]int64{"shoe-1": 500}
	subtotal := c.Subtotal(func(itemID string) (int64, bool) {
		p, ok := prices[itemID]
		return p, ok
	})

	assert.Equal(t, int64(1000), subtotal)
}
