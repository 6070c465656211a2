package cart

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Line is one product entry awaiting checkout. UnitPrice is a snapshot taken
// when the item was added; the catalog price is re-read at commit time.
type Line struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Cart maps product ID -> line. A quantity of zero or less is never stored:
// the entry is removed instead.
type Cart map[uint]Line

func New() Cart {
	return Cart{}
}

// Add puts qty more units of a product in the cart, keeping the price
// snapshot from the first add.
func (c Cart) Add(productID uint, unitPrice decimal.Decimal, qty int) {
	line, ok := c[productID]
	if !ok {
		line = Line{UnitPrice: unitPrice}
	}
	line.Quantity += qty
	if line.Quantity <= 0 {
		delete(c, productID)
		return
	}
	c[productID] = line
}

// SetQuantity overwrites a line's quantity. Zero or negative removes the line.
func (c Cart) SetQuantity(productID uint, qty int) {
	if qty <= 0 {
		delete(c, productID)
		return
	}
	line := c[productID]
	line.Quantity = qty
	c[productID] = line
}

func (c Cart) Remove(productID uint) {
	delete(c, productID)
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Subtotal sums unit_price * quantity over every line, unrounded.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ProductIDs returns the cart's product IDs in ascending order so callers
// iterate lines deterministically (stable lock order inside the checkout
// transaction, stable receipt rows).
func (c Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
