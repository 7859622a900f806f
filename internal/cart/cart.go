package cart

import (
	"powerbooks/internal/catalog"
)

// ShippingFee is the flat delivery fee applied to any non-empty cart.
const ShippingFee = 5.99

// Item is one line of the cart: a book snapshot plus quantity.
type Item struct {
	Book     catalog.Book `json:"book"`
	Quantity int          `json:"quantity"`
}

// Cart holds the line items a visitor intends to purchase, at most one per
// book id, in insertion order. It is plain in-memory data: callers are
// responsible for serializing access (one cart belongs to one session).
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add puts the book in the cart. If a line for the same id already exists
// its quantity is incremented and the stored book snapshot is kept as first
// added; otherwise a new line with quantity 1 is appended.
func (c *Cart) Add(book catalog.Book) {
	for i := range c.items {
		if c.items[i].Book.ID == book.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, Item{Book: book, Quantity: 1})
}

// Remove deletes the line for the given book id. Absent ids are a no-op.
func (c *Cart) Remove(bookID string) {
	for i := range c.items {
		if c.items[i].Book.ID == bookID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity adjusts the line's quantity by delta, clamped at 1.
// Dropping a line is Remove's job, never a decrement. Absent ids are a no-op.
func (c *Cart) UpdateQuantity(bookID string, delta int) {
	for i := range c.items {
		if c.items[i].Book.ID == bookID {
			q := c.items[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			c.items[i].Quantity = q
			return
		}
	}
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Count is the badge number: the sum of all quantities.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the sum of price times quantity over all lines.
func (c *Cart) Subtotal() float64 {
	sum := 0.0
	for _, it := range c.items {
		sum += it.Book.Price * float64(it.Quantity)
	}
	return sum
}

// Total is the subtotal plus the flat shipping fee, or 0 for an empty cart.
func (c *Cart) Total() float64 {
	if len(c.items) == 0 {
		return 0
	}
	return c.Subtotal() + ShippingFee
}
