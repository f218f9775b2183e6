// Package cart holds the in-memory cart. A cart belongs to exactly one
// staff session; nothing here touches the database.
package cart

import "bookshop/model"

// LineItem is one cart entry: a single book under one acquisition mode.
// Two entries for the same book may coexist only if their modes differ.
type LineItem struct {
	BookID          int64                 `json:"book_id"`
	Title           string                `json:"title"`
	Mode            model.AcquisitionMode `json:"mode"`
	Quantity        int                   `json:"quantity,omitempty"` // buy mode
	Days            int                   `json:"days,omitempty"`     // rent mode
	UnitPrice       float64               `json:"unit_price"`
	UnitRentalPrice float64               `json:"unit_rental_price"`
}

// counter is the quantity for buy items and the day count for rent items.
func (li LineItem) counter() int {
	if li.Mode == model.ModeRent {
		return li.Days
	}
	return li.Quantity
}

// Subtotal prices one line: price x quantity for buys, rental price x
// days for rents.
func (li LineItem) Subtotal() float64 {
	if li.Mode == model.ModeRent {
		return li.UnitRentalPrice * float64(li.Days)
	}
	return li.UnitPrice * float64(li.Quantity)
}

type Cart struct {
	items []LineItem
}

func New() *Cart { return &Cart{} }

func (c *Cart) find(bookID int64, mode model.AcquisitionMode) int {
	for i, li := range c.items {
		if li.BookID == bookID && li.Mode == mode {
			return i
		}
	}
	return -1
}

// AddItem merges into an existing (book, mode) line by amount, or
// inserts a new line: quantity 1 for buys, days=amount for rents.
// An insert that would start the counter at or below zero is a no-op.
// A merge driven to zero or below removes the line.
func (c *Cart) AddItem(b model.Book, mode model.AcquisitionMode, amount int) {
	if i := c.find(b.ID, mode); i >= 0 {
		c.bump(i, amount)
		return
	}

	li := LineItem{
		BookID:          b.ID,
		Title:           b.Title,
		Mode:            mode,
		UnitPrice:       b.Price,
		UnitRentalPrice: b.RentalPrice,
	}
	switch mode {
	case model.ModeRent:
		if amount <= 0 {
			return
		}
		li.Days = amount
	default:
		li.Quantity = 1
	}
	c.items = append(c.items, li)
}

// Increment adds one to the line's counter.
func (c *Cart) Increment(bookID int64, mode model.AcquisitionMode) {
	if i := c.find(bookID, mode); i >= 0 {
		c.bump(i, 1)
	}
}

// Decrement subtracts one; the line is removed once its counter reaches
// zero, so no line ever shows a counter below one.
func (c *Cart) Decrement(bookID int64, mode model.AcquisitionMode) {
	if i := c.find(bookID, mode); i >= 0 {
		c.bump(i, -1)
	}
}

func (c *Cart) bump(i, delta int) {
	li := &c.items[i]
	if li.Mode == model.ModeRent {
		li.Days += delta
	} else {
		li.Quantity += delta
	}
	if li.counter() <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// Remove deletes the line unconditionally.
func (c *Cart) Remove(bookID int64, mode model.AcquisitionMode) {
	if i := c.find(bookID, mode); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// TotalPrice sums line subtotals. Pure read, safe to call repeatedly.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, li := range c.items {
		total += li.Subtotal()
	}
	return total
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int { return len(c.items) }

// Clear empties the cart. Called only after a committed checkout.
func (c *Cart) Clear() { c.items = nil }
