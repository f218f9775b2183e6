package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bookshop/model"
)

func book(id int64, title string, price, rental float64) model.Book {
	return model.Book{ID: id, Title: title, Price: price, RentalPrice: rental}
}

func TestAddItemMergesSameBookAndMode(t *testing.T) {
	c := New()
	c.AddItem(book(1, "Dune", 300, 40), model.ModeBuy, 1)
	c.AddItem(book(1, "Dune", 300, 40), model.ModeBuy, 1)

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)
	require.Equal(t, 600.0, c.TotalPrice())
}

func TestAddItemSameBookDifferentModes(t *testing.T) {
	c := New()
	c.AddItem(book(1, "Dune", 300, 40), model.ModeBuy, 1)
	c.AddItem(book(1, "Dune", 300, 40), model.ModeRent, 3)

	require.Equal(t, 2, c.Len())
	require.Equal(t, 300.0+3*40.0, c.TotalPrice())
}

func TestRentInsertWithNonPositiveDaysIsNoop(t *testing.T) {
	c := New()
	c.AddItem(book(1, "Dune", 300, 40), model.ModeRent, 0)
	require.Equal(t, 0, c.Len())

	c.AddItem(book(1, "Dune", 300, 40), model.ModeRent, -2)
	require.Equal(t, 0, c.Len())
}

func TestCounterNeverDropsBelowOne(t *testing.T) {
	c := New()
	c.AddItem(book(1, "Dune", 300, 40), model.ModeBuy, 1)

	c.Decrement(1, model.ModeBuy)
	require.Equal(t, 0, c.Len(), "decrement at quantity 1 removes the line")

	c.AddItem(book(2, "Emma", 150, 25), model.ModeRent, 2)
	c.Decrement(2, model.ModeRent)
	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, 1, items[0].Days)

	c.Decrement(2, model.ModeRent)
	require.Equal(t, 0, c.Len())
}

func TestIncrementAndTotals(t *testing.T) {
	c := New()
	c.AddItem(book(1, "Dune", 300, 40), model.ModeBuy, 1)
	c.Increment(1, model.ModeBuy)
	c.Increment(1, model.ModeBuy)
	c.AddItem(book(2, "Emma", 150, 25), model.ModeRent, 4)

	// 3 copies bought plus 4 rental days.
	require.Equal(t, 3*300.0+4*25.0, c.TotalPrice())
}

func TestRemoveDeletesWholeLine(t *testing.T) {
	c := New()
	c.AddItem(book(1, "Dune", 300, 40), model.ModeBuy, 1)
	c.Increment(1, model.ModeBuy)
	c.AddItem(book(2, "Emma", 150, 25), model.ModeRent, 2)

	c.Remove(1, model.ModeBuy)
	require.Equal(t, 1, c.Len())
	require.Equal(t, 50.0, c.TotalPrice())
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(book(1, "Dune", 300, 40), model.ModeBuy, 1)
	c.Clear()
	require.Equal(t, 0, c.Len())
	require.Equal(t, 0.0, c.TotalPrice())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New()
	c.AddItem(book(1, "Dune", 300, 40), model.ModeBuy, 1)

	items := c.Items()
	items[0].Quantity = 99

	require.Equal(t, 1, c.Items()[0].Quantity)
}

func TestStorePerUserIsolation(t *testing.T) {
	s := NewStore()
	a := s.Get(1)
	b := s.Get(2)

	a.AddItem(book(1, "Dune", 300, 40), model.ModeBuy, 1)
	require.Equal(t, 0, b.Len())
	require.Same(t, a, s.Get(1))

	s.Drop(1)
	require.Equal(t, 0, s.Get(1).Len())
}
