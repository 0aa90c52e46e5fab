package domain

import (
	"github.com/shopspring/decimal"
)

// Item is a catalog product together with its quantity in the cart.
type Item struct {
	ID       string
	Title    string
	ImageURL string
	Price    decimal.Decimal

	Quantity int
}

// AddItem returns items with product merged in. An existing entry with the same ID is
// overwritten in place and its quantity bumped by one, otherwise product is appended
// with quantity 1. The quantity of product is ignored.
func AddItem(items []Item, product Item) []Item {
	i := indexOf(items, product.ID)
	if i < 0 {
		product.Quantity = 1
		return append(Clone(items), product)
	}

	next := Clone(items)
	product.Quantity = items[i].Quantity + 1
	next[i] = product

	return next
}

// IncrementItem returns items with the quantity of id increased by one.
// Unknown ids leave the items unchanged.
func IncrementItem(items []Item, id string) []Item {
	next := Clone(items)

	if i := indexOf(next, id); i >= 0 {
		next[i].Quantity++
	}

	return next
}

// DecrementItem returns items with the quantity of id decreased by one,
// dropping the entry once it would reach zero. Unknown ids leave the items unchanged.
func DecrementItem(items []Item, id string) []Item {
	i := indexOf(items, id)
	if i < 0 {
		return Clone(items)
	}

	if items[i].Quantity <= 1 {
		next := make([]Item, 0, len(items)-1)
		next = append(next, items[:i]...)
		return append(next, items[i+1:]...)
	}

	next := Clone(items)
	next[i].Quantity--

	return next
}

// Clone returns a copy of items that never shares its backing array. A nil input
// yields an empty, non-nil slice.
func Clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
