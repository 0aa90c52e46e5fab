package port

import (
	"github.com/nikolayk812/cartkv-demo/internal/domain"
)

// Cart is what consumers of the cart store get to see: a read-only snapshot
// of the items and the operations that change them.
type Cart interface {
	Products() []domain.Item
	AddToCart(product domain.Item)
	Increment(id string)
	Decrement(id string)
	Clear()
	Subscribe() (<-chan []domain.Item, func())
}
