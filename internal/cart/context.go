package cart

import (
	"context"
	"errors"

	"github.com/nikolayk812/cartkv-demo/internal/port"
)

var ErrNoStore = errors.New("cart: no store in context, attach one with cart.NewContext")

type ctxKey struct{}

// NewContext attaches s to ctx. A context carries at most one store: attaching
// a different store to a context that already has one panics.
func NewContext(ctx context.Context, s *Store) context.Context {
	if s == nil {
		panic("cart: NewContext called with a nil store")
	}

	if existing, ok := ctx.Value(ctxKey{}).(*Store); ok {
		if existing == s {
			return ctx
		}
		panic("cart: context already carries a different store")
	}

	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store attached to ctx or ErrNoStore.
func FromContext(ctx context.Context) (port.Cart, error) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok {
		return nil, ErrNoStore
	}

	return s, nil
}

// MustFromContext is like FromContext but panics when no store is attached.
func MustFromContext(ctx context.Context) port.Cart {
	c, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}

	return c
}
