package cart_test

import (
	"context"
	"testing"

	"github.com/nikolayk812/cartkv-demo/internal/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("no store attached: error", func(t *testing.T) {
		c, err := cart.FromContext(context.Background())
		require.ErrorIs(t, err, cart.ErrNoStore)
		assert.Nil(t, c)
	})

	t.Run("store attached: same instance", func(t *testing.T) {
		s := newLoadedStore(t, newFakeStorage())
		ctx := cart.NewContext(context.Background(), s)

		c, err := cart.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, s, c)

		c.AddToCart(shirt)
		assert.Len(t, s.Products(), 1)
	})
}

func TestMustFromContext(t *testing.T) {
	assert.PanicsWithError(t, cart.ErrNoStore.Error(), func() {
		cart.MustFromContext(context.Background())
	})

	s := newLoadedStore(t, newFakeStorage())
	ctx := cart.NewContext(context.Background(), s)
	assert.NotPanics(t, func() {
		cart.MustFromContext(ctx)
	})
}

func TestNewContext_SingleStore(t *testing.T) {
	s := newLoadedStore(t, newFakeStorage())
	ctx := cart.NewContext(context.Background(), s)

	assert.Equal(t, ctx, cart.NewContext(ctx, s))

	other := newLoadedStore(t, newFakeStorage())
	assert.Panics(t, func() {
		cart.NewContext(ctx, other)
	})

	assert.Panics(t, func() {
		cart.NewContext(context.Background(), nil)
	})
}
