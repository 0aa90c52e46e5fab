package port

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Storage is an asynchronous string key-value store the cart is mirrored into.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
