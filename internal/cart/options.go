package cart

import (
	"log/slog"
)

// DefaultKey is the storage key the cart is persisted under. Reads and writes
// always go through the same key.
const DefaultKey = "@GoMarketplace:products"

type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithWriteRetries retries a failed write up to n times with exponential backoff.
// By default a failed write is only logged.
func WithWriteRetries(n uint64) Option {
	return func(s *Store) {
		s.retries = n
	}
}
