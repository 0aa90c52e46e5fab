package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nikolayk812/cartkv-demo/internal/domain"
	"github.com/nikolayk812/cartkv-demo/internal/port"
)

// Store owns the in-memory cart and mirrors every change into a port.Storage.
//
// Mutations apply synchronously under a mutex. Persistence happens on a single
// background goroutine that first rehydrates the cart from storage and then writes
// the latest snapshot after each change, coalescing snapshots it has not reached yet.
// Mutations issued before rehydration completes are discarded when a persisted
// cart exists, and written out once loading finishes otherwise.
type Store struct {
	storage port.Storage
	key     string
	log     *slog.Logger
	retries uint64

	mu        sync.Mutex
	items     []domain.Item
	hydrated  bool
	dirty     bool
	closed    bool
	pending   *write
	scheduled uint64
	completed uint64
	progress  chan struct{}
	subs      map[uint64]chan []domain.Item
	nextSub   uint64

	wake   chan struct{}
	loaded chan struct{}
	done   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

var _ port.Cart = (*Store)(nil)

// New creates an empty store and starts loading the persisted cart in the background.
// Close must be called to release the background goroutine.
func New(storage port.Storage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		storage:  storage,
		key:      DefaultKey,
		log:      slog.Default(),
		items:    []domain.Item{},
		progress: make(chan struct{}),
		subs:     make(map[uint64]chan []domain.Item),
		wake:     make(chan struct{}, 1),
		loaded:   make(chan struct{}),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.key == "" {
		cancel()
		return nil, fmt.Errorf("key is empty")
	}

	s.log = s.log.With(slog.String("cart_key", s.key))

	go s.run()

	return s, nil
}

// Products returns a copy of the current items in cart order.
func (s *Store) Products() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Clone(s.items)
}

// AddToCart adds one unit of product, merging with an existing entry of the same ID.
func (s *Store) AddToCart(product domain.Item) {
	s.mutate("add", product.ID, func(items []domain.Item) []domain.Item {
		return domain.AddItem(items, product)
	})
}

// Increment adds one unit to the entry with id. Unknown ids are ignored.
func (s *Store) Increment(id string) {
	s.mutate("increment", id, func(items []domain.Item) []domain.Item {
		return domain.IncrementItem(items, id)
	})
}

// Decrement removes one unit from the entry with id, dropping the entry at zero.
// Unknown ids are ignored.
func (s *Store) Decrement(id string) {
	s.mutate("decrement", id, func(items []domain.Item) []domain.Item {
		return domain.DecrementItem(items, id)
	})
}

// Clear empties the cart and removes the persisted value.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.Item{}
	s.log.Debug("cart cleared")

	s.scheduleLocked(&write{remove: true})
	s.publishLocked()
}

// Loaded is closed once the persisted cart has been read.
func (s *Store) Loaded() <-chan struct{} {
	return s.loaded
}

// Flush waits until the cart has been loaded and every change made so far has
// been written, or has failed to be written.
func (s *Store) Flush(ctx context.Context) error {
	select {
	case <-s.loaded:
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	target := s.scheduled
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if s.completed >= target {
			s.mu.Unlock()
			return nil
		}
		progress := s.progress
		s.mu.Unlock()

		select {
		case <-progress:
		case <-s.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close flushes pending writes and stops the background goroutine. Changes made
// after Close stay in memory only. Subscriber channels are closed.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	err := s.Flush(ctx)

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	<-s.done

	s.mu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("s.Flush: %w", err)
	}

	return nil
}

func (s *Store) mutate(op, id string, fn func([]domain.Item) []domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = fn(s.items)
	s.log.Debug("cart changed", slog.String("op", op), slog.String("id", id), slog.Int("items", len(s.items)))

	s.scheduleLocked(&write{items: domain.Clone(s.items)})
	s.publishLocked()
}

// load replaces the in-memory cart only when a valid persisted cart exists.
// Otherwise whatever was added meanwhile is kept and written out.
func (s *Store) load() {
	value, err := s.storage.Get(s.ctx, s.key)

	var (
		items []domain.Item
		found bool
	)

	switch {
	case errors.Is(err, port.ErrNotFound):
		s.log.Info("no persisted cart")
	case err != nil:
		s.log.Error("cart load failed, keeping in-memory cart", slog.Any("err", err))
	default:
		items, err = Decode(value)
		if err != nil {
			s.log.Warn("persisted cart is malformed, keeping in-memory cart", slog.Any("err", err))
			break
		}
		found = true
	}

	s.mu.Lock()
	s.hydrated = true

	switch {
	case found:
		if s.dirty {
			s.log.Warn("changes made before the cart was loaded were discarded")
		}
		s.items = items
		s.publishLocked()
	case s.dirty:
		s.scheduleLocked(&write{items: domain.Clone(s.items)})
	}

	count := len(s.items)
	s.mu.Unlock()

	s.log.Info("cart loaded", slog.Int("items", count), slog.Bool("persisted", found))
	close(s.loaded)
}
