package cart_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/cartkv-demo/internal/cart"
	"github.com/nikolayk812/cartkv-demo/internal/domain"
	"github.com/nikolayk812/cartkv-demo/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStorageDown = errors.New("storage is down")

// fakeStorage wraps the in-memory storage with failure injection and call counters.
type fakeStorage struct {
	*repository.MemoryStorage

	mu       sync.Mutex
	getGate  chan struct{}
	getErr   error
	failSets int
	sets     int
	removes  int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{MemoryStorage: repository.NewMemory()}
}

func (f *fakeStorage) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	gate, getErr := f.getGate, f.getErr
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if getErr != nil {
		return "", getErr
	}

	return f.MemoryStorage.Get(ctx, key)
}

func (f *fakeStorage) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.sets++
	fail := f.failSets > 0
	if fail {
		f.failSets--
	}
	f.mu.Unlock()

	if fail {
		return errStorageDown
	}

	return f.MemoryStorage.Set(ctx, key, value)
}

func (f *fakeStorage) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	f.removes++
	f.mu.Unlock()

	return f.MemoryStorage.Remove(ctx, key)
}

func (f *fakeStorage) setCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

func (f *fakeStorage) removeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removes
}

// persisted decodes what is currently stored under the default key.
func (f *fakeStorage) persisted(t *testing.T) []domain.Item {
	t.Helper()

	value, err := f.MemoryStorage.Get(t.Context(), cart.DefaultKey)
	require.NoError(t, err)

	items, err := cart.Decode(value)
	require.NoError(t, err)

	return items
}

func newStore(t *testing.T, storage *fakeStorage, opts ...cart.Option) *cart.Store {
	t.Helper()

	opts = append([]cart.Option{cart.WithLogger(slog.New(slog.DiscardHandler))}, opts...)

	s, err := cart.New(storage, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, s.Close(ctx))
	})

	return s
}

func newLoadedStore(t *testing.T, storage *fakeStorage, opts ...cart.Option) *cart.Store {
	t.Helper()

	s := newStore(t, storage, opts...)
	waitLoaded(t, s)

	return s
}

func waitLoaded(t *testing.T, s *cart.Store) {
	t.Helper()

	select {
	case <-s.Loaded():
	case <-time.After(5 * time.Second):
		t.Fatal("cart was not loaded in time")
	}
}

func flush(t *testing.T, s *cart.Store) {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	require.NoError(t, s.Flush(ctx))
}

func randomProduct() domain.Item {
	return domain.Item{
		ID:       gofakeit.UUID(),
		Title:    gofakeit.ProductName(),
		ImageURL: gofakeit.URL(),
		Price:    decimal.NewFromFloat(gofakeit.Price(1, 100)),
	}
}

func randomItems(n int) []domain.Item {
	items := make([]domain.Item, 0, n)
	for range n {
		item := randomProduct()
		item.Quantity = gofakeit.IntRange(1, 10)
		items = append(items, item)
	}
	return items
}

func withQuantity(item domain.Item, quantity int) domain.Item {
	item.Quantity = quantity
	return item
}

func assertItems(t *testing.T, expected, actual []domain.Item) {
	t.Helper()

	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	diff := cmp.Diff(expected, actual, decimalComparer)
	assert.Empty(t, diff)
}
