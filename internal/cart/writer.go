package cart

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikolayk812/cartkv-demo/internal/domain"
)

// write is a full snapshot of the cart waiting to be persisted.
type write struct {
	seq    uint64
	items  []domain.Item
	remove bool
}

// scheduleLocked replaces any write the worker has not picked up yet with w.
// Must be called with s.mu held.
func (s *Store) scheduleLocked(w *write) {
	if !s.hydrated {
		s.dirty = true
		return
	}
	if s.closed {
		s.log.Warn("cart store is closed, change kept in memory only")
		return
	}

	s.scheduled++
	w.seq = s.scheduled
	s.pending = w

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) run() {
	defer close(s.done)

	s.load()

	for {
		select {
		case <-s.ctx.Done():
			s.mu.Lock()
			if s.pending != nil {
				s.log.Warn("cart store stopped with an unwritten change", slog.Uint64("seq", s.pending.seq))
			}
			s.mu.Unlock()
			return
		case <-s.wake:
			s.writePending()
		}
	}
}

func (s *Store) writePending() {
	s.mu.Lock()
	w := s.pending
	s.pending = nil
	s.mu.Unlock()

	if w == nil {
		return
	}

	if err := s.persist(w); err != nil {
		s.log.Error("cart write failed", slog.Uint64("seq", w.seq), slog.Any("err", err))
	}

	s.mu.Lock()
	s.completed = w.seq
	close(s.progress)
	s.progress = make(chan struct{})
	s.mu.Unlock()
}

func (s *Store) persist(w *write) error {
	var value string
	if !w.remove {
		encoded, err := Encode(w.items)
		if err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		value = encoded
	}

	op := func() error {
		if w.remove {
			return s.storage.Remove(s.ctx, s.key)
		}
		return s.storage.Set(s.ctx, s.key, value)
	}

	notify := func(err error, next time.Duration) {
		s.log.Warn("cart write failed, retrying", slog.Uint64("seq", w.seq), slog.Duration("in", next), slog.Any("err", err))
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.retries), s.ctx)

	return backoff.RetryNotify(op, b, notify)
}
