package cart

import (
	"sync"

	"github.com/nikolayk812/cartkv-demo/internal/domain"
)

// Subscribe returns a channel that always holds the most recent cart snapshot,
// starting with the current one. Snapshots a slow reader has not taken yet are
// replaced rather than queued, so subscribers never block the store.
// The returned func unsubscribes and closes the channel. On a closed store the
// channel yields the current snapshot and is closed right away.
func (s *Store) Subscribe() (<-chan []domain.Item, func()) {
	ch := make(chan []domain.Item, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	ch <- domain.Clone(s.items)
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}

	return ch, unsubscribe
}

// publishLocked must be called with s.mu held.
func (s *Store) publishLocked() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- domain.Clone(s.items)
	}
}
