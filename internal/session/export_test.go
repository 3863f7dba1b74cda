package session

import "time"

// SetClock swaps the store's clock so tests can age sessions.
func SetClock(s *Store, now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}
