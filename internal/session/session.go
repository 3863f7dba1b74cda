// Package session keeps in-progress capture flows between requests.
// Sessions are conversation state, not records of anything, so they live
// in memory and expire when idle.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JJ950407/lia-pagare/internal/capture"
)

var ErrNotFound = errors.New("session not found")

// DefaultTTL matches how long an operator realistically keeps one capture
// open before abandoning it.
const DefaultTTL = 2 * time.Hour

// Session is one operator conversation working towards a sale record.
type Session struct {
	ID        uuid.UUID
	State     *capture.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store holds live sessions keyed by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a session around a fresh capture state.
func (s *Store) Create(state *capture.State) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:        uuid.New(),
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sess.ID] = sess

	return sess
}

// Get returns a live session. Expired sessions are dropped on access.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	if s.now().Sub(sess.UpdatedAt) > s.ttl {
		delete(s.sessions, id)

		return nil, ErrNotFound
	}

	return sess, nil
}

// Touch refreshes the idle clock after a session advanced.
func (s *Store) Touch(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.UpdatedAt = s.now()
	}
}

// Delete discards a session, finished or not.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

// PurgeExpired drops every idle session and reports how many went.
func (s *Store) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	purged := 0

	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			purged++
		}
	}

	return purged
}

// Len reports the number of live sessions, expired ones included until
// the next purge.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
