package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps the server-side association between session IDs and user
// identities. A cookie alone proves nothing: resolution requires a live
// entry here, which is what makes logout effective immediately.
type Store struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

type sessionEntry struct {
	userID    int64
	expiresAt time.Time
}

// NewStore creates a session store whose entries expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create mints a new session bound to the given user and returns its ID.
func (s *Store) Create(userID int64) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = sessionEntry{userID: userID, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return id
}

// Resolve returns the user bound to the session ID. A missing or expired
// session resolves as absent, never as an error.
func (s *Store) Resolve(id string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return 0, false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return 0, false
	}
	return entry.userID, true
}

// Destroy invalidates the session. Destroying an unknown ID is a no-op.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// PruneExpired drops all expired sessions and returns how many were removed.
func (s *Store) PruneExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
