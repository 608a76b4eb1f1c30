// internal/editor/session.go
package editor

import (
	"sync"
	"time"

	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Search sessions.
 *
 * A search pins its full result set (record IDs plus the collection and
 * query that produced them) under a token, so that the preview and update
 * calls that follow operate on exactly what the user saw. Sessions live
 * in memory behind a mutex and expire after a TTL; expired entries are
 * collected opportunistically whenever the map is touched, so no
 * background goroutine is needed.
 */

// defaultSessionTTL applies when a Sessions registry is built without one.
const defaultSessionTTL = 30 * time.Minute

// Session is one pinned search result set.
type Session struct {
	Collection string
	Query      string
	IDs        []types.RecordID
}

type pinned struct {
	Session
	expiresAt time.Time
}

// Sessions holds pinned search results keyed by token.
type Sessions struct {
	ttl time.Duration
	now func() time.Time

	mu sync.Mutex
	m  map[types.SessionToken]pinned
}

// NewSessions creates a session registry with the given TTL.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Sessions{
		ttl: ttl,
		now: time.Now,
		m:   make(map[types.SessionToken]pinned),
	}
}

// Put pins a search result set and returns its token.
func (s *Sessions) Put(sess Session) types.SessionToken {
	token := types.NewSessionToken()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.m[token] = pinned{Session: sess, expiresAt: s.now().Add(s.ttl)}
	return token
}

// Get returns the session pinned under the token. Expired or unknown
// tokens yield ErrSessionNotFound.
func (s *Sessions) Get(token types.SessionToken) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[token]
	if !ok {
		return Session{}, types.ErrSessionNotFound
	}
	if s.now().After(p.expiresAt) {
		delete(s.m, token)
		return Session{}, types.ErrSessionNotFound
	}
	return p.Session, nil
}

// sweep drops every expired session. Caller holds the mutex.
func (s *Sessions) sweep() {
	now := s.now()
	for token, p := range s.m {
		if now.After(p.expiresAt) {
			delete(s.m, token)
		}
	}
}
