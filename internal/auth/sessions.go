package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"naildash/internal/core"
)

// Sessions is an in-memory session table keyed by random tokens. Sessions
// expire after the configured TTL; expired entries are dropped lazily on
// lookup.
type Sessions struct {
	mu    sync.Mutex
	ttl   time.Duration
	clock core.Clock
	byTok map[string]session
}

type session struct {
	user      User
	expiresAt time.Time
}

func NewSessions(ttl time.Duration, clock core.Clock) *Sessions {
	if clock == nil {
		clock = core.SystemClock()
	}
	return &Sessions{
		ttl:   ttl,
		clock: clock,
		byTok: make(map[string]session),
	}
}

// Create issues a new session token for the user.
func (s *Sessions) Create(u User) string {
	tok := newToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTok[tok] = session{user: u, expiresAt: s.clock.Now().Add(s.ttl)}
	return tok
}

// Lookup resolves a token to its user, dropping the session if expired.
func (s *Sessions) Lookup(token string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byTok[token]
	if !ok {
		return User{}, false
	}
	if s.clock.Now().After(sess.expiresAt) {
		delete(s.byTok, token)
		return User{}, false
	}
	return sess.user, true
}

// TTL returns the configured session lifetime.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Destroy removes a session; unknown tokens are a no-op.
func (s *Sessions) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byTok, token)
}

func newToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process has bigger problems; fall
		// back to a time-derived token rather than panicking mid-request.
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}
