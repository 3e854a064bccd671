package store

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"

	"device-wizard-backend/internal/wizard"
)

// SessionStore keeps live wizard sessions in memory. Sessions expire with the
// browser session: every save refreshes the TTL, and an abandoned session is
// simply evicted by the cache sweeper. Nothing survives a process restart.
type SessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionStore creates a session registry with the given TTL and sweep
// interval.
func NewSessionStore(ttl, sweep time.Duration) *SessionStore {
	return &SessionStore{
		cache: cache.New(ttl, sweep),
		ttl:   ttl,
	}
}

// Create registers a fresh session and returns its id.
func (s *SessionStore) Create() (string, wizard.Session) {
	id := newSessionID()
	sess := wizard.NewSession()
	s.cache.Set(id, sess, s.ttl)
	return id, sess
}

// Get returns the session for an id, if it is still alive.
func (s *SessionStore) Get(id string) (wizard.Session, bool) {
	v, found := s.cache.Get(id)
	if !found {
		return wizard.Session{}, false
	}
	return v.(wizard.Session), true
}

// Save stores the session and refreshes its TTL.
func (s *SessionStore) Save(id string, sess wizard.Session) {
	s.cache.Set(id, sess, s.ttl)
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(buf)
}
