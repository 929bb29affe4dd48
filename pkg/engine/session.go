package engine

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

const tokenKeyBytes = 16

// session is one authenticated login token.
type session struct {
	username string
	expires  time.Time
}

// SessionStore holds login tokens in process memory. Expired tokens are
// dropped lazily on lookup.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]session)}
}

// Create mints a random token bound to the username for the given duration.
func (s *SessionStore) Create(username string, ttl time.Duration) (string, error) {
	key := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("token creation failed: %w", err)
	}
	token := hex.EncodeToString(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{
		username: username,
		expires:  time.Now().Add(ttl),
	}
	return token, nil
}

// Lookup resolves a token to its username.
func (s *SessionStore) Lookup(token string) (string, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return "", cerrors.NewPermissionDeniedError("invalid auth token")
	}
	if time.Now().After(sess.expires) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", cerrors.NewPermissionDeniedError("auth token expired")
	}
	return sess.username, nil
}

// Revoke removes a token. Revoking an unknown token is a no-op.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
