package session

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type tokenStore struct {
	mu     sync.RWMutex
	now    func() time.Time
	tokens map[string]Session
}

func newTokenStore(now func() time.Time) *tokenStore {
	return &tokenStore{
		now:    now,
		tokens: make(map[string]Session),
	}
}

func (m *tokenStore) Issue(sess Session, ttl time.Duration) (string, time.Time, error) {
	token, err := randomToken()
	if err != nil {
		return "", time.Time{}, err
	}
	sess.Token = token
	sess.ExpiresAt = m.now().Add(ttl)
	m.mu.Lock()
	m.sweepLocked()
	m.tokens[token] = sess
	m.mu.Unlock()
	return token, sess.ExpiresAt, nil
}

func (m *tokenStore) Validate(token string) (Session, bool) {
	m.mu.RLock()
	sess, ok := m.tokens[token]
	m.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if m.now().After(sess.ExpiresAt) {
		m.mu.Lock()
		delete(m.tokens, token)
		m.mu.Unlock()
		return Session{}, false
	}
	return sess, true
}

// sweepLocked drops expired tokens; caller holds mu.
func (m *tokenStore) sweepLocked() {
	now := m.now()
	for token, sess := range m.tokens {
		if now.After(sess.ExpiresAt) {
			delete(m.tokens, token)
		}
	}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
