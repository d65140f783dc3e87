package cache

import (
	"sync"
	"time"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// TokenStore is a thread-safe in-memory token cache keyed by credential,
// each entry with its own TTL.
type TokenStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the token stored under key if it has not expired.
func (s *TokenStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.token == "" {
		return "", false
	}
	if !s.now().Before(e.expiresAt) {
		return "", false
	}
	return e.token, true
}

// Set stores token under key for ttl. A non-positive ttl stores an already
// expired entry.
func (s *TokenStore) Set(key, token string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{token: token, expiresAt: s.now().Add(ttl)}
}

// Delete removes the token stored under key.
func (s *TokenStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// Purge drops expired entries and returns how many were removed.
func (s *TokenStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
