// Package secure holds the tokenization store and field encryption used to
// keep sensitive health data out of survey payloads.
//
// The token store is an explicit, injected dependency with a bounded size
// and TTL eviction. Values do not outlive their scope: once a token expires
// or the store is over capacity, the mapping is gone and the token can no
// longer be resolved.
package secure

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrTokenNotFound = errors.New("token not found or expired")

// TokenStoreConfig bounds the token map.
type TokenStoreConfig struct {
	TTL        time.Duration // default 1h
	MaxEntries int           // default 10000
}

type tokenEntry struct {
	value string
	until time.Time
}

// TokenStore maps opaque tokens to sensitive values with TTL expiry.
// Safe for concurrent use.
type TokenStore struct {
	mu      sync.Mutex
	cfg     TokenStoreConfig
	entries map[string]tokenEntry
	ops     uint64
}

func NewTokenStore(cfg TokenStoreConfig) *TokenStore {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10000
	}
	return &TokenStore{cfg: cfg, entries: map[string]tokenEntry{}}
}

// Tokenize stores value and returns a fresh opaque token for it.
// Empty values are not stored and return an empty token.
func (s *TokenStore) Tokenize(value string) string {
	if value == "" {
		return ""
	}
	token := uuid.NewString()
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Amortized pruning so expired entries don't pile up between lookups.
	s.ops++
	if s.ops%64 == 0 {
		s.pruneLocked(now)
	}
	if len(s.entries) >= s.cfg.MaxEntries {
		s.pruneLocked(now)
		for k := range s.entries {
			if len(s.entries) < s.cfg.MaxEntries {
				break
			}
			delete(s.entries, k)
		}
	}

	s.entries[token] = tokenEntry{value: value, until: now.Add(s.cfg.TTL)}
	return token
}

// Resolve returns the value behind token if it has not expired.
func (s *TokenStore) Resolve(token string) (string, error) {
	if token == "" {
		return "", ErrTokenNotFound
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	if !now.Before(e.until) {
		delete(s.entries, token)
		return "", ErrTokenNotFound
	}
	return e.value, nil
}

// Revoke removes a token immediately.
func (s *TokenStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
}

// Len reports the current number of live mappings (test helper).
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *TokenStore) pruneLocked(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.until) {
			delete(s.entries, k)
		}
	}
}
