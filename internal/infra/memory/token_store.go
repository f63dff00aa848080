package memory

import (
	"context"
	"sync"
	"time"

	"mathchallenger/internal/domain"
)

// TokenStore keeps login tokens in process memory.
type TokenStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu     sync.Mutex
	tokens map[string]storedToken
}

type storedToken struct {
	userID    string
	expiresAt time.Time
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{
		ttl:    ttl,
		clock:  time.Now,
		tokens: make(map[string]storedToken),
	}
}

func (s *TokenStore) Save(_ context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = storedToken{userID: userID, expiresAt: s.clock().Add(s.ttl)}
	return nil
}

func (s *TokenStore) Resolve(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrSessionExpired
	}
	if s.ttl > 0 && stored.expiresAt.Before(s.clock()) {
		delete(s.tokens, token)
		return "", domain.ErrSessionExpired
	}
	return stored.userID, nil
}

func (s *TokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
