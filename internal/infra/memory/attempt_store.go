package memory

import (
	"context"
	"sync"
	"time"

	"mathchallenger/internal/domain"
)

// AttemptStore parks presented attempts until submission. Entries expire
// after the TTL so abandoned quizzes do not pile up.
type AttemptStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.Mutex
	attempts map[string]storedAttempt
}

type storedAttempt struct {
	attempt   domain.Attempt
	expiresAt time.Time
}

func NewAttemptStore(ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		ttl:      ttl,
		clock:    time.Now,
		attempts: make(map[string]storedAttempt),
	}
}

func (s *AttemptStore) Put(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ID] = storedAttempt{
		attempt:   attempt,
		expiresAt: s.clock().Add(s.ttl),
	}
	return nil
}

// Take removes and returns the attempt; a miss or an expired entry is
// ErrAttemptNotFound.
func (s *AttemptStore) Take(_ context.Context, id string) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.attempts[id]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	delete(s.attempts, id)
	if s.ttl > 0 && stored.expiresAt.Before(s.clock()) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return stored.attempt, nil
}
