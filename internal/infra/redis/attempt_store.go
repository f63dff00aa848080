package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"mathchallenger/internal/domain"
)

// AttemptStore parks presented attempts in Redis with a TTL, keyed as
// attempt:{id}. GETDEL makes grading terminal even across instances.
type AttemptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{client: client, ttl: ttl}
}

func (s *AttemptStore) Put(ctx context.Context, attempt domain.Attempt) error {
	encoded, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(attempt.ID), encoded, s.ttl).Err()
}

func (s *AttemptStore) Take(ctx context.Context, id string) (domain.Attempt, error) {
	raw, err := s.client.GetDel(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, err
	}
	var attempt domain.Attempt
	if err := json.Unmarshal(raw, &attempt); err != nil {
		return domain.Attempt{}, err
	}
	return attempt, nil
}

func (s *AttemptStore) key(id string) string {
	return "attempt:" + id
}
