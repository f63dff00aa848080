package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"mathchallenger/internal/domain"
)

// QuestionLoader fetches a difficulty bucket from the backing store.
type QuestionLoader interface {
	QuestionsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Question, error)
}

// QuestionCache keeps each difficulty bucket in Redis as a JSON blob:
// SET questions:{difficulty} [...] EX ttl
// and falls back to the loader on a miss.
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) QuestionsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Question, error) {
	key := c.key(d)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return decodeBucket(raw)
	}
	if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	result, err, _ := c.sf.Do(string(d), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, redis.Nil) {
			return nil, err
		}

		questions, err := c.loader.QuestionsByDifficulty(ctx, d)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(ctx, key, encoded, c.ttlWithJitter()).Err()
		return encoded, nil
	})
	if err != nil {
		return nil, err
	}
	return decodeBucket(result.([]byte))
}

// Invalidate drops a bucket after authoring or bulk delete.
func (c *QuestionCache) Invalidate(ctx context.Context, d domain.Difficulty) error {
	return c.client.Del(ctx, c.key(d)).Err()
}

func (c *QuestionCache) key(d domain.Difficulty) string {
	return "questions:" + string(d)
}

func decodeBucket(raw []byte) ([]domain.Question, error) {
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
