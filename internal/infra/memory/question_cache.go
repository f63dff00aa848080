package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mathchallenger/internal/domain"
)

// QuestionLoader fetches a difficulty bucket from the backing store.
type QuestionLoader interface {
	QuestionsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Question, error)
}

// QuestionCache caches difficulty buckets with TTL to avoid repeated DB hits.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[domain.Difficulty]cachedBucket
}

type cachedBucket struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.Difficulty]cachedBucket),
	}
}

func (c *QuestionCache) QuestionsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if bucket, ok := c.cache[d]; ok && bucket.expiresAt.After(now) {
		c.mu.RUnlock()
		return bucket.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(string(d), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if bucket, ok := c.cache[d]; ok && bucket.expiresAt.After(now) {
			c.mu.RUnlock()
			return bucket.questions, nil
		}
		c.mu.RUnlock()

		questions, err := c.loader.QuestionsByDifficulty(ctx, d)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[d] = cachedBucket{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops a bucket after authoring or bulk delete.
func (c *QuestionCache) Invalidate(_ context.Context, d domain.Difficulty) error {
	c.mu.Lock()
	delete(c.cache, d)
	c.mu.Unlock()
	return nil
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
