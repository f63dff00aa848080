package memory

import (
	"context"
	"sync"

	"mathchallenger/internal/domain"
)

// QuestionRepo is an in-memory question bank, used when no Postgres is
// configured and throughout the tests.
type QuestionRepo struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewQuestionRepo() *QuestionRepo {
	return &QuestionRepo{}
}

func (r *QuestionRepo) AddQuestion(_ context.Context, q domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions = append(r.questions, q)
	return nil
}

func (r *QuestionRepo) QuestionsByDifficulty(_ context.Context, d domain.Difficulty) ([]domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]domain.Question, 0)
	for _, q := range r.questions {
		if q.Difficulty == d {
			matched = append(matched, q)
		}
	}
	return matched, nil
}

func (r *QuestionRepo) DeleteByDifficulty(_ context.Context, d domain.Difficulty) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.questions[:0]
	var deleted int64
	for _, q := range r.questions {
		if q.Difficulty == d {
			deleted++
			continue
		}
		kept = append(kept, q)
	}
	r.questions = kept
	return deleted, nil
}
