package memory

import (
	"context"
	"testing"
	"time"

	"mathchallenger/internal/domain"
)

func TestQuestionCacheCaches(t *testing.T) {
	loader := &countingLoader{QuestionLoader: seededRepo()}
	cache := NewQuestionCache(loader, time.Minute)

	if _, err := cache.QuestionsByDifficulty(context.Background(), domain.Beginner); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := cache.QuestionsByDifficulty(context.Background(), domain.Beginner); err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionCacheInvalidateForcesReload(t *testing.T) {
	loader := &countingLoader{QuestionLoader: seededRepo()}
	cache := NewQuestionCache(loader, time.Minute)

	_, _ = cache.QuestionsByDifficulty(context.Background(), domain.Beginner)
	if err := cache.Invalidate(context.Background(), domain.Beginner); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = cache.QuestionsByDifficulty(context.Background(), domain.Beginner)
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) QuestionsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.QuestionsByDifficulty(ctx, d)
}

func seededRepo() *QuestionRepo {
	repo := NewQuestionRepo()
	_ = repo.AddQuestion(context.Background(), sampleQuestion())
	return repo
}

func sampleQuestion() domain.Question {
	return domain.Question{
		ID:         "q1",
		Text:       "What is 2 + 2?",
		Options:    [4]string{"3", "4", "5", "6"},
		Answer:     "4",
		Difficulty: domain.Beginner,
	}
}
