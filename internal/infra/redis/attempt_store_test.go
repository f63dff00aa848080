package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"mathchallenger/internal/domain"
)

func TestAttemptStoreTakeIsDestructive(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewAttemptStore(newClient(mr), time.Minute)
	ctx := context.Background()

	attempt := domain.Attempt{
		ID:         "a1",
		UserID:     "u1",
		Difficulty: domain.Beginner,
		Questions: []domain.Question{{
			ID:      "q1",
			Text:    "What is 2 + 2?",
			Options: [4]string{"3", "4", "5", "6"},
			Answer:  "4",
		}},
	}
	if err := store.Put(ctx, attempt); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Take(ctx, "a1")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got.UserID != "u1" || len(got.Questions) != 1 || got.Questions[0].Answer != "4" {
		t.Fatalf("round trip lost data: %+v", got)
	}

	if _, err := store.Take(ctx, "a1"); err != domain.ErrAttemptNotFound {
		t.Fatalf("expected miss on second take, got %v", err)
	}
}

func TestAttemptStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewAttemptStore(newClient(mr), time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, domain.Attempt{ID: "a1"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := store.Take(ctx, "a1"); err != domain.ErrAttemptNotFound {
		t.Fatalf("expected expired attempt to miss, got %v", err)
	}
}
