package memory

import (
	"context"
	"testing"

	"mathchallenger/internal/domain"
)

func TestTopScoresDescendingWithStableTies(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaderboardRepo()

	ann := domain.User{ID: "a", Username: "ann"}
	bob := domain.User{ID: "b", Username: "bob"}
	cat := domain.User{ID: "c", Username: "cat"}

	for _, rec := range []struct {
		user  domain.User
		score int
	}{
		{ann, 10}, {bob, 400}, {cat, 20}, {ann, 400},
	} {
		if err := repo.AppendScore(ctx, rec.user, rec.score, domain.Beginner); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := repo.TopScores(ctx)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[0].Score != 400 || entries[0].Username != "bob" {
		t.Fatalf("expected bob first on tie (inserted earlier), got %+v", entries[0])
	}
	if entries[1].Score != 400 || entries[1].Username != "ann" {
		t.Fatalf("expected ann second on tie, got %+v", entries[1])
	}
	if entries[3].Score != 10 {
		t.Fatalf("expected lowest score last, got %+v", entries[3])
	}
}
