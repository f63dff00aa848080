package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"mathchallenger/internal/domain"
)

// LeaderboardRepo is the in-memory append-only score log.
type LeaderboardRepo struct {
	mu      sync.RWMutex
	nextID  int64
	entries []domain.ScoreEntry
	clock   func() time.Time
}

func NewLeaderboardRepo() *LeaderboardRepo {
	return &LeaderboardRepo{nextID: 1, clock: time.Now}
}

func (r *LeaderboardRepo) AppendScore(_ context.Context, user domain.User, score int, d domain.Difficulty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, domain.ScoreEntry{
		ID:         r.nextID,
		UserID:     user.ID,
		Username:   user.Username,
		Score:      score,
		Difficulty: d,
		CreatedAt:  r.clock(),
	})
	r.nextID++
	return nil
}

// TopScores orders by score descending; the stable sort keeps ties in
// insertion order.
func (r *LeaderboardRepo) TopScores(_ context.Context) ([]domain.ScoreEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]domain.ScoreEntry, len(r.entries))
	copy(entries, r.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries, nil
}
