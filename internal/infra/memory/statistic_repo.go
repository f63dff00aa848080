package memory

import (
	"context"
	"sync"

	"mathchallenger/internal/domain"
)

// StatisticRepo folds graded attempts into per (user, difficulty) records.
// The fold happens under the mutex, so concurrent submissions for the same
// key cannot lose an update.
type StatisticRepo struct {
	mu      sync.RWMutex
	records map[statKey]domain.Statistic
	order   []statKey
}

type statKey struct {
	userID     string
	difficulty domain.Difficulty
}

func NewStatisticRepo() *StatisticRepo {
	return &StatisticRepo{records: make(map[statKey]domain.Statistic)}
}

// FoldAttempt creates {percent, 1} on the first attempt, otherwise applies
// the decaying two-point average: floor((average+percent)/2).
func (r *StatisticRepo) FoldAttempt(_ context.Context, user domain.User, d domain.Difficulty, percent int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := statKey{userID: user.ID, difficulty: d}
	record, ok := r.records[key]
	if !ok {
		r.records[key] = domain.Statistic{
			UserID:     user.ID,
			Username:   user.Username,
			Difficulty: d,
			Average:    percent,
			Entries:    1,
		}
		r.order = append(r.order, key)
		return nil
	}

	record.Average = (record.Average + percent) / 2
	record.Entries++
	r.records[key] = record
	return nil
}

func (r *StatisticRepo) StatisticsByDifficulty(_ context.Context, d domain.Difficulty) ([]domain.Statistic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := make([]domain.Statistic, 0)
	for _, key := range r.order {
		if key.difficulty == d {
			stats = append(stats, r.records[key])
		}
	}
	return stats, nil
}
