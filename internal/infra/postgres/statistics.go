package postgres

import (
	"context"
	"fmt"

	"mathchallenger/internal/domain"
)

// FoldAttempt upserts the (user, difficulty) record in a single statement.
// Postgres evaluates the conflict branch atomically per row, so two
// concurrent submissions cannot lose an update. Integer division keeps the
// historical floor((average+percent)/2) fold.
func (s *Store) FoldAttempt(ctx context.Context, user domain.User, d domain.Difficulty, percent int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO statistics (user_id, difficulty, average, entries)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (user_id, difficulty)
		 DO UPDATE SET average = (statistics.average + EXCLUDED.average) / 2,
		               entries = statistics.entries + 1`,
		user.ID, string(d), percent)
	if err != nil {
		return fmt.Errorf("fold statistic: %w", err)
	}
	return nil
}

func (s *Store) StatisticsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Statistic, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT s.user_id, u.username, s.average, s.entries
		 FROM statistics s JOIN users u ON u.id = s.user_id
		 WHERE s.difficulty = $1
		 ORDER BY s.average DESC, u.username ASC`, string(d))
	if err != nil {
		return nil, fmt.Errorf("select statistics: %w", err)
	}
	defer rows.Close()

	stats := make([]domain.Statistic, 0)
	for rows.Next() {
		stat := domain.Statistic{Difficulty: d}
		if err := rows.Scan(&stat.UserID, &stat.Username, &stat.Average, &stat.Entries); err != nil {
			return nil, fmt.Errorf("scan statistic: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}
