package postgres

import (
	"context"
	"fmt"

	"mathchallenger/internal/domain"
)

func (s *Store) AppendScore(ctx context.Context, user domain.User, score int, d domain.Difficulty) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO leaderboard (user_id, score, difficulty) VALUES ($1, $2, $3)`,
		user.ID, score, string(d))
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// TopScores orders by score descending; the serial id breaks ties in
// insertion order.
func (s *Store) TopScores(ctx context.Context) ([]domain.ScoreEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT l.id, l.user_id, u.username, l.score, l.difficulty, l.created_at
		 FROM leaderboard l JOIN users u ON u.id = l.user_id
		 ORDER BY l.score DESC, l.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("select scores: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.ScoreEntry, 0)
	for rows.Next() {
		var entry domain.ScoreEntry
		var difficulty string
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Username, &entry.Score, &difficulty, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		entry.Difficulty = domain.Difficulty(difficulty)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
