package postgres

import (
	"context"
	"fmt"

	"mathchallenger/internal/domain"
)

func (s *Store) AddQuestion(ctx context.Context, q domain.Question) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO questions (id, text, op1, op2, op3, op4, answer, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID, q.Text, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.Answer, string(q.Difficulty))
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (s *Store) QuestionsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, text, op1, op2, op3, op4, answer, difficulty
		 FROM questions WHERE difficulty = $1`, string(d))
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var q domain.Question
		var difficulty string
		if err := rows.Scan(&q.ID, &q.Text, &q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3], &q.Answer, &difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Difficulty = domain.Difficulty(difficulty)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) DeleteByDifficulty(ctx context.Context, d domain.Difficulty) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE difficulty = $1`, string(d))
	if err != nil {
		return 0, fmt.Errorf("delete questions: %w", err)
	}
	return tag.RowsAffected(), nil
}
