package app

import (
	"context"

	"github.com/google/uuid"

	"mathchallenger/internal/domain"
)

// QuestionRepository is the write/read surface of the question bank.
type QuestionRepository interface {
	AddQuestion(ctx context.Context, q domain.Question) error
	QuestionsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Question, error)
	DeleteByDifficulty(ctx context.Context, d domain.Difficulty) (int64, error)
}

// QuestionCache serves the hot read path and must be invalidated on writes.
type QuestionCache interface {
	QuestionsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Question, error)
	Invalidate(ctx context.Context, d domain.Difficulty) error
}

// QuestionService owns authoring and administrative cleanup of the bank.
type QuestionService struct {
	repo  QuestionRepository
	cache QuestionCache
}

func NewQuestionService(repo QuestionRepository, cache QuestionCache) *QuestionService {
	return &QuestionService{repo: repo, cache: cache}
}

// AddQuestion persists a new immutable question. Only teachers may author.
// Validation checks every field and reports all failures at once.
func (s *QuestionService) AddQuestion(ctx context.Context, actor domain.User, in domain.QuestionInput) (domain.Question, error) {
	if actor.Role != domain.RoleTeacher {
		return domain.Question{}, domain.ErrRoleForbidden
	}

	var errs domain.ValidationErrors

	emptyField := in.Text == ""
	matched := false
	for _, opt := range in.Options {
		if opt == "" {
			emptyField = true
		}
		if opt != "" && opt == in.Answer {
			matched = true
		}
	}
	if !matched {
		errs = append(errs, "submitted answer must match an option!")
	}
	if emptyField {
		errs = append(errs, "please enter values for all fields!")
	}

	difficulty, err := domain.ParseDifficulty(in.Difficulty)
	if err != nil {
		errs = append(errs, "please pick one of the four difficulties!")
	}
	if err := errs.OrNil(); err != nil {
		return domain.Question{}, err
	}

	question := domain.Question{
		ID:         uuid.NewString(),
		Text:       in.Text,
		Options:    in.Options,
		Answer:     in.Answer,
		Difficulty: difficulty,
	}
	if err := s.repo.AddQuestion(ctx, question); err != nil {
		return domain.Question{}, err
	}
	if err := s.cache.Invalidate(ctx, difficulty); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// QuestionsByDifficulty lists the bank for a bucket, answers included.
// Teacher-only; students see questions through quiz attempts.
func (s *QuestionService) QuestionsByDifficulty(ctx context.Context, actor domain.User, d domain.Difficulty) ([]domain.Question, error) {
	if actor.Role != domain.RoleTeacher {
		return nil, domain.ErrRoleForbidden
	}
	return s.repo.QuestionsByDifficulty(ctx, d)
}

// DeleteByDifficulty removes every question in a bucket. Administrative
// cleanup, gated to teachers.
func (s *QuestionService) DeleteByDifficulty(ctx context.Context, actor domain.User, d domain.Difficulty) (int64, error) {
	if actor.Role != domain.RoleTeacher {
		return 0, domain.ErrRoleForbidden
	}
	deleted, err := s.repo.DeleteByDifficulty(ctx, d)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(ctx, d); err != nil {
		return deleted, err
	}
	return deleted, nil
}
