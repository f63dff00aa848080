package app

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"mathchallenger/internal/domain"
)

// QuestionSource is the read path the quiz flow uses (normally a cache
// in front of the question repository).
type QuestionSource interface {
	QuestionsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Question, error)
}

// AttemptStore holds presented-but-ungraded attempts. Take removes the
// attempt so grading is terminal: a second submit misses.
type AttemptStore interface {
	Put(ctx context.Context, attempt domain.Attempt) error
	Take(ctx context.Context, id string) (domain.Attempt, error)
}

// LeaderboardRepository is the append-only score log.
type LeaderboardRepository interface {
	AppendScore(ctx context.Context, user domain.User, score int, d domain.Difficulty) error
	TopScores(ctx context.Context) ([]domain.ScoreEntry, error)
}

// StatisticRepository folds graded attempts into the per (user, difficulty)
// decaying average. FoldAttempt must be atomic per key.
type StatisticRepository interface {
	FoldAttempt(ctx context.Context, user domain.User, d domain.Difficulty, percent int) error
	StatisticsByDifficulty(ctx context.Context, d domain.Difficulty) ([]domain.Statistic, error)
}

const pointsPerQuestion = 10

// QuizService drives the attempt lifecycle: present a shuffled question set,
// grade the submission, and record the side effects.
type QuizService struct {
	questions   QuestionSource
	attempts    AttemptStore
	leaderboard LeaderboardRepository
	stats       StatisticRepository
	board       *Broadcaster
	now         func() time.Time
}

func NewQuizService(questions QuestionSource, attempts AttemptStore, leaderboard LeaderboardRepository, stats StatisticRepository, board *Broadcaster) *QuizService {
	return &QuizService{
		questions:   questions,
		attempts:    attempts,
		leaderboard: leaderboard,
		stats:       stats,
		board:       board,
		now:         time.Now,
	}
}

// StartQuiz fetches the bucket, shuffles it, and parks the attempt until
// submission. Only students play. An empty bucket is ErrNoQuestions rather
// than a zero-question attempt, so grading can never divide by zero.
func (s *QuizService) StartQuiz(ctx context.Context, actor domain.User, d domain.Difficulty) (domain.Attempt, error) {
	if actor.Role != domain.RoleStudent {
		return domain.Attempt{}, domain.ErrRoleForbidden
	}

	questions, err := s.questions.QuestionsByDifficulty(ctx, d)
	if err != nil {
		return domain.Attempt{}, err
	}
	if len(questions) == 0 {
		return domain.Attempt{}, domain.ErrNoQuestions
	}

	shuffled := make([]domain.Question, len(questions))
	copy(shuffled, questions)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	attempt := domain.Attempt{
		ID:         uuid.NewString(),
		UserID:     actor.ID,
		Difficulty: d,
		Questions:  shuffled,
		StartedAt:  s.now(),
	}
	if err := s.attempts.Put(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	return attempt, nil
}

// SubmitQuiz grades the attempt against the submitted answers, appends the
// leaderboard entry, folds the statistic, and publishes the refreshed board.
// Answers map question text to the chosen option text; a missing entry is
// simply a wrong answer.
func (s *QuizService) SubmitQuiz(ctx context.Context, actor domain.User, attemptID string, answers map[string]string) (domain.Result, error) {
	if actor.Role != domain.RoleStudent {
		return domain.Result{}, domain.ErrRoleForbidden
	}

	attempt, err := s.attempts.Take(ctx, attemptID)
	if err != nil {
		return domain.Result{}, err
	}
	if attempt.UserID != actor.ID {
		// Never grade someone else's attempt; indistinguishable from a miss.
		return domain.Result{}, domain.ErrAttemptNotFound
	}

	result := grade(attempt.Questions, answers)

	if err := s.leaderboard.AppendScore(ctx, actor, result.Score, attempt.Difficulty); err != nil {
		return domain.Result{}, err
	}
	if err := s.stats.FoldAttempt(ctx, actor, attempt.Difficulty, result.Percent); err != nil {
		return domain.Result{}, err
	}
	s.publishLeaderboard(ctx)

	return result, nil
}

// TopScores returns every recorded score, highest first, ties in insertion order.
func (s *QuizService) TopScores(ctx context.Context) (domain.Leaderboard, error) {
	entries, err := s.leaderboard.TopScores(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return domain.Leaderboard{Entries: entries, UpdatedAt: s.now()}, nil
}

// Participants buckets every statistic record by difficulty.
func (s *QuizService) Participants(ctx context.Context) (map[domain.Difficulty][]domain.Statistic, error) {
	out := make(map[domain.Difficulty][]domain.Statistic, len(domain.Difficulties()))
	for _, d := range domain.Difficulties() {
		stats, err := s.stats.StatisticsByDifficulty(ctx, d)
		if err != nil {
			return nil, err
		}
		out[d] = stats
	}
	return out, nil
}

func (s *QuizService) publishLeaderboard(ctx context.Context) {
	if s.board == nil {
		return
	}
	board, err := s.TopScores(ctx)
	if err != nil {
		log.Printf("leaderboard snapshot failed: %v", err)
		return
	}
	s.board.Publish(board)
}

// grade scores each presented question at 10 points for an exact match on
// the correct option. Percent keeps the historical formula
// round(score/total*10), which lands on the 0-100 scale for 10-point questions.
func grade(questions []domain.Question, answers map[string]string) domain.Result {
	var result domain.Result
	for _, q := range questions {
		result.Total++
		if answers[q.Text] == q.Answer {
			result.Correct++
			result.Score += pointsPerQuestion
		} else {
			result.Wrong++
		}
	}
	result.Percent = int(math.Round(float64(result.Score) / float64(result.Total) * 10))
	return result
}
