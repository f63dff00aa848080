package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"mathchallenger/internal/app"
	"mathchallenger/internal/config"
	"mathchallenger/internal/domain"
	"mathchallenger/internal/infra/memory"
	"mathchallenger/internal/infra/postgres"
)

// NewSeedCmd loads demo accounts and a beginner question set so a fresh
// deployment is playable immediately.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed demo users and beginner questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewStore(pool)
	users := app.NewUserService(store, memory.NewTokenStore(time.Minute))
	questions := app.NewQuestionService(store, memory.NewQuestionCache(store, time.Minute))

	teacher, err := users.Register(ctx, "teacher1", "password123", "teacher")
	if err != nil {
		if !errors.Is(err, domain.ErrUsernameTaken) {
			return err
		}
		teacher, err = store.UserByUsername(ctx, "teacher1")
		if err != nil {
			return err
		}
	}
	if _, err := users.Register(ctx, "student1", "password123", "student"); err != nil && !errors.Is(err, domain.ErrUsernameTaken) {
		return err
	}

	seeded := 0
	for _, in := range beginnerQuestions() {
		if _, err := questions.AddQuestion(ctx, teacher, in); err != nil {
			return err
		}
		seeded++
	}
	log.Printf("seeded %d beginner questions", seeded)
	return nil
}

func beginnerQuestions() []domain.QuestionInput {
	return []domain.QuestionInput{
		{Text: "What is 2 + 2?", Options: [4]string{"3", "4", "5", "6"}, Answer: "4", Difficulty: "beginner"},
		{Text: "What is 10 * 5?", Options: [4]string{"40", "50", "60", "70"}, Answer: "50", Difficulty: "beginner"},
		{Text: "What is 100 / 10?", Options: [4]string{"10", "20", "30", "40"}, Answer: "10", Difficulty: "beginner"},
		{Text: "What is 5 - 3?", Options: [4]string{"1", "2", "3", "4"}, Answer: "2", Difficulty: "beginner"},
	}
}
