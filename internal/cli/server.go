package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"mathchallenger/internal/app"
	"mathchallenger/internal/config"
	"mathchallenger/internal/infra/memory"
	"mathchallenger/internal/infra/postgres"
	redisinfra "mathchallenger/internal/infra/redis"
	transport "mathchallenger/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	api := buildAPI(cfg, redisClient, pool)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting mathchallenger on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildAPI picks Postgres-or-memory repositories and Redis-or-memory stores
// from what the config provides.
func buildAPI(cfg config.Config, redisClient *redis.Client, pool *pgxpool.Pool) *transport.API {
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 12*time.Hour)
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	attemptTTL := config.TTLDuration(cfg.Quiz.AttemptTTL, 30*time.Minute)

	var (
		users       app.UserRepository
		questions   app.QuestionRepository
		leaderboard app.LeaderboardRepository
		stats       app.StatisticRepository
	)
	if pool != nil {
		store := postgres.NewStore(pool)
		users, questions, leaderboard, stats = store, store, store, store
	} else {
		users = memory.NewUserRepo()
		questions = memory.NewQuestionRepo()
		leaderboard = memory.NewLeaderboardRepo()
		stats = memory.NewStatisticRepo()
	}

	var cache app.QuestionCache
	var attempts app.AttemptStore
	var tokens app.TokenStore
	if redisClient != nil {
		cache = redisinfra.NewQuestionCache(redisClient, questions, cacheTTL)
		attempts = redisinfra.NewAttemptStore(redisClient, attemptTTL)
		tokens = redisinfra.NewTokenStore(redisClient, tokenTTL)
	} else {
		cache = memory.NewQuestionCache(questions, cacheTTL)
		attempts = memory.NewAttemptStore(attemptTTL)
		tokens = memory.NewTokenStore(tokenTTL)
	}

	board := app.NewBroadcaster()
	userService := app.NewUserService(users, tokens)
	questionService := app.NewQuestionService(questions, cache)
	quizService := app.NewQuizService(cache, attempts, leaderboard, stats, board)

	return transport.NewAPI(userService, questionService, quizService, board)
}
