package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"mathchallenger/internal/app"
	"mathchallenger/internal/domain"
	"mathchallenger/internal/infra/postgres"
	pgmigrations "mathchallenger/internal/infra/postgres/migrations"
	redisinfra "mathchallenger/internal/infra/redis"
)

func TestQuizFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	store := postgres.NewStore(pool)
	cache := redisinfra.NewQuestionCache(redisClient, store, 5*time.Minute)
	board := app.NewBroadcaster()

	users := app.NewUserService(store, redisinfra.NewTokenStore(redisClient, 5*time.Minute))
	questions := app.NewQuestionService(store, cache)
	quizzes := app.NewQuizService(cache, redisinfra.NewAttemptStore(redisClient, 5*time.Minute), store, store, board)

	teacher, err := users.Register(ctx, "teacher1", "password123", "teacher")
	if err != nil {
		t.Fatalf("register teacher: %v", err)
	}
	student, err := users.Register(ctx, "student1", "password123", "student")
	if err != nil {
		t.Fatalf("register student: %v", err)
	}

	for _, in := range []domain.QuestionInput{
		{Text: "What is 2 + 2?", Options: [4]string{"3", "4", "5", "6"}, Answer: "4", Difficulty: "beginner"},
		{Text: "What is 5 - 3?", Options: [4]string{"1", "2", "3", "4"}, Answer: "2", Difficulty: "beginner"},
	} {
		if _, err := questions.AddQuestion(ctx, teacher, in); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}

	// First attempt: all correct.
	attempt, err := quizzes.StartQuiz(ctx, student, domain.Beginner)
	if err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	answers := make(map[string]string, len(attempt.Questions))
	for _, q := range attempt.Questions {
		answers[q.Text] = q.Answer
	}
	result, err := quizzes.SubmitQuiz(ctx, student, attempt.ID, answers)
	if err != nil {
		t.Fatalf("submit quiz: %v", err)
	}
	if result.Score != 20 || result.Percent != 100 || result.Correct != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Second attempt: all wrong, so the statistic decays to floor((100+0)/2).
	attempt, err = quizzes.StartQuiz(ctx, student, domain.Beginner)
	if err != nil {
		t.Fatalf("start quiz 2: %v", err)
	}
	if _, err := quizzes.SubmitQuiz(ctx, student, attempt.ID, map[string]string{}); err != nil {
		t.Fatalf("submit quiz 2: %v", err)
	}

	boardSnapshot, err := quizzes.TopScores(ctx)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(boardSnapshot.Entries) != 2 || boardSnapshot.Entries[0].Score != 20 || boardSnapshot.Entries[1].Score != 0 {
		t.Fatalf("unexpected leaderboard: %+v", boardSnapshot.Entries)
	}

	stats, err := store.StatisticsByDifficulty(ctx, domain.Beginner)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if len(stats) != 1 || stats[0].Average != 50 || stats[0].Entries != 2 {
		t.Fatalf("expected decayed statistic {50,2}, got %+v", stats)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
