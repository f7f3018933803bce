package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"exam-grading-service/internal/app"
	"exam-grading-service/internal/domain"
	pginfra "exam-grading-service/internal/infra/postgres"
	pgmigrations "exam-grading-service/internal/infra/postgres/migrations"
	redisinfra "exam-grading-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestSubmitEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := openBun(pgURL)
	defer db.Close()
	migrateAndSeed(t, ctx, db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	users := pginfra.NewUserLoader(pool)
	quizzes := redisinfra.NewQuizCache(redisClient, pginfra.NewQuizLoader(pool), 5*time.Minute)
	store := pginfra.NewSubmissionStore(db)
	service := app.NewExamService(users, quizzes, store)

	receipt, err := service.Submit(ctx, app.SubmitRequest{
		UserID: "u1",
		QuizID: "quiz-1",
		Answers: []domain.SubmittedAnswer{
			{QuestionID: "q1", AnswerIDs: []string{"a2"}},
			{QuestionID: "q2", AnswerIDs: []string{"b1", "b3"}},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if receipt.UserEmail != "alice@example.com" || receipt.QuizTitle != "Arithmetic basics" {
		t.Fatalf("unexpected receipt summary %+v", receipt)
	}
	if receipt.TotalQuestions != 2 || receipt.CorrectCount != 2 || receipt.AchievedScore != 20 || !receipt.Passed {
		t.Fatalf("unexpected evaluation %+v", receipt.Result)
	}

	count, err := store.CountForQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 persisted submission, got %d", count)
	}

	// Second call grades from the Redis-cached aggregate and appends another row.
	if _, err := service.Submit(ctx, app.SubmitRequest{UserID: "u1", QuizID: "quiz-1"}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	count, err = store.CountForQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 persisted submissions, got %d", count)
	}
}

func openBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func migrateAndSeed(t *testing.T, ctx context.Context, db *bun.DB) {
	t.Helper()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	statements := []string{
		`INSERT INTO users (id, email, full_name, active) VALUES ('u1', 'alice@example.com', 'Alice Nguyen', TRUE)`,
		`INSERT INTO quizzes (id, title, description, duration_minutes, active) VALUES ('quiz-1', 'Arithmetic basics', 'warm-up quiz', 15, TRUE)`,
		`INSERT INTO questions (id, content, type, score) VALUES
			('q1', 'What is 2 + 2?', 'SINGLE_CHOICE', 10),
			('q2', 'Which of these are even?', 'MULTIPLE_CHOICE', 10)`,
		`INSERT INTO answers (id, question_id, content, is_correct) VALUES
			('a1', 'q1', '3', FALSE),
			('a2', 'q1', '4', TRUE),
			('a3', 'q1', '5', FALSE),
			('b1', 'q2', '2', TRUE),
			('b2', 'q2', '3', FALSE),
			('b3', 'q2', '4', TRUE)`,
		`INSERT INTO quiz_questions (quiz_id, question_id, position) VALUES
			('quiz-1', 'q1', 0),
			('quiz-1', 'q2', 1)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "exam", "POSTGRES_PASSWORD": "exampass", "POSTGRES_DB": "examdb"},
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
	dsn := fmt.Sprintf("postgres://exam:exampass@%s:%s/examdb?sslmode=disable", host, port.Port())
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
