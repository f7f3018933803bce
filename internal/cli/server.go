package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exam-grading-service/internal/app"
	"exam-grading-service/internal/config"
	"exam-grading-service/internal/domain"
	"exam-grading-service/internal/infra/memory"
	pginfra "exam-grading-service/internal/infra/postgres"
	redisinfra "exam-grading-service/internal/infra/redis"
	transport "exam-grading-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the exam grading server",
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
	quizTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)

	var (
		users       app.UserLookup
		quizzes     app.QuizLookup
		submissions app.SubmissionStore
		quizLoader  memory.QuizLoader
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())

		users = pginfra.NewUserLoader(pool)
		quizLoader = pginfra.NewQuizLoader(pool)
		submissions = pginfra.NewSubmissionStore(db)
	} else {
		log.Printf("no postgres configured, using in-memory sample data")
		users = memory.NewStaticUserDirectory(sampleUsers())
		quizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
		submissions = memory.NewSubmissionLog()
	}

	if redisClient != nil {
		quizzes = redisinfra.NewQuizCache(redisClient, quizLoader, quizTTL)
	} else {
		quizzes = memory.NewQuizCache(quizLoader, quizTTL)
	}

	service := app.NewExamService(users, quizzes, submissions)
	examHandler := transport.NewExamHandler(service)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/v1/exam/submit", examHandler.ServeSubmit)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting exam grading service on :%s", finalPort)
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

// sampleUsers and sampleQuizzes seed demo mode when no database is configured.
func sampleUsers() map[string]domain.User {
	return map[string]domain.User{
		"u1": {ID: "u1", Email: "alice@example.com", FullName: "Alice Nguyen", Active: true},
	}
}

func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:     "quiz-1",
			Title:  "Arithmetic basics",
			Active: true,
			Questions: []domain.Question{
				{
					ID:      "q1",
					Content: "What is 2 + 2?",
					Type:    domain.SingleChoice,
					Score:   10,
					Answers: []domain.AnswerOption{
						{ID: "a1", Content: "3"},
						{ID: "a2", Content: "4", Correct: true},
						{ID: "a3", Content: "5"},
					},
				},
				{
					ID:      "q2",
					Content: "Which of these are even?",
					Type:    domain.MultipleChoice,
					Score:   10,
					Answers: []domain.AnswerOption{
						{ID: "b1", Content: "2", Correct: true},
						{ID: "b2", Content: "3"},
						{ID: "b3", Content: "4", Correct: true},
					},
				},
			},
		},
	}
}
