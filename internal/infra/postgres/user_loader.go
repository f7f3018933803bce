package postgres

import (
	"context"
	"errors"
	"fmt"

	"exam-grading-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// UserLoader resolves learner summaries from Postgres.
type UserLoader struct {
	pool *pgxpool.Pool
}

func NewUserLoader(pool *pgxpool.Pool) *UserLoader {
	return &UserLoader{pool: pool}
}

func (l *UserLoader) UserByID(ctx context.Context, userID string) (domain.User, error) {
	var user domain.User
	err := l.pool.QueryRow(ctx,
		`SELECT id, email, full_name, active FROM users WHERE id = $1`, userID).
		Scan(&user.ID, &user.Email, &user.FullName, &user.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
