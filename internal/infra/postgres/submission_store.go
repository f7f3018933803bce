package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"exam-grading-service/internal/domain"
	"github.com/uptrace/bun"
)

// submissionRow maps domain.Submission onto the quiz_submissions table.
// Keeping the bun tags here leaves the domain package ORM-free.
type submissionRow struct {
	bun.BaseModel `bun:"table:quiz_submissions"`

	ID             string    `bun:"id,pk"`
	UserID         string    `bun:"user_id,notnull"`
	QuizID         string    `bun:"quiz_id,notnull"`
	Score          float64   `bun:"score,notnull"`
	SubmissionTime time.Time `bun:"submission_time,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

// SubmissionStore appends submission records. Create runs inside a
// transaction: the row either lands durably or nothing is written. There is
// no update or delete path.
type SubmissionStore struct {
	db *bun.DB
}

func NewSubmissionStore(db *bun.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) Create(ctx context.Context, sub *domain.Submission) error {
	row := &submissionRow{
		ID:             sub.ID,
		UserID:         sub.UserID,
		QuizID:         sub.QuizID,
		Score:          sub.Score,
		SubmissionTime: sub.SubmissionTime,
		CreatedAt:      sub.CreatedAt,
		UpdatedAt:      sub.UpdatedAt,
	}
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(row).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// CountForQuiz reports how many submissions a quiz has accumulated.
func (s *SubmissionStore) CountForQuiz(ctx context.Context, quizID string) (int, error) {
	count, err := s.db.NewSelect().
		Model((*submissionRow)(nil)).
		Where("quiz_id = ?", quizID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}
