package app

import (
	"context"
	"fmt"
	"time"

	"exam-grading-service/internal/domain"
	"exam-grading-service/internal/grading"
	"github.com/google/uuid"
)

// UserLookup resolves the submitting learner.
type UserLookup interface {
	UserByID(ctx context.Context, userID string) (domain.User, error)
}

// QuizLookup loads the full quiz aggregate, questions and answer options
// included, in a single call. Implementations must never defer option
// loading: grading reads the whole answer key up front.
type QuizLookup interface {
	QuizWithQuestions(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SubmissionStore durably records submissions. Create is append-only and must
// be atomic: either the row lands or nothing is written.
type SubmissionStore interface {
	Create(ctx context.Context, sub *domain.Submission) error
}

// SubmitRequest is the transport-agnostic submission payload.
type SubmitRequest struct {
	UserID  string                   `json:"userId"`
	QuizID  string                   `json:"quizId"`
	Answers []domain.SubmittedAnswer `json:"answers"`
}

// Receipt combines submission identity, user and quiz summaries, and the
// complete evaluation breakdown.
type Receipt struct {
	SubmissionID   string    `json:"submissionId"`
	UserID         string    `json:"userId"`
	UserEmail      string    `json:"userEmail"`
	UserFullName   string    `json:"userFullName"`
	QuizID         string    `json:"quizId"`
	QuizTitle      string    `json:"quizTitle"`
	SubmissionTime time.Time `json:"submissionTime"`
	grading.Result
}

// ExamService orchestrates one grading event: load the aggregates, evaluate,
// persist exactly one submission record, shape the receipt. Each call is an
// independent unit of work; resubmission is unlimited and each attempt
// produces its own row.
type ExamService struct {
	users       UserLookup
	quizzes     QuizLookup
	submissions SubmissionStore
	now         func() time.Time
	newID       func() string
}

func NewExamService(users UserLookup, quizzes QuizLookup, submissions SubmissionStore) *ExamService {
	return NewExamServiceWithClock(users, quizzes, submissions, time.Now, uuid.NewString)
}

// NewExamServiceWithClock is test-only for deterministic timestamps and ids.
func NewExamServiceWithClock(users UserLookup, quizzes QuizLookup, submissions SubmissionStore, now func() time.Time, newID func() string) *ExamService {
	return &ExamService{
		users:       users,
		quizzes:     quizzes,
		submissions: submissions,
		now:         now,
		newID:       newID,
	}
}

// Submit grades the request and records the outcome. Quiz, question, and user
// state are never mutated; the only side effect is one submission row.
func (s *ExamService) Submit(ctx context.Context, req SubmitRequest) (Receipt, error) {
	user, err := s.users.UserByID(ctx, req.UserID)
	if err != nil {
		return Receipt{}, err
	}

	quiz, err := s.quizzes.QuizWithQuestions(ctx, req.QuizID)
	if err != nil {
		return Receipt{}, err
	}
	if !quiz.Active {
		return Receipt{}, fmt.Errorf("%w: %s", domain.ErrQuizInactive, quiz.ID)
	}
	if len(quiz.Questions) == 0 {
		return Receipt{}, fmt.Errorf("%w: %s", domain.ErrQuizHasNoQuestions, quiz.ID)
	}

	// Unanswered questions are absent from the map and grade as empty
	// selections, not as errors.
	submitted := make(map[string][]string, len(req.Answers))
	for _, answer := range req.Answers {
		submitted[answer.QuestionID] = answer.AnswerIDs
	}

	result, err := grading.Evaluate(quiz.Questions, submitted)
	if err != nil {
		return Receipt{}, err
	}

	now := s.now()
	sub := &domain.Submission{
		ID:             s.newID(),
		UserID:         user.ID,
		QuizID:         quiz.ID,
		Score:          result.AchievedScore,
		SubmissionTime: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}

	return Receipt{
		SubmissionID:   sub.ID,
		UserID:         user.ID,
		UserEmail:      user.Email,
		UserFullName:   user.FullName,
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		SubmissionTime: sub.SubmissionTime,
		Result:         result,
	}, nil
}
