package memory

import (
	"context"
	"fmt"
	"sync"

	"exam-grading-service/internal/domain"
)

// StaticUserDirectory serves users from an in-memory map (tests/demo mode).
type StaticUserDirectory struct {
	users map[string]domain.User
}

func NewStaticUserDirectory(users map[string]domain.User) *StaticUserDirectory {
	return &StaticUserDirectory{users: users}
}

func (d *StaticUserDirectory) UserByID(_ context.Context, userID string) (domain.User, error) {
	if user, ok := d.users[userID]; ok {
		return user, nil
	}
	return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
}

// StaticQuizLoader is a loader backed by an in-memory map. Quizzes are stored
// fully hydrated, so a load already satisfies the eager-aggregate contract.
type StaticQuizLoader struct {
	quizzes map[string]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
}

// SubmissionLog is an append-only in-memory submission store.
type SubmissionLog struct {
	mu      sync.RWMutex
	records []domain.Submission
}

func NewSubmissionLog() *SubmissionLog {
	return &SubmissionLog{}
}

func (s *SubmissionLog) Create(_ context.Context, sub *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *sub)
	return nil
}

// Submissions returns a copy of every recorded submission in insertion order.
func (s *SubmissionLog) Submissions() []domain.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Submission, len(s.records))
	copy(out, s.records)
	return out
}
