package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"exam-grading-service/internal/domain"
)

func TestStaticUserDirectory(t *testing.T) {
	dir := NewStaticUserDirectory(map[string]domain.User{
		"u1": {ID: "u1", Email: "alice@example.com", FullName: "Alice", Active: true},
	})

	user, err := dir.UserByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}

	_, err = dir.UserByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSubmissionLogAppendsOnly(t *testing.T) {
	log := NewSubmissionLog()

	for i, id := range []string{"s1", "s2"} {
		sub := &domain.Submission{ID: id, UserID: "u1", QuizID: "quiz-1", Score: float64(i * 10), SubmissionTime: time.Now()}
		if err := log.Create(context.Background(), sub); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	records := log.Submissions()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "s1" || records[1].ID != "s2" {
		t.Fatalf("expected insertion order, got %+v", records)
	}
}
