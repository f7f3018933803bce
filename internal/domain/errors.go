package domain

import "errors"

var (
	// ErrUserNotFound is returned when the submitting user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrQuizNotFound is returned when the quiz aggregate could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizInactive rejects submissions against a deactivated quiz.
	ErrQuizInactive = errors.New("quiz is inactive")
	// ErrQuizHasNoQuestions rejects a quiz that cannot be graded at all.
	ErrQuizHasNoQuestions = errors.New("quiz has no questions")
	// ErrNoGradablePoints rejects a quiz whose questions sum to zero points.
	ErrNoGradablePoints = errors.New("quiz has no gradable points")
	// ErrMissingAnswerKey rejects a question with no option marked correct.
	ErrMissingAnswerKey = errors.New("question has no correct answer marked")
	// ErrSubmissionFailed wraps persistence failures from the submission store.
	ErrSubmissionFailed = errors.New("submission could not be recorded")
)

// IsNotFound reports whether err identifies a missing user or quiz.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrQuizNotFound)
}

// IsValidation reports whether err rejects the submission as ungradable
// rather than signaling an infrastructure failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrQuizInactive) ||
		errors.Is(err, ErrQuizHasNoQuestions) ||
		errors.Is(err, ErrNoGradablePoints) ||
		errors.Is(err, ErrMissingAnswerKey)
}
