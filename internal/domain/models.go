package domain

import "time"

// QuestionType selects the matching rule applied when grading a question.
type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// AnswerOption is a selectable choice for a question. Only the grading engine
// ever sees the Correct flag; it is stripped before quizzes reach clients.
type AnswerOption struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Correct bool   `json:"isCorrect"`
}

// Question is a gradable prompt with its full answer key attached.
type Question struct {
	ID      string         `json:"id"`
	Content string         `json:"content"`
	Type    QuestionType   `json:"type"`
	Score   int            `json:"score"` // non-negative point value
	Answers []AnswerOption `json:"answers"`
}

// Quiz is a fully hydrated aggregate: every question carries its answer
// options. Loaders must return it in one call; nothing is fetched lazily.
type Quiz struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	Active          bool       `json:"active"`
	Questions       []Question `json:"questions"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// User is the learner summary needed for a submission receipt.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Active   bool   `json:"active"`
}

// Submission is one grading event. Rows are append-only: created once per
// successful submit, never updated or deleted.
type Submission struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	QuizID         string    `json:"quizId"`
	Score          float64   `json:"score"`
	SubmissionTime time.Time `json:"submissionTime"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SubmittedAnswer pairs a question with the learner's selected option ids.
// Unanswered questions may simply be absent from the request.
type SubmittedAnswer struct {
	QuestionID string   `json:"questionId"`
	AnswerIDs  []string `json:"answerIds"`
}
