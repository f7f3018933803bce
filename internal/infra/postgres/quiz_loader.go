package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"exam-grading-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuizLoader hydrates the whole quiz aggregate from Postgres in one query.
// Grading must see a consistent snapshot of every question and its answer
// options, so the join fetches everything at once instead of per-question.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT z.id, z.title, z.description, z.duration_minutes, z.active,
		       z.created_at, z.updated_at,
		       q.id, q.content, q.type, q.score,
		       a.id, a.content, a.is_correct
		FROM quizzes z
		LEFT JOIN quiz_questions zq ON zq.quiz_id = z.id
		LEFT JOIN questions q ON q.id = zq.question_id
		LEFT JOIN answers a ON a.question_id = q.id
		WHERE z.id = $1
		ORDER BY zq.position, q.id, a.id`, quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	defer rows.Close()

	var (
		quiz  domain.Quiz
		found bool
		index = map[string]int{} // question id -> position in quiz.Questions
	)
	for rows.Next() {
		var (
			questionID, questionContent, questionType sql.NullString
			questionScore                             sql.NullInt32
			answerID, answerContent                   sql.NullString
			answerCorrect                             sql.NullBool
			description                               sql.NullString
		)
		err := rows.Scan(
			&quiz.ID, &quiz.Title, &description, &quiz.DurationMinutes, &quiz.Active,
			&quiz.CreatedAt, &quiz.UpdatedAt,
			&questionID, &questionContent, &questionType, &questionScore,
			&answerID, &answerContent, &answerCorrect,
		)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("scan quiz row: %w", err)
		}
		found = true
		quiz.Description = description.String

		if !questionID.Valid {
			continue // quiz without questions
		}
		pos, ok := index[questionID.String]
		if !ok {
			pos = len(quiz.Questions)
			index[questionID.String] = pos
			quiz.Questions = append(quiz.Questions, domain.Question{
				ID:      questionID.String,
				Content: questionContent.String,
				Type:    domain.QuestionType(questionType.String),
				Score:   int(questionScore.Int32),
			})
		}
		if answerID.Valid {
			quiz.Questions[pos].Answers = append(quiz.Questions[pos].Answers, domain.AnswerOption{
				ID:      answerID.String,
				Content: answerContent.String,
				Correct: answerCorrect.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Quiz{}, fmt.Errorf("read quiz rows: %w", err)
	}
	if !found {
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
	}
	return quiz, nil
}
