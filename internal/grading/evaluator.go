package grading

import (
	"fmt"

	"exam-grading-service/internal/domain"
)

// PassThresholdPercent is the inclusive percentage at which a submission
// counts as passed.
const PassThresholdPercent = 50.0

// QuestionResult is the per-question verdict, in quiz order.
type QuestionResult struct {
	QuestionID   string   `json:"questionId"`
	Content      string   `json:"content"`
	Score        int      `json:"score"`
	Correct      bool     `json:"isCorrect"`
	SubmittedIDs []string `json:"submittedAnswerIds"`
	CorrectIDs   []string `json:"correctAnswerIds"`
}

// Result aggregates a full grading pass over one quiz.
type Result struct {
	TotalQuestions int              `json:"totalQuestions"`
	CorrectCount   int              `json:"correctCount"`
	WrongCount     int              `json:"wrongCount"`
	TotalScore     float64          `json:"totalScore"`
	AchievedScore  float64          `json:"achievedScore"`
	Percentage     float64          `json:"percentage"`
	Passed         bool             `json:"passed"`
	Questions      []QuestionResult `json:"questionResults"`
}

// Evaluate grades submitted answers against the quiz questions. It is pure:
// identical inputs always produce an identical Result. Questions must arrive
// fully hydrated, with every answer option and its correctness flag resolved.
//
// Matching rules:
//   - SINGLE_CHOICE: correct iff exactly one id was submitted and it is one
//     of the correct option ids. Zero or multiple selections are wrong, even
//     when one of them is right. Duplicates count toward the size, so
//     [a1, a1] is wrong.
//   - MULTIPLE_CHOICE: correct iff the submitted set equals the correct set,
//     ignoring order and duplicates. Missing or extra selections are wrong.
//
// Questions absent from submitted are graded as empty selections.
func Evaluate(questions []domain.Question, submitted map[string][]string) (Result, error) {
	if len(questions) == 0 {
		return Result{}, domain.ErrQuizHasNoQuestions
	}

	res := Result{
		TotalQuestions: len(questions),
		Questions:      make([]QuestionResult, 0, len(questions)),
	}

	for _, q := range questions {
		res.TotalScore += float64(q.Score)

		correctIDs := correctOptionIDs(q)
		if len(correctIDs) == 0 {
			return Result{}, fmt.Errorf("%w: %s", domain.ErrMissingAnswerKey, q.ID)
		}

		submittedIDs := submitted[q.ID]
		correct := matches(q.Type, submittedIDs, correctIDs)

		if correct {
			res.AchievedScore += float64(q.Score)
			res.CorrectCount++
		} else {
			res.WrongCount++
		}

		if submittedIDs == nil {
			submittedIDs = []string{}
		}
		res.Questions = append(res.Questions, QuestionResult{
			QuestionID:   q.ID,
			Content:      q.Content,
			Score:        q.Score,
			Correct:      correct,
			SubmittedIDs: submittedIDs,
			CorrectIDs:   correctIDs,
		})
	}

	if res.TotalScore == 0 {
		return Result{}, domain.ErrNoGradablePoints
	}

	res.Percentage = res.AchievedScore / res.TotalScore * 100
	res.Passed = res.Percentage >= PassThresholdPercent
	return res, nil
}

func matches(qType domain.QuestionType, submittedIDs, correctIDs []string) bool {
	if qType == domain.SingleChoice {
		return len(submittedIDs) == 1 && contains(correctIDs, submittedIDs[0])
	}
	return setEqual(toSet(submittedIDs), toSet(correctIDs))
}

func correctOptionIDs(q domain.Question) []string {
	ids := make([]string, 0, len(q.Answers))
	for _, opt := range q.Answers {
		if opt.Correct {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
