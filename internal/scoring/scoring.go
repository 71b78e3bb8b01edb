// Package scoring computes exam results from a test's questions and the
// answers recorded for a session. It performs no I/O.
package scoring

import (
	"sort"

	"github.com/lshigami/examhall/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AnswerOption is an answer as shown once the exam is closed.
type AnswerOption struct {
	ID          uint
	AnswerText  string
	IsCorrect   bool
	AnswerOrder int
}

// QuestionReview is the per-question breakdown of a session.
type QuestionReview struct {
	QuestionID        uint
	QuestionText      string
	QuestionOrder     int
	UserAnswerID      *uint
	UserAnswerCorrect *bool
	CorrectAnswerIDs  []uint
	AllAnswers        []AnswerOption
}

type Result struct {
	ScorePercentage decimal.Decimal
	CorrectAnswers  int
	TotalQuestions  int
	Review          []QuestionReview
}

// Evaluate scores recorded answers against questions. Each question is
// credited at most once; when several recorded rows exist for one question the
// most recent wins. Recorded answers for questions outside the slice are
// ignored. The inputs are not modified.
func Evaluate(questions []model.Question, recorded []model.RecordedAnswer) Result {
	chosen := LatestByQuestion(recorded)
	ordered := sortedQuestions(questions)

	result := Result{
		TotalQuestions: len(ordered),
		Review:         make([]QuestionReview, 0, len(ordered)),
	}

	for _, q := range ordered {
		review := QuestionReview{
			QuestionID:       q.ID,
			QuestionText:     q.QuestionText,
			QuestionOrder:    q.QuestionOrder,
			CorrectAnswerIDs: []uint{},
			AllAnswers:       make([]AnswerOption, 0, len(q.Answers)),
		}

		correctIDs := make(map[uint]bool)
		for _, a := range sortedAnswers(q.Answers) {
			review.AllAnswers = append(review.AllAnswers, AnswerOption{
				ID:          a.ID,
				AnswerText:  a.AnswerText,
				IsCorrect:   a.IsCorrect,
				AnswerOrder: a.AnswerOrder,
			})
			if a.IsCorrect {
				correctIDs[a.ID] = true
				review.CorrectAnswerIDs = append(review.CorrectAnswerIDs, a.ID)
			}
		}

		if ra, ok := chosen[q.ID]; ok {
			answerID := ra.AnswerID
			isCorrect := correctIDs[answerID]
			review.UserAnswerID = &answerID
			review.UserAnswerCorrect = &isCorrect
			if isCorrect {
				result.CorrectAnswers++
			}
		}

		result.Review = append(result.Review, review)
	}

	result.ScorePercentage = Percentage(result.CorrectAnswers, result.TotalQuestions)
	return result
}

// Percentage returns correct/total*100 rounded half away from zero to two
// places. A test without questions scores zero.
func Percentage(correct, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(correct)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

// Passed reports whether score reaches the passing threshold (inclusive).
func Passed(score decimal.Decimal, passingPercentage int) bool {
	return score.GreaterThanOrEqual(decimal.NewFromInt(int64(passingPercentage)))
}

// LatestByQuestion collapses recorded answers to one per question id, keeping
// the latest AnsweredAt (ties broken by the higher row id).
func LatestByQuestion(recorded []model.RecordedAnswer) map[uint]model.RecordedAnswer {
	latest := make(map[uint]model.RecordedAnswer, len(recorded))
	for _, ra := range recorded {
		current, ok := latest[ra.QuestionID]
		if !ok ||
			ra.AnsweredAt.After(current.AnsweredAt) ||
			(ra.AnsweredAt.Equal(current.AnsweredAt) && ra.ID > current.ID) {
			latest[ra.QuestionID] = ra
		}
	}
	return latest
}

func sortedQuestions(questions []model.Question) []model.Question {
	out := make([]model.Question, len(questions))
	copy(out, questions)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].QuestionOrder != out[j].QuestionOrder {
			return out[i].QuestionOrder < out[j].QuestionOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortedAnswers(answers []model.Answer) []model.Answer {
	out := make([]model.Answer, len(answers))
	copy(out, answers)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AnswerOrder != out[j].AnswerOrder {
			return out[i].AnswerOrder < out[j].AnswerOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}
