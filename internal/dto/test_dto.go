package dto

import "time"

// TestSummaryDTO is used for listing tests available to students.
type TestSummaryDTO struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	DurationMinutes   int    `json:"durationMinutes"`
	PassingPercentage int    `json:"passingPercentage"`
}

// PublicAnswerDTO never carries the correctness flag.
type PublicAnswerDTO struct {
	ID          uint   `json:"id"`
	AnswerText  string `json:"answerText"`
	AnswerOrder int    `json:"answerOrder"`
}

type PublicQuestionDTO struct {
	ID            uint              `json:"id"`
	QuestionText  string            `json:"questionText"`
	QuestionOrder int               `json:"questionOrder"`
	Answers       []PublicAnswerDTO `json:"answers"`
}

// PublicTestDTO is the student's view of a test.
type PublicTestDTO struct {
	ID                uint                `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	DurationMinutes   int                 `json:"durationMinutes"`
	PassingPercentage int                 `json:"passingPercentage"`
	Questions         []PublicQuestionDTO `json:"questions"`
}

// --- Admin views, correctness included ---

type AdminAnswerDTO struct {
	ID          uint   `json:"id"`
	QuestionID  uint   `json:"questionId"`
	AnswerText  string `json:"answerText"`
	IsCorrect   bool   `json:"isCorrect"`
	AnswerOrder int    `json:"answerOrder"`
}

type AdminQuestionDTO struct {
	ID            uint             `json:"id"`
	TestID        uint             `json:"testId"`
	QuestionText  string           `json:"questionText"`
	QuestionOrder int              `json:"questionOrder"`
	Answers       []AdminAnswerDTO `json:"answers"`
}

type AdminTestDTO struct {
	ID                uint               `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	DurationMinutes   int                `json:"durationMinutes"`
	PassingPercentage int                `json:"passingPercentage"`
	IsActive          bool               `json:"isActive"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	Questions         []AdminQuestionDTO `json:"questions"`
}

type AdminTestSummaryDTO struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	DurationMinutes   int       `json:"durationMinutes"`
	PassingPercentage int       `json:"passingPercentage"`
	IsActive          bool      `json:"isActive"`
	QuestionsCount    int64     `json:"questionsCount"`
	SessionsCount     int64     `json:"sessionsCount"`
	CreatedAt         time.Time `json:"createdAt"`
}
