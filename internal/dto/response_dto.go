package dto

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type CreatedResponse struct {
	Success bool `json:"success"`
	ID      uint `json:"id"`
}

type DeletedResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	DeletedID uint   `json:"deletedId"`
}

type StartSessionResponse struct {
	SessionID       uint   `json:"sessionId"`
	SessionToken    string `json:"sessionToken"`
	DurationMinutes int    `json:"durationMinutes"`
}

// SessionStatusDTO describes a session looked up by its token.
type SessionStatusDTO struct {
	SessionID       uint       `json:"sessionId"`
	TestID          uint       `json:"testId"`
	StudentName     string     `json:"studentName"`
	StudentEmail    string     `json:"studentEmail"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	Completed       bool       `json:"completed"`
	AnsweredCount   int        `json:"answeredCount"`
	DurationMinutes int        `json:"durationMinutes"`
}

type ReviewAnswerDTO struct {
	ID          uint   `json:"id"`
	AnswerText  string `json:"answerText"`
	IsCorrect   bool   `json:"isCorrect"`
	AnswerOrder int    `json:"answerOrder"`
}

// QuestionReviewDTO is one entry of detailedResults.
type QuestionReviewDTO struct {
	QuestionID        uint              `json:"questionId"`
	QuestionText      string            `json:"questionText"`
	QuestionOrder     int               `json:"questionOrder"`
	UserAnswerID      *uint             `json:"userAnswerId"`
	UserAnswerCorrect *bool             `json:"userAnswerCorrect"`
	CorrectAnswerIDs  []uint            `json:"correctAnswerIds"`
	AllAnswers        []ReviewAnswerDTO `json:"allAnswers"`
}

type FinishSessionResponse struct {
	Success         bool                `json:"success"`
	ScorePercentage float64             `json:"scorePercentage"`
	CorrectAnswers  int                 `json:"correctAnswers"`
	TotalQuestions  int                 `json:"totalQuestions"`
	Passed          bool                `json:"passed"`
	DetailedResults []QuestionReviewDTO `json:"detailedResults"`
}

// SessionSummaryDTO is a history row.
type SessionSummaryDTO struct {
	ID               uint       `json:"id"`
	TestID           uint       `json:"testId"`
	TestTitle        string     `json:"testTitle"`
	PassingThreshold int        `json:"passingThreshold"`
	StudentName      string     `json:"studentName"`
	StudentEmail     string     `json:"studentEmail"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt"`
	ScorePercentage  *float64   `json:"scorePercentage"`
	CorrectAnswers   *int       `json:"correctAnswers"`
	TotalQuestions   *int       `json:"totalQuestions"`
	TimeTakenSeconds *int       `json:"timeTakenSeconds"`
	Passed           *bool      `json:"passed"`
}

type SessionDetailDTO struct {
	Session         SessionSummaryDTO   `json:"session"`
	DetailedResults []QuestionReviewDTO `json:"detailedResults"`
}
