package dto

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminProfileDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	Admin   AdminProfileDTO `json:"admin"`
}

// TestUpsertDTO creates or updates test metadata. IsActive is applied through
// the single-active activation step.
type TestUpsertDTO struct {
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description"`
	DurationMinutes   int    `json:"durationMinutes" binding:"required,min=1"`
	PassingPercentage int    `json:"passingPercentage" binding:"min=0,max=100"`
	IsActive          *bool  `json:"isActive"`
}

type QuestionUpsertDTO struct {
	QuestionText  string `json:"questionText" binding:"required"`
	QuestionOrder int    `json:"questionOrder" binding:"required,min=1"`
}

type AnswerUpsertDTO struct {
	AnswerText  string `json:"answerText" binding:"required"`
	IsCorrect   bool   `json:"isCorrect"`
	AnswerOrder int    `json:"answerOrder" binding:"required,min=1"`
}
