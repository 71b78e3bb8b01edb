package model

import (
	"time"
)

// Answer is one selectable option of a Question.
type Answer struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	QuestionID  uint      `json:"questionId" gorm:"not null;uniqueIndex:idx_answers_question_order"`
	AnswerText  string    `json:"answerText" gorm:"type:text;not null"`
	IsCorrect   bool      `json:"isCorrect" gorm:"not null;default:false"`
	AnswerOrder int       `json:"answerOrder" gorm:"not null;uniqueIndex:idx_answers_question_order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
