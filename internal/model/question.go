package model

import (
	"time"
)

type Question struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	TestID        uint      `json:"testId" gorm:"not null;uniqueIndex:idx_questions_test_order"`
	QuestionText  string    `json:"questionText" gorm:"type:text;not null"`
	QuestionOrder int       `json:"questionOrder" gorm:"not null;uniqueIndex:idx_questions_test_order"`
	Answers       []Answer  `json:"answers,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
