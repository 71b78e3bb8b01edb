package model

import (
	"time"
)

// RecordedAnswer is the current choice for one question within one session.
// (session_id, question_id) is unique; a resubmission overwrites the row.
type RecordedAnswer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	SessionID  uint      `json:"sessionId" gorm:"not null;uniqueIndex:idx_recorded_answers_session_question"`
	QuestionID uint      `json:"questionId" gorm:"not null;uniqueIndex:idx_recorded_answers_session_question"`
	AnswerID   uint      `json:"answerId" gorm:"not null"`
	AnsweredAt time.Time `json:"answeredAt" gorm:"not null"`
}
