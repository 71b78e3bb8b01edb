package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExamSession is one student's attempt at a Test. Score fields stay nil
// until the session is finalized.
type ExamSession struct {
	ID               uint                `gorm:"primarykey" json:"id"`
	SessionToken     string              `json:"-" gorm:"size:64;not null;uniqueIndex"`
	TestID           uint                `json:"testId" gorm:"not null;index"`
	Test             Test                `json:"test,omitempty" gorm:"foreignKey:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	StudentName      string              `json:"studentName" gorm:"not null"`
	StudentEmail     string              `json:"studentEmail" gorm:"not null;index"`
	CreatedAt        time.Time           `json:"createdAt"`
	CompletedAt      *time.Time          `json:"completedAt,omitempty" gorm:"index"`
	ScorePercentage  decimal.NullDecimal `json:"scorePercentage" gorm:"type:numeric(5,2)"`
	CorrectAnswers   *int                `json:"correctAnswers,omitempty"`
	TotalQuestions   *int                `json:"totalQuestions,omitempty"`
	TimeTakenSeconds *int                `json:"timeTakenSeconds,omitempty"`
	RecordedAnswers  []RecordedAnswer    `json:"recordedAnswers,omitempty" gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (s *ExamSession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// SessionResult holds the values stamped onto a session at finalization.
type SessionResult struct {
	CompletedAt      time.Time
	ScorePercentage  decimal.Decimal
	CorrectAnswers   int
	TotalQuestions   int
	TimeTakenSeconds int
}
