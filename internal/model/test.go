package model

import (
	"time"
)

type Test struct {
	ID                uint       `gorm:"primarykey" json:"id"`
	Title             string     `json:"title" gorm:"not null"`
	Description       string     `json:"description,omitempty" gorm:"type:text"`
	DurationMinutes   int        `json:"durationMinutes" gorm:"not null;default:30"`
	PassingPercentage int        `json:"passingPercentage" gorm:"not null;default:50"`
	IsActive          bool       `json:"isActive" gorm:"not null;default:false;index"`
	Questions         []Question `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// TestWithCounts is the admin listing row.
type TestWithCounts struct {
	Test
	QuestionsCount int64
	SessionsCount  int64
}
