package model

import (
	"time"
)

// Admin with a nil PasswordHash accepts the configured default password.
type Admin struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Username     string     `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Email        string     `json:"email"`
	PasswordHash *string    `json:"-"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
