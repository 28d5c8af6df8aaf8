package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Username    string         `json:"username" gorm:"not null"`
	Email       string         `json:"email" gorm:"uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"not null"` // bcrypt hash
	Role        Role           `json:"role" gorm:"not null;default:'user'"`
	MaxSessions int            `json:"-" gorm:"not null;default:2"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Sessions []Session `json:"-" gorm:"foreignKey:UserID"`
	Quizzes  []Quiz    `json:"quizzes,omitempty" gorm:"foreignKey:CreatorID"`
}
