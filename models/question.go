package models

import (
	"time"

	"gorm.io/gorm"
)

// Question carries two alternate answer representations: either the options
// hold an IsCorrect flag, or CorrectAnswer holds a single free-text answer.
// Persisted data uses both shapes, so scoring checks both.
type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	QuizID        uint           `json:"quiz_id" gorm:"not null"`
	Text          string         `json:"text" gorm:"not null"`
	CorrectAnswer string         `json:"correct_answer"`
	Position      int            `json:"position" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}
