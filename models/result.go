package models

import (
	"encoding/json"
	"math"
	"time"
)

// Result is the frozen record of one quiz submission. Answer correctness is
// decided once at submission time; later edits to the quiz never change it.
type Result struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	QuizID      uint      `json:"quiz_id" gorm:"not null"`
	UserID      uint      `json:"user_id" gorm:"not null"`
	CompletedAt time.Time `json:"completed_at"`

	// Relationships
	Quiz    Quiz     `json:"quiz,omitempty"`
	User    User     `json:"user,omitempty"`
	Answers []Answer `json:"answers" gorm:"foreignKey:ResultID"`
}

type Answer struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	ResultID       uint   `json:"result_id" gorm:"not null"`
	QuestionID     uint   `json:"question_id" gorm:"not null"`
	SelectedAnswer string `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct" gorm:"not null"`
}

// Score is the number of correct answers.
func (r *Result) Score() int {
	score := 0
	for _, a := range r.Answers {
		if a.IsCorrect {
			score++
		}
	}
	return score
}

// TotalQuestions is the number of submitted answers, which may be fewer than
// the quiz's question count when questions were skipped.
func (r *Result) TotalQuestions() int {
	return len(r.Answers)
}

// Percentage is Score over TotalQuestions rounded to the nearest integer,
// or 0 for an empty answer list.
func (r *Result) Percentage() int {
	total := r.TotalQuestions()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(r.Score()) / float64(total) * 100))
}

// MarshalJSON emits the derived score fields alongside the stored ones.
// They are recomputed on every read and never persisted.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(struct {
		alias
		Score          int `json:"score"`
		TotalQuestions int `json:"total_questions"`
		Percentage     int `json:"percentage"`
	}{
		alias:          alias(r),
		Score:          r.Score(),
		TotalQuestions: r.TotalQuestions(),
		Percentage:     r.Percentage(),
	})
}
