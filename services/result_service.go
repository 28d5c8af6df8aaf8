package services

import (
	"errors"
	"time"

	"quizhub/models"

	"gorm.io/gorm"
)

var ErrNotResultOwner = errors.New("not authorized to delete this result")

type ResultService struct {
	db *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

type SubmitResultRequest struct {
	QuizID  uint              `json:"quiz_id" binding:"required"`
	Answers []SubmittedAnswer `json:"answers" binding:"required,dive"`
}

// SubmitResult scores the submission against the quiz as it exists right now
// and persists the frozen result.
func (s *ResultService) SubmitResult(userID uint, req *SubmitResultRequest) (*models.Result, error) {
	var quiz models.Quiz
	err := s.db.Preload("Questions").Preload("Questions.Options").
		First(&quiz, req.QuizID).Error
	if err != nil {
		return nil, err
	}

	result := models.Result{
		QuizID:      quiz.ID,
		UserID:      userID,
		CompletedAt: time.Now(),
		Answers:     ScoreSubmission(&quiz, req.Answers),
	}

	if err := s.db.Create(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ResultService) GetUserResults(userID uint) ([]models.Result, error) {
	var results []models.Result
	err := s.db.Where("user_id = ?", userID).
		Preload("Quiz").
		Preload("Answers").
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}

// GetResultByID returns the result with its quiz (questions included, so the
// client can render a review) and the submitting user.
func (s *ResultService) GetResultByID(resultID uint) (*models.Result, error) {
	var result models.Result
	err := s.db.
		Preload("Quiz").
		Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Quiz.Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		Preload("User").
		Preload("Answers").
		First(&result, resultID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteResult removes a result and its answers; only the owning user may
// delete it.
func (s *ResultService) DeleteResult(resultID, userID uint) error {
	var result models.Result
	if err := s.db.First(&result, resultID).Error; err != nil {
		return err
	}
	if result.UserID != userID {
		return ErrNotResultOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("result_id = ?", resultID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Result{}, resultID).Error
	})
}
