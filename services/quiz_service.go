package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"quizhub/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrNotQuizOwner = errors.New("not authorized to delete this quiz")

const (
	quizCachePrefix = "quizzes:public:"
	quizCacheTTL    = time.Minute
)

type QuizService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewQuizService(db *gorm.DB, redisClient *redis.Client) *QuizService {
	return &QuizService{db: db, redis: redisClient}
}

type CreateQuizRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description" binding:"required"`
	IsPublic    *bool                   `json:"is_public"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type CreateQuestionRequest struct {
	Text          string                `json:"text" binding:"required"`
	CorrectAnswer string                `json:"correct_answer"`
	Options       []CreateOptionRequest `json:"options" binding:"dive"`
}

type CreateOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type UpdateQuizRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	IsPublic    *bool                   `json:"is_public"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

// Pagination describes the page window of a public quiz listing.
type Pagination struct {
	TotalItems      int64 `json:"totalItems"`
	TotalPages      int   `json:"totalPages"`
	CurrentPage     int   `json:"currentPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	PageSize        int   `json:"pageSize"`
}

// QuizPage is one cached page of the public listing.
type QuizPage struct {
	Quizzes    []models.Quiz `json:"quizzes"`
	Pagination Pagination    `json:"pagination"`
}

// sortColumns whitelists the sortable fields; anything else falls back to
// creation time.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

// ListPublicQuizzes returns one page of public quizzes with pagination
// metadata. Pages are served from Redis when possible; the cache is
// best-effort and any cache failure falls through to the database.
func (s *QuizService) ListPublicQuizzes(ctx context.Context, page, limit int, sort, order string) (*QuizPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 9
	}
	if limit > 50 {
		limit = 50
	}
	column, ok := sortColumns[sort]
	if !ok {
		column = "created_at"
	}
	if order != "asc" {
		order = "desc"
	}

	cacheKey := fmt.Sprintf("%spage=%d:limit=%d:sort=%s:order=%s", quizCachePrefix, page, limit, column, order)
	if cached := s.cachedPage(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var total int64
	if err := s.db.Model(&models.Quiz{}).Where("is_public = ?", true).Count(&total).Error; err != nil {
		return nil, err
	}

	var quizzes []models.Quiz
	err := s.db.Where("is_public = ?", true).
		Preload("Creator").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		Order(column + " " + order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	result := &QuizPage{
		Quizzes: quizzes,
		Pagination: Pagination{
			TotalItems:      total,
			TotalPages:      totalPages,
			CurrentPage:     page,
			HasPreviousPage: page > 1,
			HasNextPage:     page < totalPages,
			PageSize:        limit,
		},
	}

	s.cachePage(ctx, cacheKey, result)
	return result, nil
}

func (s *QuizService) cachedPage(ctx context.Context, key string) *QuizPage {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var page QuizPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil
	}
	return &page
}

func (s *QuizService) cachePage(ctx context.Context, key string, page *QuizPage) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, quizCacheTTL).Err(); err != nil {
		log.Printf("quiz cache set failed: %v", err)
	}
}

// invalidateListing drops all cached listing pages after a quiz write.
func (s *QuizService) invalidateListing(ctx context.Context) {
	if s.redis == nil {
		return
	}
	keys, err := s.redis.Keys(ctx, quizCachePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("quiz cache invalidation failed: %v", err)
	}
}

func (s *QuizService) CreateQuiz(ctx context.Context, creatorID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	quiz := models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    isPublic,
		CreatorID:   creatorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		return createQuestions(tx, quiz.ID, req.Questions)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx)
	return s.GetQuizByID(quiz.ID)
}

func createQuestions(tx *gorm.DB, quizID uint, questions []CreateQuestionRequest) error {
	for i, qReq := range questions {
		question := models.Question{
			QuizID:        quizID,
			Text:          qReq.Text,
			CorrectAnswer: qReq.CorrectAnswer,
			Position:      i + 1,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		for j, optReq := range qReq.Options {
			option := models.Option{
				QuestionID: question.ID,
				Text:       optReq.Text,
				IsCorrect:  optReq.IsCorrect,
				Position:   j + 1,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *QuizService) GetUserQuizzes(creatorID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("creator_id = ?", creatorID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// GetQuizByID returns the full quiz, correct answers included. The API does
// not redact answers on read; clients taking a quiz simply do not show them.
func (s *QuizService) GetQuizByID(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.
		Preload("Creator").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		First(&quiz, quizID).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UpdateQuiz edits quiz fields and, when questions are provided, replaces
// the whole question set. Any admin or editor may update; ownership is only
// enforced on delete.
func (s *QuizService) UpdateQuiz(ctx context.Context, quizID uint, req *UpdateQuizRequest) (*models.Quiz, error) {
	quiz, err := s.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != "" {
		quiz.Description = req.Description
	}
	if req.IsPublic != nil {
		quiz.IsPublic = *req.IsPublic
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions", "Creator").Save(quiz).Error; err != nil {
			return err
		}

		if req.Questions == nil {
			return nil
		}

		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("quiz_id = ?", quizID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}
		return createQuestions(tx, quizID, req.Questions)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx)
	return s.GetQuizByID(quizID)
}

// DeleteQuiz removes the quiz after checking the caller owns it.
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID, userID uint) error {
	quiz, err := s.GetQuizByID(quizID)
	if err != nil {
		return err
	}
	if quiz.CreatorID != userID {
		return ErrNotQuizOwner
	}

	if err := s.db.Delete(&models.Quiz{}, quizID).Error; err != nil {
		return err
	}

	s.invalidateListing(ctx)
	return nil
}
