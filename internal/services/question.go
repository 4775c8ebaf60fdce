package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"askboard/internal/db/repositories"
	"askboard/internal/models"
	"askboard/internal/realtime"

	"go.uber.org/zap"
)

const (
	DefaultListLimit = 50
	maxTitleLength   = 200
)

type QuestionService struct {
	questions  repositories.QuestionRepository
	notifier   realtime.Notifier
	dailyLimit int
	now        func() time.Time
	logger     *zap.SugaredLogger
}

// NewQuestionService creates the service. A dailyLimit of zero disables
// the per-day cap.
func NewQuestionService(questions repositories.QuestionRepository, notifier realtime.Notifier, dailyLimit int, logger *zap.SugaredLogger) *QuestionService {
	return &QuestionService{
		questions:  questions,
		notifier:   notifier,
		dailyLimit: dailyLimit,
		now:        time.Now,
		logger:     logger,
	}
}

// Create posts a question. Plain users are capped at dailyLimit questions
// per calendar day; privileged roles are exempt.
func (s *QuestionService) Create(ctx context.Context, author *models.Profile, title, details string) (*models.Question, error) {
	if author == nil {
		return nil, ErrUnauthorized
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, maxTitleLength)
	}

	if s.dailyLimit > 0 && !models.IsPrivileged(author.Role) {
		count, err := s.questions.CountByUserSince(ctx, author.ID, s.startOfDay())
		if err != nil {
			return nil, storageError("count questions", err)
		}
		if count >= int64(s.dailyLimit) {
			return nil, fmt.Errorf("%w: at most %d questions per day", ErrRateLimited, s.dailyLimit)
		}
	}

	question := &models.Question{
		UserID:  author.ID,
		Title:   title,
		Details: strings.TrimSpace(details),
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, storageError("insert question", err)
	}
	question.User = *author

	s.logger.Infow("question created", "question_id", question.ID, "user_id", author.ID)

	if err := s.notifier.Publish(ctx, realtime.QuestionEvent(*question)); err != nil {
		s.logger.Errorw("failed to publish question insert", "question_id", question.ID, "error", err)
		return nil, storageError("publish question insert", err)
	}
	return question, nil
}

func (s *QuestionService) Get(ctx context.Context, questionID uint) (*models.Question, error) {
	question, err := s.questions.GetOne(ctx, questionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("load question", err)
	}
	return question, nil
}

// List returns the newest questions first.
func (s *QuestionService) List(ctx context.Context, limit int) ([]models.Question, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	questions, err := s.questions.GetMany(ctx, limit)
	if err != nil {
		return nil, storageError("list questions", err)
	}
	return questions, nil
}

func (s *QuestionService) ListByUser(ctx context.Context, userID string) ([]models.Question, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	questions, err := s.questions.GetManyByUser(ctx, userID)
	if err != nil {
		return nil, storageError("list user questions", err)
	}
	return questions, nil
}

func (s *QuestionService) startOfDay() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
