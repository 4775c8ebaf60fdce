package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"askboard/internal/db/repositories"
	"askboard/internal/models"
	"askboard/internal/realtime"
	"askboard/internal/utils"

	"go.uber.org/zap"
)

// RenderedComment is a comment with its Markdown content rendered for display.
type RenderedComment struct {
	models.Comment
	ContentHTML template.HTML `json:"content_html"`
}

type CommentService struct {
	questions repositories.QuestionRepository
	comments  repositories.CommentRepository
	profiles  repositories.ProfileRepository
	notifier  realtime.Notifier
	htmlCache *utils.Cache[template.HTML]
	maxLength int
	logger    *zap.SugaredLogger
}

func NewCommentService(
	questions repositories.QuestionRepository,
	comments repositories.CommentRepository,
	profiles repositories.ProfileRepository,
	notifier realtime.Notifier,
	htmlCache *utils.Cache[template.HTML],
	maxLength int,
	logger *zap.SugaredLogger,
) *CommentService {
	return &CommentService{
		questions: questions,
		comments:  comments,
		profiles:  profiles,
		notifier:  notifier,
		htmlCache: htmlCache,
		maxLength: maxLength,
		logger:    logger,
	}
}

// Create stores a comment. The admin badge is decided here, from the
// author's role as stored right now, and never changes afterwards.
func (s *CommentService) Create(ctx context.Context, questionID uint, authorID string, content string) (*models.Comment, error) {
	if authorID == "" {
		return nil, ErrUnauthorized
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment cannot be empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > s.maxLength {
		return nil, fmt.Errorf("%w: comment exceeds %d characters", ErrInvalidInput, s.maxLength)
	}

	exists, err := s.questions.Exists(ctx, questionID)
	if err != nil {
		return nil, storageError("check question", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	role, err := s.profiles.GetRole(ctx, authorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, storageError("load role", err)
	}

	created, err := s.comments.Create(ctx, &models.Comment{
		QuestionID:     questionID,
		UserID:         authorID,
		Content:        content,
		IsAdminComment: models.IsPrivileged(role),
	})
	if err != nil {
		return nil, storageError("insert comment", err)
	}

	s.logger.Infow("comment created", "comment_id", created.ID, "question_id", questionID, "user_id", authorID, "admin", created.IsAdminComment)

	if err := s.notifier.Publish(ctx, realtime.CommentEvent(realtime.KindCommentInsert, *created)); err != nil {
		s.logger.Errorw("failed to publish comment insert", "comment_id", created.ID, "error", err)
		return nil, storageError("publish comment insert", err)
	}
	return created, nil
}

// List returns the question's comments in display order.
func (s *CommentService) List(ctx context.Context, questionID uint) ([]RenderedComment, error) {
	exists, err := s.questions.Exists(ctx, questionID)
	if err != nil {
		return nil, storageError("check question", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	comments, err := s.comments.GetManyByQuestion(ctx, questionID)
	if err != nil {
		return nil, storageError("list comments", err)
	}
	utils.SortComments(comments)

	rendered := make([]RenderedComment, len(comments))
	for i, c := range comments {
		rendered[i] = RenderedComment{
			Comment:     c,
			ContentHTML: s.render(c),
		}
	}
	return rendered, nil
}

// Comment content is immutable, so the rendered HTML is cached by ID.
func (s *CommentService) render(c models.Comment) template.HTML {
	if s.htmlCache == nil {
		return utils.RenderMarkdown(c.Content)
	}

	key := fmt.Sprintf("comment:html:%d", c.ID)
	if cached, ok := s.htmlCache.Get(key); ok {
		return cached
	}
	html := utils.RenderMarkdown(c.Content)
	s.htmlCache.Set(key, html)
	return html
}
