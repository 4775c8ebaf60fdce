package services

import (
	"context"
	"errors"

	"askboard/internal/db/repositories"
	"askboard/internal/models"
	"askboard/internal/realtime"

	"go.uber.org/zap"
)

type PinRequest struct {
	CommentID uint
	// QuestionID, when non-zero, must match the comment's question.
	QuestionID uint
	Pinned     bool
}

// PinService is the only writer of Comment.IsPinned.
type PinService struct {
	comments repositories.CommentRepository
	notifier realtime.Notifier
	logger   *zap.SugaredLogger
}

func NewPinService(comments repositories.CommentRepository, notifier realtime.Notifier, logger *zap.SugaredLogger) *PinService {
	return &PinService{
		comments: comments,
		notifier: notifier,
		logger:   logger,
	}
}

// SetPinned sets the pin flag to the requested value. Setting the value the
// comment already has succeeds without error.
func (s *PinService) SetPinned(ctx context.Context, req PinRequest, actor *models.Profile) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if !models.IsPrivileged(actor.Role) {
		s.logger.Infow("pin rejected", "user_id", actor.ID, "role", actor.Role, "comment_id", req.CommentID)
		return nil, ErrForbidden
	}

	comment, err := s.comments.GetOne(ctx, req.CommentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("load comment", err)
	}
	if req.QuestionID != 0 && comment.QuestionID != req.QuestionID {
		return nil, ErrNotFound
	}

	updated, err := s.comments.SetPinned(ctx, req.CommentID, req.Pinned)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("set pinned", err)
	}

	s.logger.Infow("comment pin changed", "comment_id", updated.ID, "question_id", updated.QuestionID, "pinned", updated.IsPinned, "by", actor.ID)

	if err := s.notifier.Publish(ctx, realtime.CommentEvent(realtime.KindCommentUpdate, *updated)); err != nil {
		s.logger.Errorw("failed to publish pin change", "comment_id", updated.ID, "error", err)
		return nil, storageError("publish comment update", err)
	}
	return updated, nil
}
