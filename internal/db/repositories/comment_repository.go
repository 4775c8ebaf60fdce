package repositories

import (
	"context"

	"askboard/internal/models"

	"gorm.io/gorm"
)

type commentRepository struct {
	repository
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetOne(ctx context.Context, commentID uint) (*models.Comment, error)
	GetManyByQuestion(ctx context.Context, questionID uint) ([]models.Comment, error)
	SetPinned(ctx context.Context, commentID uint, pinned bool) (*models.Comment, error)
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if err := r.db.WithContext(ctx).Omit("Question", "User").Create(comment).Error; err != nil {
		return nil, err
	}
	return r.GetOne(ctx, comment.ID)
}

func (r *commentRepository) GetOne(ctx context.Context, commentID uint) (*models.Comment, error) {
	comment := &models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", commentID).
		First(comment).Error
	if err != nil {
		return nil, notFound(err)
	}
	return comment, nil
}

func (r *commentRepository) GetManyByQuestion(ctx context.Context, questionID uint) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("question_id = ?", questionID).
		Order("is_pinned DESC, created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// SetPinned writes only the is_pinned column; concurrent writers resolve as
// last-write-wins.
func (r *commentRepository) SetPinned(ctx context.Context, commentID uint, pinned bool) (*models.Comment, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("is_pinned", pinned)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetOne(ctx, commentID)
}
