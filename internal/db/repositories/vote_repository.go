package repositories

import (
	"context"
	"errors"

	"askboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type voteRepository struct {
	repository
}

// VoteRepository is the upvote ledger: the set of (user, question) facts.
type VoteRepository interface {
	// InsertIfAbsent reports false when the pair was already recorded.
	InsertIfAbsent(ctx context.Context, userID string, questionID uint) (bool, error)
	// Delete reports false when there was nothing to delete.
	Delete(ctx context.Context, userID string, questionID uint) (bool, error)
	Has(ctx context.Context, userID string, questionID uint) (bool, error)
	CountForQuestion(ctx context.Context, questionID uint) (int64, error)
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *voteRepository) InsertIfAbsent(ctx context.Context, userID string, questionID uint) (bool, error) {
	vote := &models.UserUpvote{
		UserID:     userID,
		QuestionID: questionID,
	}

	res := r.db.WithContext(ctx).
		Omit("Question").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(vote)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *voteRepository) Delete(ctx context.Context, userID string, questionID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&models.UserUpvote{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *voteRepository) Has(ctx context.Context, userID string, questionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserUpvote{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (r *voteRepository) CountForQuestion(ctx context.Context, questionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserUpvote{}).
		Where("question_id = ?", questionID).
		Count(&count).Error
	return count, err
}
