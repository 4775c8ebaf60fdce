package repositories

import (
	"context"
	"time"

	"askboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type questionRepository struct {
	repository
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetOne(ctx context.Context, questionID uint) (*models.Question, error)
	Exists(ctx context.Context, questionID uint) (bool, error)
	// Lock takes the question row lock until the surrounding transaction
	// ends. Ledger and counter writers both take it first.
	Lock(ctx context.Context, questionID uint) error
	GetMany(ctx context.Context, limit int) ([]models.Question, error)
	GetManyByUser(ctx context.Context, userID string) ([]models.Question, error)
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error)
	ListRecentIDs(ctx context.Context, since time.Time) ([]uint, error)

	// Counter primitives. Each is one atomic read-modify-write that returns
	// the value now stored.
	GetUpvotes(ctx context.Context, questionID uint) (int, error)
	IncrementUpvotes(ctx context.Context, questionID uint) (int, error)
	DecrementUpvotes(ctx context.Context, questionID uint) (int, error)
	// RecountUpvotes sets the counter to the ledger cardinality under the
	// row lock and returns the stored value before and after.
	RecountUpvotes(ctx context.Context, questionID uint) (before int, after int, err error)
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Omit("User").Create(question).Error
}

func (r *questionRepository) GetOne(ctx context.Context, questionID uint) (*models.Question, error) {
	question := &models.Question{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", questionID).
		First(question).Error
	if err != nil {
		return nil, notFound(err)
	}
	return question, nil
}

func (r *questionRepository) Exists(ctx context.Context, questionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", questionID).
		Count(&count).Error
	return count > 0, err
}

func (r *questionRepository) GetMany(ctx context.Context, limit int) ([]models.Question, error) {
	questions := make([]models.Question, 0)
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) GetManyByUser(ctx context.Context, userID string) ([]models.Question, error) {
	questions := make([]models.Question, 0)
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *questionRepository) ListRecentIDs(ctx context.Context, since time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("created_at >= ?", since).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *questionRepository) GetUpvotes(ctx context.Context, questionID uint) (int, error) {
	return readUpvotes(r.db.WithContext(ctx), questionID)
}

func (r *questionRepository) IncrementUpvotes(ctx context.Context, questionID uint) (int, error) {
	return r.applyUpvotes(ctx, questionID, gorm.Expr("upvotes + ?", 1))
}

// DecrementUpvotes never takes the counter below zero.
func (r *questionRepository) DecrementUpvotes(ctx context.Context, questionID uint) (int, error) {
	return r.applyUpvotes(ctx, questionID, gorm.Expr("CASE WHEN upvotes > 0 THEN upvotes - 1 ELSE 0 END"))
}

func (r *questionRepository) Lock(ctx context.Context, questionID uint) error {
	return lockQuestion(r.db.WithContext(ctx), questionID)
}

func (r *questionRepository) RecountUpvotes(ctx context.Context, questionID uint) (int, int, error) {
	var before, after int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockQuestion(tx, questionID); err != nil {
			return err
		}

		var err error
		before, err = readUpvotes(tx, questionID)
		if err != nil {
			return err
		}

		// Counted after the lock is held, so every toggle that committed
		// before it is included and none can be half applied.
		var ledger int64
		if err := tx.Model(&models.UserUpvote{}).Where("question_id = ?", questionID).Count(&ledger).Error; err != nil {
			return err
		}
		after = int(ledger)
		if after == before {
			return nil
		}
		return tx.Model(&models.Question{}).
			Where("id = ?", questionID).
			UpdateColumn("upvotes", after).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return before, after, nil
}

// applyUpvotes runs the column expression and reads the result back inside
// one transaction. The UPDATE holds the row lock until commit, so the value
// read is the one this call produced.
func (r *questionRepository) applyUpvotes(ctx context.Context, questionID uint, expr interface{}) (int, error) {
	var upvotes int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Question{}).
			Where("id = ?", questionID).
			UpdateColumn("upvotes", expr)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var err error
		upvotes, err = readUpvotes(tx, questionID)
		return err
	})
	return upvotes, err
}

// lockQuestion is SELECT ... FOR UPDATE. SQLite has no row locks and
// serializes writers instead, so the clause is dropped there.
func lockQuestion(tx *gorm.DB, questionID uint) error {
	var question models.Question
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", questionID).
		Take(&question).Error
	return notFound(err)
}

func readUpvotes(tx *gorm.DB, questionID uint) (int, error) {
	var upvotes []int
	err := tx.Model(&models.Question{}).
		Where("id = ?", questionID).
		Limit(1).
		Pluck("upvotes", &upvotes).Error
	if err != nil {
		return 0, err
	}
	if len(upvotes) == 0 {
		return 0, ErrNotFound
	}
	return upvotes[0], nil
}
