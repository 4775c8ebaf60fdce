package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn against repositories bound to one database
// transaction. Returning an error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(questions QuestionRepository, votes VoteRepository) error) error
}

type transactor struct {
	repository
}

func NewTransactor(db *gorm.DB) Transactor {
	return &transactor{
		repository: repository{
			db: db,
		},
	}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(questions QuestionRepository, votes VoteRepository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewQuestionRepository(tx), NewVoteRepository(tx))
	})
}
