package repositories

import (
	"context"
	"errors"
	"testing"

	"askboard/internal/models"
	"askboard/internal/testutil"
)

func TestTransactorCommitsLedgerAndCounterTogether(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	tx := NewTransactor(conn)

	author := testutil.CreateTestProfile(t, conn, "author", models.RoleUser)
	question := testutil.CreateTestQuestion(t, conn, author.ID, 0)

	err := tx.WithinTransaction(ctx, func(questions QuestionRepository, votes VoteRepository) error {
		if err := questions.Lock(ctx, question.ID); err != nil {
			return err
		}
		if _, err := votes.InsertIfAbsent(ctx, author.ID, question.ID); err != nil {
			return err
		}
		_, err := questions.IncrementUpvotes(ctx, question.ID)
		return err
	})
	if err != nil {
		t.Fatalf("WithinTransaction failed: %v", err)
	}

	if got, _ := NewQuestionRepository(conn).GetUpvotes(ctx, question.ID); got != 1 {
		t.Errorf("expected counter 1, got %d", got)
	}
	if got, _ := NewVoteRepository(conn).CountForQuestion(ctx, question.ID); got != 1 {
		t.Errorf("expected ledger 1, got %d", got)
	}
}

func TestTransactorRollsBackLedgerOnError(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	tx := NewTransactor(conn)

	author := testutil.CreateTestProfile(t, conn, "author", models.RoleUser)
	question := testutil.CreateTestQuestion(t, conn, author.ID, 0)

	failure := errors.New("counter unavailable")
	err := tx.WithinTransaction(ctx, func(questions QuestionRepository, votes VoteRepository) error {
		if _, err := votes.InsertIfAbsent(ctx, author.ID, question.ID); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	if got, _ := NewVoteRepository(conn).CountForQuestion(ctx, question.ID); got != 0 {
		t.Errorf("expected ledger row rolled back, got %d", got)
	}
}

func TestQuestionRepositoryLockMissing(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	err := NewTransactor(conn).WithinTransaction(ctx, func(questions QuestionRepository, _ VoteRepository) error {
		return questions.Lock(ctx, 404)
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
