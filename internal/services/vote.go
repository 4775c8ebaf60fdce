package services

import (
	"context"
	"errors"

	"askboard/internal/db/repositories"
	"askboard/internal/realtime"

	"go.uber.org/zap"
)

// RepairScheduler queues a question whose counter may have drifted from
// its ledger.
type RepairScheduler interface {
	ScheduleRepair(questionID uint)
}

// VoteService keeps questions.upvotes equal to the number of ledger rows.
// The question row is locked, then the ledger row is written and its
// uniqueness decides whether the request is a real change, then the counter
// moves by exactly one. All three happen in one transaction, so a recount
// sees either the whole toggle or none of it.
type VoteService struct {
	store    repositories.Transactor
	votes    repositories.VoteRepository
	notifier realtime.Notifier
	repairs  RepairScheduler
	logger   *zap.SugaredLogger
}

func NewVoteService(
	store repositories.Transactor,
	votes repositories.VoteRepository,
	notifier realtime.Notifier,
	repairs RepairScheduler,
	logger *zap.SugaredLogger,
) *VoteService {
	return &VoteService{
		store:    store,
		votes:    votes,
		notifier: notifier,
		repairs:  repairs,
		logger:   logger,
	}
}

// Toggle upvotes the question when believedVoted is false and retracts the
// upvote when it is true. It returns the counter value read back from
// storage.
//
// When the ledger disagrees with the caller's belief, nothing is mutated and
// ErrAlreadyVoted or ErrNotVoted is returned along with the current count.
func (s *VoteService) Toggle(ctx context.Context, questionID uint, userID string, believedVoted bool) (int, error) {
	if userID == "" {
		return 0, ErrUnauthorized
	}

	var (
		count    int
		conflict error
	)
	err := s.store.WithinTransaction(ctx, func(questions repositories.QuestionRepository, votes repositories.VoteRepository) error {
		if err := questions.Lock(ctx, questionID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrNotFound
			}
			return storageError("lock question", err)
		}

		changed, err := s.writeLedger(ctx, votes, questionID, userID, believedVoted)
		if err != nil {
			return err
		}
		if !changed {
			conflict = ErrAlreadyVoted
			if believedVoted {
				conflict = ErrNotVoted
			}
			count, err = questions.GetUpvotes(ctx, questionID)
			if err != nil {
				return storageError("read upvotes", err)
			}
			return nil
		}

		if believedVoted {
			count, err = questions.DecrementUpvotes(ctx, questionID)
		} else {
			count, err = questions.IncrementUpvotes(ctx, questionID)
		}
		if err != nil {
			return storageError("update upvotes", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, s.failed(questionID, userID, err)
	}
	if conflict != nil {
		return count, conflict
	}

	s.logger.Debugw("upvote toggled", "question_id", questionID, "user_id", userID, "retract", believedVoted, "upvotes", count)
	return count, s.publish(ctx, questionID, count)
}

func (s *VoteService) writeLedger(ctx context.Context, votes repositories.VoteRepository, questionID uint, userID string, retract bool) (bool, error) {
	if retract {
		deleted, err := votes.Delete(ctx, userID, questionID)
		if err != nil {
			return false, storageError("delete upvote", err)
		}
		return deleted, nil
	}
	inserted, err := votes.InsertIfAbsent(ctx, userID, questionID)
	if err != nil {
		return false, storageError("insert upvote", err)
	}
	return inserted, nil
}

// failed handles a storage error from the toggle transaction. The caller
// always gets a failure. A commit lost on the wire leaves the outcome
// unknown, so the question is also queued for a recount.
func (s *VoteService) failed(questionID uint, userID string, err error) error {
	s.logger.Errorw("upvote toggle failed",
		"question_id", questionID,
		"user_id", userID,
		"error", err,
	)
	if s.repairs != nil {
		s.repairs.ScheduleRepair(questionID)
	}
	if errors.Is(err, ErrStorageFailure) {
		return err
	}
	return storageError("commit toggle", err)
}

func (s *VoteService) publish(ctx context.Context, questionID uint, count int) error {
	if err := s.notifier.Publish(ctx, realtime.VoteCountEvent(questionID, count)); err != nil {
		s.logger.Errorw("failed to publish vote count", "question_id", questionID, "error", err)
		return storageError("publish vote count", err)
	}
	return nil
}

// HasVoted reports whether the ledger holds the (user, question) pair.
func (s *VoteService) HasVoted(ctx context.Context, questionID uint, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	voted, err := s.votes.Has(ctx, userID, questionID)
	if err != nil {
		return false, storageError("read upvote", err)
	}
	return voted, nil
}
