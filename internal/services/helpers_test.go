package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"askboard/internal/db/repositories"
	"askboard/internal/realtime"
	"askboard/internal/testutil"

	"gorm.io/gorm"
)

type fixture struct {
	conn      *gorm.DB
	hub       *realtime.Hub
	store     repositories.Transactor
	questions repositories.QuestionRepository
	votes     repositories.VoteRepository
	comments  repositories.CommentRepository
	profiles  repositories.ProfileRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return &fixture{
		conn:      conn,
		hub:       realtime.NewHub(realtime.DefaultBufferSize, testutil.NewLogger()),
		store:     repositories.NewTransactor(conn),
		questions: repositories.NewQuestionRepository(conn),
		votes:     repositories.NewVoteRepository(conn),
		comments:  repositories.NewCommentRepository(conn),
		profiles:  repositories.NewProfileRepository(conn),
	}
}

func nextEvent(t *testing.T, sub *realtime.Subscription) realtime.Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return realtime.Event{}
}

func noEvent(t *testing.T, sub *realtime.Subscription) {
	t.Helper()
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

var errBroken = errors.New("connection reset")

// brokenCounter fails every counter mutation after the ledger write.
type brokenCounter struct {
	repositories.QuestionRepository
}

func (b brokenCounter) IncrementUpvotes(context.Context, uint) (int, error) {
	return 0, errBroken
}

func (b brokenCounter) DecrementUpvotes(context.Context, uint) (int, error) {
	return 0, errBroken
}

// wrappedStore hands fn a decorated QuestionRepository inside the real
// transaction.
type wrappedStore struct {
	repositories.Transactor
	wrap func(repositories.QuestionRepository) repositories.QuestionRepository
}

func (w wrappedStore) WithinTransaction(ctx context.Context, fn func(repositories.QuestionRepository, repositories.VoteRepository) error) error {
	return w.Transactor.WithinTransaction(ctx, func(questions repositories.QuestionRepository, votes repositories.VoteRepository) error {
		return fn(w.wrap(questions), votes)
	})
}

// beforeCounter runs hook between the ledger write and the counter update.
type beforeCounter struct {
	repositories.QuestionRepository
	hook func()
}

func (b beforeCounter) IncrementUpvotes(ctx context.Context, questionID uint) (int, error) {
	b.hook()
	return b.QuestionRepository.IncrementUpvotes(ctx, questionID)
}

func (b beforeCounter) DecrementUpvotes(ctx context.Context, questionID uint) (int, error) {
	b.hook()
	return b.QuestionRepository.DecrementUpvotes(ctx, questionID)
}

type failingNotifier struct {
	realtime.Notifier
}

func (failingNotifier) Publish(context.Context, realtime.Event) error {
	return errBroken
}

type recordingScheduler struct {
	mu  sync.Mutex
	ids []uint
}

func (r *recordingScheduler) ScheduleRepair(questionID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, questionID)
}
