package services

import (
	"context"
	"sync"
	"time"

	"askboard/internal/db/repositories"
	"askboard/internal/realtime"

	"go.uber.org/zap"
)

const (
	repairQueueSize  = 1000
	repairBatchSize  = 50
	repairFlushEvery = 500 * time.Millisecond
	recentWindow     = 7 * 24 * time.Hour
)

// Reconciler recomputes questions.upvotes from the ledger. Repairs are
// queued by the vote path when a counter update fails, and a scheduled
// pass covers recently asked questions.
type Reconciler struct {
	questions repositories.QuestionRepository
	notifier  realtime.Notifier
	logger    *zap.SugaredLogger

	queue   chan uint
	pending map[uint]bool
	mu      sync.Mutex
}

func NewReconciler(questions repositories.QuestionRepository, notifier realtime.Notifier, logger *zap.SugaredLogger) *Reconciler {
	return &Reconciler{
		questions: questions,
		notifier:  notifier,
		logger:    logger,
		queue:     make(chan uint, repairQueueSize),
		pending:   make(map[uint]bool),
	}
}

// ScheduleRepair queues a question for recount. Duplicate requests for a
// question already in the queue are dropped, and it never blocks.
func (r *Reconciler) ScheduleRepair(questionID uint) {
	r.mu.Lock()
	if r.pending[questionID] {
		r.mu.Unlock()
		return
	}
	r.pending[questionID] = true
	r.mu.Unlock()

	select {
	case r.queue <- questionID:
	default:
		r.mu.Lock()
		delete(r.pending, questionID)
		r.mu.Unlock()
		r.logger.Warnw("repair queue full, dropping question", "question_id", questionID)
	}
}

// Start runs the repair worker until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	go r.worker(ctx)
}

func (r *Reconciler) worker(ctx context.Context) {
	batch := make([]uint, 0, repairBatchSize)
	ticker := time.NewTicker(repairFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case questionID := <-r.queue:
			batch = append(batch, questionID)
			if len(batch) >= repairBatchSize {
				r.processBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.processBatch(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (r *Reconciler) processBatch(ctx context.Context, questionIDs []uint) {
	for _, questionID := range questionIDs {
		// Clear first so a failure during the recount can be queued again.
		r.mu.Lock()
		delete(r.pending, questionID)
		r.mu.Unlock()

		if _, _, err := r.Reconcile(ctx, questionID); err != nil {
			r.logger.Errorw("repair failed", "question_id", questionID, "error", err)
		}
	}
}

// Reconcile sets the counter to the ledger count and reports the new value
// and whether it changed. A change is published as a vote_count event.
func (r *Reconciler) Reconcile(ctx context.Context, questionID uint) (int, bool, error) {
	before, after, err := r.questions.RecountUpvotes(ctx, questionID)
	if err != nil {
		return 0, false, storageError("recount upvotes", err)
	}
	if after == before {
		return after, false, nil
	}

	r.logger.Warnw("upvote counter repaired", "question_id", questionID, "from", before, "to", after)
	if err := r.notifier.Publish(ctx, realtime.VoteCountEvent(questionID, after)); err != nil {
		return after, true, storageError("publish vote count", err)
	}
	return after, true, nil
}

// StartScheduled reconciles every question asked within the last week,
// once per interval, until ctx is cancelled.
func (r *Reconciler) StartScheduled(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.ReconcileRecent(ctx)
			}
		}
	}()
}

// ReconcileRecent runs Reconcile over recent questions and returns how many
// counters were corrected.
func (r *Reconciler) ReconcileRecent(ctx context.Context) int {
	ids, err := r.questions.ListRecentIDs(ctx, time.Now().Add(-recentWindow))
	if err != nil {
		r.logger.Errorw("failed to list recent questions", "error", err)
		return 0
	}

	repaired := 0
	for _, id := range ids {
		_, changed, err := r.Reconcile(ctx, id)
		if err != nil {
			r.logger.Errorw("reconcile failed", "question_id", id, "error", err)
			continue
		}
		if changed {
			repaired++
		}
	}
	r.logger.Infow("scheduled reconcile finished", "checked", len(ids), "repaired", repaired)
	return repaired
}
