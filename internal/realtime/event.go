// Package realtime fans question changes out to connected observers.
//
// Events always carry the full current value of whatever changed (the
// counter, or the whole comment row). Consumers apply them by key and
// never depend on arrival order, so a dropped event is repaired by the
// next one for the same key or by a refetch.
package realtime

import (
	"context"
	"time"

	"askboard/internal/models"
)

type EventKind string

const (
	KindVoteCount      EventKind = "vote_count"
	KindCommentInsert  EventKind = "comment_insert"
	KindCommentUpdate  EventKind = "comment_update"
	KindCommentDelete  EventKind = "comment_delete"
	KindQuestionInsert EventKind = "question_insert"
)

type Event struct {
	Kind       EventKind        `json:"kind"`
	QuestionID uint             `json:"question_id"`
	VoteCount  *int             `json:"vote_count,omitempty"`
	Comment    *models.Comment  `json:"comment,omitempty"`
	Question   *models.Question `json:"question,omitempty"`
	At         time.Time        `json:"at"`
}

func VoteCountEvent(questionID uint, count int) Event {
	return Event{
		Kind:       KindVoteCount,
		QuestionID: questionID,
		VoteCount:  &count,
		At:         time.Now(),
	}
}

func CommentEvent(kind EventKind, comment models.Comment) Event {
	return Event{
		Kind:       kind,
		QuestionID: comment.QuestionID,
		Comment:    &comment,
		At:         time.Now(),
	}
}

func QuestionEvent(question models.Question) Event {
	return Event{
		Kind:       KindQuestionInsert,
		QuestionID: question.ID,
		Question:   &question,
		At:         time.Now(),
	}
}

// Notifier is the publish/subscribe contract the services write to.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(questionID uint) *Subscription
	SubscribeAll() *Subscription
}
