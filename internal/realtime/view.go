package realtime

import (
	"sync"

	"askboard/internal/models"
	"askboard/internal/utils"
)

// QuestionView is what an observer keeps locally for one question: the
// latest counter value and the comment set keyed by ID. Every comment event
// overwrites or removes its key and the list is re-sorted with the same
// policy the server uses for a fresh fetch.
type QuestionView struct {
	mu         sync.Mutex
	questionID uint
	upvotes    int
	comments   map[uint]models.Comment
}

func NewQuestionView(questionID uint) *QuestionView {
	return &QuestionView{
		questionID: questionID,
		comments:   make(map[uint]models.Comment),
	}
}

// Replace loads the result of a full fetch.
func (v *QuestionView) Replace(upvotes int, comments []models.Comment) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.upvotes = upvotes
	v.comments = make(map[uint]models.Comment, len(comments))
	for _, c := range comments {
		v.comments[c.ID] = c
	}
}

// Apply folds one event into the view and reports whether it changed
// anything. Events for other questions are ignored.
func (v *QuestionView) Apply(event Event) bool {
	if event.QuestionID != v.questionID {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	switch event.Kind {
	case KindVoteCount:
		if event.VoteCount == nil {
			return false
		}
		v.upvotes = *event.VoteCount
		return true
	case KindCommentInsert, KindCommentUpdate:
		if event.Comment == nil {
			return false
		}
		v.comments[event.Comment.ID] = *event.Comment
		return true
	case KindCommentDelete:
		if event.Comment == nil {
			return false
		}
		if _, ok := v.comments[event.Comment.ID]; !ok {
			return false
		}
		delete(v.comments, event.Comment.ID)
		return true
	}
	return false
}

func (v *QuestionView) Upvotes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.upvotes
}

// Comments returns the comments in display order.
func (v *QuestionView) Comments() []models.Comment {
	v.mu.Lock()
	list := make([]models.Comment, 0, len(v.comments))
	for _, c := range v.comments {
		list = append(list, c)
	}
	v.mu.Unlock()

	utils.SortComments(list)
	return list
}
