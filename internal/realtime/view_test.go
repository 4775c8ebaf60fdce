package realtime

import (
	"testing"
	"time"

	"askboard/internal/models"
	"askboard/internal/utils"
)

func ids(comments []models.Comment) []uint {
	out := make([]uint, len(comments))
	for i, c := range comments {
		out[i] = c.ID
	}
	return out
}

func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQuestionViewMatchesFreshFetch(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c1 := models.Comment{ID: 1, QuestionID: 9, CreatedAt: base}
	c2 := models.Comment{ID: 2, QuestionID: 9, CreatedAt: base.Add(time.Minute)}
	c3 := models.Comment{ID: 3, QuestionID: 9, CreatedAt: base.Add(2 * time.Minute)}

	view := NewQuestionView(9)
	view.Replace(0, []models.Comment{c1, c2})

	c3Inserted := c3
	view.Apply(CommentEvent(KindCommentInsert, c3Inserted))

	c2Pinned := c2
	c2Pinned.IsPinned = true
	view.Apply(CommentEvent(KindCommentUpdate, c2Pinned))

	// a stale duplicate of the insert arrives late; last value per key wins
	view.Apply(CommentEvent(KindCommentInsert, c3Inserted))

	fresh := utils.OrderedComments([]models.Comment{c1, c2Pinned, c3})
	if got, want := ids(view.Comments()), ids(fresh); !sameIDs(got, want) {
		t.Fatalf("view order %v, fresh fetch order %v", got, want)
	}
	if got := ids(view.Comments()); got[0] != 2 {
		t.Errorf("expected pinned comment first, got %v", got)
	}

	view.Apply(CommentEvent(KindCommentDelete, c1))
	if got := ids(view.Comments()); !sameIDs(got, []uint{2, 3}) {
		t.Errorf("expected [2 3] after delete, got %v", got)
	}
}

func TestQuestionViewCounterAndFiltering(t *testing.T) {
	view := NewQuestionView(4)
	view.Replace(3, nil)

	if view.Apply(VoteCountEvent(5, 100)) {
		t.Error("event for another question should be ignored")
	}
	if !view.Apply(VoteCountEvent(4, 4)) {
		t.Error("expected counter event to apply")
	}
	if got := view.Upvotes(); got != 4 {
		t.Errorf("expected 4 upvotes, got %d", got)
	}
	if view.Apply(Event{Kind: KindCommentDelete, QuestionID: 4, Comment: &models.Comment{ID: 42}}) {
		t.Error("deleting an unknown comment should report no change")
	}
}
