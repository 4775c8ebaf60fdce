package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"askboard/internal/models"
	"askboard/internal/realtime"
	"askboard/internal/testutil"
)

func TestPinRequiresPrivilegedRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewPinService(f.comments, f.hub, testutil.NewLogger())

	user := testutil.CreateTestProfile(t, f.conn, "user", models.RoleUser)
	question := testutil.CreateTestQuestion(t, f.conn, user.ID, 0)
	comment := testutil.CreateTestComment(t, f.conn, question.ID, user.ID, false, time.Now())

	sub := f.hub.Subscribe(question.ID)
	defer sub.Close()

	_, err := svc.SetPinned(ctx, PinRequest{CommentID: comment.ID, QuestionID: question.ID, Pinned: true}, user)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	stored, _ := f.comments.GetOne(ctx, comment.ID)
	if stored.IsPinned {
		t.Error("forbidden request must not change the pin flag")
	}
	noEvent(t, sub)

	if _, err := svc.SetPinned(ctx, PinRequest{CommentID: comment.ID, Pinned: true}, nil); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized without actor, got %v", err)
	}
}

func TestPinRejectsUnlistedRoles(t *testing.T) {
	for _, role := range []models.Role{"banned", "guest", "moderator"} {
		t.Run(string(role), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			svc := NewPinService(f.comments, f.hub, testutil.NewLogger())

			actor := testutil.CreateTestProfile(t, f.conn, "actor", role)
			question := testutil.CreateTestQuestion(t, f.conn, actor.ID, 0)
			comment := testutil.CreateTestComment(t, f.conn, question.ID, actor.ID, false, time.Now())

			_, err := svc.SetPinned(ctx, PinRequest{CommentID: comment.ID, QuestionID: question.ID, Pinned: true}, actor)
			if !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden for role %q, got %v", role, err)
			}
			if stored, _ := f.comments.GetOne(ctx, comment.ID); stored.IsPinned {
				t.Error("comment must stay unpinned")
			}
		})
	}
}

func TestPinByPrivilegedRoles(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleMe, models.RoleOG} {
		t.Run(string(role), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			svc := NewPinService(f.comments, f.hub, testutil.NewLogger())

			author := testutil.CreateTestProfile(t, f.conn, "author", models.RoleUser)
			moderator := testutil.CreateTestProfile(t, f.conn, "moderator", role)
			question := testutil.CreateTestQuestion(t, f.conn, author.ID, 0)
			comment := testutil.CreateTestComment(t, f.conn, question.ID, author.ID, false, time.Now())

			sub := f.hub.Subscribe(question.ID)
			defer sub.Close()

			updated, err := svc.SetPinned(ctx, PinRequest{CommentID: comment.ID, QuestionID: question.ID, Pinned: true}, moderator)
			if err != nil {
				t.Fatalf("SetPinned failed: %v", err)
			}
			if !updated.IsPinned {
				t.Error("expected comment to be pinned")
			}

			ev := nextEvent(t, sub)
			if ev.Kind != realtime.KindCommentUpdate || ev.Comment == nil || !ev.Comment.IsPinned {
				t.Errorf("expected comment_update with pinned comment, got %+v", ev)
			}

			// pinning twice is fine
			if _, err := svc.SetPinned(ctx, PinRequest{CommentID: comment.ID, Pinned: true}, moderator); err != nil {
				t.Errorf("repeat pin failed: %v", err)
			}

			updated, err = svc.SetPinned(ctx, PinRequest{CommentID: comment.ID, Pinned: false}, moderator)
			if err != nil {
				t.Fatalf("unpin failed: %v", err)
			}
			if updated.IsPinned {
				t.Error("expected comment to be unpinned")
			}
		})
	}
}

func TestPinMissingOrMismatchedComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewPinService(f.comments, f.hub, testutil.NewLogger())

	admin := testutil.CreateTestProfile(t, f.conn, "admin", models.RoleAdmin)
	q1 := testutil.CreateTestQuestion(t, f.conn, admin.ID, 0)
	q2 := testutil.CreateTestQuestion(t, f.conn, admin.ID, 0)
	comment := testutil.CreateTestComment(t, f.conn, q1.ID, admin.ID, false, time.Now())

	if _, err := svc.SetPinned(ctx, PinRequest{CommentID: comment.ID + 50, Pinned: true}, admin); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing comment, got %v", err)
	}
	if _, err := svc.SetPinned(ctx, PinRequest{CommentID: comment.ID, QuestionID: q2.ID, Pinned: true}, admin); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for comment on another question, got %v", err)
	}

	stored, _ := f.comments.GetOne(ctx, comment.ID)
	if stored.IsPinned {
		t.Error("mismatched request must not pin the comment")
	}
}
