package utils

import (
	"sort"

	"askboard/internal/models"
)

// SortComments puts comments in display order: pinned first, then oldest
// first, then by ID so equal timestamps still order deterministically.
// It depends only on the slice contents, so sorting after every change
// event gives the same order as a fresh fetch.
func SortComments(comments []models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return commentLess(comments[i], comments[j])
	})
}

// OrderedComments returns a sorted copy and leaves the input untouched.
func OrderedComments(comments []models.Comment) []models.Comment {
	out := make([]models.Comment, len(comments))
	copy(out, comments)
	SortComments(out)
	return out
}

func commentLess(a, b models.Comment) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
