package models

import (
	"time"
)

// UserUpvote is one "user has upvoted question" fact. The composite primary
// key is what rejects a second upvote from the same user.
type UserUpvote struct {
	UserID     string    `gorm:"primaryKey;size:36" json:"user_id"`
	QuestionID uint      `gorm:"primaryKey;index" json:"question_id"`
	Question   Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
