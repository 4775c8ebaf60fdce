package models

import (
	"time"
)

type Comment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	QuestionID     uint      `gorm:"not null;index" json:"question_id"`
	Question       Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID         string    `gorm:"size:36;not null;index" json:"user_id"`
	User           Profile   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsAdminComment bool      `gorm:"not null;default:false" json:"is_admin_comment"` // 创建时按作者角色计算，之后不变
	IsPinned       bool      `gorm:"not null;default:false" json:"is_pinned"`
	CreatedAt      time.Time `json:"created_at"`
}
