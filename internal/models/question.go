package models

import (
	"time"
)

type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	User      Profile   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title     string    `gorm:"not null" json:"title"`
	Details   string    `gorm:"type:text" json:"details"`
	Upvotes   int       `gorm:"not null;default:0" json:"upvotes"` // 只能由投票服务修改
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
