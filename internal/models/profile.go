package models

import (
	"time"
)

type Profile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"size:50" json:"username"`
	AvatarURL string    `json:"avatar_url"`
	Role      Role      `gorm:"size:20;default:'user';not null" json:"role"` // user, admin, me, og
	CreatedAt time.Time `json:"created_at"`
}
