package models

import "time"

// User.Timezone holds an IANA zone name; empty means the server zone.
type User struct {
	ID                   uint   `gorm:"primaryKey"`
	Email                string `gorm:"uniqueIndex;not null"`
	PasswordHash         string `gorm:"not null"`
	MustChangePassword   bool   `gorm:"not null;default:false"`
	NotificationsEnabled bool   `gorm:"not null;default:false"`
	TelegramChatID       int64  `gorm:"not null;default:0"`
	Timezone             string `gorm:"not null;default:''"`
	CreatedAt            time.Time
}
