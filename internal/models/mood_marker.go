package models

import "time"

type MoodMarker struct {
	ID        string `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Date      string `gorm:"not null"`
	Mood      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
