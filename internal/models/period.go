package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

// Period is the stored form of a menstrual interval. Dates are kept as
// YYYY-MM-DD strings; a nil EndDate marks the single ongoing period.
type Period struct {
	ID        string  `gorm:"primaryKey"`
	UserID    uint    `gorm:"not null;index"`
	StartDate string  `gorm:"not null"`
	EndDate   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
