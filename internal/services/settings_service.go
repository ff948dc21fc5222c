package services

import (
	"errors"
	"strings"
	"time"

	"github.com/cyclekit/cyclekit/internal/models"
)

var (
	ErrTelegramChatRequired = errors.New("telegram chat id required to enable notifications")
	ErrInvalidTimezone      = errors.New("invalid timezone")
)

type SettingsUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateSettings(userID uint, enabled bool, telegramChatID int64, timezone string) error
	InitTimezone(userID uint, timezone string) (bool, error)
}

type NotificationSettings struct {
	Enabled        bool   `json:"notifications_enabled"`
	TelegramChatID int64  `json:"telegram_chat_id"`
	Timezone       string `json:"timezone"`
}

type SettingsService struct {
	users SettingsUserRepository
}

func NewSettingsService(users SettingsUserRepository) *SettingsService {
	return &SettingsService{users: users}
}

func (service *SettingsService) Load(userID uint) (NotificationSettings, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return NotificationSettings{}, err
	}
	return NotificationSettings{
		Enabled:        user.NotificationsEnabled,
		TelegramChatID: user.TelegramChatID,
		Timezone:       user.Timezone,
	}, nil
}

// Save accepts a zero chat id only while notifications stay disabled. An
// empty timezone falls back to the server zone.
func (service *SettingsService) Save(userID uint, settings NotificationSettings) error {
	if settings.Enabled && settings.TelegramChatID == 0 {
		return ErrTelegramChatRequired
	}
	timezone := strings.TrimSpace(settings.Timezone)
	if timezone != "" {
		if _, err := loadUserTimezone(timezone); err != nil {
			return err
		}
	}
	return service.users.UpdateSettings(userID, settings.Enabled, settings.TelegramChatID, timezone)
}

// InitTimezone records a detected zone unless the user already picked one.
func (service *SettingsService) InitTimezone(userID uint, timezone string) (bool, error) {
	timezone = strings.TrimSpace(timezone)
	if _, err := loadUserTimezone(timezone); err != nil {
		return false, err
	}
	return service.users.InitTimezone(userID, timezone)
}

// UserLocation resolves the user's saved zone, or fallback when it is unset
// or no longer loadable.
func UserLocation(user models.User, fallback *time.Location) *time.Location {
	if location, err := loadUserTimezone(user.Timezone); err == nil {
		return location
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}

func loadUserTimezone(name string) (*time.Location, error) {
	// "Local" would mean the server zone, which is what an empty value is for.
	if name == "" || strings.EqualFold(name, "local") {
		return nil, ErrInvalidTimezone
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return location, nil
}
