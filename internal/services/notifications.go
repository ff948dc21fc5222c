package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cyclekit/cyclekit/internal/logger"
	"github.com/cyclekit/cyclekit/internal/models"
	"github.com/sirupsen/logrus"
)

const maxTrackedNotifications = 500

// Notification is one message due for a user about tomorrow.
type Notification struct {
	UserID   uint
	ChatID   int64
	Kind     NotificationKind
	Date     time.Time
	Template NotificationTemplate
}

type Sender interface {
	Send(ctx context.Context, notification Notification) error
}

type NotificationRecipientRepository interface {
	ListNotificationRecipients() ([]models.User, error)
}

type NotificationPeriodRepository interface {
	ListByUser(userID uint) ([]models.Period, error)
}

type NotificationService struct {
	users    NotificationRecipientRepository
	periods  NotificationPeriodRepository
	sender   Sender
	location *time.Location
	now      func() time.Time

	mu                     sync.Mutex
	sentDailyNotifications map[string]time.Time
}

func NewNotificationService(users NotificationRecipientRepository, periods NotificationPeriodRepository, sender Sender, location *time.Location) *NotificationService {
	if location == nil {
		location = time.Local
	}
	return &NotificationService{
		users:                  users,
		periods:                periods,
		sender:                 sender,
		location:               location,
		now:                    time.Now,
		sentDailyNotifications: make(map[string]time.Time),
	}
}

// Run evaluates every opted-in user once and returns how many notifications
// were handed to the sender. A failing user is logged and skipped.
func (service *NotificationService) Run(ctx context.Context) (int, error) {
	recipients, err := service.users.ListNotificationRecipients()
	if err != nil {
		return 0, fmt.Errorf("list notification recipients: %w", err)
	}

	now := service.now()
	sent := 0

	for _, user := range recipients {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		// "Tomorrow" is decided on the user's own calendar.
		today := DateAtLocation(now, UserLocation(user, service.location))
		entry := logger.Log.WithField("user_id", user.ID)
		records, err := service.periods.ListByUser(user.ID)
		if err != nil {
			entry.WithError(err).Error("notifications: load periods failed")
			continue
		}
		periods, err := PeriodsFromRecords(records)
		if err != nil {
			entry.WithError(err).Error("notifications: stored period is invalid")
			continue
		}

		decision := EvaluateNotifications(periods, today)
		for _, kind := range decision.Kinds() {
			sent += service.deliver(ctx, entry, user, kind, decision.Tomorrow, today)
		}
	}

	return sent, nil
}

func (service *NotificationService) deliver(ctx context.Context, entry *logrus.Entry, user models.User, kind NotificationKind, tomorrow time.Time, today time.Time) int {
	template, ok := TemplateFor(kind)
	if !ok {
		return 0
	}

	key := fmt.Sprintf("%s:%d:%s", kind, user.ID, FormatDate(today))
	if !service.shouldSend(key, today) {
		return 0
	}

	notification := Notification{
		UserID:   user.ID,
		ChatID:   user.TelegramChatID,
		Kind:     kind,
		Date:     tomorrow,
		Template: template,
	}
	if err := service.sender.Send(ctx, notification); err != nil {
		service.forget(key)
		entry.WithError(err).WithField("kind", kind).Error("notifications: send failed")
		return 0
	}

	entry.WithField("kind", kind).Info("notifications: sent")
	return 1
}

func (service *NotificationService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sentDailyNotifications[key]; ok && sameDay(sentOn, today) {
		return false
	}

	if len(service.sentDailyNotifications) >= maxTrackedNotifications {
		service.sentDailyNotifications = make(map[string]time.Time)
	}
	service.sentDailyNotifications[key] = today
	return true
}

// forget lets a failed send be retried on the next run.
func (service *NotificationService) forget(key string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sentDailyNotifications, key)
}
