package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cyclekit/cyclekit/internal/models"
)

type stubRecipientRepo struct {
	users []models.User
}

func (stub *stubRecipientRepo) ListNotificationRecipients() ([]models.User, error) {
	return stub.users, nil
}

type stubNotificationPeriods struct {
	byUser map[uint][]models.Period
}

func (stub *stubNotificationPeriods) ListByUser(userID uint) ([]models.Period, error) {
	return stub.byUser[userID], nil
}

type recordingSender struct {
	sent []Notification
	err  error
}

func (sender *recordingSender) Send(_ context.Context, notification Notification) error {
	if sender.err != nil {
		return sender.err
	}
	sender.sent = append(sender.sent, notification)
	return nil
}

func regularPeriodRecords(userID uint) []models.Period {
	end := func(value string) *string { return &value }
	return []models.Period{
		{ID: "p1", UserID: userID, StartDate: "2024-01-01", EndDate: end("2024-01-05")},
		{ID: "p2", UserID: userID, StartDate: "2024-01-29", EndDate: end("2024-02-02")},
		{ID: "p3", UserID: userID, StartDate: "2024-02-26", EndDate: end("2024-03-01")},
	}
}

func newTestNotificationService(t *testing.T, sender Sender, now string) *NotificationService {
	t.Helper()

	users := &stubRecipientRepo{users: []models.User{
		{ID: 1, TelegramChatID: 101, NotificationsEnabled: true},
		{ID: 2, TelegramChatID: 202, NotificationsEnabled: true},
	}}
	periods := &stubNotificationPeriods{byUser: map[uint][]models.Period{
		1: regularPeriodRecords(1),
		2: regularPeriodRecords(2)[:1],
	}}

	service := NewNotificationService(users, periods, sender, time.UTC)
	moment, err := time.ParseInLocation("2006-01-02 15:04", now, time.UTC)
	if err != nil {
		t.Fatalf("parse now: %v", err)
	}
	service.now = func() time.Time { return moment }
	return service
}

func TestNotificationServiceSendsPeriodReminderOncePerDay(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	service := newTestNotificationService(t, sender, "2024-03-25 09:00")

	sent, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sent != 1 || len(sender.sent) != 1 {
		t.Fatalf("expected one notification, got %d (%v)", sent, sender.sent)
	}

	notification := sender.sent[0]
	if notification.UserID != 1 || notification.ChatID != 101 || notification.Kind != NotificationPeriod {
		t.Fatalf("unexpected notification %+v", notification)
	}
	if FormatDate(notification.Date) != "2024-03-26" {
		t.Fatalf("expected notification for 2024-03-26, got %s", FormatDate(notification.Date))
	}
	if notification.Template.Subject == "" {
		t.Fatal("expected template subject")
	}

	again, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected duplicate run to send nothing, got %d", again)
	}
}

func TestNotificationServiceSendsOvulationReminder(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	service := newTestNotificationService(t, sender, "2024-03-08 21:30")

	if _, err := service.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].Kind != NotificationOvulation {
		t.Fatalf("expected one ovulation notification, got %+v", sender.sent)
	}
}

func TestNotificationServiceUsesEachUsersTimezone(t *testing.T) {
	t.Parallel()

	users := &stubRecipientRepo{users: []models.User{
		{ID: 1, TelegramChatID: 101, NotificationsEnabled: true},
		{ID: 2, TelegramChatID: 202, NotificationsEnabled: true, Timezone: "Pacific/Kiritimati"},
	}}
	periods := &stubNotificationPeriods{byUser: map[uint][]models.Period{
		1: regularPeriodRecords(1),
		2: regularPeriodRecords(2),
	}}

	sender := &recordingSender{}
	service := NewNotificationService(users, periods, sender, time.UTC)
	// 2024-03-24 12:00 UTC is already 2024-03-25 02:00 at UTC+14.
	service.now = func() time.Time { return time.Date(2024, time.March, 24, 12, 0, 0, 0, time.UTC) }

	if _, err := service.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one notification, got %+v", sender.sent)
	}
	if notification := sender.sent[0]; notification.UserID != 2 || notification.Kind != NotificationPeriod || FormatDate(notification.Date) != "2024-03-26" {
		t.Fatalf("expected period reminder for user 2 on 2024-03-26, got %+v", notification)
	}
}

func TestNotificationServiceRetriesAfterSendFailure(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{err: errors.New("telegram unavailable")}
	service := newTestNotificationService(t, sender, "2024-03-25 09:00")

	sent, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected nothing sent, got %d", sent)
	}

	sender.err = nil
	sent, err = service.Run(context.Background())
	if err != nil {
		t.Fatalf("retry run: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected retry to send, got %d", sent)
	}
}

func TestNotificationServiceStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	service := newTestNotificationService(t, sender, "2024-03-25 09:00")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := service.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no notifications, got %v", sender.sent)
	}
}
