package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"github.com/cyclekit/cyclekit/internal/services"
)

var ErrMissingChatID = errors.New("notification has no telegram chat id")

// telebot calls take no context, so a stuck request is bounded by the HTTP
// client instead of the scheduler's deadline.
const telegramRequestTimeout = 30 * time.Second

// TelegramSender delivers notifications as Telegram messages. The bot is
// created in offline mode since it only sends.
type TelegramSender struct {
	bot    *telebot.Bot
	client *http.Client
}

func NewTelegramSender(token string) (*TelegramSender, error) {
	client := &http.Client{Timeout: telegramRequestTimeout}
	bot, err := telebot.NewBot(telebot.Settings{Token: token, Offline: true, Client: client})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramSender{bot: bot, client: client}, nil
}

func (sender *TelegramSender) Send(ctx context.Context, notification services.Notification) error {
	if notification.ChatID == 0 {
		return ErrMissingChatID
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := sender.bot.Send(telebot.ChatID(notification.ChatID), FormatMessage(notification))
	return err
}

// LogSender writes notifications to the log instead of delivering them.
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (sender *LogSender) Send(_ context.Context, notification services.Notification) error {
	sender.log.WithFields(logrus.Fields{
		"user_id": notification.UserID,
		"kind":    notification.Kind,
		"date":    services.FormatDate(notification.Date),
	}).Info(notification.Template.Subject)
	return nil
}

func FormatMessage(notification services.Notification) string {
	return notification.Template.Subject + "\n\n" + notification.Template.Body
}

// NewSender picks Telegram delivery when a bot token is configured.
func NewSender(token string, log *logrus.Logger) (services.Sender, error) {
	if token == "" {
		return NewLogSender(log), nil
	}
	return NewTelegramSender(token)
}
