package api

import (
	"github.com/gofiber/fiber/v2"
)

type settingsInput struct {
	NotificationsEnabled *bool   `json:"notifications_enabled" validate:"required"`
	TelegramChatID       int64   `json:"telegram_chat_id"`
	Timezone             *string `json:"timezone" validate:"omitempty,timezone"`
}

type timezoneInput struct {
	Timezone string `json:"timezone" validate:"required,timezone"`
}

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.settingsService.Load(currentUser(c).ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings keeps the stored timezone when the payload omits it; an
// empty string resets it to the server zone.
func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	var input settingsInput
	if err := handler.bindJSON(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := currentUser(c).ID
	settings, err := handler.settingsService.Load(userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	settings.Enabled = *input.NotificationsEnabled
	settings.TelegramChatID = input.TelegramChatID
	if input.Timezone != nil {
		settings.Timezone = *input.Timezone
	}

	if err := handler.settingsService.Save(userID, settings); err != nil {
		return respondServiceError(c, err)
	}
	return handler.GetSettings(c)
}

// InitTimezone stores a client-detected zone unless one is already set.
func (handler *Handler) InitTimezone(c *fiber.Ctx) error {
	var input timezoneInput
	if err := handler.bindJSON(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid timezone")
	}

	updated, err := handler.settingsService.InitTimezone(currentUser(c).ID, input.Timezone)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}
