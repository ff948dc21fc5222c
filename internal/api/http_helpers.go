package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cyclekit/cyclekit/internal/logger"
	"github.com/cyclekit/cyclekit/internal/services"
)

// respondInputError reports body and date parse failures as 400s.
func respondInputError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errInvalidInput) {
		return apiError(c, fiber.StatusBadRequest, errInvalidInput.Error())
	}
	return respondServiceError(c, err)
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondServiceError maps domain errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidDate):
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	case errors.Is(err, services.ErrPeriodEndBeforeStart):
		return apiError(c, fiber.StatusBadRequest, "end date before start date")
	case errors.Is(err, errCalendarRange):
		return apiError(c, fiber.StatusBadRequest, "calendar range too large")
	case errors.Is(err, services.ErrActivePeriodExists):
		return apiError(c, fiber.StatusConflict, "another period is still ongoing")
	case errors.Is(err, services.ErrPeriodNotFound):
		return apiError(c, fiber.StatusNotFound, "period not found")
	case errors.Is(err, services.ErrMoodMarkerNotFound):
		return apiError(c, fiber.StatusNotFound, "mood marker not found")
	case errors.Is(err, services.ErrMoodLabelEmpty):
		return apiError(c, fiber.StatusBadRequest, "mood is required")
	case errors.Is(err, services.ErrInvalidCredentials):
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrEmailTaken):
		return apiError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, services.ErrInvalidEmail):
		return apiError(c, fiber.StatusBadRequest, "invalid email")
	case errors.Is(err, services.ErrPasswordUnchanged):
		return apiError(c, fiber.StatusBadRequest, "new password must differ")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrTelegramChatRequired):
		return apiError(c, fiber.StatusBadRequest, "telegram chat id required")
	case errors.Is(err, services.ErrInvalidTimezone):
		return apiError(c, fiber.StatusBadRequest, "invalid timezone")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	default:
		logger.Log.WithError(err).WithField("path", c.Path()).Error("request failed")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

var errInvalidInput = errors.New("invalid input")

// bindJSON parses the body into payload and runs its validate tags.
func (handler *Handler) bindJSON(c *fiber.Ctx, payload any) error {
	if err := c.BodyParser(payload); err != nil {
		return errInvalidInput
	}
	if err := handler.validate.Struct(payload); err != nil {
		return errInvalidInput
	}
	return nil
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	day, err := services.ParseDate(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// dateQuery reads a YYYY-MM-DD query parameter, falling back when absent.
func dateQuery(c *fiber.Ctx, key string, fallback time.Time) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	return services.ParseDate(raw)
}
