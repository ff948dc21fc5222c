package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cyclekit/cyclekit/internal/logger"
	"github.com/cyclekit/cyclekit/internal/services"
)

type credentialsInput struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=128"`
}

type userView struct {
	ID                 uint   `json:"id"`
	Email              string `json:"email"`
	MustChangePassword bool   `json:"must_change_password"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := handler.bindJSON(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := handler.authService.Register(input.Email, input.Password)
	if err != nil {
		return respondServiceError(c, err)
	}
	logger.Log.WithField("user_id", user.ID).Info("user registered")

	token, err := handler.buildToken(&user)
	if err != nil {
		return respondServiceError(c, err)
	}
	handler.setAuthCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  userView{ID: user.ID, Email: user.Email},
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := handler.bindJSON(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	limiterKey := loginLimiterKey(c, input.Email)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		handler.loginLimiter.fail(limiterKey, now)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	token, err := handler.buildToken(&user)
	if err != nil {
		return respondServiceError(c, err)
	}
	handler.setAuthCookie(c, token)
	return c.JSON(fiber.Map{
		"token": token,
		"user":  userView{ID: user.ID, Email: user.Email, MustChangePassword: user.MustChangePassword},
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	var input changePasswordInput
	if err := handler.bindJSON(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := handler.authService.ChangePassword(currentUser(c).ID, input.CurrentPassword, input.NewPassword); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
