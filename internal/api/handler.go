package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cyclekit/cyclekit/internal/db"
	"github.com/cyclekit/cyclekit/internal/services"
)

const (
	authCookieName  = "cyclekit_auth"
	authTokenTTL    = 7 * 24 * time.Hour
	maxCalendarDays = 366
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	now          func() time.Time

	authService     *services.AuthService
	periodService   *services.PeriodService
	moodService     *services.MoodService
	settingsService *services.SettingsService

	validate     *validator.Validate
	loginLimiter *attemptLimiter
}

func NewHandler(database *gorm.DB, secretKey string, location *time.Location, cookieSecure bool) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if secretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.UTC
	}

	repos := db.NewRepositories(database)
	return &Handler{
		secretKey:       []byte(secretKey),
		location:        location,
		cookieSecure:    cookieSecure,
		now:             time.Now,
		authService:     services.NewAuthService(repos.Users),
		periodService:   services.NewPeriodService(repos.Periods),
		moodService:     services.NewMoodService(repos.MoodMarkers),
		settingsService: services.NewSettingsService(repos.Users),
		validate:        validator.New(),
		loginLimiter:    newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
	}, nil
}

// userLocation is the signed-in user's zone, or the server zone.
func (handler *Handler) userLocation(c *fiber.Ctx) *time.Location {
	user := currentUser(c)
	if user == nil {
		return handler.location
	}
	return services.UserLocation(*user, handler.location)
}

func (handler *Handler) today(c *fiber.Ctx) time.Time {
	return services.DateAtLocation(handler.now(), handler.userLocation(c))
}
