package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings of the cyclekit server.
type Config struct {
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Auth          AuthConfig          `mapstructure:"auth" validate:"required"`
	Notifications NotificationsConfig `mapstructure:"notifications" validate:"required"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development staging production"`
	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Timezone    string `mapstructure:"timezone" validate:"required,timezone"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type AuthConfig struct {
	SecretKey    string `mapstructure:"secret_key" validate:"required,min=32,notplaceholder"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

type NotificationsConfig struct {
	CronSpec      string `mapstructure:"cron_spec" validate:"required"`
	TelegramToken string `mapstructure:"telegram_token"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

var insecurePlaceholders = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

var envBindings = map[string]string{
	"server.port":                  "PORT",
	"server.environment":           "ENVIRONMENT",
	"server.log_level":             "LOG_LEVEL",
	"server.timezone":              "TZ",
	"database.path":                "DB_PATH",
	"auth.secret_key":              "SECRET_KEY",
	"auth.cookie_secure":           "COOKIE_SECURE",
	"notifications.cron_spec":      "NOTIFY_CRON_SPEC",
	"notifications.telegram_token": "TELEGRAM_BOT_TOKEN",
}

// Load reads .env (if present) and the process environment. Environment
// values win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.timezone", "UTC")
	v.SetDefault("database.path", "data/cyclekit.db")
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("notifications.cron_spec", "0 9 * * *")
	v.SetDefault("notifications.telegram_token", "")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Server.Environment = strings.ToLower(strings.TrimSpace(cfg.Server.Environment))
	cfg.Server.LogLevel = strings.ToLower(strings.TrimSpace(cfg.Server.LogLevel))
	cfg.Auth.SecretKey = strings.TrimSpace(cfg.Auth.SecretKey)
	// Production serves over TLS, so the auth cookie is Secure unless
	// COOKIE_SECURE says otherwise.
	if cfg.IsProduction() && strings.TrimSpace(os.Getenv(envBindings["auth.cookie_secure"])) == "" {
		cfg.Auth.CookieSecure = true
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.RegisterValidation("notplaceholder", notPlaceholder); err != nil {
		return fmt.Errorf("register validation: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidConfig, err)
	}
	return nil
}

func notPlaceholder(field validator.FieldLevel) bool {
	_, insecure := insecurePlaceholders[strings.ToLower(field.Field().String())]
	return !insecure
}

// Location falls back to UTC for names that cannot be loaded.
func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (cfg *Config) IsProduction() bool {
	return cfg.Server.Environment == "production"
}
