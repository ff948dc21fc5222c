package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
	for name, value := range values {
		t.Setenv(name, value)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{"SECRET_KEY": validSecret})

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "UTC", cfg.Server.Timezone)
	assert.Equal(t, "data/cyclekit.db", cfg.Database.Path)
	assert.Equal(t, "0 9 * * *", cfg.Notifications.CronSpec)
	assert.Empty(t, cfg.Notifications.TelegramToken)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	setEnv(t, map[string]string{
		"PORT":               "9090",
		"ENVIRONMENT":        "Production",
		"LOG_LEVEL":          "DEBUG",
		"TZ":                 "Europe/Berlin",
		"DB_PATH":            "/tmp/cycles.db",
		"SECRET_KEY":         validSecret,
		"COOKIE_SECURE":      "true",
		"NOTIFY_CRON_SPEC":   "30 8 * * *",
		"TELEGRAM_BOT_TOKEN": "123:abc",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/tmp/cycles.db", cfg.Database.Path)
	assert.Equal(t, "30 8 * * *", cfg.Notifications.CronSpec)
	assert.Equal(t, "123:abc", cfg.Notifications.TelegramToken)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.True(t, cfg.IsProduction())
}

func TestLoadProductionDefaultsToSecureCookie(t *testing.T) {
	setEnv(t, map[string]string{"SECRET_KEY": validSecret, "ENVIRONMENT": "production"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Auth.CookieSecure)

	setEnv(t, map[string]string{"SECRET_KEY": validSecret, "ENVIRONMENT": "production", "COOKIE_SECURE": "false"})

	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.Auth.CookieSecure)
}

func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "short secret", env: map[string]string{"SECRET_KEY": "too-short-secret"}},
		{name: "placeholder secret", env: map[string]string{"SECRET_KEY": "replace_with_at_least_32_random_characters"}},
		{name: "port out of range", env: map[string]string{"SECRET_KEY": validSecret, "PORT": "999999"}},
		{name: "unknown environment", env: map[string]string{"SECRET_KEY": validSecret, "ENVIRONMENT": "qa"}},
		{name: "unknown log level", env: map[string]string{"SECRET_KEY": validSecret, "LOG_LEVEL": "verbose"}},
		{name: "unknown timezone", env: map[string]string{"SECRET_KEY": validSecret, "TZ": "Mars/Olympus"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setEnv(t, tc.env)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "expected ErrInvalidConfig, got %v", err)
		})
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Timezone: "Mars/Olympus"}}
	assert.Equal(t, "UTC", cfg.Location().String())
}
