package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyclekit/cyclekit/internal/services"
)

func TestSettingsRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "owner@example.com")

	initial := doJSON(t, app, http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, initial.StatusCode)
	var settings services.NotificationSettings
	decodeBody(t, initial, &settings)
	assert.False(t, settings.Enabled)

	noChat := doJSON(t, app, http.MethodPut, "/api/settings", token, map[string]any{"notifications_enabled": true})
	assert.Equal(t, http.StatusBadRequest, noChat.StatusCode)

	missingFlag := doJSON(t, app, http.MethodPut, "/api/settings", token, map[string]any{"telegram_chat_id": 42})
	assert.Equal(t, http.StatusBadRequest, missingFlag.StatusCode)

	saved := doJSON(t, app, http.MethodPut, "/api/settings", token, map[string]any{
		"notifications_enabled": true,
		"telegram_chat_id":      42,
	})
	require.Equal(t, http.StatusOK, saved.StatusCode)

	reloaded := doJSON(t, app, http.MethodGet, "/api/settings", token, nil)
	decodeBody(t, reloaded, &settings)
	assert.True(t, settings.Enabled)
	assert.Equal(t, int64(42), settings.TelegramChatID)
}

func TestSettingsTimezoneValidationAndInit(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "zone@example.com")

	unknown := doJSON(t, app, http.MethodPut, "/api/settings", token, map[string]any{
		"notifications_enabled": false,
		"timezone":              "Mars/Olympus_Mons",
	})
	assert.Equal(t, http.StatusBadRequest, unknown.StatusCode)

	first := doJSON(t, app, http.MethodPost, "/api/settings/timezone", token, map[string]any{"timezone": "Asia/Tokyo"})
	require.Equal(t, http.StatusOK, first.StatusCode)
	var result struct {
		Updated bool `json:"updated"`
	}
	decodeBody(t, first, &result)
	assert.True(t, result.Updated)

	second := doJSON(t, app, http.MethodPost, "/api/settings/timezone", token, map[string]any{"timezone": "Europe/Berlin"})
	require.Equal(t, http.StatusOK, second.StatusCode)
	decodeBody(t, second, &result)
	assert.False(t, result.Updated)

	// Omitting the timezone keeps the stored one.
	saved := doJSON(t, app, http.MethodPut, "/api/settings", token, map[string]any{"notifications_enabled": false})
	require.Equal(t, http.StatusOK, saved.StatusCode)
	var settings services.NotificationSettings
	decodeBody(t, saved, &settings)
	assert.Equal(t, "Asia/Tokyo", settings.Timezone)

	invalid := doJSON(t, app, http.MethodPost, "/api/settings/timezone", token, map[string]any{"timezone": ""})
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
}

func TestUserTimezoneDrivesToday(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "kiritimati@example.com")

	before := doJSON(t, app, http.MethodGet, "/api/cycle/phase", token, nil)
	require.Equal(t, http.StatusOK, before.StatusCode)
	var phase phaseView
	decodeBody(t, before, &phase)
	assert.Equal(t, "2024-03-20", phase.Date)

	// 2024-03-20 10:00 UTC is 2024-03-21 00:00 at UTC+14.
	saved := doJSON(t, app, http.MethodPut, "/api/settings", token, map[string]any{
		"notifications_enabled": false,
		"timezone":              "Pacific/Kiritimati",
	})
	require.Equal(t, http.StatusOK, saved.StatusCode)

	after := doJSON(t, app, http.MethodGet, "/api/cycle/phase", token, nil)
	require.Equal(t, http.StatusOK, after.StatusCode)
	decodeBody(t, after, &phase)
	assert.Equal(t, "2024-03-21", phase.Date)
}
