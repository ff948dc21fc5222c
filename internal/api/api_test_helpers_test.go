package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/cyclekit/cyclekit/internal/db"
)

const testPassword = "StrongPass1"

func newTestApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cyclekit-api-test.db"))
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(database, "test-secret-key-with-enough-length", time.UTC, false)
	require.NoError(t, err)
	handler.now = func() time.Time {
		return time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(response.Body).Decode(target))
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	payload := map[string]string{}
	decodeBody(t, response, &payload)
	return payload["error"]
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, response.StatusCode)

	var payload struct {
		Token string `json:"token"`
	}
	decodeBody(t, response, &payload)
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func createPeriod(t *testing.T, app *fiber.App, token string, start string, end string) periodView {
	t.Helper()

	payload := map[string]any{"start_date": start}
	if end != "" {
		payload["end_date"] = end
	}
	response := doJSON(t, app, http.MethodPost, "/api/periods", token, payload)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	var view periodView
	decodeBody(t, response, &view)
	return view
}

func seedRegularHistory(t *testing.T, app *fiber.App, token string) {
	t.Helper()
	createPeriod(t, app, token, "2024-01-01", "2024-01-05")
	createPeriod(t, app, token, "2024-01-29", "2024-02-02")
	createPeriod(t, app, token, "2024-02-26", "2024-03-01")
}
