package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoodMarkerLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "owner@example.com")

	created := doJSON(t, app, http.MethodPost, "/api/mood-markers", token, map[string]string{
		"date": "2024-03-10",
		"mood": "  calm ",
	})
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var marker moodMarkerView
	decodeBody(t, created, &marker)
	assert.Equal(t, "calm", marker.Mood)
	assert.Equal(t, "2024-03-10", marker.Date)

	doJSON(t, app, http.MethodPost, "/api/mood-markers", token, map[string]string{
		"date": "2024-04-02",
		"mood": "tired",
	})

	ranged := doJSON(t, app, http.MethodGet, "/api/mood-markers?from=2024-03-01&to=2024-03-31", token, nil)
	require.Equal(t, http.StatusOK, ranged.StatusCode)
	var inMarch []moodMarkerView
	decodeBody(t, ranged, &inMarch)
	require.Len(t, inMarch, 1)
	assert.Equal(t, marker.ID, inMarch[0].ID)

	deleted := doJSON(t, app, http.MethodDelete, "/api/mood-markers/"+marker.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, deleted.StatusCode)

	all := doJSON(t, app, http.MethodGet, "/api/mood-markers", token, nil)
	var remaining []moodMarkerView
	decodeBody(t, all, &remaining)
	require.Len(t, remaining, 1)
	assert.Equal(t, "tired", remaining[0].Mood)
}

func TestCreateMoodMarkerRejectsBlankLabel(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "owner@example.com")

	response := doJSON(t, app, http.MethodPost, "/api/mood-markers", token, map[string]string{
		"date": "2024-03-10",
		"mood": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}
