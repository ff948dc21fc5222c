package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cyclekit/cyclekit/internal/services"
)

type moodMarkerInput struct {
	Date string `json:"date" validate:"required"`
	Mood string `json:"mood" validate:"required,max=64"`
}

type moodMarkerView struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Mood string `json:"mood"`
}

func newMoodMarkerView(marker services.MoodMarker) moodMarkerView {
	return moodMarkerView{ID: marker.ID, Date: services.FormatDate(marker.Date), Mood: marker.Mood}
}

// ListMoodMarkers returns every marker, or only those within from..to when
// both are given.
func (handler *Handler) ListMoodMarkers(c *fiber.Ctx) error {
	userID := currentUser(c).ID

	var (
		markers []services.MoodMarker
		err     error
	)
	if c.Query("from") != "" && c.Query("to") != "" {
		from, to, rangeErr := handler.calendarRange(c)
		if rangeErr != nil {
			return respondServiceError(c, rangeErr)
		}
		markers, err = handler.moodService.ListRange(userID, from, to)
	} else {
		markers, err = handler.moodService.List(userID)
	}
	if err != nil {
		return respondServiceError(c, err)
	}

	views := make([]moodMarkerView, 0, len(markers))
	for _, marker := range markers {
		views = append(views, newMoodMarkerView(marker))
	}
	return c.JSON(views)
}

func (handler *Handler) CreateMoodMarker(c *fiber.Ctx) error {
	var input moodMarkerInput
	if err := handler.bindJSON(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	day, err := services.ParseDate(input.Date)
	if err != nil {
		return respondServiceError(c, err)
	}

	marker, err := handler.moodService.Create(currentUser(c).ID, day, input.Mood)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newMoodMarkerView(marker))
}

func (handler *Handler) DeleteMoodMarker(c *fiber.Ctx) error {
	if err := handler.moodService.Delete(currentUser(c).ID, c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
