package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cyclekit/cyclekit/internal/services"
)

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	entries, err := handler.exportEntries(c)
	if err != nil {
		return respondExportError(c, err)
	}
	now := handler.now().In(handler.userLocation(c))

	serialized, err := json.MarshalIndent(fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"entries":     entries,
	}, "", "  ")
	if err != nil {
		return respondServiceError(c, err)
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	entries, err := handler.exportEntries(c)
	if err != nil {
		return respondExportError(c, err)
	}
	now := handler.now().In(handler.userLocation(c))

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return respondServiceError(c, err)
	}
	for _, entry := range entries {
		if err := writer.Write(entry.Columns()); err != nil {
			return respondServiceError(c, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return respondServiceError(c, err)
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) exportEntries(c *fiber.Ctx) ([]services.ExportEntry, error) {
	from, to, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return nil, err
	}

	userID := currentUser(c).ID
	periods, err := handler.periodService.List(userID)
	if err != nil {
		return nil, err
	}
	moods, err := handler.moodService.List(userID)
	if err != nil {
		return nil, err
	}
	return services.BuildExportEntries(periods, moods, from, to), nil
}

func respondExportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrExportFromDateInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	case errors.Is(err, services.ErrExportToDateInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	case errors.Is(err, services.ErrExportRangeInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	default:
		return respondServiceError(c, err)
	}
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("cyclekit-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}
