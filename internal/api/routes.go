package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)

	periods := api.Group("/periods", handler.AuthRequired)
	periods.Get("", handler.ListPeriods)
	periods.Post("", handler.CreatePeriod)
	periods.Put("/:id", handler.UpdatePeriod)
	periods.Delete("/:id", handler.DeletePeriod)
	periods.Post("/:id/close", handler.ClosePeriod)

	moods := api.Group("/mood-markers", handler.AuthRequired)
	moods.Get("", handler.ListMoodMarkers)
	moods.Post("", handler.CreateMoodMarker)
	moods.Delete("/:id", handler.DeleteMoodMarker)

	cycle := api.Group("/cycle", handler.AuthRequired)
	cycle.Get("/phase", handler.GetPhase)
	cycle.Get("/prediction", handler.GetPrediction)
	cycle.Get("/calendar", handler.GetCalendar)
	cycle.Get("/stats", handler.GetStats)
	cycle.Get("/early", handler.GetEarlyPeriod)
	cycle.Get("/moods", handler.GetMoodCorrelation)
	cycle.Get("/notifications", handler.GetNotifications)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/json", handler.ExportJSON)
	export.Get("/csv", handler.ExportCSV)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("", handler.GetSettings)
	settings.Put("", handler.UpdateSettings)
	settings.Post("/password", handler.ChangePassword)
	settings.Post("/timezone", handler.InitTimezone)

	app.Use(handler.NotFound)
}
