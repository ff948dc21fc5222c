package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cyclekit/cyclekit/internal/services"
)

var errCalendarRange = errors.New("calendar range too large")

type phaseView struct {
	Date  string                   `json:"date"`
	Phase *services.CyclePhaseInfo `json:"phase"`
}

type predictionView struct {
	PredictedDate      *string             `json:"predicted_date"`
	DaysUntil          *int                `json:"days_until"`
	Confidence         services.Confidence `json:"confidence"`
	AverageCycleLength float64             `json:"average_cycle_length"`
}

type calendarView struct {
	From     string                              `json:"from"`
	To       string                              `json:"to"`
	Markings map[string]services.CalendarMarking `json:"markings"`
}

type periodStatView struct {
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	LengthInDays       int    `json:"length_in_days"`
	DaysBetweenPeriods *int   `json:"days_between_periods"`
}

type statsView struct {
	Periods                 []periodStatView `json:"periods"`
	AverageMenstruationDays float64          `json:"average_menstruation_days"`
	AverageGapDays          float64          `json:"average_gap_days"`
	CompletedPeriods        int              `json:"completed_periods"`
	AveragePeriodLength     int              `json:"average_period_length"`
	AverageCycleLength      float64          `json:"average_cycle_length"`
}

type earlyView struct {
	IsEarly       bool    `json:"is_early"`
	DaysEarly     int     `json:"days_early"`
	PredictedDate *string `json:"predicted_date"`
}

type notificationsView struct {
	Tomorrow          string                    `json:"tomorrow"`
	PeriodTomorrow    bool                      `json:"period_tomorrow"`
	OvulationTomorrow bool                      `json:"ovulation_tomorrow"`
	Transition        *services.PhaseTransition `json:"transition"`
}

func optionalDate(day *time.Time) *string {
	if day == nil {
		return nil
	}
	formatted := services.FormatDate(*day)
	return &formatted
}

func (handler *Handler) GetPhase(c *fiber.Ctx) error {
	day, err := dateQuery(c, "date", handler.today(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	periods, err := handler.periodService.List(currentUser(c).ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	view := phaseView{Date: services.FormatDate(day)}
	if info, ok := services.ClassifyCyclePhase(day, periods, services.AverageCycleLength(periods)); ok {
		view.Phase = &info
	}
	return c.JSON(view)
}

func (handler *Handler) GetPrediction(c *fiber.Ctx) error {
	periods, err := handler.periodService.List(currentUser(c).ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	prediction := services.PredictNextPeriod(periods, handler.today(c))
	return c.JSON(predictionView{
		PredictedDate:      optionalDate(prediction.PredictedDate),
		DaysUntil:          prediction.DaysUntil,
		Confidence:         prediction.Confidence,
		AverageCycleLength: services.AverageCycleLength(periods),
	})
}

// GetCalendar defaults to the current month.
func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	from, to, err := handler.calendarRange(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	userID := currentUser(c).ID
	periods, err := handler.periodService.List(userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	moods, err := handler.moodService.ListRange(userID, from, to)
	if err != nil {
		return respondServiceError(c, err)
	}

	markings := services.ComposeCalendarMarkings(periods, moods, services.CalendarOptions{
		From:            from,
		To:              to,
		Today:           handler.today(c),
		EditingPeriodID: c.Query("editing"),
	})
	return c.JSON(calendarView{
		From:     services.FormatDate(from),
		To:       services.FormatDate(to),
		Markings: markings,
	})
}

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	periods, err := handler.periodService.List(currentUser(c).ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	stats := services.BuildPeriodStats(periods)
	summary := services.SummarizePeriodStats(stats)
	views := make([]periodStatView, 0, len(stats))
	for _, stat := range stats {
		views = append(views, periodStatView{
			StartDate:          services.FormatDate(stat.StartDate),
			EndDate:            services.FormatDate(stat.EndDate),
			LengthInDays:       stat.LengthInDays,
			DaysBetweenPeriods: stat.DaysBetweenPeriods,
		})
	}

	return c.JSON(statsView{
		Periods:                 views,
		AverageMenstruationDays: summary.AverageMenstruationDays,
		AverageGapDays:          summary.AverageGapDays,
		CompletedPeriods:        summary.CompletedPeriods,
		AveragePeriodLength:     services.AveragePeriodLengthDays(periods),
		AverageCycleLength:      services.AverageCycleLength(periods),
	})
}

func (handler *Handler) GetEarlyPeriod(c *fiber.Ctx) error {
	periods, err := handler.periodService.List(currentUser(c).ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	early := services.DetectEarlyPeriod(periods, services.CurrentPeriod(periods))
	return c.JSON(earlyView{
		IsEarly:       early.IsEarly,
		DaysEarly:     early.DaysEarly,
		PredictedDate: optionalDate(early.PredictedDate),
	})
}

func (handler *Handler) GetMoodCorrelation(c *fiber.Ctx) error {
	userID := currentUser(c).ID
	periods, err := handler.periodService.List(userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	markers, err := handler.moodService.List(userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(services.AnalyzeMoodCorrelation(markers, periods))
}

func (handler *Handler) GetNotifications(c *fiber.Ctx) error {
	periods, err := handler.periodService.List(currentUser(c).ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	decision := services.EvaluateNotifications(periods, handler.today(c))
	return c.JSON(notificationsView{
		Tomorrow:          services.FormatDate(decision.Tomorrow),
		PeriodTomorrow:    decision.PeriodTomorrow,
		OvulationTomorrow: decision.OvulationTomorrow,
		Transition:        decision.Transition,
	})
}

func (handler *Handler) calendarRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	today := handler.today(c)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	from, err := dateQuery(c, "from", monthStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := dateQuery(c, "to", monthEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if services.DaysFrom(from, to) < 0 {
		return time.Time{}, time.Time{}, services.ErrPeriodEndBeforeStart
	}
	if services.DaysBetweenInclusive(from, to) > maxCalendarDays {
		return time.Time{}, time.Time{}, errCalendarRange
	}
	return from, to, nil
}
