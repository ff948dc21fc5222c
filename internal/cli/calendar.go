package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cyclekit/cyclekit/internal/db"
	"github.com/cyclekit/cyclekit/internal/services"
	"github.com/cyclekit/cyclekit/internal/termcal"
)

const monthLayout = "2006-01"

type CalendarOptions struct {
	DBPath string
	Email  string
	// Month is YYYY-MM; empty means the month containing Today in the
	// user's timezone.
	Month string
	Today time.Time
}

// RunCalendarCommand prints the coloured month grid for one user followed by
// the next-period prediction.
func RunCalendarCommand(options CalendarOptions, out io.Writer) error {
	email := services.NormalizeAuthEmail(options.Email)
	if email == "" {
		return fmt.Errorf("invalid email address %q", options.Email)
	}

	var month *time.Time
	if raw := strings.TrimSpace(options.Month); raw != "" {
		parsed, err := time.ParseInLocation(monthLayout, raw, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", raw)
		}
		month = &parsed
	}

	database, closeDB, err := openDatabase(options.DBPath)
	if err != nil {
		return err
	}
	defer closeDB()

	repos := db.NewRepositories(database)
	user, err := repos.Users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return fmt.Errorf("load user: %w", err)
	}

	today := services.DateAtLocation(options.Today, services.UserLocation(user, time.Local))
	if month == nil {
		month = &today
	}

	periods, err := services.NewPeriodService(repos.Periods).List(user.ID)
	if err != nil {
		return fmt.Errorf("load periods: %w", err)
	}
	from, to := termcal.MonthRange(*month)
	moods, err := services.NewMoodService(repos.MoodMarkers).ListRange(user.ID, from, to)
	if err != nil {
		return fmt.Errorf("load mood markers: %w", err)
	}

	markings := services.ComposeCalendarMarkings(periods, moods, services.CalendarOptions{
		From:  from,
		To:    to,
		Today: today,
	})

	fmt.Fprintln(out, termcal.Render(*month, markings, today))
	fmt.Fprintln(out, termcal.Legend())
	fmt.Fprintln(out, predictionLine(services.PredictNextPeriod(periods, today)))
	return nil
}

func predictionLine(prediction services.PeriodPrediction) string {
	if !prediction.Usable() {
		return "Next period: not enough history yet"
	}
	return fmt.Sprintf("Next period: %s (%s confidence, in %d days)",
		services.FormatDate(*prediction.PredictedDate), prediction.Confidence, *prediction.DaysUntil)
}
