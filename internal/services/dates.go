package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// FormatDate renders the calendar date of day as YYYY-MM-DD, ignoring time of day.
func FormatDate(day time.Time) string {
	return day.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string anchored to local midnight.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, raw)
	}
	return parsed, nil
}

const secondsPerDay = 24 * 60 * 60

// DaysFrom returns the signed number of calendar days from one date to another.
// Only the calendar dates are compared, so DST transitions never shift the count.
// Unix seconds are used instead of Sub, whose Duration saturates after ~292 years.
func DaysFrom(from time.Time, to time.Time) int {
	fromYear, fromMonth, fromDay := from.Date()
	toYear, toMonth, toDay := to.Date()
	start := time.Date(fromYear, fromMonth, fromDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(toYear, toMonth, toDay, 0, 0, 0, 0, time.UTC)
	return int((end.Unix() - start.Unix()) / secondsPerDay)
}

// DaysBetweenInclusive counts both endpoints: the same date yields 1.
func DaysBetweenInclusive(a time.Time, b time.Time) int {
	days := DaysFrom(a, b)
	if days < 0 {
		days = -days
	}
	return days + 1
}

func AddDays(day time.Time, days int) time.Time {
	return dateOnly(day).AddDate(0, 0, days)
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func sameDay(a, b time.Time) bool {
	return DaysFrom(a, b) == 0
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
