package services

import (
	"testing"
	"time"
)

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()
	day, err := ParseDate(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return day
}

func closedPeriod(t *testing.T, id string, start string, end string) Period {
	t.Helper()
	endDay := mustDay(t, end)
	period, err := NewPeriod(id, mustDay(t, start), &endDay)
	if err != nil {
		t.Fatalf("build period %s: %v", id, err)
	}
	return period
}

func openPeriod(t *testing.T, id string, start string) Period {
	t.Helper()
	period, err := NewPeriod(id, mustDay(t, start), nil)
	if err != nil {
		t.Fatalf("build period %s: %v", id, err)
	}
	return period
}

// threeRegularPeriods has two 29-day cycle samples; the next start is predicted for 2024-03-26.
func threeRegularPeriods(t *testing.T) []Period {
	t.Helper()
	return []Period{
		closedPeriod(t, "p1", "2024-01-01", "2024-01-05"),
		closedPeriod(t, "p2", "2024-01-29", "2024-02-02"),
		closedPeriod(t, "p3", "2024-02-26", "2024-03-01"),
	}
}
