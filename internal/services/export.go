package services

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

var ExportCSVHeaders = []string{"Date", "Period", "Phase", "Cycle day", "Moods"}

// ExportEntry is one recorded day: a logged period day, a mood marker, or
// both.
type ExportEntry struct {
	Date       string     `json:"date"`
	Period     bool       `json:"period"`
	Phase      CyclePhase `json:"phase,omitempty"`
	DayInCycle int        `json:"day_in_cycle,omitempty"`
	Moods      []string   `json:"moods"`
}

// ParseExportRange accepts empty bounds as open-ended.
func ParseExportRange(rawFrom string, rawTo string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if strings.TrimSpace(rawFrom) != "" {
		parsed, err := ParseDate(rawFrom)
		if err != nil {
			return nil, nil, ErrExportFromDateInvalid
		}
		from = &parsed
	}
	if strings.TrimSpace(rawTo) != "" {
		parsed, err := ParseDate(rawTo)
		if err != nil {
			return nil, nil, ErrExportToDateInvalid
		}
		to = &parsed
	}
	if from != nil && to != nil && DaysFrom(*from, *to) < 0 {
		return nil, nil, ErrExportRangeInvalid
	}
	return from, to, nil
}

// BuildExportEntries lists recorded days in date order. Only logged days
// count as period days; an open period contributes its start alone.
func BuildExportEntries(periods []Period, moods []MoodMarker, from *time.Time, to *time.Time) []ExportEntry {
	inRange := func(day time.Time) bool {
		if from != nil && DaysFrom(*from, day) < 0 {
			return false
		}
		return to == nil || DaysFrom(day, *to) >= 0
	}

	days := make(map[string]*ExportEntry)
	entryFor := func(day time.Time) *ExportEntry {
		key := FormatDate(day)
		entry, ok := days[key]
		if !ok {
			entry = &ExportEntry{Date: key, Moods: []string{}}
			days[key] = entry
		}
		return entry
	}

	for _, period := range periods {
		end := period.Start
		if period.End != nil {
			end = *period.End
		}
		for day := period.Start; DaysFrom(day, end) >= 0; day = AddDays(day, 1) {
			if inRange(day) {
				entryFor(day).Period = true
			}
		}
	}
	for _, marker := range moods {
		if inRange(marker.Date) {
			entry := entryFor(marker.Date)
			entry.Moods = append(entry.Moods, marker.Mood)
		}
	}

	averageCycleLength := AverageCycleLength(periods)
	entries := make([]ExportEntry, 0, len(days))
	for _, entry := range days {
		if day, err := ParseDate(entry.Date); err == nil {
			if info, ok := ClassifyCyclePhase(day, periods, averageCycleLength); ok {
				entry.Phase = info.Phase
				entry.DayInCycle = info.DayInCycle
			}
		}
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries
}

func (entry ExportEntry) Columns() []string {
	dayInCycle := ""
	if entry.DayInCycle > 0 {
		dayInCycle = strconv.Itoa(entry.DayInCycle)
	}
	return []string{
		entry.Date,
		csvYesNo(entry.Period),
		string(entry.Phase),
		dayInCycle,
		strings.Join(entry.Moods, "; "),
	}
}

func csvYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
