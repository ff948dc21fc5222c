package services

import (
	"sort"
	"time"

	"github.com/cyclekit/cyclekit/internal/models"
)

// MoodMarker tags a calendar date with a mood label. Labels are opaque.
type MoodMarker struct {
	ID   string
	Date time.Time
	Mood string
}

func MoodMarkerFromRecord(record models.MoodMarker) (MoodMarker, error) {
	day, err := ParseDate(record.Date)
	if err != nil {
		return MoodMarker{}, err
	}
	return MoodMarker{ID: record.ID, Date: day, Mood: record.Mood}, nil
}

func MoodMarkersFromRecords(records []models.MoodMarker) ([]MoodMarker, error) {
	markers := make([]MoodMarker, 0, len(records))
	for _, record := range records {
		marker, err := MoodMarkerFromRecord(record)
		if err != nil {
			return nil, err
		}
		markers = append(markers, marker)
	}
	return markers, nil
}

type MoodCorrelation struct {
	Mood              string             `json:"mood"`
	Total             int                `json:"total"`
	MostCommonDay     *int               `json:"most_common_day,omitempty"`
	MostCommonPhase   *CyclePhase        `json:"most_common_phase,omitempty"`
	PhaseCounts       map[CyclePhase]int `json:"phase_counts"`
	UnknownCycleCount int                `json:"unknown_cycle_count"`
}

type moodTally struct {
	total   int
	unknown int
	days    map[int]int
	phases  map[CyclePhase]int
}

// AnalyzeMoodCorrelation classifies every marker date and aggregates per mood.
// Results are ordered by occurrence count, then label.
func AnalyzeMoodCorrelation(markers []MoodMarker, periods []Period) []MoodCorrelation {
	averageCycleLength := AverageCycleLength(periods)
	tallies := make(map[string]*moodTally)

	for _, marker := range markers {
		tally, ok := tallies[marker.Mood]
		if !ok {
			tally = &moodTally{days: make(map[int]int), phases: make(map[CyclePhase]int)}
			tallies[marker.Mood] = tally
		}
		tally.total++

		info, classified := ClassifyCyclePhase(marker.Date, periods, averageCycleLength)
		if !classified {
			tally.unknown++
			continue
		}
		tally.days[info.DayInCycle]++
		tally.phases[info.Phase]++
	}

	result := make([]MoodCorrelation, 0, len(tallies))
	for mood, tally := range tallies {
		result = append(result, MoodCorrelation{
			Mood:              mood,
			Total:             tally.total,
			MostCommonDay:     mostCommonDay(tally.days),
			MostCommonPhase:   mostCommonPhase(tally.phases),
			PhaseCounts:       tally.phases,
			UnknownCycleCount: tally.unknown,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Total == result[j].Total {
			return result[i].Mood < result[j].Mood
		}
		return result[i].Total > result[j].Total
	})
	return result
}

// mostCommonDay breaks ties towards the earliest cycle day.
func mostCommonDay(counts map[int]int) *int {
	best, bestCount := 0, 0
	for day, count := range counts {
		if count > bestCount || (count == bestCount && day < best) {
			best, bestCount = day, count
		}
	}
	if bestCount == 0 {
		return nil
	}
	return &best
}

// mostCommonPhase breaks ties by cycle order.
func mostCommonPhase(counts map[CyclePhase]int) *CyclePhase {
	var best *CyclePhase
	bestCount := 0
	for _, phase := range PhaseOrder {
		if counts[phase] > bestCount {
			phase := phase
			best, bestCount = &phase, counts[phase]
		}
	}
	return best
}
