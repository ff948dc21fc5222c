package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/cyclekit/cyclekit/internal/models"
)

var ErrPeriodEndBeforeStart = errors.New("period end date before start date")

// Period is a contiguous menstrual interval. A nil End marks an ongoing period.
type Period struct {
	ID    string
	Start time.Time
	End   *time.Time
}

func NewPeriod(id string, start time.Time, end *time.Time) (Period, error) {
	period := Period{ID: id, Start: dateOnly(start)}
	if end != nil {
		endDay := dateOnly(*end)
		if DaysFrom(period.Start, endDay) < 0 {
			return Period{}, ErrPeriodEndBeforeStart
		}
		period.End = &endDay
	}
	return period, nil
}

func ParsePeriod(id string, rawStart string, rawEnd *string) (Period, error) {
	start, err := ParseDate(rawStart)
	if err != nil {
		return Period{}, err
	}
	if rawEnd == nil {
		return NewPeriod(id, start, nil)
	}
	end, err := ParseDate(*rawEnd)
	if err != nil {
		return Period{}, err
	}
	return NewPeriod(id, start, &end)
}

func PeriodFromRecord(record models.Period) (Period, error) {
	return ParsePeriod(record.ID, record.StartDate, record.EndDate)
}

func PeriodsFromRecords(records []models.Period) ([]Period, error) {
	periods := make([]Period, 0, len(records))
	for _, record := range records {
		period, err := PeriodFromRecord(record)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, nil
}

func (period Period) IsOpen() bool {
	return period.End == nil
}

// IsDateWithinPeriod is an inclusive range test for closed periods. An open
// period only claims its start date here; the remainder is projected by the
// phase classifier.
func IsDateWithinPeriod(day time.Time, period Period) bool {
	if period.End == nil {
		return sameDay(day, period.Start)
	}
	return DaysFrom(period.Start, day) >= 0 && DaysFrom(day, *period.End) >= 0
}

// AveragePeriodLengthDays is the rounded mean length of closed periods, or
// models.DefaultPeriodLength when none are closed.
func AveragePeriodLengthDays(periods []Period) int {
	lengths := make([]int, 0, len(periods))
	for _, period := range periods {
		if period.End != nil {
			lengths = append(lengths, DaysBetweenInclusive(period.Start, *period.End))
		}
	}
	if len(lengths) == 0 {
		return models.DefaultPeriodLength
	}
	return int(math.Round(averageInts(lengths)))
}

func EstimateOpenPeriodEndDate(open Period, periods []Period) time.Time {
	return AddDays(open.Start, AveragePeriodLengthDays(periods)-1)
}

// projectedInterval is a closed view of a period; open periods get their
// estimated end and are flagged as such.
type projectedInterval struct {
	PeriodID  string
	Start     time.Time
	End       time.Time
	Estimated bool
}

func (interval projectedInterval) contains(day time.Time) bool {
	return DaysFrom(interval.Start, day) >= 0 && DaysFrom(day, interval.End) >= 0
}

func projectIntervals(periods []Period) []projectedInterval {
	intervals := make([]projectedInterval, 0, len(periods))
	for _, period := range sortPeriodsByStart(periods) {
		if period.End != nil {
			intervals = append(intervals, projectedInterval{
				PeriodID: period.ID,
				Start:    period.Start,
				End:      *period.End,
			})
			continue
		}
		intervals = append(intervals, projectedInterval{
			PeriodID:  period.ID,
			Start:     period.Start,
			End:       EstimateOpenPeriodEndDate(period, periods),
			Estimated: true,
		})
	}
	return intervals
}

func sortPeriodsByStart(periods []Period) []Period {
	sorted := make([]Period, 0, len(periods))
	sorted = append(sorted, periods...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sameDay(sorted[i].Start, sorted[j].Start) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}

func closedPeriodsByStart(periods []Period) []Period {
	closed := make([]Period, 0, len(periods))
	for _, period := range sortPeriodsByStart(periods) {
		if period.End != nil {
			closed = append(closed, period)
		}
	}
	return closed
}

// cycleLengthSamples returns inclusive start-to-start lengths of consecutive
// closed periods.
func cycleLengthSamples(periods []Period) []int {
	closed := closedPeriodsByStart(periods)
	if len(closed) < 2 {
		return nil
	}

	lengths := make([]int, 0, len(closed)-1)
	for i := 1; i < len(closed); i++ {
		lengths = append(lengths, DaysBetweenInclusive(closed[i-1].Start, closed[i].Start))
	}
	return lengths
}

// AverageCycleLength is the mean of cycleLengthSamples, falling back to
// models.DefaultCycleLength with fewer than two closed periods.
func AverageCycleLength(periods []Period) float64 {
	lengths := cycleLengthSamples(periods)
	if len(lengths) == 0 {
		return models.DefaultCycleLength
	}
	return averageInts(lengths)
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func standardDeviation(values []int, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, value := range values {
		delta := float64(value) - mean
		sum += delta * delta
	}
	return math.Sqrt(sum / float64(len(values)))
}
