package services

import "time"

type PeriodStat struct {
	StartDate          time.Time
	EndDate            time.Time
	LengthInDays       int
	DaysBetweenPeriods *int
}

type PeriodStatsSummary struct {
	AverageMenstruationDays float64
	AverageGapDays          float64
	CompletedPeriods        int
}

// BuildPeriodStats lists closed periods in start order. The gap is the day
// distance from the previous period's end to this start.
func BuildPeriodStats(periods []Period) []PeriodStat {
	closed := closedPeriodsByStart(periods)
	stats := make([]PeriodStat, 0, len(closed))
	for index, period := range closed {
		stat := PeriodStat{
			StartDate:    period.Start,
			EndDate:      *period.End,
			LengthInDays: DaysBetweenInclusive(period.Start, *period.End),
		}
		if index > 0 {
			gap := DaysBetweenInclusive(*closed[index-1].End, period.Start) - 1
			stat.DaysBetweenPeriods = &gap
		}
		stats = append(stats, stat)
	}
	return stats
}

func SummarizePeriodStats(stats []PeriodStat) PeriodStatsSummary {
	summary := PeriodStatsSummary{CompletedPeriods: len(stats)}
	if len(stats) == 0 {
		return summary
	}

	lengths := make([]int, 0, len(stats))
	gaps := make([]int, 0, len(stats))
	for _, stat := range stats {
		lengths = append(lengths, stat.LengthInDays)
		if stat.DaysBetweenPeriods != nil {
			gaps = append(gaps, *stat.DaysBetweenPeriods)
		}
	}

	summary.AverageMenstruationDays = averageInts(lengths)
	summary.AverageGapDays = averageInts(gaps)
	return summary
}
