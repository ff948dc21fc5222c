package services

import (
	"math"
	"time"
)

type Confidence string

const (
	ConfidenceInsufficient Confidence = "insufficient"
	ConfidenceLow          Confidence = "low"
	ConfidenceMedium       Confidence = "medium"
	ConfidenceHigh         Confidence = "high"
)

// PeriodPrediction leaves PredictedDate and DaysUntil nil when there is not
// enough history to predict from.
type PeriodPrediction struct {
	PredictedDate *time.Time
	DaysUntil     *int
	Confidence    Confidence
}

func (prediction PeriodPrediction) Usable() bool {
	return prediction.PredictedDate != nil && prediction.Confidence != ConfidenceInsufficient
}

// PredictNextPeriod projects the next start from the mean start-to-start
// length of closed periods. today only affects DaysUntil.
func PredictNextPeriod(periods []Period, today time.Time) PeriodPrediction {
	lengths := cycleLengthSamples(periods)
	if len(lengths) == 0 {
		return PeriodPrediction{Confidence: ConfidenceInsufficient}
	}

	average := averageInts(lengths)
	sorted := sortPeriodsByStart(periods)
	latestStart := sorted[len(sorted)-1].Start

	predicted := AddDays(latestStart, int(math.Round(average)))
	daysUntil := DaysFrom(today, predicted)

	return PeriodPrediction{
		PredictedDate: &predicted,
		DaysUntil:     &daysUntil,
		Confidence:    PredictionConfidence(len(lengths), standardDeviation(lengths, average)),
	}
}

// PredictionConfidence grades a prediction by the number of cycle-length
// samples and their standard deviation in days.
func PredictionConfidence(samples int, stdDev float64) Confidence {
	switch {
	case samples >= 6 && stdDev <= 2:
		return ConfidenceHigh
	case samples >= 4 && stdDev <= 4:
		return ConfidenceMedium
	case samples >= 2:
		return ConfidenceLow
	default:
		return ConfidenceInsufficient
	}
}

type EarlyPeriod struct {
	IsEarly       bool
	DaysEarly     int
	PredictedDate *time.Time
}

// DetectEarlyPeriod compares current against the prediction that the other
// closed periods would have produced before it started.
func DetectEarlyPeriod(periods []Period, current *Period) EarlyPeriod {
	if current == nil {
		return EarlyPeriod{}
	}

	history := make([]Period, 0, len(periods))
	for _, period := range periods {
		if period.End != nil && period.ID != current.ID {
			history = append(history, period)
		}
	}
	if len(history) < 2 {
		return EarlyPeriod{}
	}

	prediction := PredictNextPeriod(history, current.Start)
	if !prediction.Usable() {
		return EarlyPeriod{}
	}

	daysEarly := DaysFrom(current.Start, *prediction.PredictedDate)
	if daysEarly <= 0 {
		return EarlyPeriod{PredictedDate: prediction.PredictedDate}
	}
	return EarlyPeriod{
		IsEarly:       true,
		DaysEarly:     daysEarly,
		PredictedDate: prediction.PredictedDate,
	}
}

// CurrentPeriod returns the ongoing period, if any.
func CurrentPeriod(periods []Period) *Period {
	for i := range periods {
		if periods[i].IsOpen() {
			current := periods[i]
			return &current
		}
	}
	return nil
}
