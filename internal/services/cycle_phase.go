package services

import (
	"math"
	"time"

	"github.com/cyclekit/cyclekit/internal/models"
)

type CyclePhase string

const (
	PhaseMenstrual  CyclePhase = "menstrual"
	PhaseFollicular CyclePhase = "follicular"
	PhaseOvulation  CyclePhase = "ovulation"
	PhaseLuteal     CyclePhase = "luteal"
)

const (
	ColorMenstrual  = "#D53F8C"
	ColorFollicular = "#FBB6CE"
	ColorOvulation  = "#3182CE"
	ColorLuteal     = "#805AD5"
)

// Ovulation is expected 12 to 16 days before the next period starts.
const (
	ovulationWindowOpenOffset  = 16
	ovulationWindowCloseOffset = 12
)

// PhaseOrder is the order of phases within one cycle.
var PhaseOrder = []CyclePhase{PhaseMenstrual, PhaseFollicular, PhaseOvulation, PhaseLuteal}

type CyclePhaseInfo struct {
	Phase       CyclePhase `json:"phase"`
	DayInCycle  int        `json:"day_in_cycle"`
	Color       string     `json:"color"`
	IsEstimated bool       `json:"is_estimated"`
}

func PhaseColor(phase CyclePhase) string {
	switch phase {
	case PhaseMenstrual:
		return ColorMenstrual
	case PhaseFollicular:
		return ColorFollicular
	case PhaseOvulation:
		return ColorOvulation
	case PhaseLuteal:
		return ColorLuteal
	default:
		return ""
	}
}

// ClassifyCyclePhase places day within the user's cycle history. The boolean
// is false when no period starts on or before day. A non-positive
// averageCycleLength falls back to models.DefaultCycleLength.
func ClassifyCyclePhase(day time.Time, periods []Period, averageCycleLength float64) (CyclePhaseInfo, bool) {
	if averageCycleLength <= 0 {
		averageCycleLength = models.DefaultCycleLength
	}

	intervals := projectIntervals(periods)
	if len(intervals) == 0 {
		return CyclePhaseInfo{}, false
	}

	// A date inside an actual or projected period is menstrual, whatever else applies.
	for _, interval := range intervals {
		if interval.contains(day) {
			return newPhaseInfo(PhaseMenstrual, DaysBetweenInclusive(interval.Start, day), interval.Estimated), true
		}
	}

	referenceIndex := -1
	for i := len(intervals) - 1; i >= 0; i-- {
		if DaysFrom(intervals[i].Start, day) >= 0 {
			referenceIndex = i
			break
		}
	}
	if referenceIndex < 0 {
		return CyclePhaseInfo{}, false
	}
	reference := intervals[referenceIndex]

	// A cycle closed by a later period is ground truth, even when the
	// reference period itself was projected.
	cycleLength := averageCycleLength
	estimated := reference.Estimated
	if referenceIndex+1 < len(intervals) {
		cycleLength = float64(DaysBetweenInclusive(reference.Start, intervals[referenceIndex+1].Start))
		estimated = false
	}

	dayInCycle := DaysBetweenInclusive(reference.Start, day)
	phase := phaseForCycleDay(dayInCycle, cycleLength, AveragePeriodLengthDays(periods))
	return newPhaseInfo(phase, dayInCycle, estimated), true
}

func phaseForCycleDay(dayInCycle int, cycleLength float64, averagePeriodLength int) CyclePhase {
	ovulationStart := math.Max(1, cycleLength-ovulationWindowOpenOffset)
	ovulationEnd := math.Max(1, cycleLength-ovulationWindowCloseOffset)
	day := float64(dayInCycle)

	switch {
	case day >= ovulationStart && day <= ovulationEnd:
		return PhaseOvulation
	case dayInCycle > averagePeriodLength && day < ovulationStart:
		return PhaseFollicular
	case day >= ovulationEnd+1:
		return PhaseLuteal
	default:
		return PhaseFollicular
	}
}

func newPhaseInfo(phase CyclePhase, dayInCycle int, estimated bool) CyclePhaseInfo {
	return CyclePhaseInfo{
		Phase:       phase,
		DayInCycle:  dayInCycle,
		Color:       PhaseColor(phase),
		IsEstimated: estimated,
	}
}
