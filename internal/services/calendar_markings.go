package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

const (
	ColorPrediction     = "#FFE4E1"
	TextColorPrediction = "#FF6B9D"
	TextColorLight      = "white"
	TextColorDark       = "#333"
	TextColorEditing    = "var(--text-primary)"

	// ProjectedOpacity dims days that are estimated rather than lived.
	ProjectedOpacity = 0.5
	// PhaseWindowDays bounds phase colouring around today.
	PhaseWindowDays = 60
)

type CalendarMarking struct {
	Color           string   `json:"color,omitempty"`
	TextColor       string   `json:"text_color,omitempty"`
	IsIntervalStart bool     `json:"is_interval_start"`
	IsIntervalEnd   bool     `json:"is_interval_end"`
	BorderOnly      bool     `json:"border_only,omitempty"`
	PillStart       bool     `json:"pill_start"`
	PillMiddle      bool     `json:"pill_middle"`
	PillEnd         bool     `json:"pill_end"`
	Moods           []string `json:"moods,omitempty"`

	layer markingLayer
}

type markingLayer int

const (
	layerNone markingLayer = iota
	layerPeriod
	layerPhase
	layerPrediction
)

// CalendarOptions selects the inclusive date range to mark. EditingPeriodID
// switches to edit mode where only that period is outlined.
type CalendarOptions struct {
	From            time.Time
	To              time.Time
	Today           time.Time
	EditingPeriodID string
}

func (options CalendarOptions) inRange(day time.Time) bool {
	return DaysFrom(options.From, day) >= 0 && DaysFrom(day, options.To) >= 0
}

// ComposeCalendarMarkings merges period, phase and prediction colouring into
// one marking per date, keyed by YYYY-MM-DD.
func ComposeCalendarMarkings(periods []Period, moods []MoodMarker, options CalendarOptions) map[string]CalendarMarking {
	markings := make(map[string]CalendarMarking)
	if DaysFrom(options.From, options.To) < 0 {
		return markings
	}

	// Edit mode shows the edited period alone; an unknown id shows nothing.
	if options.EditingPeriodID != "" {
		for _, period := range periods {
			if period.ID == options.EditingPeriodID {
				markEditedPeriod(markings, period, options)
				groupMarkingRuns(markings)
				break
			}
		}
		return markings
	}

	today := dateOnly(options.Today)
	markPeriodIntervals(markings, periods, today, options)

	prediction := PredictNextPeriod(periods, today)
	if len(periods) > 0 {
		markCyclePhases(markings, periods, prediction, today, options)
	}
	if prediction.PredictedDate != nil {
		markPrediction(markings, *prediction.PredictedDate, options)
	}

	attachMoods(markings, moods, options)
	groupMarkingRuns(markings)
	return markings
}

func markEditedPeriod(markings map[string]CalendarMarking, period Period, options CalendarOptions) {
	end := period.Start
	if period.End != nil {
		end = *period.End
	}
	for day := period.Start; DaysFrom(day, end) >= 0; day = AddDays(day, 1) {
		if !options.inRange(day) {
			continue
		}
		markings[FormatDate(day)] = CalendarMarking{
			Color:           ColorMenstrual,
			TextColor:       TextColorEditing,
			IsIntervalStart: sameDay(day, period.Start),
			IsIntervalEnd:   sameDay(day, end),
			BorderOnly:      true,
			layer:           layerPeriod,
		}
	}
}

func markPeriodIntervals(markings map[string]CalendarMarking, periods []Period, today time.Time, options CalendarOptions) {
	for _, interval := range projectIntervals(periods) {
		for day := interval.Start; DaysFrom(day, interval.End) >= 0; day = AddDays(day, 1) {
			if !options.inRange(day) {
				continue
			}
			key := FormatDate(day)
			if _, exists := markings[key]; exists {
				continue
			}

			color := ColorMenstrual
			if interval.Estimated && DaysFrom(today, day) > 0 {
				color = dimColor(ColorMenstrual, ProjectedOpacity)
			}
			markings[key] = CalendarMarking{
				Color:           color,
				TextColor:       TextColorLight,
				IsIntervalStart: sameDay(day, interval.Start),
				IsIntervalEnd:   sameDay(day, interval.End),
				layer:           layerPeriod,
			}
		}
	}
}

// markCyclePhases colours non-menstrual days between today-60 and the
// predicted date (or today+60 without one). Confidence does not matter here:
// phases past a known next start would contradict it.
func markCyclePhases(markings map[string]CalendarMarking, periods []Period, prediction PeriodPrediction, today time.Time, options CalendarOptions) {
	windowStart := AddDays(today, -PhaseWindowDays)
	windowEnd := AddDays(today, PhaseWindowDays)
	if prediction.PredictedDate != nil {
		windowEnd = *prediction.PredictedDate
	}

	averageCycleLength := AverageCycleLength(periods)
	for day := windowStart; DaysFrom(day, windowEnd) >= 0; day = AddDays(day, 1) {
		if !options.inRange(day) {
			continue
		}
		key := FormatDate(day)
		if _, exists := markings[key]; exists {
			continue
		}

		info, ok := ClassifyCyclePhase(day, periods, averageCycleLength)
		if !ok || info.Phase == PhaseMenstrual {
			continue
		}

		color := info.Color
		if info.IsEstimated {
			color = dimColor(info.Color, ProjectedOpacity)
		}
		textColor := TextColorLight
		if info.Phase == PhaseFollicular {
			textColor = TextColorDark
		}
		markings[key] = CalendarMarking{
			Color:           color,
			TextColor:       textColor,
			IsIntervalStart: true,
			IsIntervalEnd:   true,
			layer:           layerPhase,
		}
	}
}

// markPrediction replaces anything except a period day.
func markPrediction(markings map[string]CalendarMarking, predicted time.Time, options CalendarOptions) {
	if !options.inRange(predicted) {
		return
	}
	key := FormatDate(predicted)
	if existing, exists := markings[key]; exists && existing.layer == layerPeriod {
		return
	}
	markings[key] = CalendarMarking{
		Color:           ColorPrediction,
		TextColor:       TextColorPrediction,
		IsIntervalStart: true,
		IsIntervalEnd:   true,
		layer:           layerPrediction,
	}
}

func attachMoods(markings map[string]CalendarMarking, moods []MoodMarker, options CalendarOptions) {
	for _, marker := range moods {
		if !options.inRange(marker.Date) {
			continue
		}
		key := FormatDate(marker.Date)
		marking := markings[key]
		marking.Moods = append(marking.Moods, marker.Mood)
		markings[key] = marking
	}
}

// groupMarkingRuns flags maximal runs of consecutive dates sharing a colour.
// Mood-only markings carry no colour and never join a run.
func groupMarkingRuns(markings map[string]CalendarMarking) {
	keys := make([]string, 0, len(markings))
	for _, key := range SortedMarkingDates(markings) {
		if markings[key].Color != "" {
			keys = append(keys, key)
		}
	}

	runStart := 0
	for index := 1; index <= len(keys); index++ {
		if index < len(keys) && continuesRun(markings, keys[index-1], keys[index]) {
			continue
		}
		flagRun(markings, keys[runStart:index])
		runStart = index
	}
}

func continuesRun(markings map[string]CalendarMarking, previousKey string, key string) bool {
	if markings[previousKey].Color != markings[key].Color {
		return false
	}
	previous, errPrevious := ParseDate(previousKey)
	current, errCurrent := ParseDate(key)
	if errPrevious != nil || errCurrent != nil {
		return false
	}
	return DaysFrom(previous, current) == 1
}

func flagRun(markings map[string]CalendarMarking, run []string) {
	for index, key := range run {
		marking := markings[key]
		marking.PillStart = index == 0
		marking.PillEnd = index == len(run)-1
		marking.PillMiddle = !marking.PillStart && !marking.PillEnd
		markings[key] = marking
	}
}

// SortedMarkingDates returns the marking keys in calendar order.
func SortedMarkingDates(markings map[string]CalendarMarking) []string {
	keys := make([]string, 0, len(markings))
	for key := range markings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func dimColor(hex string, opacity float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	red, errRed := strconv.ParseUint(hex[1:3], 16, 8)
	green, errGreen := strconv.ParseUint(hex[3:5], 16, 8)
	blue, errBlue := strconv.ParseUint(hex[5:7], 16, 8)
	if errRed != nil || errGreen != nil || errBlue != nil {
		return hex
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", red, green, blue, strconv.FormatFloat(opacity, 'f', -1, 64))
}
