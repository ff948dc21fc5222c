package services

import "time"

type NotificationKind string

const (
	NotificationOvulation NotificationKind = "ovulation"
	NotificationPeriod    NotificationKind = "period"
)

type PhaseTransition struct {
	From CyclePhase `json:"from"`
	To   CyclePhase `json:"to"`
}

type NotificationDecision struct {
	Tomorrow          time.Time
	PeriodTomorrow    bool
	OvulationTomorrow bool
	Transition        *PhaseTransition
}

func (decision NotificationDecision) Kinds() []NotificationKind {
	kinds := make([]NotificationKind, 0, 2)
	if decision.OvulationTomorrow {
		kinds = append(kinds, NotificationOvulation)
	}
	if decision.PeriodTomorrow {
		kinds = append(kinds, NotificationPeriod)
	}
	return kinds
}

type NotificationTemplate struct {
	Subject string
	Body    string
}

var notificationTemplates = map[NotificationKind]NotificationTemplate{
	NotificationOvulation: {
		Subject: "🌸 Ovulation window starting tomorrow",
		Body:    "Your fertile window begins tomorrow. Your ovulation period is expected to start.",
	},
	NotificationPeriod: {
		Subject: "🩸 Period expected tomorrow",
		Body:    "Your next period is predicted to start tomorrow based on your cycle history.",
	},
}

func TemplateFor(kind NotificationKind) (NotificationTemplate, bool) {
	template, ok := notificationTemplates[kind]
	return template, ok
}

// EvaluateNotifications decides what is due for tomorrow. Fewer than two
// periods never produce a notification.
func EvaluateNotifications(periods []Period, today time.Time) NotificationDecision {
	today = dateOnly(today)
	tomorrow := AddDays(today, 1)
	decision := NotificationDecision{Tomorrow: tomorrow}
	if len(periods) < 2 {
		return decision
	}

	averageCycleLength := AverageCycleLength(periods)
	todayInfo, todayOK := ClassifyCyclePhase(today, periods, averageCycleLength)
	tomorrowInfo, tomorrowOK := ClassifyCyclePhase(tomorrow, periods, averageCycleLength)
	if todayOK && tomorrowOK && todayInfo.Phase != tomorrowInfo.Phase {
		decision.Transition = &PhaseTransition{From: todayInfo.Phase, To: tomorrowInfo.Phase}
		decision.OvulationTomorrow = tomorrowInfo.Phase == PhaseOvulation
	}

	prediction := PredictNextPeriod(periods, today)
	decision.PeriodTomorrow = prediction.Usable() && sameDay(*prediction.PredictedDate, tomorrow)
	return decision
}
