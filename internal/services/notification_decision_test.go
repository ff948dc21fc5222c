package services

import "testing"

func TestEvaluateNotificationsNeedsHistory(t *testing.T) {
	t.Parallel()

	periods := []Period{closedPeriod(t, "p1", "2024-01-01", "2024-01-05")}
	decision := EvaluateNotifications(periods, mustDay(t, "2024-01-16"))
	if decision.Transition != nil || decision.PeriodTomorrow || decision.OvulationTomorrow {
		t.Fatalf("expected empty decision for a single period, got %+v", decision)
	}
	if FormatDate(decision.Tomorrow) != "2024-01-17" {
		t.Fatalf("expected tomorrow to be set, got %s", FormatDate(decision.Tomorrow))
	}
}

func TestEvaluateNotificationsPeriodTomorrow(t *testing.T) {
	t.Parallel()

	decision := EvaluateNotifications(threeRegularPeriods(t), mustDay(t, "2024-03-25"))
	if !decision.PeriodTomorrow {
		t.Fatalf("expected period notification, got %+v", decision)
	}
	if kinds := decision.Kinds(); len(kinds) != 1 || kinds[0] != NotificationPeriod {
		t.Fatalf("expected only period kind, got %v", kinds)
	}

	// A single cycle-length sample is not trusted.
	twoPeriods := []Period{
		closedPeriod(t, "p1", "2024-01-01", "2024-01-05"),
		closedPeriod(t, "p2", "2024-01-29", "2024-02-02"),
	}
	if decision := EvaluateNotifications(twoPeriods, mustDay(t, "2024-02-26")); decision.PeriodTomorrow {
		t.Fatalf("did not expect period notification from an insufficient prediction, got %+v", decision)
	}
}

func TestEvaluateNotificationsOvulationTransition(t *testing.T) {
	t.Parallel()

	periods := threeRegularPeriods(t)

	decision := EvaluateNotifications(periods, mustDay(t, "2024-03-08"))
	if decision.Transition == nil || decision.Transition.From != PhaseFollicular || decision.Transition.To != PhaseOvulation {
		t.Fatalf("expected follicular to ovulation transition, got %+v", decision.Transition)
	}
	if !decision.OvulationTomorrow {
		t.Fatal("expected ovulation notification")
	}

	if next := EvaluateNotifications(periods, mustDay(t, "2024-03-09")); next.Transition != nil || next.OvulationTomorrow {
		t.Fatalf("did not expect a notification inside the ovulation window, got %+v", next)
	}

	endOfPeriod := EvaluateNotifications(periods, mustDay(t, "2024-03-01"))
	if endOfPeriod.Transition == nil || endOfPeriod.Transition.To != PhaseFollicular {
		t.Fatalf("expected menstrual to follicular transition, got %+v", endOfPeriod.Transition)
	}
	if len(endOfPeriod.Kinds()) != 0 {
		t.Fatalf("did not expect notifications for a follicular transition, got %v", endOfPeriod.Kinds())
	}
}

func TestTemplateFor(t *testing.T) {
	t.Parallel()

	for _, kind := range []NotificationKind{NotificationOvulation, NotificationPeriod} {
		template, ok := TemplateFor(kind)
		if !ok || template.Subject == "" || template.Body == "" {
			t.Fatalf("expected template for %s", kind)
		}
	}
	if _, ok := TemplateFor("unknown"); ok {
		t.Fatal("did not expect template for unknown kind")
	}
}
