package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cyclekit/cyclekit/internal/models"
)

type stubPeriodRepo struct {
	records map[string]models.Period
	listErr error
}

func newStubPeriodRepo() *stubPeriodRepo {
	return &stubPeriodRepo{records: make(map[string]models.Period)}
}

func (stub *stubPeriodRepo) ListByUser(userID uint) ([]models.Period, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.Period, 0, len(stub.records))
	for _, record := range stub.records {
		if record.UserID == userID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (stub *stubPeriodRepo) FindByUserAndID(userID uint, periodID string) (models.Period, bool, error) {
	record, ok := stub.records[periodID]
	if !ok || record.UserID != userID {
		return models.Period{}, false, nil
	}
	return record, true, nil
}

func (stub *stubPeriodRepo) SaveGuardingOpen(period *models.Period, create bool) (bool, error) {
	if period.EndDate == nil {
		for id, record := range stub.records {
			if id != period.ID && record.UserID == period.UserID && record.EndDate == nil {
				return false, nil
			}
		}
	}
	stub.records[period.ID] = *period
	return true, nil
}

func (stub *stubPeriodRepo) DeleteByUserAndID(userID uint, periodID string) (bool, error) {
	record, ok := stub.records[periodID]
	if !ok || record.UserID != userID {
		return false, nil
	}
	delete(stub.records, periodID)
	return true, nil
}

func newTestPeriodService(repo PeriodRepository) *PeriodService {
	service := NewPeriodService(repo)
	counter := 0
	service.newID = func() string {
		counter++
		return fmt.Sprintf("period-%d", counter)
	}
	return service
}

func TestPeriodServiceAllowsSingleOngoingPeriod(t *testing.T) {
	t.Parallel()

	service := newTestPeriodService(newStubPeriodRepo())

	open, err := service.Start(1, mustDay(t, "2024-03-01"), nil)
	if err != nil {
		t.Fatalf("start first period: %v", err)
	}
	if !open.IsOpen() {
		t.Fatal("expected started period to be open")
	}

	if _, err := service.Start(1, mustDay(t, "2024-03-10"), nil); !errors.Is(err, ErrActivePeriodExists) {
		t.Fatalf("expected ErrActivePeriodExists, got %v", err)
	}

	// Another user is unaffected.
	if _, err := service.Start(2, mustDay(t, "2024-03-10"), nil); err != nil {
		t.Fatalf("start period for second user: %v", err)
	}

	closed, err := service.Close(1, open.ID, mustDay(t, "2024-03-05"))
	if err != nil {
		t.Fatalf("close period: %v", err)
	}
	if closed.IsOpen() || FormatDate(*closed.End) != "2024-03-05" || !closed.Start.Equal(open.Start) {
		t.Fatalf("unexpected closed period %+v", closed)
	}

	if _, err := service.Start(1, mustDay(t, "2024-03-28"), nil); err != nil {
		t.Fatalf("expected new open period after closing, got %v", err)
	}
}

func TestPeriodServiceRejectsInvalidRanges(t *testing.T) {
	t.Parallel()

	service := newTestPeriodService(newStubPeriodRepo())

	end := mustDay(t, "2024-02-28")
	if _, err := service.Start(1, mustDay(t, "2024-03-01"), &end); !errors.Is(err, ErrPeriodEndBeforeStart) {
		t.Fatalf("expected ErrPeriodEndBeforeStart, got %v", err)
	}

	period, err := service.Start(1, mustDay(t, "2024-03-01"), nil)
	if err != nil {
		t.Fatalf("start period: %v", err)
	}
	if _, err := service.Close(1, period.ID, end); !errors.Is(err, ErrPeriodEndBeforeStart) {
		t.Fatalf("expected close before start to fail, got %v", err)
	}
}

func TestPeriodServiceUpdateAndDelete(t *testing.T) {
	t.Parallel()

	repo := newStubPeriodRepo()
	service := newTestPeriodService(repo)

	end := mustDay(t, "2024-01-05")
	period, err := service.Start(1, mustDay(t, "2024-01-01"), &end)
	if err != nil {
		t.Fatalf("start period: %v", err)
	}

	newEnd := mustDay(t, "2024-01-06")
	updated, err := service.Update(1, period.ID, mustDay(t, "2024-01-02"), &newEnd)
	if err != nil {
		t.Fatalf("update period: %v", err)
	}
	if FormatDate(updated.Start) != "2024-01-02" || FormatDate(*updated.End) != "2024-01-06" {
		t.Fatalf("unexpected updated period %+v", updated)
	}

	if _, err := service.Update(2, period.ID, mustDay(t, "2024-01-02"), nil); !errors.Is(err, ErrPeriodNotFound) {
		t.Fatalf("expected other users to see ErrPeriodNotFound, got %v", err)
	}

	listed, err := service.List(1)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one listed period, got %v (err %v)", listed, err)
	}

	if err := service.Delete(1, period.ID); err != nil {
		t.Fatalf("delete period: %v", err)
	}
	if err := service.Delete(1, period.ID); !errors.Is(err, ErrPeriodNotFound) {
		t.Fatalf("expected second delete to report ErrPeriodNotFound, got %v", err)
	}
}

func TestPeriodServiceListPropagatesInvalidStoredDates(t *testing.T) {
	t.Parallel()

	repo := newStubPeriodRepo()
	repo.records["broken"] = models.Period{ID: "broken", UserID: 1, StartDate: "2024-13-01"}

	if _, err := newTestPeriodService(repo).List(1); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
