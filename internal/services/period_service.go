package services

import (
	"errors"
	"time"

	"github.com/cyclekit/cyclekit/internal/models"
	"github.com/google/uuid"
)

var (
	ErrActivePeriodExists = errors.New("another period is still ongoing")
	ErrPeriodNotFound     = errors.New("period not found")
)

type PeriodRepository interface {
	ListByUser(userID uint) ([]models.Period, error)
	FindByUserAndID(userID uint, periodID string) (models.Period, bool, error)
	SaveGuardingOpen(period *models.Period, create bool) (bool, error)
	DeleteByUserAndID(userID uint, periodID string) (bool, error)
}

// PeriodService stores period intervals. A user has at most one ongoing
// period at a time.
type PeriodService struct {
	periods PeriodRepository
	newID   func() string
}

func NewPeriodService(periods PeriodRepository) *PeriodService {
	return &PeriodService{periods: periods, newID: uuid.NewString}
}

func (service *PeriodService) List(userID uint) ([]Period, error) {
	records, err := service.periods.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return PeriodsFromRecords(records)
}

func (service *PeriodService) Start(userID uint, start time.Time, end *time.Time) (Period, error) {
	period, err := NewPeriod(service.newID(), start, end)
	if err != nil {
		return Period{}, err
	}

	record := periodRecord(userID, period)
	if err := service.save(&record, true); err != nil {
		return Period{}, err
	}
	return period, nil
}

func (service *PeriodService) Update(userID uint, periodID string, start time.Time, end *time.Time) (Period, error) {
	record, err := service.find(userID, periodID)
	if err != nil {
		return Period{}, err
	}

	period, err := NewPeriod(periodID, start, end)
	if err != nil {
		return Period{}, err
	}

	updated := periodRecord(userID, period)
	updated.CreatedAt = record.CreatedAt
	if err := service.save(&updated, false); err != nil {
		return Period{}, err
	}
	return period, nil
}

// Close sets the end date of a period, ongoing or not.
func (service *PeriodService) Close(userID uint, periodID string, end time.Time) (Period, error) {
	record, err := service.find(userID, periodID)
	if err != nil {
		return Period{}, err
	}

	current, err := PeriodFromRecord(record)
	if err != nil {
		return Period{}, err
	}
	return service.Update(userID, periodID, current.Start, &end)
}

func (service *PeriodService) Delete(userID uint, periodID string) error {
	deleted, err := service.periods.DeleteByUserAndID(userID, periodID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPeriodNotFound
	}
	return nil
}

func (service *PeriodService) find(userID uint, periodID string) (models.Period, error) {
	record, found, err := service.periods.FindByUserAndID(userID, periodID)
	if err != nil {
		return models.Period{}, err
	}
	if !found {
		return models.Period{}, ErrPeriodNotFound
	}
	return record, nil
}

func (service *PeriodService) save(record *models.Period, create bool) error {
	saved, err := service.periods.SaveGuardingOpen(record, create)
	if err != nil {
		return err
	}
	if !saved {
		return ErrActivePeriodExists
	}
	return nil
}

func periodRecord(userID uint, period Period) models.Period {
	record := models.Period{
		ID:        period.ID,
		UserID:    userID,
		StartDate: FormatDate(period.Start),
	}
	if period.End != nil {
		end := FormatDate(*period.End)
		record.EndDate = &end
	}
	return record
}
