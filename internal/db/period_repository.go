package db

import (
	"github.com/cyclekit/cyclekit/internal/models"
	"gorm.io/gorm"
)

type PeriodRepository struct {
	database *gorm.DB
}

func NewPeriodRepository(database *gorm.DB) *PeriodRepository {
	return &PeriodRepository{database: database}
}

func (repo *PeriodRepository) ListByUser(userID uint) ([]models.Period, error) {
	periods := make([]models.Period, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("start_date ASC, id ASC").
		Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

func (repo *PeriodRepository) FindByUserAndID(userID uint, periodID string) (models.Period, bool, error) {
	period := models.Period{}
	result := repo.database.
		Where("user_id = ? AND id = ?", userID, periodID).
		Limit(1).
		Find(&period)
	if result.Error != nil {
		return models.Period{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Period{}, false, nil
	}
	return period, true, nil
}

// CountOpenByUser counts ongoing periods, ignoring excludeID when set.
func (repo *PeriodRepository) CountOpenByUser(userID uint, excludeID string) (int64, error) {
	query := repo.database.Model(&models.Period{}).Where("user_id = ? AND end_date IS NULL", userID)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *PeriodRepository) Create(period *models.Period) error {
	return repo.database.Create(period).Error
}

func (repo *PeriodRepository) Save(period *models.Period) error {
	return repo.database.Save(period).Error
}

func (repo *PeriodRepository) DeleteByUserAndID(userID uint, periodID string) (bool, error) {
	result := repo.database.Where("user_id = ? AND id = ?", userID, periodID).Delete(&models.Period{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SaveGuardingOpen creates or updates period unless that would leave the user
// with two ongoing periods. The check and the write share one transaction.
func (repo *PeriodRepository) SaveGuardingOpen(period *models.Period, create bool) (bool, error) {
	conflict := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		scoped := NewPeriodRepository(tx)
		if period.EndDate == nil {
			openCount, err := scoped.CountOpenByUser(period.UserID, period.ID)
			if err != nil {
				return err
			}
			if openCount > 0 {
				conflict = true
				return nil
			}
		}
		if create {
			return scoped.Create(period)
		}
		return scoped.Save(period)
	})
	if err != nil {
		return false, err
	}
	return !conflict, nil
}
