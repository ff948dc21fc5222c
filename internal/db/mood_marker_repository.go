package db

import (
	"github.com/cyclekit/cyclekit/internal/models"
	"gorm.io/gorm"
)

type MoodMarkerRepository struct {
	database *gorm.DB
}

func NewMoodMarkerRepository(database *gorm.DB) *MoodMarkerRepository {
	return &MoodMarkerRepository{database: database}
}

func (repo *MoodMarkerRepository) ListByUser(userID uint) ([]models.MoodMarker, error) {
	markers := make([]models.MoodMarker, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("date ASC, id ASC").
		Find(&markers).Error; err != nil {
		return nil, err
	}
	return markers, nil
}

// ListByUserRange is inclusive on both YYYY-MM-DD bounds.
func (repo *MoodMarkerRepository) ListByUserRange(userID uint, from string, to string) ([]models.MoodMarker, error) {
	markers := make([]models.MoodMarker, 0)
	if err := repo.database.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC, id ASC").
		Find(&markers).Error; err != nil {
		return nil, err
	}
	return markers, nil
}

func (repo *MoodMarkerRepository) Create(marker *models.MoodMarker) error {
	return repo.database.Create(marker).Error
}

func (repo *MoodMarkerRepository) DeleteByUserAndID(userID uint, markerID string) (bool, error) {
	result := repo.database.Where("user_id = ? AND id = ?", userID, markerID).Delete(&models.MoodMarker{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
