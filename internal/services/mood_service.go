package services

import (
	"errors"
	"strings"
	"time"

	"github.com/cyclekit/cyclekit/internal/models"
	"github.com/google/uuid"
)

var (
	ErrMoodMarkerNotFound = errors.New("mood marker not found")
	ErrMoodLabelEmpty     = errors.New("mood label is empty")
)

type MoodMarkerRepository interface {
	ListByUser(userID uint) ([]models.MoodMarker, error)
	ListByUserRange(userID uint, from string, to string) ([]models.MoodMarker, error)
	Create(marker *models.MoodMarker) error
	DeleteByUserAndID(userID uint, markerID string) (bool, error)
}

type MoodService struct {
	markers MoodMarkerRepository
	newID   func() string
}

func NewMoodService(markers MoodMarkerRepository) *MoodService {
	return &MoodService{markers: markers, newID: uuid.NewString}
}

func (service *MoodService) List(userID uint) ([]MoodMarker, error) {
	records, err := service.markers.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return MoodMarkersFromRecords(records)
}

func (service *MoodService) ListRange(userID uint, from time.Time, to time.Time) ([]MoodMarker, error) {
	records, err := service.markers.ListByUserRange(userID, FormatDate(from), FormatDate(to))
	if err != nil {
		return nil, err
	}
	return MoodMarkersFromRecords(records)
}

// Create stores the label as given apart from surrounding whitespace.
func (service *MoodService) Create(userID uint, day time.Time, mood string) (MoodMarker, error) {
	label := strings.TrimSpace(mood)
	if label == "" {
		return MoodMarker{}, ErrMoodLabelEmpty
	}

	marker := MoodMarker{ID: service.newID(), Date: dateOnly(day), Mood: label}
	record := models.MoodMarker{
		ID:     marker.ID,
		UserID: userID,
		Date:   FormatDate(marker.Date),
		Mood:   marker.Mood,
	}
	if err := service.markers.Create(&record); err != nil {
		return MoodMarker{}, err
	}
	return marker, nil
}

func (service *MoodService) Delete(userID uint, markerID string) error {
	deleted, err := service.markers.DeleteByUserAndID(userID, markerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMoodMarkerNotFound
	}
	return nil
}
