package services

import (
	"errors"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/events"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WaiterCallService records customer calls for staff and their completion
type WaiterCallService interface {
	CreateCall(venue models.Venue, table, message string) (models.WaiterCall, error)
	// ListPending returns the pending calls of a venue, newest first
	ListPending(venueID uint) ([]models.WaiterCall, error)
	GetCall(id uint) (models.WaiterCall, error)
	// CompleteCall moves a pending call to its terminal completed state
	CompleteCall(id uint) (models.WaiterCall, error)
}

type waiterCallService struct {
	db        *gorm.DB
	publisher events.Publisher
}

func NewWaiterCallService(db *gorm.DB, publisher events.Publisher) WaiterCallService {
	return &waiterCallService{db: db, publisher: publisher}
}

func (s *waiterCallService) CreateCall(venue models.Venue, table, message string) (models.WaiterCall, error) {
	call := models.WaiterCall{
		VenueID:    venue.ID,
		TableLabel: table,
		Message:    message,
		Status:     models.WaiterCallPending,
	}
	if err := s.db.Create(&call).Error; err != nil {
		return models.WaiterCall{}, err
	}

	log.WithFields(logrus.Fields{"call_id": call.ID, "venue": venue.Slug, "table": table}).Info("Waiter called")
	events.PublishAsync(s.publisher, events.Event{
		Type:      events.WaiterCallCreated,
		VenueID:   venue.ID,
		VenueSlug: venue.Slug,
		ID:        call.ID,
		Status:    call.Status,
		Table:     table,
	})
	return call, nil
}

func (s *waiterCallService) ListPending(venueID uint) ([]models.WaiterCall, error) {
	var calls []models.WaiterCall
	err := s.db.Where("venue_id = ? AND status = ?", venueID, models.WaiterCallPending).
		Order("id DESC").Find(&calls).Error
	if err != nil {
		return nil, err
	}
	return calls, nil
}

func (s *waiterCallService) GetCall(id uint) (models.WaiterCall, error) {
	var call models.WaiterCall
	if err := s.db.First(&call, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.WaiterCall{}, ErrWaiterCallNotFound
		}
		return models.WaiterCall{}, err
	}
	return call, nil
}

func (s *waiterCallService) CompleteCall(id uint) (models.WaiterCall, error) {
	call, err := s.GetCall(id)
	if err != nil {
		return models.WaiterCall{}, err
	}
	if call.Status == models.WaiterCallCompleted {
		return call, nil
	}

	now := time.Now().UTC()
	result := s.db.Model(&models.WaiterCall{}).
		Where("id = ? AND status = ?", id, models.WaiterCallPending).
		Updates(map[string]interface{}{"status": models.WaiterCallCompleted, "completed_at": now})
	if result.Error != nil {
		return models.WaiterCall{}, result.Error
	}
	call.Status = models.WaiterCallCompleted
	call.CompletedAt = &now

	slug, err := venueSlug(s.db, call.VenueID)
	if err != nil {
		log.WithFields(logrus.Fields{"waiter_call_id": id, "venue_id": call.VenueID}).WithError(err).Warn("Failed to resolve venue slug for event")
	}
	events.PublishAsync(s.publisher, events.Event{
		Type:      events.WaiterCallCompleted,
		VenueID:   call.VenueID,
		VenueSlug: slug,
		ID:        call.ID,
		Status:    call.Status,
		Table:     call.TableLabel,
	})
	return call, nil
}
