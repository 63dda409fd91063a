package services

import (
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"gorm.io/gorm"
)

type SliderService interface {
	// ListSliders returns the sliders of a venue, only active ones when activeOnly is set
	ListSliders(venueID uint, activeOnly bool) ([]models.Slider, error)
	CreateSlider(slider models.Slider) (models.Slider, error)
	DeleteSlider(venueID, id uint) error
}

type sliderService struct {
	db *gorm.DB
}

func NewSliderService(db *gorm.DB) SliderService {
	return &sliderService{db: db}
}

func (s *sliderService) ListSliders(venueID uint, activeOnly bool) ([]models.Slider, error) {
	query := s.db.Where("venue_id = ?", venueID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var sliders []models.Slider
	if err := query.Order("sort_order, id").Find(&sliders).Error; err != nil {
		return nil, err
	}
	return sliders, nil
}

func (s *sliderService) CreateSlider(slider models.Slider) (models.Slider, error) {
	slider.ID = 0
	if err := s.db.Create(&slider).Error; err != nil {
		return models.Slider{}, err
	}
	return slider, nil
}

func (s *sliderService) DeleteSlider(venueID, id uint) error {
	result := s.db.Where("venue_id = ?", venueID).Delete(&models.Slider{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSliderNotFound
	}
	return nil
}
