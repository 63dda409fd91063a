package services

import (
	"errors"
	"strings"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"gorm.io/gorm"
)

// ReviewService collects customer reviews and aggregates the approved ones
type ReviewService interface {
	// ListApproved returns the approved reviews of an item with their average rating and count
	ListApproved(itemID uint) (models.ReviewSummary, error)
	// CreateReview stores a review awaiting moderation
	CreateReview(itemID uint, customerName string, rating int, comment string) (models.Review, error)
	ListPending() ([]models.Review, error)
	ApproveReview(id uint) (models.Review, error)
}

type reviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) ReviewService {
	return &reviewService{db: db}
}

func (s *reviewService) ListApproved(itemID uint) (models.ReviewSummary, error) {
	summary := models.ReviewSummary{Reviews: []models.Review{}}

	err := s.db.Where("item_id = ? AND approved = ?", itemID, true).
		Order("id DESC").Find(&summary.Reviews).Error
	if err != nil {
		return models.ReviewSummary{}, err
	}

	var agg struct {
		Average float64
		Total   int64
	}
	err = s.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("item_id = ? AND approved = ?", itemID, true).
		Scan(&agg).Error
	if err != nil {
		return models.ReviewSummary{}, err
	}
	summary.AverageRating = agg.Average
	summary.TotalReviews = agg.Total
	return summary, nil
}

func (s *reviewService) CreateReview(itemID uint, customerName string, rating int, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, ErrInvalidRating
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = "Guest"
	}

	var item models.Item
	if err := s.db.Select("id", "venue_id").First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Review{}, ErrItemNotFound
		}
		return models.Review{}, err
	}

	review := models.Review{
		ItemID:       item.ID,
		VenueID:      item.VenueID,
		CustomerName: customerName,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
	}
	if err := s.db.Create(&review).Error; err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (s *reviewService) ListPending() ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Where("approved = ?", false).Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *reviewService) ApproveReview(id uint) (models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Review{}, ErrReviewNotFound
		}
		return models.Review{}, err
	}
	if review.Approved {
		return review, nil
	}
	if err := s.db.Model(&review).Update("approved", true).Error; err != nil {
		return models.Review{}, err
	}
	review.Approved = true
	return review, nil
}
