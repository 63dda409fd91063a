package services

import (
	"errors"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"gorm.io/gorm"
)

type CategoryService interface {
	ListCategories(venueID uint) ([]models.Category, error)
	CreateCategory(category models.Category) (models.Category, error)
	UpdateCategory(category models.Category) (models.Category, error)
	// DeleteCategory refuses to delete a category that still has items
	DeleteCategory(venueID, id uint) error
}

type categoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) CategoryService {
	return &categoryService{db: db}
}

func (s *categoryService) ListCategories(venueID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("venue_id = ?", venueID).Order("sort_order, id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(category models.Category) (models.Category, error) {
	category.ID = 0
	if err := s.db.Create(&category).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(category models.Category) (models.Category, error) {
	result := s.db.Model(&models.Category{}).
		Where("id = ? AND venue_id = ?", category.ID, category.VenueID).
		Updates(map[string]interface{}{"name": category.Name, "sort_order": category.SortOrder})
	if result.Error != nil {
		return models.Category{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Category{}, ErrCategoryNotFound
	}

	var updated models.Category
	if err := s.db.First(&updated, category.ID).Error; err != nil {
		return models.Category{}, err
	}
	return updated, nil
}

func (s *categoryService) DeleteCategory(venueID, id uint) error {
	var category models.Category
	if err := s.db.Where("venue_id = ?", venueID).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	var items int64
	if err := s.db.Model(&models.Item{}).Where("category_id = ?", id).Count(&items).Error; err != nil {
		return err
	}
	if items > 0 {
		return ErrCategoryNotEmpty
	}
	return s.db.Delete(&category).Error
}
