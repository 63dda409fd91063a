package services

import (
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"gorm.io/gorm"
)

// ItemService provides methods to manage the menu items of a venue
type ItemService interface {
	// ListItems retrieves every item of a venue, available or not
	ListItems(venueID uint) ([]models.Item, error)
	// GetItem retrieves an item of a venue with its variants and add-ons
	GetItem(venueID, id uint) (models.Item, error)
	// GetItemByID retrieves any item by its ID
	GetItemByID(id uint) (models.Item, error)
	// GetItemsByIDs retrieves the listed items of a venue keyed by ID
	GetItemsByIDs(venueID uint, ids []uint) (map[uint]models.Item, error)
	// CreateItem validates and stores a new item
	CreateItem(item models.Item) (models.Item, error)
	// UpdateItem replaces an item, including its variants and add-ons
	UpdateItem(item models.Item) (models.Item, error)
	// DeleteItem deletes an item of a venue
	DeleteItem(venueID, id uint) error
}

type itemService struct {
	db *gorm.DB
}

// NewItemService creates a new instance of ItemService
func NewItemService(db *gorm.DB) ItemService {
	return &itemService{db: db}
}

func (s *itemService) withOptions() *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return s.db.Preload("Variants", byID).Preload("Addons", byID)
}

func (s *itemService) ListItems(venueID uint) ([]models.Item, error) {
	var items []models.Item
	if err := s.withOptions().Where("venue_id = ?", venueID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *itemService) GetItem(venueID, id uint) (models.Item, error) {
	var item models.Item
	if err := s.withOptions().Where("venue_id = ?", venueID).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Item{}, ErrItemNotFound
		}
		return models.Item{}, err
	}
	return item, nil
}

func (s *itemService) GetItemByID(id uint) (models.Item, error) {
	var item models.Item
	if err := s.withOptions().First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Item{}, ErrItemNotFound
		}
		return models.Item{}, err
	}
	return item, nil
}

func (s *itemService) GetItemsByIDs(venueID uint, ids []uint) (map[uint]models.Item, error) {
	var items []models.Item
	if err := s.withOptions().Where("venue_id = ? AND id IN ?", venueID, ids).Find(&items).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

func (s *itemService) CreateItem(item models.Item) (models.Item, error) {
	if err := s.validate(item); err != nil {
		return models.Item{}, err
	}
	item.ID = 0
	for i := range item.Variants {
		item.Variants[i].ID = 0
	}
	for i := range item.Addons {
		item.Addons[i].ID = 0
	}
	if err := s.db.Create(&item).Error; err != nil {
		return models.Item{}, err
	}
	return item, nil
}

func (s *itemService) UpdateItem(item models.Item) (models.Item, error) {
	existing, err := s.GetItem(item.VenueID, item.ID)
	if err != nil {
		return models.Item{}, err
	}
	if err := s.validate(item); err != nil {
		return models.Item{}, err
	}
	item.CreatedAt = existing.CreatedAt

	// options keep their ids across edits so carts holding them still price correctly
	keptVariants := make([]uint, 0, len(item.Variants))
	for i := range item.Variants {
		item.Variants[i].ItemID = item.ID
		if hasVariant(existing.Variants, item.Variants[i].ID) {
			keptVariants = append(keptVariants, item.Variants[i].ID)
		} else {
			item.Variants[i].ID = 0
		}
	}
	keptAddons := make([]uint, 0, len(item.Addons))
	for i := range item.Addons {
		item.Addons[i].ItemID = item.ID
		if hasAddon(existing.Addons, item.Addons[i].ID) {
			keptAddons = append(keptAddons, item.Addons[i].ID)
		} else {
			item.Addons[i].ID = 0
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := pruneOptions(tx, &models.Variant{}, item.ID, keptVariants); err != nil {
			return err
		}
		if err := pruneOptions(tx, &models.Addon{}, item.ID, keptAddons); err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&item).Error
	})
	if err != nil {
		return models.Item{}, err
	}
	return s.GetItem(item.VenueID, item.ID)
}

// pruneOptions deletes the options of an item that are not in kept
func pruneOptions(tx *gorm.DB, model interface{}, itemID uint, kept []uint) error {
	query := tx.Where("item_id = ?", itemID)
	if len(kept) > 0 {
		query = query.Where("id NOT IN ?", kept)
	}
	return query.Delete(model).Error
}

func hasVariant(variants []models.Variant, id uint) bool {
	for _, v := range variants {
		if id != 0 && v.ID == id {
			return true
		}
	}
	return false
}

func hasAddon(addons []models.Addon, id uint) bool {
	for _, a := range addons {
		if id != 0 && a.ID == id {
			return true
		}
	}
	return false
}

func (s *itemService) DeleteItem(venueID, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("venue_id = ?", venueID).Delete(&models.Item{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		return tx.Where("item_id = ?", id).Delete(&models.Addon{}).Error
	})
}

// validate enforces non-negative prices, known tags and a category of the same venue
func (s *itemService) validate(item models.Item) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidItem)
	}
	for _, a := range item.Addons {
		if a.Price.IsNegative() {
			return fmt.Errorf("%w: add-on %q has a negative price", ErrInvalidItem, a.Name)
		}
	}
	for _, tag := range item.Tags {
		if !models.IsValidTag(tag) {
			return fmt.Errorf("%w: unknown tag %q", ErrInvalidItem, tag)
		}
	}
	if item.CategoryID != 0 {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ? AND venue_id = ?", item.CategoryID, item.VenueID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrCategoryNotFound
		}
	}
	return nil
}
