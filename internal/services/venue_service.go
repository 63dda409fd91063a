package services

import (
	"errors"
	"regexp"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Menu is the public bootstrap payload of a venue
type Menu struct {
	Venue      models.Venue      `json:"venue"`
	Categories []models.Category `json:"categories"`
	Items      []models.Item     `json:"items"`
}

// VenueService provides tenant lookups, ownership checks and membership changes
type VenueService interface {
	// GetBySlug returns an active venue
	GetBySlug(slug string) (models.Venue, error)
	// GetMenu returns the venue with its categories and available items
	GetMenu(slug string) (Menu, error)
	// Authorize returns the venue if the user owns it or is an admin
	Authorize(slug string, userID uint, role string) (models.Venue, error)
	// AuthorizeByID is Authorize for records that only carry a venue id
	AuthorizeByID(venueID, userID uint, role string) (models.Venue, error)
	ListVenues() ([]models.Venue, error)
	ListByOwner(ownerID uint) ([]models.Venue, error)
	CreateVenue(venue models.Venue) (models.Venue, error)
	SetPlan(slug, plan string) (models.Venue, error)
	// ResolveTable maps a QR table token to its table
	ResolveTable(slug, token string) (models.Venue, models.Table, error)
	CreateTable(venueID uint, label string) (models.Table, error)
	ListTables(venueID uint) ([]models.Table, error)
}

type venueService struct {
	db *gorm.DB
}

// NewVenueService creates a new instance of VenueService
func NewVenueService(db *gorm.DB) VenueService {
	return &venueService{db: db}
}

func (s *venueService) find(slug string) (models.Venue, error) {
	var venue models.Venue
	if err := s.db.Where("slug = ?", slug).First(&venue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Venue{}, ErrVenueNotFound
		}
		return models.Venue{}, err
	}
	return venue, nil
}

func (s *venueService) GetBySlug(slug string) (models.Venue, error) {
	venue, err := s.find(slug)
	if err != nil {
		return models.Venue{}, err
	}
	if !venue.Active {
		return models.Venue{}, ErrVenueNotFound
	}
	return venue, nil
}

func (s *venueService) GetMenu(slug string) (Menu, error) {
	venue, err := s.GetBySlug(slug)
	if err != nil {
		return Menu{}, err
	}

	menu := Menu{Venue: venue}
	if err := s.db.Where("venue_id = ?", venue.ID).Order("sort_order, id").Find(&menu.Categories).Error; err != nil {
		return Menu{}, err
	}
	err = s.db.Preload("Variants").Preload("Addons").
		Where("venue_id = ? AND available = ?", venue.ID, true).
		Order("featured DESC, id").
		Find(&menu.Items).Error
	if err != nil {
		return Menu{}, err
	}
	return menu, nil
}

func (s *venueService) Authorize(slug string, userID uint, role string) (models.Venue, error) {
	venue, err := s.find(slug)
	if err != nil {
		return models.Venue{}, err
	}
	if role != models.RoleAdmin && venue.OwnerID != userID {
		return models.Venue{}, ErrForbidden
	}
	return venue, nil
}

func (s *venueService) AuthorizeByID(venueID, userID uint, role string) (models.Venue, error) {
	var venue models.Venue
	if err := s.db.First(&venue, venueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Venue{}, ErrVenueNotFound
		}
		return models.Venue{}, err
	}
	if role != models.RoleAdmin && venue.OwnerID != userID {
		return models.Venue{}, ErrForbidden
	}
	return venue, nil
}

func (s *venueService) ListVenues() ([]models.Venue, error) {
	var venues []models.Venue
	if err := s.db.Order("id").Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func (s *venueService) ListByOwner(ownerID uint) ([]models.Venue, error) {
	var venues []models.Venue
	if err := s.db.Where("owner_id = ?", ownerID).Order("id").Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func (s *venueService) CreateVenue(venue models.Venue) (models.Venue, error) {
	if !slugPattern.MatchString(venue.Slug) {
		return models.Venue{}, ErrInvalidSlug
	}
	if venue.Plan == "" {
		venue.Plan = models.PlanFree
	}
	if venue.Plan != models.PlanFree && venue.Plan != models.PlanPremium {
		return models.Venue{}, ErrInvalidPlan
	}
	if err := s.db.Create(&venue).Error; err != nil {
		return models.Venue{}, err
	}
	return venue, nil
}

func (s *venueService) SetPlan(slug, plan string) (models.Venue, error) {
	if plan != models.PlanFree && plan != models.PlanPremium {
		return models.Venue{}, ErrInvalidPlan
	}
	venue, err := s.find(slug)
	if err != nil {
		return models.Venue{}, err
	}
	if err := s.db.Model(&venue).Update("plan", plan).Error; err != nil {
		return models.Venue{}, err
	}
	venue.Plan = plan
	return venue, nil
}

func (s *venueService) ResolveTable(slug, token string) (models.Venue, models.Table, error) {
	venue, err := s.GetBySlug(slug)
	if err != nil {
		return models.Venue{}, models.Table{}, err
	}
	var table models.Table
	if err := s.db.Where("venue_id = ? AND token = ?", venue.ID, token).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Venue{}, models.Table{}, ErrTableNotFound
		}
		return models.Venue{}, models.Table{}, err
	}
	return venue, table, nil
}

func (s *venueService) CreateTable(venueID uint, label string) (models.Table, error) {
	table := models.Table{VenueID: venueID, Label: label, Token: uuid.New().String()}
	if err := s.db.Create(&table).Error; err != nil {
		return models.Table{}, err
	}
	return table, nil
}

func (s *venueService) ListTables(venueID uint) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.Where("venue_id = ?", venueID).Order("label").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}
