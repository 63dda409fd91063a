package services

import (
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/events"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var log = logging.New()

// LineRequest is one requested order line
type LineRequest struct {
	ItemID    uint   `json:"item_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	VariantID *uint  `json:"variant_id"`
	AddonIDs  []uint `json:"addon_ids"`
	Note      string `json:"note"`
}

// OrderService places orders and moves them through placed -> preparing -> ready -> delivered
type OrderService interface {
	// PlaceOrder prices every line from the stored menu and creates a placed order
	PlaceOrder(venue models.Venue, table string, lines []LineRequest) (models.Order, error)
	// ListOrders returns the orders of a venue, newest first; activeOnly hides delivered orders
	ListOrders(venueID uint, activeOnly bool) ([]models.Order, error)
	// ListRecentOrders returns the newest orders of every venue
	ListRecentOrders(limit int) ([]models.Order, error)
	GetOrder(id uint) (models.Order, error)
	// UpdateStatus applies a forward status transition
	UpdateStatus(id uint, status models.OrderStatus) (models.Order, error)
}

type orderService struct {
	db        *gorm.DB
	items     ItemService
	publisher events.Publisher
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB, items ItemService, publisher events.Publisher) OrderService {
	return &orderService{db: db, items: items, publisher: publisher}
}

func (s *orderService) PlaceOrder(venue models.Venue, table string, lines []LineRequest) (models.Order, error) {
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	items, err := s.items.GetItemsByIDs(venue.ID, ids)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		VenueID:    venue.ID,
		TableLabel: table,
		Status:     models.OrderPlaced,
		Total:      decimal.Zero,
	}
	for _, l := range lines {
		item, ok := items[l.ItemID]
		if !ok {
			return models.Order{}, fmt.Errorf("%w: %d", ErrItemNotFound, l.ItemID)
		}
		if !item.Available {
			return models.Order{}, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
		}

		variantID, addonIDs := chargedOptions(item, l.VariantID, l.AddonIDs)
		quantity := pricing.ClampQuantity(l.Quantity)
		line := models.OrderLine{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  quantity,
			VariantID: variantID,
			AddonIDs:  datatypes.NewJSONSlice(addonIDs),
			Note:      l.Note,
			UnitPrice: pricing.UnitPrice(item, variantID, addonIDs),
			LineTotal: pricing.ComputeLineTotal(item, variantID, addonIDs, quantity),
		}
		order.Total = order.Total.Add(line.LineTotal)
		order.Lines = append(order.Lines, line)
	}

	if err := s.db.Create(&order).Error; err != nil {
		return models.Order{}, err
	}

	log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"venue":    venue.Slug,
		"table":    table,
		"total":    pricing.Format(order.Total),
	}).Info("Order placed")
	events.PublishAsync(s.publisher, events.Event{
		Type:      events.OrderCreated,
		VenueID:   venue.ID,
		VenueSlug: venue.Slug,
		ID:        order.ID,
		Status:    string(order.Status),
		Table:     table,
	})
	return order, nil
}

// venueSlug resolves the slug realtime subscribers are grouped by
func venueSlug(db *gorm.DB, venueID uint) (string, error) {
	var venue models.Venue
	if err := db.Select("slug").Take(&venue, venueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrVenueNotFound
		}
		return "", err
	}
	return venue.Slug, nil
}

// chargedOptions keeps only the variant and add-ons that exist on the item,
// so the stored line matches what pricing charged
func chargedOptions(item models.Item, variantID *uint, addonIDs []uint) (*uint, []uint) {
	var variant *uint
	if variantID != nil {
		for _, v := range item.Variants {
			if v.ID == *variantID {
				id := v.ID
				variant = &id
				break
			}
		}
	}

	addons := make([]uint, 0, len(addonIDs))
	for _, id := range addonIDs {
		for _, a := range item.Addons {
			if a.ID == id {
				addons = append(addons, id)
				break
			}
		}
	}
	return variant, addons
}

func (s *orderService) ListOrders(venueID uint, activeOnly bool) ([]models.Order, error) {
	query := s.db.Preload("Lines").Where("venue_id = ?", venueID)
	if activeOnly {
		query = query.Where("status <> ?", models.OrderDelivered)
	}
	var orders []models.Order
	if err := query.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) ListRecentOrders(limit int) ([]models.Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var orders []models.Order
	if err := s.db.Preload("Lines").Order("id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrder(id uint) (models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Lines").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

func (s *orderService) UpdateStatus(id uint, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	order, err := s.GetOrder(id)
	if err != nil {
		return models.Order{}, err
	}
	if !order.Status.CanTransitionTo(status) {
		return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	// guard on the current status so concurrent updates cannot move an order backwards
	result := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, order.Status).
		Update("status", status)
	if result.Error != nil {
		return models.Order{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Order{}, ErrInvalidTransition
	}

	previous := order.Status
	order.Status = status
	log.WithFields(logrus.Fields{
		"order_id": id,
		"from":     previous,
		"to":       status,
	}).Info("Order status updated")

	slug, err := venueSlug(s.db, order.VenueID)
	if err != nil {
		log.WithFields(logrus.Fields{"order_id": id, "venue_id": order.VenueID}).WithError(err).Warn("Failed to resolve venue slug for event")
	}
	events.PublishAsync(s.publisher, events.Event{
		Type:      events.OrderStatusChanged,
		VenueID:   order.VenueID,
		VenueSlug: slug,
		ID:        order.ID,
		Status:    string(status),
		Table:     order.TableLabel,
	})
	return order, nil
}
