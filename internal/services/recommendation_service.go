package services

import (
	"errors"
	"sort"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultRecommendationLimit = 4

// Recommendation is a cross-sell suggestion shown next to an item
type Recommendation struct {
	ID         uint            `json:"id"`
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image_url,omitempty"`
	Tags       []string        `json:"tags"`
}

type RecommendationService interface {
	// Recommend suggests other available items of the same venue, preferring other
	// categories, then featured and popular items
	Recommend(itemID uint, lang string, limit int) ([]Recommendation, error)
}

type recommendationService struct {
	db *gorm.DB
}

func NewRecommendationService(db *gorm.DB) RecommendationService {
	return &recommendationService{db: db}
}

func (s *recommendationService) Recommend(itemID uint, lang string, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	var source models.Item
	if err := s.db.First(&source, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	var candidates []models.Item
	err := s.db.Where("venue_id = ? AND id <> ? AND available = ?", source.VenueID, source.ID, true).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	score := func(it models.Item) int {
		n := 0
		if it.CategoryID != source.CategoryID {
			n += 4
		}
		if it.Featured {
			n += 2
		}
		if hasTag(it, models.TagPopular) {
			n++
		}
		return n
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := score(candidates[i]), score(candidates[j])
		if si != sj {
			return si > sj
		}
		return candidates[i].ID < candidates[j].ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Recommendation, 0, len(candidates))
	for _, it := range candidates {
		tags := []string(it.Tags)
		if tags == nil {
			tags = []string{}
		}
		out = append(out, Recommendation{
			ID:         it.ID,
			CategoryID: it.CategoryID,
			Name:       it.LocalizedName(lang),
			Price:      it.Price,
			ImageURL:   it.ImageURL,
			Tags:       tags,
		})
	}
	return out, nil
}

func hasTag(item models.Item, tag string) bool {
	for _, t := range item.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
