package controllers

import (
	"strings"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
)

// tableRef identifies the customer's table either by the QR token or by its label
type tableRef struct {
	Table      string `json:"table"`
	TableToken string `json:"table_token"`
}

// resolve returns the venue and the table label. A token wins over a free text label.
func (r tableRef) resolve(venues services.VenueService, slug string) (models.Venue, string, error) {
	if r.TableToken != "" {
		venue, table, err := venues.ResolveTable(slug, r.TableToken)
		if err != nil {
			return models.Venue{}, "", err
		}
		return venue, table.Label, nil
	}

	label := strings.TrimSpace(r.Table)
	if label == "" {
		return models.Venue{}, "", errTableRequired
	}
	venue, err := venues.GetBySlug(slug)
	if err != nil {
		return models.Venue{}, "", err
	}
	return venue, label, nil
}
