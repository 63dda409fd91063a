package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// MaxConcurrentEnrichments bounds in-flight enrichment streams per process
const MaxConcurrentEnrichments = 4

// EnrichRequest describes the item to write marketing copy for
type EnrichRequest struct {
	ItemID uint   `json:"item_id"`
	Name   string `json:"name" binding:"required"`
	Lang   string `json:"lang"`
}

// EnrichService streams generated item descriptions chunk by chunk
type EnrichService interface {
	// Enrich calls emit for every generated chunk. Returns ErrPremiumRequired for free
	// venues, ErrAIBusy when the generator is saturated and ErrAIFailed otherwise.
	Enrich(ctx context.Context, venue models.Venue, req EnrichRequest, emit func(chunk string) error) error
}

type enrichService struct {
	upstream string
	client   *http.Client
	items    ItemService
	slots    *semaphore.Weighted
}

// NewEnrichService streams from upstream when set, otherwise from a local template generator
func NewEnrichService(upstream string, items ItemService) EnrichService {
	return &enrichService{
		upstream: upstream,
		client:   &http.Client{Timeout: 60 * time.Second},
		items:    items,
		slots:    semaphore.NewWeighted(MaxConcurrentEnrichments),
	}
}

func (s *enrichService) Enrich(ctx context.Context, venue models.Venue, req EnrichRequest, emit func(chunk string) error) error {
	if !venue.IsPremium() {
		return ErrPremiumRequired
	}
	if !s.slots.TryAcquire(1) {
		return ErrAIBusy
	}
	defer s.slots.Release(1)

	var item *models.Item
	if req.ItemID != 0 {
		found, err := s.items.GetItem(venue.ID, req.ItemID)
		if err != nil {
			return err
		}
		item = &found
	}

	log.WithFields(logrus.Fields{"venue": venue.Slug, "name": req.Name, "upstream": s.upstream != ""}).Debug("Enrichment started")
	if s.upstream == "" {
		return s.generateLocal(ctx, req, item, emit)
	}
	return s.streamUpstream(ctx, req, emit)
}

func (s *enrichService) streamUpstream(ctx context.Context, req EnrichRequest, emit func(string) error) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.upstream, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAIFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAIFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		return ErrAIBusy
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: upstream status %d", ErrAIFailed, resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		chunk := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
		if chunk == "[DONE]" {
			return nil
		}
		if err := emit(chunk); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrAIFailed, err)
	}
	return nil
}

func (s *enrichService) generateLocal(ctx context.Context, req EnrichRequest, item *models.Item, emit func(string) error) error {
	for _, chunk := range describe(req, item) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(chunk); err != nil {
			return err
		}
	}
	return nil
}

// describe builds a short description from what is known about the item
func describe(req EnrichRequest, item *models.Item) []string {
	name := req.Name
	if item != nil && req.Lang != "" {
		name = item.LocalizedName(req.Lang)
	}
	chunks := []string{fmt.Sprintf("%s, prepared fresh to order.", name)}
	if item == nil {
		return append(chunks, " Ask our staff for today's pairing.")
	}

	for _, tag := range item.Tags {
		switch tag {
		case models.TagVegan:
			chunks = append(chunks, " Entirely plant based.")
		case models.TagSpicy:
			chunks = append(chunks, " Brings a pleasant heat.")
		case models.TagPopular:
			chunks = append(chunks, " One of our guests' favourites.")
		case models.TagNew:
			chunks = append(chunks, " New on the menu.")
		}
	}
	if len(item.Addons) > 0 {
		names := make([]string, 0, len(item.Addons))
		for _, a := range item.Addons {
			names = append(names, a.Name)
		}
		chunks = append(chunks, fmt.Sprintf(" Try it with %s.", strings.Join(names, " or ")))
	}
	if item.Calories != nil {
		chunks = append(chunks, fmt.Sprintf(" About %.0f kcal per serving.", *item.Calories))
	}
	return chunks
}
