// Package events fans out order and waiter-call activity to live dashboards.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/sirupsen/logrus"
)

var log = logging.New()

// Type names an event kind and doubles as the broker routing key
type Type string

const (
	OrderCreated        Type = "order.created"
	OrderStatusChanged  Type = "order.status_changed"
	WaiterCallCreated   Type = "waiter_call.created"
	WaiterCallCompleted Type = "waiter_call.completed"
)

// Event is a single change of an order or waiter call
type Event struct {
	Type      Type      `json:"type"`
	VenueID   uint      `json:"venue_id"`
	VenueSlug string    `json:"venue_slug"`
	ID        uint      `json:"id"`
	Status    string    `json:"status,omitempty"`
	Table     string    `json:"table,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher delivers events to subscribers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi publishes to every publisher and joins their errors
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// PublishAsync publishes without blocking the caller; failures are only logged
func PublishAsync(p Publisher, event Event) {
	if p == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, event); err != nil {
			log.WithFields(logrus.Fields{
				"event": event.Type,
				"id":    event.ID,
				"error": err.Error(),
			}).Warn("Failed to publish event")
		}
	}()
}
