// Package poller detects newly arrived orders and waiter calls by diffing the
// highest identifier of a periodically fetched collection against a baseline.
package poller

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/sirupsen/logrus"
)

// Default intervals used by the dashboard
const (
	OrdersInterval      = 10 * time.Second
	WaiterCallsInterval = 10 * time.Second
	AdminOrdersInterval = 30 * time.Second
)

var log = logging.New()

// Fetcher returns the identifiers currently present in the polled collection
type Fetcher func(ctx context.Context) ([]uint, error)

// Arrival describes a detected batch of new records. Several records arriving
// between two ticks are reported as one Arrival.
type Arrival struct {
	Source   string
	Previous uint
	Current  uint
}

// Notifier is invoked once per Arrival
type Notifier func(ctx context.Context, arrival Arrival)

// Poller tracks the last seen maximum identifier of one collection.
// Ticks run serially, so a slow response can never be processed after a newer one.
type Poller struct {
	name     string
	interval time.Duration
	fetch    Fetcher
	notify   Notifier

	baseline atomic.Uint64
	polling  atomic.Bool
}

// New creates a poller; name is used in logs and in Arrival.Source
func New(name string, interval time.Duration, fetch Fetcher, notify Notifier) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		fetch:    fetch,
		notify:   notify,
	}
}

// Baseline returns the last recorded maximum identifier
func (p *Poller) Baseline() uint {
	return uint(p.baseline.Load())
}

// Polling reports whether the initial baseline has been recorded
func (p *Poller) Polling() bool {
	return p.polling.Load()
}

// Tick performs one fetch and diff. It returns true when a notification fired.
// On fetch failure the baseline is left untouched so a later tick still sees the arrival.
func (p *Poller) Tick(ctx context.Context) (bool, error) {
	ids, err := p.fetch(ctx)
	if err != nil {
		log.WithFields(logrus.Fields{
			"poller": p.name,
			"error":  err.Error(),
		}).Warn("Poll failed, skipping tick")
		return false, err
	}

	newMax := uint64(maxID(ids))

	if !p.polling.Load() {
		p.baseline.Store(newMax)
		p.polling.Store(true)
		log.WithFields(logrus.Fields{
			"poller":   p.name,
			"baseline": newMax,
		}).Debug("Baseline recorded")
		return false, nil
	}

	previous := p.baseline.Load()
	if newMax <= previous {
		return false, nil
	}
	p.baseline.Store(newMax)

	if previous == 0 {
		// nothing was known before, so there is no reference point to alert against
		return false, nil
	}

	log.WithFields(logrus.Fields{
		"poller":   p.name,
		"previous": previous,
		"current":  newMax,
	}).Info("New records detected")

	if p.notify != nil {
		p.notify(ctx, Arrival{Source: p.name, Previous: uint(previous), Current: uint(newMax)})
	}
	return true, nil
}

// Run ticks immediately and then on every interval until ctx is cancelled
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	_, _ = p.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_, _ = p.Tick(ctx)
		}
	}
}

func maxID(ids []uint) uint {
	var m uint
	for _, id := range ids {
		if id > m {
			m = id
		}
	}
	return m
}
