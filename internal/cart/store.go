// Package cart holds the in-memory customer carts of the public menu.
// Carts are keyed by a session id and are never persisted; they are lost on restart,
// destroyed on checkout or explicit removal, and swept once idle for longer than IdleTTL.
package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IdleTTL matches the lifetime of the session cookie that carries the cart id.
// A cart untouched for longer can no longer be reached by its customer.
const IdleTTL = 24 * time.Hour

const sweepInterval = time.Minute

var (
	ErrEntryNotFound = errors.New("cart entry not found")
	ErrVenueMismatch = errors.New("cart holds items of another venue")
)

// Entry is one line of a cart
type Entry struct {
	ID        string          `json:"id"`
	Item      models.Item     `json:"item"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	VariantID *uint           `json:"variant_id,omitempty"`
	AddonIDs  []uint          `json:"addon_ids,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Cart is a snapshot of a session cart with computed totals
type Cart struct {
	VenueID  uint            `json:"venue_id"`
	Entries  []Entry         `json:"entries"`
	Subtotal decimal.Decimal `json:"subtotal"`
	// Opened is set by Add so the caller can show the cart view
	Opened bool `json:"opened"`
}

type sessionCart struct {
	venueID uint
	entries []*Entry
	opened  bool
	touched time.Time
}

// Store is a concurrency-safe container of session carts
type Store struct {
	mu        sync.Mutex
	carts     map[string]*sessionCart
	newID     func() string
	now       func() time.Time
	idleTTL   time.Duration
	lastSweep time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the time source used to age carts
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIdleTTL overrides IdleTTL
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *Store) { s.idleTTL = ttl }
}

// NewStore creates an empty cart store
func NewStore(opts ...Option) *Store {
	s := &Store{
		carts:   make(map[string]*sessionCart),
		newID:   func() string { return uuid.New().String() },
		now:     time.Now,
		idleTTL: IdleTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.now()
	return s
}

// Len reports the number of live carts
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.carts)
}

// Sweep drops every cart idle for longer than the idle TTL and returns how many were dropped
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweepLocked(s.now())
}

func (s *Store) sweepLocked(now time.Time) int {
	s.lastSweep = now
	dropped := 0
	for id, c := range s.carts {
		if now.Sub(c.touched) > s.idleTTL {
			delete(s.carts, id)
			dropped++
		}
	}
	return dropped
}

// lookup returns the live cart of a session and refreshes its idle clock.
// Idle carts are swept at most once per sweepInterval. Must be called with mu held.
func (s *Store) lookup(session string) (*sessionCart, bool) {
	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweepLocked(now)
	}
	c, found := s.carts[session]
	if !found {
		return nil, false
	}
	if now.Sub(c.touched) > s.idleTTL {
		delete(s.carts, session)
		return nil, false
	}
	c.touched = now
	return c, true
}

// Add appends a new entry to the session cart. Identical entries are never merged.
func (s *Store) Add(session string, item models.Item, quantity int, note string, variantID *uint, addonIDs []uint) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookup(session)
	if !ok {
		c = &sessionCart{touched: s.now()}
		s.carts[session] = c
	}
	if len(c.entries) > 0 && c.venueID != item.VenueID {
		return Entry{}, ErrVenueMismatch
	}
	c.venueID = item.VenueID

	entry := &Entry{
		ID:       s.newID(),
		Item:     item,
		Quantity: pricing.ClampQuantity(quantity),
		Note:     note,
		AddonIDs: append([]uint(nil), addonIDs...),
	}
	if variantID != nil {
		v := *variantID
		entry.VariantID = &v
	}
	c.entries = append(c.entries, entry)
	c.opened = true

	return snapshotEntry(entry), nil
}

// Remove deletes an entry from the session cart
func (s *Store) Remove(session, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookup(session)
	if !ok {
		return ErrEntryNotFound
	}
	for i, e := range c.entries {
		if e.ID == entryID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			if len(c.entries) == 0 {
				delete(s.carts, session)
			}
			return nil
		}
	}
	return ErrEntryNotFound
}

// UpdateQuantity sets the quantity of an entry, clamped to a minimum of 1
func (s *Store) UpdateQuantity(session, entryID string, quantity int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookup(session)
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	for _, e := range c.entries {
		if e.ID == entryID {
			e.Quantity = pricing.ClampQuantity(quantity)
			return snapshotEntry(e), nil
		}
	}
	return Entry{}, ErrEntryNotFound
}

// SetOpen records whether the cart view is shown
func (s *Store) SetOpen(session string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.lookup(session); ok {
		c.opened = open
	}
}

// Clear drops the whole session cart
func (s *Store) Clear(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, session)
}

// Get returns a snapshot of the session cart. A missing cart is empty.
func (s *Store) Get(session string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Cart{Entries: []Entry{}, Subtotal: decimal.Zero}
	c, ok := s.lookup(session)
	if !ok {
		return out
	}
	out.VenueID = c.venueID
	out.Opened = c.opened
	for _, e := range c.entries {
		snap := snapshotEntry(e)
		out.Entries = append(out.Entries, snap)
		out.Subtotal = out.Subtotal.Add(snap.LineTotal)
	}
	return out
}

func snapshotEntry(e *Entry) Entry {
	snap := *e
	snap.AddonIDs = append([]uint(nil), e.AddonIDs...)
	if e.VariantID != nil {
		v := *e.VariantID
		snap.VariantID = &v
	}
	snap.LineTotal = pricing.ComputeLineTotal(e.Item, e.VariantID, e.AddonIDs, e.Quantity)
	return snap
}
