// Package soundgate guards the audible new-order alert behind an explicit one-time opt-in.
//
// The gate starts Locked. Unlock must be triggered by a user action; it primes the
// player and, on success, persists consent so later sessions can unlock on start.
// Play fails fast while Locked so the caller re-prompts instead of dropping an alert.
package soundgate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
)

var log = logging.New()

var (
	// ErrLocked is returned by Play before a successful Unlock
	ErrLocked = errors.New("notification sound is locked")
	// ErrPlaybackBlocked is returned when the output device refuses to play
	ErrPlaybackBlocked = errors.New("notification playback blocked")
)

// State of the gate
type State int

const (
	Locked State = iota
	Unlocking
	Unlocked
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocking:
		return "unlocking"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Player produces the alert sound
type Player interface {
	// Prime checks that the output can play without producing an alert
	Prime(ctx context.Context) error
	Play(ctx context.Context) error
}

// ConsentStore persists the opt-in flag
type ConsentStore interface {
	Consent() (bool, error)
	SetConsent(granted bool) error
}

// Gate is the Locked -> Unlocking -> Unlocked state machine around a Player
type Gate struct {
	mu      sync.Mutex
	state   State
	player  Player
	consent ConsentStore
}

// New creates a locked gate
func New(player Player, consent ConsentStore) *Gate {
	return &Gate{player: player, consent: consent}
}

// State returns the current state
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// HasConsent reads the persisted opt-in flag. Read errors count as no consent.
func (g *Gate) HasConsent() bool {
	granted, err := g.consent.Consent()
	if err != nil {
		log.WithError(err).Warn("Failed to read notification consent")
		return false
	}
	return granted
}

// Unlock primes the player and records consent on success
func (g *Gate) Unlock(ctx context.Context) error {
	g.mu.Lock()
	if g.state == Unlocked {
		g.mu.Unlock()
		return nil
	}
	g.state = Unlocking
	g.mu.Unlock()

	if err := g.player.Prime(ctx); err != nil {
		g.setState(Locked)
		return fmt.Errorf("%w: %v", ErrPlaybackBlocked, err)
	}

	if err := g.consent.SetConsent(true); err != nil {
		// the sound works for this session even if the flag could not be stored
		log.WithError(err).Warn("Failed to persist notification consent")
	}
	g.setState(Unlocked)
	log.Info("Notification sound unlocked")
	return nil
}

// Play sounds the alert. It returns ErrLocked before Unlock and relocks the gate
// if the player fails, so the caller must prompt for a new Unlock.
func (g *Gate) Play(ctx context.Context) error {
	if g.State() != Unlocked {
		return ErrLocked
	}
	if err := g.player.Play(ctx); err != nil {
		g.setState(Locked)
		return fmt.Errorf("%w: %v", ErrPlaybackBlocked, err)
	}
	return nil
}

// Revoke clears consent and locks the gate
func (g *Gate) Revoke() error {
	g.setState(Locked)
	return g.consent.SetConsent(false)
}

func (g *Gate) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}
