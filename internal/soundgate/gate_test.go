package soundgate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryConsent struct {
	granted bool
	err     error
}

func (m *memoryConsent) Consent() (bool, error) { return m.granted, m.err }

func (m *memoryConsent) SetConsent(granted bool) error {
	m.granted = granted
	return nil
}

type fakePlayer struct {
	primeErr error
	playErr  error
	played   int
}

func (p *fakePlayer) Prime(ctx context.Context) error { return p.primeErr }

func (p *fakePlayer) Play(ctx context.Context) error {
	if p.playErr != nil {
		return p.playErr
	}
	p.played++
	return nil
}

func TestPlayBeforeUnlockFails(t *testing.T) {
	player := &fakePlayer{}
	gate := New(player, &memoryConsent{})

	err := gate.Play(context.Background())
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, 0, player.played)
	assert.Equal(t, Locked, gate.State())
}

func TestUnlockThenPlay(t *testing.T) {
	player := &fakePlayer{}
	consent := &memoryConsent{}
	gate := New(player, consent)
	ctx := context.Background()

	assert.False(t, gate.HasConsent())
	require.NoError(t, gate.Unlock(ctx))
	assert.Equal(t, Unlocked, gate.State())
	assert.True(t, gate.HasConsent())

	require.NoError(t, gate.Play(ctx))
	require.NoError(t, gate.Play(ctx))
	assert.Equal(t, 2, player.played)
}

func TestBlockedUnlockStaysLocked(t *testing.T) {
	consent := &memoryConsent{}
	gate := New(&fakePlayer{primeErr: errors.New("no audio device")}, consent)

	err := gate.Unlock(context.Background())
	assert.ErrorIs(t, err, ErrPlaybackBlocked)
	assert.Equal(t, Locked, gate.State())
	assert.False(t, consent.granted, "consent is only recorded after a successful unlock")
}

func TestPlayFailureRelocks(t *testing.T) {
	player := &fakePlayer{}
	gate := New(player, &memoryConsent{})
	ctx := context.Background()
	require.NoError(t, gate.Unlock(ctx))

	player.playErr = errors.New("device gone")
	assert.ErrorIs(t, gate.Play(ctx), ErrPlaybackBlocked)
	assert.Equal(t, Locked, gate.State())
	assert.ErrorIs(t, gate.Play(ctx), ErrLocked)
}

func TestRevoke(t *testing.T) {
	consent := &memoryConsent{}
	gate := New(&fakePlayer{}, consent)
	require.NoError(t, gate.Unlock(context.Background()))

	require.NoError(t, gate.Revoke())
	assert.False(t, gate.HasConsent())
	assert.Equal(t, Locked, gate.State())
}

func TestConsentReadErrorMeansNoConsent(t *testing.T) {
	gate := New(&fakePlayer{}, &memoryConsent{granted: true, err: errors.New("corrupt")})
	assert.False(t, gate.HasConsent())
}

func TestTerminalBell(t *testing.T) {
	var out bytes.Buffer
	bell := &TerminalBell{out: &out, isTerminal: func() bool { return true }}
	require.NoError(t, bell.Prime(context.Background()))
	require.NoError(t, bell.Play(context.Background()))
	assert.Equal(t, "\a", out.String())

	piped := &TerminalBell{out: &out, isTerminal: func() bool { return false }}
	assert.Error(t, piped.Prime(context.Background()))
}
