package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedFetch struct {
	mu    sync.Mutex
	steps []func() ([]uint, error)
	calls int
}

func (s *scriptedFetch) fetch(ctx context.Context) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.steps[len(s.steps)-1]
	if s.calls < len(s.steps) {
		step = s.steps[s.calls]
	}
	s.calls++
	return step()
}

func ids(v ...uint) func() ([]uint, error) {
	return func() ([]uint, error) { return v, nil }
}

func fail() ([]uint, error) { return nil, errors.New("connection refused") }

type recorder struct {
	mu       sync.Mutex
	arrivals []Arrival
}

func (r *recorder) notify(ctx context.Context, a Arrival) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.arrivals = append(r.arrivals, a)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.arrivals)
}

func TestBaselineSequence(t *testing.T) {
	f := &scriptedFetch{steps: []func() ([]uint, error){
		ids(98, 100, 99),
		ids(100, 105, 101),
		ids(105, 100),
	}}
	rec := &recorder{}
	p := New("orders", time.Second, f.fetch, rec.notify)
	ctx := context.Background()

	fired, err := p.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, fired, "first fetch only records the baseline")
	assert.Equal(t, uint(100), p.Baseline())

	fired, err = p.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, uint(105), p.Baseline())
	require.Len(t, rec.arrivals, 1)
	assert.Equal(t, Arrival{Source: "orders", Previous: 100, Current: 105}, rec.arrivals[0])

	fired, err = p.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, 1, rec.count())
}

func TestFailedTickKeepsBaseline(t *testing.T) {
	f := &scriptedFetch{steps: []func() ([]uint, error){
		ids(10),
		fail,
		ids(12),
	}}
	rec := &recorder{}
	p := New("waiter-calls", time.Second, f.fetch, rec.notify)
	ctx := context.Background()

	_, err := p.Tick(ctx)
	require.NoError(t, err)

	fired, err := p.Tick(ctx)
	assert.Error(t, err)
	assert.False(t, fired)
	assert.Equal(t, uint(10), p.Baseline())

	fired, err = p.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, fired, "arrival missed during the failure is reported later")
	assert.Equal(t, 1, rec.count())
}

func TestFailedFirstFetchDoesNotStartPolling(t *testing.T) {
	f := &scriptedFetch{steps: []func() ([]uint, error){fail, ids(40)}}
	rec := &recorder{}
	p := New("orders", time.Second, f.fetch, rec.notify)

	_, _ = p.Tick(context.Background())
	assert.False(t, p.Polling())

	fired, err := p.Tick(context.Background())
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, uint(40), p.Baseline())
}

func TestEmptyBaselineNeverNotifies(t *testing.T) {
	f := &scriptedFetch{steps: []func() ([]uint, error){ids(), ids(3), ids(4)}}
	rec := &recorder{}
	p := New("orders", time.Second, f.fetch, rec.notify)
	ctx := context.Background()

	_, _ = p.Tick(ctx)
	fired, _ := p.Tick(ctx)
	assert.False(t, fired)
	assert.Equal(t, uint(3), p.Baseline())

	fired, _ = p.Tick(ctx)
	assert.True(t, fired)
}

func TestBaselineNeverMovesBackwards(t *testing.T) {
	f := &scriptedFetch{steps: []func() ([]uint, error){ids(20), ids(15), ids(20)}}
	rec := &recorder{}
	p := New("orders", time.Second, f.fetch, rec.notify)
	ctx := context.Background()

	_, _ = p.Tick(ctx)
	_, _ = p.Tick(ctx)
	assert.Equal(t, uint(20), p.Baseline())

	fired, _ := p.Tick(ctx)
	assert.False(t, fired)
	assert.Equal(t, 0, rec.count())
}

func TestRunStopsOnCancel(t *testing.T) {
	f := &scriptedFetch{steps: []func() ([]uint, error){ids(1), ids(2)}}
	rec := &recorder{}
	p := New("orders", 5*time.Millisecond, f.fetch, rec.notify)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 1, rec.count())
}
