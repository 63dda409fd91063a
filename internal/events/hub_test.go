package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversVenueEvents(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, strings.TrimPrefix(r.URL.Path, "/"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/demo-bistro"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers("demo-bistro") == 1 }, time.Second, 10*time.Millisecond)

	// events of other venues are not delivered
	require.NoError(t, hub.Publish(context.Background(), Event{Type: OrderCreated, VenueSlug: "other", ID: 1}))
	require.NoError(t, hub.Publish(context.Background(), Event{Type: OrderCreated, VenueSlug: "demo-bistro", ID: 42}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, OrderCreated, got.Type)
	assert.Equal(t, uint(42), got.ID)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers("demo-bistro") == 0 }, time.Second, 10*time.Millisecond)
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Event) error { return f.err }

func TestMultiJoinsErrors(t *testing.T) {
	boom := errors.New("broker down")
	m := Multi{Nop{}, failingPublisher{err: boom}}

	err := m.Publish(context.Background(), Event{Type: WaiterCallCreated})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, Multi{Nop{}}.Publish(context.Background(), Event{}))
}
