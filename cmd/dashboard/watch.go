package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/client"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/poller"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/soundgate"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const adminOrderLimit = 100

// watch runs one poller per feed until ctx is cancelled or the API rejects the token
func watch(ctx context.Context, api *client.Client, store *client.LocalStore, gate *soundgate.Gate, venue string, admin bool) error {
	if gate.HasConsent() {
		if err := gate.Unlock(ctx); err != nil {
			log.WithError(err).Warn("Notification sound unavailable, alerts will be shown only")
		}
	} else {
		fmt.Fprintln(os.Stdout, "Notification sound is off, run: dashboard enable-sound")
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	guard := func(fetch poller.Fetcher) poller.Fetcher {
		return func(ctx context.Context) ([]uint, error) {
			ids, err := fetch(ctx)
			if errors.Is(err, client.ErrUnauthorized) {
				cancel(client.ErrUnauthorized)
			}
			return ids, err
		}
	}
	notify := newNotifier(gate, os.Stdout)

	g, gctx := errgroup.WithContext(ctx)
	if venue != "" {
		orders := poller.New("orders", poller.OrdersInterval, guard(func(ctx context.Context) ([]uint, error) {
			list, err := api.FetchOrders(ctx, venue)
			return client.IDs(list, func(o client.Order) uint { return o.ID }), err
		}), notify)
		calls := poller.New("waiter_calls", poller.WaiterCallsInterval, guard(func(ctx context.Context) ([]uint, error) {
			list, err := api.FetchWaiterCalls(ctx, venue)
			return client.IDs(list, func(w client.WaiterCall) uint { return w.ID }), err
		}), notify)
		g.Go(func() error { return orders.Run(gctx) })
		g.Go(func() error { return calls.Run(gctx) })
	}
	if admin {
		all := poller.New("admin_orders", poller.AdminOrdersInterval, guard(func(ctx context.Context) ([]uint, error) {
			list, err := api.FetchAdminOrders(ctx, adminOrderLimit)
			return client.IDs(list, func(o client.Order) uint { return o.ID }), err
		}), notify)
		g.Go(func() error { return all.Run(gctx) })
	}

	log.WithField("venue", venue).Info("Watching for new orders")
	err := g.Wait()
	if cause := context.Cause(ctx); errors.Is(cause, client.ErrUnauthorized) {
		return cause
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newNotifier shows a toast for every arrival and rings the bell when allowed
func newNotifier(gate *soundgate.Gate, out io.Writer) poller.Notifier {
	return func(ctx context.Context, arrival poller.Arrival) {
		fmt.Fprintf(out, "New %s (latest #%d)\n", label(arrival.Source), arrival.Current)

		err := gate.Play(ctx)
		switch {
		case err == nil:
		case errors.Is(err, soundgate.ErrLocked), errors.Is(err, soundgate.ErrPlaybackBlocked):
			fmt.Fprintln(out, "Sound is off, run: dashboard enable-sound")
		default:
			log.WithError(err).Warn("Failed to play notification")
		}
	}
}

func label(source string) string {
	switch source {
	case "waiter_calls":
		return "waiter call"
	case "admin_orders":
		return "order on the platform"
	}
	return "order"
}
