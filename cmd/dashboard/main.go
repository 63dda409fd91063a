// Command dashboard is the staff companion of the QR menu API: it logs in, watches a
// venue for new orders and waiter calls, and rings the terminal bell once sound is enabled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/client"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/config"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/soundgate"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const usage = `usage: dashboard [-api URL] [-state FILE] <command> [flags]

commands:
  login          -email -password, or -client-id -client-secret
  enable-sound   allow the new order bell (run from a terminal)
  disable-sound  silence the bell and forget the consent
  watch          -venue SLUG and/or -admin, poll for new orders and waiter calls
  advance        -order ID -status STATUS
  complete-call  -id ID
  reviews        -item ID
  join           -venue SLUG -token TABLE_TOKEN
  call           -venue SLUG [-message TEXT]
  call-status    -venue SLUG, check the last waiter call and forget it once completed
`

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.JSONFormatter{})

	apiURL := flag.String("api", config.GetEnvWithDefault("QRMENU_API_URL", "http://localhost:8080"), "API base URL")
	statePath := flag.String("state", config.GetEnvWithDefault("QRMENU_STATE", "dashboard.db"), "Local state file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	store, err := client.OpenLocalStore(*statePath)
	if err != nil {
		log.WithError(err).Fatal("Failed to open local state")
	}
	defer store.Close()

	api := client.New(*apiURL, store)
	gate := soundgate.New(soundgate.NewTerminalBell(os.Stdout), store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, api, store, gate, flag.Arg(0), flag.Args()[1:])
	if errors.Is(err, client.ErrUnauthorized) {
		if clearErr := store.ClearTokens(); clearErr != nil {
			log.WithError(clearErr).Warn("Failed to clear stored token")
		}
		fmt.Fprintln(os.Stderr, "Session expired or missing, run: dashboard login")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, api *client.Client, store *client.LocalStore, gate *soundgate.Gate, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)

	switch command {
	case "login":
		email := fs.String("email", "", "User email")
		password := fs.String("password", "", "User password")
		clientID := fs.String("client-id", "", "API client id")
		clientSecret := fs.String("client-secret", "", "API client secret")
		if err := fs.Parse(args); err != nil {
			return err
		}
		var err error
		if *clientID != "" {
			_, err = api.Token(ctx, *clientID, *clientSecret)
		} else {
			_, err = api.Login(ctx, *email, *password)
		}
		if err != nil {
			return err
		}
		fmt.Println("Logged in")
		return nil

	case "enable-sound":
		if err := gate.Unlock(ctx); err != nil {
			return err
		}
		fmt.Println("Notification sound enabled")
		return nil

	case "disable-sound":
		return gate.Revoke()

	case "watch":
		venue := fs.String("venue", "", "Venue slug to watch")
		admin := fs.Bool("admin", false, "Also watch the admin order feed")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *venue == "" && !*admin {
			return errors.New("watch needs -venue or -admin")
		}
		return watch(ctx, api, store, gate, *venue, *admin)

	case "advance":
		order := fs.Uint("order", 0, "Order id")
		status := fs.String("status", "", "Next status: preparing, ready or delivered")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return api.UpdateOrderStatus(ctx, uint(*order), *status)

	case "complete-call":
		id := fs.Uint("id", 0, "Waiter call id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return api.CompleteWaiterCall(ctx, uint(*id))

	case "reviews":
		item := fs.Uint("item", 0, "Item id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		summary, err := api.FetchReviews(ctx, uint(*item))
		if err != nil {
			return err
		}
		fmt.Printf("%.1f average from %d reviews\n", summary.AverageRating, summary.TotalReviews)
		for _, r := range summary.Reviews {
			fmt.Printf("  %d/5 %s: %s\n", r.Rating, r.CustomerName, r.Comment)
		}
		return nil

	case "join":
		venue := fs.String("venue", "", "Venue slug")
		token := fs.String("token", "", "Table token from the QR code")
		if err := fs.Parse(args); err != nil {
			return err
		}
		table, err := api.ResolveTable(ctx, *venue, *token)
		if err != nil {
			return err
		}
		fmt.Printf("Seated at %s\n", table.Label)
		return nil

	case "call":
		venue := fs.String("venue", "", "Venue slug")
		message := fs.String("message", "", "Optional message for the waiter")
		if err := fs.Parse(args); err != nil {
			return err
		}
		id, err := api.CallWaiter(ctx, *venue, *message)
		if err != nil {
			return err
		}
		label, _, _ := store.Table()
		fmt.Printf("Waiter called to %s (call %d)\n", label, id)
		return nil

	case "call-status":
		venue := fs.String("venue", "", "Venue slug")
		if err := fs.Parse(args); err != nil {
			return err
		}
		status, err := api.WaiterCallStatus(ctx, *venue)
		if err != nil {
			return err
		}
		if status == "" {
			fmt.Println("No waiter call pending")
			return nil
		}
		fmt.Printf("Waiter call %s\n", status)
		return nil
	}

	return fmt.Errorf("unknown command %q\n\n%s", command, usage)
}
