// Package client talks to the QR menu API on behalf of the staff dashboard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

var log = logging.New()

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
)

// ErrUnauthorized is returned for any 401 so callers can drop stored tokens and ask for a login
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx answer other than 401
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api returned %d", e.Status)
	}
	return fmt.Sprintf("api returned %d %s: %s", e.Status, e.Code, e.Message)
}

type Order struct {
	ID        uint
	VenueID   uint
	Table     string
	Status    string
	Total     decimal.Decimal
	CreatedAt time.Time
}

const WaiterCallCompleted = "completed"

type WaiterCall struct {
	ID      uint
	Table   string
	Message string
	Status  string
}

type Review struct {
	ID           uint
	CustomerName string
	Rating       int
	Comment      string
}

// ReviewSummary mirrors the API answer with every number coerced, missing values are 0
type ReviewSummary struct {
	Reviews       []Review
	AverageRating float64
	TotalReviews  int
}

type Table struct {
	Label string
	Token string
}

type Option func(*Client)

// WithHTTPClient replaces the default client with a 15 second timeout
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client is a thin REST client. Credentials and table state live in the LocalStore.
type Client struct {
	baseURL string
	http    *http.Client
	store   *LocalStore
}

func New(baseURL string, store *LocalStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges user credentials for a bearer token and stores it
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, false)
	if err != nil {
		return "", err
	}
	return c.keepToken(body)
}

// Token runs the client credentials grant and stores the access token
func (c *Client) Token(ctx context.Context, clientID, clientSecret string) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
	}
	body, err := c.do(ctx, http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", false)
	if err != nil {
		return "", err
	}
	return c.keepToken(body)
}

func (c *Client) keepToken(body []byte) (string, error) {
	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", errors.New("token response without access_token")
	}
	if err := c.store.SetAdminToken(token); err != nil {
		return "", err
	}
	return token, nil
}

// FetchOrders lists the active orders of a venue the caller owns
func (c *Client) FetchOrders(ctx context.Context, slug string) ([]Order, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/api/user/venue/"+url.PathEscape(slug)+"/orders?active=true", nil, true)
	if err != nil {
		return nil, err
	}
	return parseOrders(body), nil
}

// FetchAdminOrders lists the most recent orders across every venue
func (c *Client) FetchAdminOrders(ctx context.Context, limit int) ([]Order, error) {
	path := "/api/admin/orders"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	body, err := c.doJSON(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	return parseOrders(body), nil
}

// FetchWaiterCalls lists the pending waiter calls of a venue
func (c *Client) FetchWaiterCalls(ctx context.Context, slug string) ([]WaiterCall, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/api/user/venue/"+url.PathEscape(slug)+"/waiter-calls", nil, true)
	if err != nil {
		return nil, err
	}
	var calls []WaiterCall
	gjson.ParseBytes(body).ForEach(func(_, v gjson.Result) bool {
		calls = append(calls, WaiterCall{
			ID:      uint(v.Get("id").Uint()),
			Table:   v.Get("table").String(),
			Message: v.Get("message").String(),
			Status:  v.Get("status").String(),
		})
		return true
	})
	return calls, nil
}

// UpdateOrderStatus moves an order to the next status
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID uint, status string) error {
	_, err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/order/%d", orderID), map[string]string{"status": status}, true)
	return err
}

// CompleteWaiterCall marks a waiter call as handled
func (c *Client) CompleteWaiterCall(ctx context.Context, id uint) error {
	_, err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/waiter-call/%d", id), nil, true)
	return err
}

// FetchReviews returns the approved reviews of an item. Counts and ratings may
// arrive as numbers or numeric strings; anything else counts as 0.
func (c *Client) FetchReviews(ctx context.Context, itemID uint) (ReviewSummary, error) {
	body, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/item/%d/reviews", itemID), nil, false)
	if err != nil {
		return ReviewSummary{}, err
	}
	return parseReviewSummary(body), nil
}

// ResolveTable checks a scanned QR token and remembers the table on this device
func (c *Client) ResolveTable(ctx context.Context, slug, token string) (Table, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/api/venue/"+url.PathEscape(slug)+"/tables/"+url.PathEscape(token), nil, false)
	if err != nil {
		return Table{}, err
	}
	table := Table{
		Label: gjson.GetBytes(body, "label").String(),
		Token: gjson.GetBytes(body, "token").String(),
	}
	if err := c.store.SetTable(table.Label, table.Token); err != nil {
		return Table{}, err
	}
	return table, nil
}

// CallWaiter calls a waiter to the remembered table and remembers the call id
func (c *Client) CallWaiter(ctx context.Context, slug, message string) (uint, error) {
	_, token, err := c.store.Table()
	if err != nil {
		return 0, err
	}
	if token == "" {
		return 0, errors.New("no table selected")
	}
	body, err := c.doJSON(ctx, http.MethodPost, "/api/venue/"+url.PathEscape(slug)+"/waiter-calls",
		map[string]string{"table_token": token, "message": message}, false)
	if err != nil {
		return 0, err
	}
	id := uint(gjson.GetBytes(body, "id").Uint())
	if err := c.store.SetWaiterCallID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// WaiterCallStatus reports the status of the waiter call remembered on this device.
// It returns "" when no call is pending. A completed or vanished call is forgotten.
func (c *Client) WaiterCallStatus(ctx context.Context, slug string) (string, error) {
	id, err := c.store.WaiterCallID()
	if err != nil || id == 0 {
		return "", err
	}
	body, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/venue/%s/waiter-calls/%d", url.PathEscape(slug), id), nil, false)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
		log.WithField("waiter_call_id", id).Debug("Remembered waiter call no longer exists")
		return "", c.store.Delete(KeyCurrentWaiterCallID)
	}
	if err != nil {
		return "", err
	}
	status := gjson.GetBytes(body, "status").String()
	if status == WaiterCallCompleted {
		if err := c.store.Delete(KeyCurrentWaiterCallID); err != nil {
			return "", err
		}
	}
	return status, nil
}

func parseOrders(body []byte) []Order {
	var orders []Order
	gjson.ParseBytes(body).ForEach(func(_, v gjson.Result) bool {
		created, _ := time.Parse(time.RFC3339Nano, v.Get("created_at").String())
		orders = append(orders, Order{
			ID:        uint(v.Get("id").Uint()),
			VenueID:   uint(v.Get("venue_id").Uint()),
			Table:     v.Get("table").String(),
			Status:    v.Get("status").String(),
			Total:     coerceDecimal(v.Get("total")),
			CreatedAt: created,
		})
		return true
	})
	return orders
}

func parseReviewSummary(body []byte) ReviewSummary {
	root := gjson.ParseBytes(body)
	summary := ReviewSummary{
		Reviews:       []Review{},
		AverageRating: root.Get("averageRating").Float(),
		TotalReviews:  int(root.Get("totalReviews").Float()),
	}
	root.Get("reviews").ForEach(func(_, v gjson.Result) bool {
		summary.Reviews = append(summary.Reviews, Review{
			ID:           uint(v.Get("id").Uint()),
			CustomerName: v.Get("customer_name").String(),
			Rating:       int(v.Get("rating").Float()),
			Comment:      v.Get("comment").String(),
		})
		return true
	})
	return summary
}

// coerceDecimal reads a price that may be a JSON number or a numeric string
func coerceDecimal(r gjson.Result) decimal.Decimal {
	if r.Type == gjson.Number {
		return pricing.Coerce(json.Number(r.Raw))
	}
	return pricing.Coerce(r.Value())
}

// IDs extracts identifiers for the poller
func IDs[T any](records []T, id func(T) uint) []uint {
	ids := make([]uint, 0, len(records))
	for _, r := range records {
		ids = append(ids, id(r))
	}
	return ids
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, authenticated bool) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, authenticated)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, authenticated bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authenticated {
		token, err := c.store.AdminToken()
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		log.WithFields(logrus.Fields{"method": method, "path": path}).Debug("API rejected credentials")
		return nil, ErrUnauthorized
	case resp.StatusCode >= 300:
		return nil, &StatusError{
			Status:  resp.StatusCode,
			Code:    gjson.GetBytes(raw, "code").String(),
			Message: gjson.GetBytes(raw, "message").String(),
		}
	}
	return raw, nil
}
