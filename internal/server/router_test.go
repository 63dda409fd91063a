package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/config"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/database"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	srv     *Server
	cookies []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDemo(db))

	cfg := &config.Config{
		PublicBaseURL:  "http://localhost:8080",
		CORSOrigins:    []string{"*"},
		JWTSecret:      "router-test-secret-32-characters!",
		SessionSecret:  "router-test-session",
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
	}
	return &testEnv{t: t, db: db, srv: New(cfg, db, nil)}
}

func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.srv.Engine.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return w
}

func (e *testEnv) login(email, password string) string {
	w := e.do(http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func (e *testEnv) item(name string) models.Item {
	var item models.Item
	require.NoError(e.t, e.db.Preload("Variants").Preload("Addons").Where("name = ?", name).First(&item).Error)
	return item
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthAndMenu(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/venue/demo-bistro", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var menu struct {
		Venue models.Venue  `json:"venue"`
		Items []models.Item `json:"items"`
	}
	decode(t, w, &menu)
	assert.Equal(t, "demo-bistro", menu.Venue.Slug)
	assert.Len(t, menu.Items, 3)

	w = env.do(http.MethodGet, "/api/venue/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrVenueNotFound)

	w = env.do(http.MethodGet, "/api/venue/demo-bistro/tables/demo-table-1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"T1"`)
}

func TestCartCheckoutAndKitchenFlow(t *testing.T) {
	env := newTestEnv(t)
	burger := env.item("Classic Burger")

	w := env.do(http.MethodPost, "/api/venue/demo-bistro/cart", gin.H{
		"item_id":    burger.ID,
		"quantity":   2,
		"variant_id": burger.Variants[0].ID,
		"addon_ids":  []uint{burger.Addons[0].ID, burger.Addons[1].ID},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cartResp struct {
		Subtotal string `json:"subtotal"`
		Opened   bool   `json:"opened"`
		Entries  []struct {
			ID string `json:"id"`
		} `json:"entries"`
	}
	decode(t, w, &cartResp)
	assert.Equal(t, "136", cartResp.Subtotal)
	assert.True(t, cartResp.Opened)
	require.Len(t, cartResp.Entries, 1)

	w = env.do(http.MethodPost, "/api/venue/demo-bistro/cart/checkout", gin.H{"table_token": "demo-table-1"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order struct {
		ID     uint   `json:"id"`
		Table  string `json:"table"`
		Total  string `json:"total"`
		Status string `json:"status"`
	}
	decode(t, w, &order)
	assert.Equal(t, "T1", order.Table)
	assert.Equal(t, "136", order.Total)
	assert.Equal(t, "placed", order.Status)

	w = env.do(http.MethodGet, "/api/venue/demo-bistro/cart", nil, "")
	decode(t, w, &cartResp)
	assert.Empty(t, cartResp.Entries, "checkout clears the cart")

	w = env.do(http.MethodPost, "/api/venue/demo-bistro/cart/checkout", gin.H{"table": "T1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCartEmpty)

	path := fmt.Sprintf("/api/order/%d", order.ID)
	w = env.do(http.MethodPatch, path, gin.H{"status": "preparing"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	owner := env.login("owner@qrmenu.local", "owner123")
	w = env.do(http.MethodPatch, path, gin.H{"status": "preparing"}, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPatch, path, gin.H{"status": "placed"}, owner)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrOrderTransition)

	w = env.do(http.MethodPatch, path, gin.H{"status": "burnt"}, owner)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrOrderInvalidStatus)

	w = env.do(http.MethodGet, "/api/user/venue/demo-bistro/orders?active=true", nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderPreparing, orders[0].Status)
}

func TestPlaceOrderDirectly(t *testing.T) {
	env := newTestEnv(t)
	lemonade := env.item("Lemonade")

	w := env.do(http.MethodPost, "/api/venue/demo-bistro/orders", gin.H{
		"table": "Bar 2",
		"items": []gin.H{{"item_id": lemonade.ID, "quantity": 3}},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":"36"`)

	w = env.do(http.MethodPost, "/api/venue/demo-bistro/orders", gin.H{
		"items": []gin.H{{"item_id": lemonade.ID, "quantity": 1}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "a table is required")

	w = env.do(http.MethodPost, "/api/venue/demo-bistro/orders", gin.H{"table": "T1", "items": []gin.H{}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.login("owner@qrmenu.local", "owner123")
	admin := env.login("admin@qrmenu.local", "admin123")

	w := env.do(http.MethodGet, "/api/admin/orders", nil, owner)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/admin/orders", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPatch, "/api/admin/venues/demo-bistro/plan", gin.H{"plan": "free"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/ai/enrich", gin.H{"venue": "demo-bistro", "name": "Classic Burger"}, owner)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrPremiumRequired)
}

func TestEnrichStreams(t *testing.T) {
	env := newTestEnv(t)
	owner := env.login("owner@qrmenu.local", "owner123")
	burger := env.item("Classic Burger")

	w := env.do(http.MethodPost, "/api/ai/enrich", gin.H{"venue": "demo-bistro", "name": burger.Name, "item_id": burger.ID}, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	body := w.Body.String()
	assert.Contains(t, body, "data:Classic Burger")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(body), "data:[DONE]"), body)
}

func TestReviewModeration(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login("admin@qrmenu.local", "admin123")
	wrap := env.item("Falafel Wrap")
	path := fmt.Sprintf("/api/item/%d/reviews", wrap.ID)

	w := env.do(http.MethodPost, path, gin.H{"customer_name": "Ana", "rating": 5, "comment": "Great"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var review models.Review
	decode(t, w, &review)

	w = env.do(http.MethodPost, path, gin.H{"rating": 9}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, path, nil, "")
	assert.JSONEq(t, `{"reviews":[],"averageRating":0,"totalReviews":0}`, w.Body.String())

	w = env.do(http.MethodPatch, fmt.Sprintf("/api/admin/reviews/%d/approve", review.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, path, nil, "")
	var summary models.ReviewSummary
	decode(t, w, &summary)
	assert.Equal(t, int64(1), summary.TotalReviews)
	assert.Equal(t, 5.0, summary.AverageRating)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/item/%d/recommendations?lang=de", wrap.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Limonade")
}

func TestWaiterCalls(t *testing.T) {
	env := newTestEnv(t)
	owner := env.login("owner@qrmenu.local", "owner123")

	w := env.do(http.MethodPost, "/api/venue/demo-bistro/waiter-calls", gin.H{"table_token": "demo-table-1", "message": "Water please"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var call models.WaiterCall
	decode(t, w, &call)
	assert.Equal(t, "T1", call.TableLabel)

	w = env.do(http.MethodPost, "/api/venue/demo-bistro/waiter-calls", gin.H{"table_token": "forged"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/user/venue/demo-bistro/waiter-calls", nil, owner)
	var pending []models.WaiterCall
	decode(t, w, &pending)
	assert.Len(t, pending, 1)

	w = env.do(http.MethodPatch, fmt.Sprintf("/api/waiter-call/%d", call.ID), nil, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), models.WaiterCallCompleted)
}

func TestWaiterCallStatus(t *testing.T) {
	env := newTestEnv(t)
	owner := env.login("owner@qrmenu.local", "owner123")

	w := env.do(http.MethodPost, "/api/venue/demo-bistro/waiter-calls", gin.H{"table_token": "demo-table-1"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var call models.WaiterCall
	decode(t, w, &call)
	statusPath := fmt.Sprintf("/api/venue/demo-bistro/waiter-calls/%d", call.ID)

	w = env.do(http.MethodGet, statusPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var status struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &status)
	assert.Equal(t, call.ID, status.ID)
	assert.Equal(t, models.WaiterCallPending, status.Status)
	assert.NotContains(t, w.Body.String(), "T1", "only the status is public")

	w = env.do(http.MethodPatch, fmt.Sprintf("/api/waiter-call/%d", call.ID), nil, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, statusPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &status)
	assert.Equal(t, models.WaiterCallCompleted, status.Status)

	w = env.do(http.MethodPost, "/api/user/venues", gin.H{"slug": "other-place", "name": "Other Place"}, owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = env.do(http.MethodGet, fmt.Sprintf("/api/venue/other-place/waiter-calls/%d", call.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code, "a call is only visible through its own venue")

	w = env.do(http.MethodGet, "/api/venue/demo-bistro/waiter-calls/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	owner := env.login("owner@qrmenu.local", "owner123")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "burger.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+owner)
	w := httptest.NewRecorder()
	env.srv.Engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp map[string]string
	decode(t, w, &resp)
	assert.True(t, strings.HasPrefix(resp["url"], "http://localhost:8080/uploads/"))

	served := httptest.NewRecorder()
	env.srv.Engine.ServeHTTP(served, httptest.NewRequest(http.MethodGet, strings.TrimPrefix(resp["url"], "http://localhost:8080"), nil))
	assert.Equal(t, http.StatusOK, served.Code)
}

func TestOwnerCannotManageForeignVenue(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/register", gin.H{"email": "rival@example.com", "password": "rival-pass", "name": "Rival"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rival := env.login("rival@example.com", "rival-pass")

	w = env.do(http.MethodGet, "/api/user/venue/demo-bistro/items", nil, rival)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/user/venues", gin.H{"slug": "rival-diner", "name": "Rival Diner"}, rival)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/user/venue/rival-diner/items", gin.H{"name": "Toast", "price": "4.50", "available": true, "tags": []string{"new"}}, rival)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/venue/rival-diner", nil, "")
	assert.Contains(t, w.Body.String(), "Toast")
}
