package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"configurator-service/config"
	"configurator-service/internal/cart"
	"configurator-service/internal/models"
	"configurator-service/internal/redisclient"
	"configurator-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type catalogSource struct{}

func (catalogSource) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	variant := func(id, price int64) []models.Variant { return []models.Variant{{ID: id, Price: price}} }
	return &models.Catalog{
		Base: []models.Tier{{
			Key:   models.TierClassic,
			Title: "Nordic Elite Classic",
			Products: []models.CatalogProduct{
				{ID: 10, Title: "Nordic Elite XL Classic", Price: 500000, Variants: variant(101, 500000)},
				{ID: 11, Title: "Nordic Elite XL Classic I", Price: 520000, Variants: variant(111, 520000)},
			},
		}},
		Liners:    []models.CatalogProduct{{ID: 200, Title: "Liner Pearl", Variants: variant(2001, 0)}},
		Exteriors: []models.CatalogProduct{{ID: 300, Title: "Exterior Thermal Wood", Price: 41702, Variants: variant(3001, 41702)}},
	}, nil
}

type memoryGuard struct {
	mu    sync.Mutex
	locks map[string]bool
}

func (g *memoryGuard) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.locks[key] {
		return false, nil
	}
	g.locks[key] = true
	return true, nil
}

func (g *memoryGuard) ReleaseLock(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.locks, key)
	return nil
}

func (g *memoryGuard) GetIdempotencyKey(ctx context.Context, key string) (string, error) {
	return "", redisclient.ErrCacheMiss
}

func (g *memoryGuard) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

type testServer struct {
	router    *gin.Engine
	cartCalls atomic.Int32
	cartFail  atomic.Bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ts := &testServer{}

	storefront := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.cartCalls.Add(1)
		if ts.cartFail.Load() {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"description":"Sold out"}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	t.Cleanup(storefront.Close)

	catalogs := service.NewCatalogService(catalogSource{}, nil, "", 0)
	_, err := catalogs.Load(context.Background())
	require.NoError(t, err)

	sessions := service.NewConfiguratorService(catalogs, time.Hour)
	cartClient := cart.NewClient(config.StorefrontConfig{URL: storefront.URL, CartTimeout: time.Second}, zap.NewNop())
	checkout := service.NewCheckoutService(sessions, cartClient, &memoryGuard{locks: map[string]bool{}}, nil, time.Minute, time.Hour)

	ts.router = gin.New()
	NewHandler(catalogs, sessions, checkout, map[string]ReadinessCheck{
		"redis": func(ctx context.Context) error { return nil },
	}).SetupRoutes(ts.router)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()
	w, out := ts.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := out["session_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealthAndReady(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, out := ts.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", out["status"])
}

func TestReadyReportsFailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalogs := service.NewCatalogService(catalogSource{}, nil, "", 0)
	sessions := service.NewConfiguratorService(catalogs, time.Hour)

	router := gin.New()
	NewHandler(catalogs, sessions, nil, map[string]ReadinessCheck{
		"postgres": func(ctx context.Context) error { return errors.New("connection refused") },
	}).SetupRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "catalog")
}

func TestListTiers(t *testing.T) {
	ts := newTestServer(t)

	w, out := ts.do(t, http.MethodGet, "/api/v1/catalog/tiers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tiers, _ := out["tiers"].([]interface{})
	require.Len(t, tiers, 1)
	tier := tiers[0].(map[string]interface{})
	assert.Equal(t, "classic", tier["key"])
}

func TestSessionFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)
	base := "/api/v1/sessions/" + id

	w, out := ts.do(t, http.MethodPost, base+"/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "model_size", out["step"])
	assert.Zero(t, ts.cartCalls.Load())

	for _, cmd := range []map[string]interface{}{
		{"type": "select_tier", "tier": "classic"},
		{"type": "select_size", "size": "XL"},
		{"type": "set_oven_type", "oven_type": "internal"},
		{"type": "select_product", "category": "liners", "product_id": 200},
		{"type": "select_product", "category": "exteriors", "product_id": 300},
	} {
		w, _ = ts.do(t, http.MethodPost, base+"/commands", cmd)
		require.Equal(t, http.StatusOK, w.Code, cmd["type"])
	}

	w, out = ts.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["ready"])
	assert.Equal(t, "€5.617,02", out["total_formatted"])

	w, out = ts.do(t, http.MethodPost, base+"/line-items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["items"], 3)
	assert.Zero(t, ts.cartCalls.Load())

	w, out = ts.do(t, http.MethodPost, base+"/checkout", map[string]string{"cart_token": "tok"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(561702), out["total"])
	assert.Equal(t, int32(1), ts.cartCalls.Load())

	w, _ = ts.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = ts.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommandErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)
	base := "/api/v1/sessions/" + id

	w, _ := ts.do(t, http.MethodPost, base+"/commands", map[string]interface{}{"tier": "classic"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out := ts.do(t, http.MethodPost, base+"/commands", map[string]interface{}{"type": "select_size", "size": "XL"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Command rejected", out["error"])

	w, _ = ts.do(t, http.MethodPost, "/api/v1/sessions/missing/commands", map[string]interface{}{"type": "select_tier", "tier": "classic"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutCartFailure(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)
	base := "/api/v1/sessions/" + id

	for _, cmd := range []map[string]interface{}{
		{"type": "select_tier", "tier": "classic"},
		{"type": "select_size", "size": "XL"},
		{"type": "select_product", "category": "liners", "product_id": 200},
		{"type": "select_product", "category": "exteriors", "product_id": 300},
	} {
		w, _ := ts.do(t, http.MethodPost, base+"/commands", cmd)
		require.Equal(t, http.StatusOK, w.Code)
	}

	ts.cartFail.Store(true)
	w, out := ts.do(t, http.MethodPost, base+"/checkout", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Sold out", out["details"])
	assert.Equal(t, true, out["retryable"])

	ts.cartFail.Store(false)
	w, _ = ts.do(t, http.MethodPost, base+"/checkout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
