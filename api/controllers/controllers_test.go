package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vickmut/v0-haven-craft-website-design/internal/catalog"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/discounts"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/kvstore"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type fakeDiscounts struct {
	current discounts.Update
	found   bool
	pending []discounts.Update
	getErr  error
}

func (f *fakeDiscounts) SetDiscount(ctx context.Context, itemID string, amount int64) (discounts.Update, error) {
	return discounts.Update{ItemID: itemID, Discount: amount}, nil
}

func (f *fakeDiscounts) ClearDiscount(ctx context.Context, itemID string) (discounts.Update, error) {
	return discounts.Update{ItemID: itemID}, nil
}

func (f *fakeDiscounts) Get(ctx context.Context, itemID string) (discounts.Update, bool, error) {
	return f.current, f.found, f.getErr
}

func (f *fakeDiscounts) Subscribe(ctx context.Context, itemID string) (<-chan discounts.Update, error) {
	ch := make(chan discounts.Update, len(f.pending))
	for _, u := range f.pending {
		ch <- u
	}
	close(ch)
	return ch, nil
}

func (f *fakeDiscounts) Listen(ctx context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(testConfig())(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-HavenCraft-Env"))
	assert.JSONEq(t, `{"data":{"status":"live"}}`, rec.Body.String())
}

func TestHealthReadyReportsFailingDependencies(t *testing.T) {
	deps := map[string]Pinger{
		"db":    pingFunc(func(context.Context) error { return nil }),
		"redis": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	}
	rec := httptest.NewRecorder()
	HealthReady(testConfig(), deps, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Checks map[string]string `json:"checks"`
				Failed []string          `json:"failed"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "DEPENDENCY_ERROR", body.Error.Code)
	assert.Equal(t, []string{"redis"}, body.Error.Details.Failed)
	assert.Equal(t, "up", body.Error.Details.Checks["db"])
}

func TestHealthReadyAllUp(t *testing.T) {
	deps := map[string]Pinger{"db": pingFunc(func(context.Context) error { return nil })}
	rec := httptest.NewRecorder()
	HealthReady(testConfig(), deps, nil)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func discountRouter(svc discounts.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/items/{itemId}/discount", DiscountGet(svc, logger.Nop()))
	r.Get("/items/{itemId}/discount/stream", DiscountStream(svc, nil, logger.Nop()))
	return r
}

func TestDiscountGetDefaultsToZero(t *testing.T) {
	rec := httptest.NewRecorder()
	discountRouter(&fakeDiscounts{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/m1/discount", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"itemId":"m1","discount":0,"discountedPrice":null,"updatedAt":"0001-01-01T00:00:00Z"}}`, rec.Body.String())
}

func TestDiscountGetNilService(t *testing.T) {
	rec := httptest.NewRecorder()
	discountRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/m1/discount", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDiscountStreamSendsCurrentThenUpdates(t *testing.T) {
	price := int64(70000)
	svc := &fakeDiscounts{
		current: discounts.Update{ItemID: "m1", Discount: 5000},
		found:   true,
		pending: []discounts.Update{{ItemID: "m1", Discount: 15000, DiscountedPrice: &price, UpdatedAt: time.Unix(0, 0).UTC()}},
	}
	rec := httptest.NewRecorder()
	discountRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/m1/discount/stream", nil))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	events := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	require.Len(t, events, 2)
	assert.True(t, strings.HasPrefix(events[0], "event: discount\ndata: "))
	assert.Contains(t, events[0], `"discount":5000`)
	assert.Contains(t, events[1], `"discountedPrice":70000`)
}

func TestDiscountStreamFailsBeforeOpeningOnLookupError(t *testing.T) {
	rec := httptest.NewRecorder()
	discountRouter(&fakeDiscounts{getErr: errors.New("db down")}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/m1/discount/stream", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEqual(t, "text/event-stream", rec.Header().Get("Content-Type"))
}

func TestAdminCreateItemReportsStorageFailures(t *testing.T) {
	const body = `{"name":"Teak Bench","originalPrice":"12000","category":"Outdoor","image":"https://cdn.example/bench.jpg"}`

	failing := kvstore.NewMemory()
	failing.FailWrites(errors.New("disk gone"))
	tests := []struct {
		name string
		slot kvstore.Store
		msg  string
	}{
		{"unavailable", failing, "Catalog storage is unavailable. Changes were not saved."},
		{"quota", kvstore.WithQuota(kvstore.NewMemory(), 16), "Storage is full. Use smaller media or remove some items."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := catalog.NewStore(catalog.Options{Slot: tt.slot})
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			AdminCreateItem(store, logger.Nop())(rec, httptest.NewRequest(http.MethodPost, "/api/admin/v1/items", strings.NewReader(body)))
			require.Equal(t, http.StatusInsufficientStorage, rec.Code)

			var payload struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, string(pkgerrors.CodePersistence), payload.Error.Code)
			assert.Equal(t, tt.msg, payload.Error.Message)
		})
	}
}
