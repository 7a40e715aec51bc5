package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOfDefaultsToOK(t *testing.T) {
	ww := chimw.NewWrapResponseWriter(httptest.NewRecorder(), 1)
	assert.Equal(t, http.StatusOK, statusOf(ww))

	ww.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, statusOf(ww))
}

func TestWrappedWriterStillFlushes(t *testing.T) {
	inner := httptest.NewRecorder()
	ww := chimw.NewWrapResponseWriter(inner, 1)
	require.NoError(t, http.NewResponseController(ww).Flush())
	assert.True(t, inner.Flushed)
}

func TestLoggingRecordsOutcome(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	r := chi.NewRouter()
	r.Use(Logging(logg))
	r.Get("/items/{itemId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream"))
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/m1", nil))

	line := buf.String()
	for _, want := range []string{`"level":"warn"`, `"route":"/items/{itemId}"`, `"path":"/items/m1"`, `"status":502`, `"bytes":8`, `"message":"request.complete"`} {
		assert.Contains(t, line, want)
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/items/{itemId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	expected := `
# HELP http_requests_total HTTP requests by route and status code.
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/items/{itemId}",status="404"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"))
}
