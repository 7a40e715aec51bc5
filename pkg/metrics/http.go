package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks request counts and latency per route pattern.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	streams  *prometheus.GaugeVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})
	streams := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_open_streams",
		Help: "Currently open server-sent event streams.",
	}, []string{"stream"})
	reg.MustRegister(duration, requests, streams)
	return &HTTPMetrics{duration: duration, requests: requests, streams: streams}
}

// ObserveRequest records one finished request.
func (h *HTTPMetrics) ObserveRequest(method, route string, status int, took time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	route = normalizeLabel(route)
	h.duration.WithLabelValues(method, route).Observe(took.Seconds())
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// StreamOpened increments the open stream gauge and returns the matching close func.
func (h *HTTPMetrics) StreamOpened(stream string) func() {
	if h == nil || h.streams == nil {
		return func() {}
	}
	g := h.streams.WithLabelValues(normalizeLabel(stream))
	g.Inc()
	return g.Dec
}
