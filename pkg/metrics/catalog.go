package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records catalog store mutations and the persisted size.
type CatalogMetrics struct {
	duration  *prometheus.HistogramVec
	mutations *prometheus.CounterVec
	items     prometheus.Gauge
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_persist_duration_seconds",
		Help:    "Time spent writing the catalog collection to its slot.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_mutations_total",
		Help: "Catalog mutations by operation and outcome.",
	}, []string{"op", "outcome"})
	items := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_items",
		Help: "Number of items in the last persisted catalog.",
	})
	reg.MustRegister(duration, mutations, items)
	return &CatalogMetrics{
		duration:  duration,
		mutations: mutations,
		items:     items,
	}
}

// ObservePersist records a completed write attempt for op.
func (c *CatalogMetrics) ObservePersist(op string, took time.Duration, err error) {
	if c == nil || c.duration == nil {
		return
	}
	op = normalizeLabel(op)
	c.duration.WithLabelValues(op).Observe(took.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.mutations.WithLabelValues(op, outcome).Inc()
}

// SetItemCount updates the catalog size gauge.
func (c *CatalogMetrics) SetItemCount(n int) {
	if c == nil || c.items == nil {
		return
	}
	c.items.Set(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
