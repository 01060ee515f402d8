package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks compound catalog lookups.
type Metrics struct {
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CacheErrors      prometheus.Counter
	LookupDuration   prometheus.Histogram
	FallbackLookups  prometheus.Counter
	UnknownCompounds prometheus.Counter
	BreakerOpen      prometheus.Gauge
}

// New registers the compound catalog metrics.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenforge_compound_cache_hits_total",
			Help: "Compound lookups served from cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenforge_compound_cache_misses_total",
			Help: "Compound lookups that went to the catalog store",
		}),
		CacheErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenforge_compound_cache_errors_total",
			Help: "Cache reads or writes that failed and were skipped",
		}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "greenforge_compound_lookup_duration_seconds",
			Help:    "Latency of batched catalog store lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		FallbackLookups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenforge_compound_fallback_lookups_total",
			Help: "Lookups served by the embedded catalog while the primary store was failing",
		}),
		UnknownCompounds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenforge_compound_unknown_total",
			Help: "Compound names not present in the catalog",
		}),
		BreakerOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "greenforge_compound_store_breaker_open",
			Help: "Catalog store circuit breaker state (1 = serving fallback)",
		}),
	}
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

func (m *Metrics) IncCacheError() {
	if m == nil {
		return
	}
	m.CacheErrors.Inc()
}

func (m *Metrics) ObserveLookup(start time.Time) {
	if m == nil {
		return
	}
	m.LookupDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncFallback() {
	if m == nil {
		return
	}
	m.FallbackLookups.Inc()
}

func (m *Metrics) AddUnknown(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.UnknownCompounds.Add(float64(n))
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
