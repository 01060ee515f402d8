package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for recommendation requests.
type Metrics struct {
	RecommendLatency prometheus.Histogram
	ProductsPerCall  prometheus.Histogram
	ProductScores    prometheus.Histogram
	ConditionModes   *prometheus.CounterVec
	Failures         *prometheus.CounterVec
}

// New registers the recommendation metrics.
func New() *Metrics {
	return &Metrics{
		RecommendLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "greenforge_recommend_duration_seconds",
			Help:    "Duration of a recommendation including catalog lookup",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ProductsPerCall: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "greenforge_recommend_products",
			Help:    "Products scored per recommendation",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 200},
		}),
		ProductScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "greenforge_recommend_product_score",
			Help:    "Distribution of final product match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		ConditionModes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenforge_recommend_condition_modes_total",
			Help: "Conditions scored, by scoring mode",
		}, []string{"mode"}),
		Failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenforge_recommend_failures_total",
			Help: "Recommendations that returned an error, by error code",
		}, []string{"code"}),
	}
}

// ObserveLatency records the total recommendation duration.
func (m *Metrics) ObserveLatency(d time.Duration) {
	if m != nil {
		m.RecommendLatency.Observe(d.Seconds())
	}
}

// ObserveProducts records how many products one call scored.
func (m *Metrics) ObserveProducts(n int) {
	if m != nil {
		m.ProductsPerCall.Observe(float64(n))
	}
}

// ObserveScore records one product's final score.
func (m *Metrics) ObserveScore(score float64) {
	if m != nil {
		m.ProductScores.Observe(score)
	}
}

// IncMode counts a condition scored under mode.
func (m *Metrics) IncMode(mode string) {
	if m != nil {
		m.ConditionModes.WithLabelValues(mode).Inc()
	}
}

// IncFailure counts a failed recommendation.
func (m *Metrics) IncFailure(code string) {
	if m != nil {
		m.Failures.WithLabelValues(code).Inc()
	}
}
