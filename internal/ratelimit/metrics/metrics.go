package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions  *prometheus.CounterVec
	StoreError prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenforge_ratelimit_decisions_total",
			Help: "Rate limit checks by outcome",
		}, []string{"outcome"}),
		StoreError: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenforge_ratelimit_store_errors_total",
			Help: "Rate limit checks that failed open because the store errored",
		}),
	}
}

func (m *Metrics) IncAllowed() {
	if m != nil {
		m.Decisions.WithLabelValues("allowed").Inc()
	}
}

func (m *Metrics) IncDenied() {
	if m != nil {
		m.Decisions.WithLabelValues("denied").Inc()
	}
}

func (m *Metrics) IncStoreError() {
	if m != nil {
		m.StoreError.Inc()
	}
}
