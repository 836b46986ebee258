// Package metrics holds the Prometheus counters for query handling,
// selector failures and load announcements.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	QueriesTotal          *prometheus.CounterVec
	SelectorFailuresTotal *prometheus.CounterVec
	AnnouncementsTotal    *prometheus.CounterVec
}

// New registers the counters on reg. Pass prometheus.DefaultRegisterer in
// binaries and a fresh prometheus.NewRegistry() in tests.
//
// Metrics:
//   - meetctx_queries_total{outcome} - "ok" or "degraded" snapshots served
//   - meetctx_selector_failures_total{component} - selectors skipped as invalid
//   - meetctx_announcements_total{result} - "sent", "dropped" or "skipped"
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		QueriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetctx_queries_total",
				Help: "Total meeting context queries answered",
			},
			[]string{"outcome"},
		),
		SelectorFailuresTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetctx_selector_failures_total",
				Help: "Total selector evaluations skipped because they failed",
			},
			[]string{"component"},
		),
		AnnouncementsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetctx_announcements_total",
				Help: "Total platform announcements by delivery result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) Query(degraded bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	m.QueriesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SelectorFailure(component string) {
	if m == nil {
		return
	}
	m.SelectorFailuresTotal.WithLabelValues(component).Inc()
}

func (m *Metrics) Announcement(result string) {
	if m == nil {
		return
	}
	m.AnnouncementsTotal.WithLabelValues(result).Inc()
}
