package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Query(false)
	m.Query(true)
	m.Query(true)
	m.SelectorFailure("participants")
	m.Announcement("sent")

	require.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("ok")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("degraded")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.SelectorFailuresTotal.WithLabelValues("participants")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AnnouncementsTotal.WithLabelValues("sent")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Query(true)
		m.SelectorFailure("title")
		m.Announcement("dropped")
	})
}
