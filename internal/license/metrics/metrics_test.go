package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCheck("validate", "VALID", 3*time.Millisecond)
	m.ObserveCheck("validate", "VALID", time.Millisecond)
	m.IncrementCountermeasures("block")
	m.AddIncidentsDropped(2)
	m.AddIncidentsDropped(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Checks.WithLabelValues("validate", "VALID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Countermeasures.WithLabelValues("block")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.IncidentsDropped))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCheck("validate", "VALID", time.Millisecond)
		m.IncrementMonitoringFailures()
		m.IncrementIncidents("excessive_checks", "high")
		m.AddIncidentsDropped(1)
		m.IncrementSinkFailures("kafka")
		m.IncrementCountermeasures("flag")
		m.IncrementRestrictionsCleared("blocked")
	})
}
