package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is shared by the engine, monitoring and sweeper. A nil *Metrics records nothing.
type Metrics struct {
	Checks               *prometheus.CounterVec
	CheckDuration        *prometheus.HistogramVec
	MonitoringFailures   prometheus.Counter
	IncidentsRecorded    *prometheus.CounterVec
	IncidentsDropped     prometheus.Counter
	IncidentSinkFailures *prometheus.CounterVec
	IncidentSinkSkipped  *prometheus.CounterVec
	Countermeasures      *prometheus.CounterVec
	RestrictionsCleared  *prometheus.CounterVec
}

// New registers the metrics with reg; pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "licenseguard_checks_total",
			Help: "License check-ins by operation and outcome code",
		}, []string{"operation", "code"}),
		CheckDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "licenseguard_check_duration_seconds",
			Help:    "Latency of license check-ins including monitoring",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		MonitoringFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "licenseguard_monitoring_failures_total",
			Help: "Abuse monitoring runs that failed after a check-in was answered",
		}),
		IncidentsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "licenseguard_incidents_recorded_total",
			Help: "Incidents appended to the incident log",
		}, []string{"type", "severity"}),
		IncidentsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "licenseguard_incident_stream_dropped_total",
			Help: "Incidents dropped from the stream buffer before delivery",
		}),
		IncidentSinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "licenseguard_incident_sink_failures_total",
			Help: "Failed incident stream deliveries by sink",
		}, []string{"sink"}),
		IncidentSinkSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "licenseguard_incident_sink_skipped_total",
			Help: "Incidents not offered to a sink while its circuit was open",
		}, []string{"sink"}),
		Countermeasures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "licenseguard_countermeasures_total",
			Help: "Countermeasures applied by action",
		}, []string{"action"}),
		RestrictionsCleared: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "licenseguard_restrictions_cleared_total",
			Help: "Expired restrictions cleared by the sweeper",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveCheck(operation, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Checks.WithLabelValues(operation, code).Inc()
	m.CheckDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) IncrementMonitoringFailures() {
	if m == nil {
		return
	}
	m.MonitoringFailures.Inc()
}

func (m *Metrics) IncrementIncidents(typ, severity string) {
	if m == nil {
		return
	}
	m.IncidentsRecorded.WithLabelValues(typ, severity).Inc()
}

func (m *Metrics) AddIncidentsDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.IncidentsDropped.Add(float64(n))
}

func (m *Metrics) IncrementSinkFailures(sink string) {
	if m == nil {
		return
	}
	m.IncidentSinkFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) AddSinkSkipped(sink string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.IncidentSinkSkipped.WithLabelValues(sink).Add(float64(n))
}

func (m *Metrics) IncrementCountermeasures(action string) {
	if m == nil {
		return
	}
	m.Countermeasures.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementRestrictionsCleared(kind string) {
	if m == nil {
		return
	}
	m.RestrictionsCleared.WithLabelValues(kind).Inc()
}
