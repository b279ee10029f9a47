package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes of the SRU endpoint.
const (
	OutcomeOK         = "ok"
	OutcomeDiagnostic = "diagnostic"
	OutcomeError      = "error"
)

// SRU endpoint metrics.
var (
	SRURequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fcsgate",
			Name:      "sru_requests_total",
			Help:      "Total number of SRU requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	SRUDiagnosticsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fcsgate",
			Name:      "sru_diagnostics_total",
			Help:      "Total number of SRU diagnostics returned by code",
		},
		[]string{"code"},
	)

	SRURecordsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fcsgate",
			Name:      "sru_records_returned",
			Help:      "Records returned per searchRetrieve response",
			Buckets:   []float64{0, 1, 5, 10, 25, 50},
		},
	)
)

// Search engine metrics.
var (
	EngineInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fcsgate",
			Name:      "engine_in_flight",
			Help:      "Requests currently holding index access",
		},
	)

	EngineCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fcsgate",
			Name:      "engine_call_duration_seconds",
			Help:      "Search engine call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"call", "status"},
	)
)

var (
	sruMetricsRegistered    bool
	engineMetricsRegistered bool
)

// RegisterSRUMetrics registers SRU endpoint metrics. Must be called once from main.
func RegisterSRUMetrics() {
	if sruMetricsRegistered {
		return
	}
	prometheus.MustRegister(SRURequestsTotal)
	prometheus.MustRegister(SRUDiagnosticsTotal)
	prometheus.MustRegister(SRURecordsReturned)
	sruMetricsRegistered = true
}

// RegisterEngineMetrics registers search engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineInFlight)
	prometheus.MustRegister(EngineCallDuration)
	engineMetricsRegistered = true
}

// ObserveEngineCall records the duration of one engine call since start.
func ObserveEngineCall(call string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EngineCallDuration.WithLabelValues(call, status).Observe(time.Since(start).Seconds())
}
