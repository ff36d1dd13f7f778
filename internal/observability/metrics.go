// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	SpinsAccepted  prometheus.Counter
	SpinsReplayed  prometheus.Counter
	SpinsMalformed prometheus.Counter

	// Evaluation metrics
	EvaluationDuration prometheus.Histogram
	Assertiveness      prometheus.Gauge
	SignalsEmitted     prometheus.Counter
	AlertsEmitted      *prometheus.CounterVec
	SectorStatus       *prometheus.GaugeVec

	// Health metrics
	LastAcceptedSpin prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "roulette_signal_lab"
	}

	return &Metrics{
		SpinsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "spins_accepted_total",
			Help:      "Total number of spins accepted as new",
		}),
		SpinsReplayed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "spins_replayed_total",
			Help:      "Total number of spins rejected as duplicates",
		}),
		SpinsMalformed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "spins_malformed_total",
			Help:      "Total number of malformed spin messages dropped",
		}),

		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "evaluation_duration_seconds",
			Help:      "Full analysis pass duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		Assertiveness: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "assertiveness",
			Help:      "Mean score of active strategies on the latest evaluation",
		}),
		SignalsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "signals_emitted_total",
			Help:      "Total number of convergence entry signals emitted",
		}),
		AlertsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "alerts_emitted_total",
			Help:      "Total number of alerts emitted by kind",
		}, []string{"kind"}),
		SectorStatus: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "sector_status",
			Help:      "Dealer-signature status on the latest evaluation (1 for the active bucket)",
		}, []string{"status"}),

		LastAcceptedSpin: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_accepted_spin_timestamp",
			Help:      "Unix timestamp of the last accepted spin",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEvaluation updates the evaluation metrics for one analysis pass.
func RecordEvaluation(durationSeconds, assertiveness float64, sectorStatus string, signal bool) {
	DefaultMetrics.EvaluationDuration.Observe(durationSeconds)
	DefaultMetrics.Assertiveness.Set(assertiveness)
	DefaultMetrics.SectorStatus.Reset()
	DefaultMetrics.SectorStatus.WithLabelValues(sectorStatus).Set(1)
	if signal {
		DefaultMetrics.SignalsEmitted.Inc()
	}
}

// RecordSpinAccepted increments the accepted-spin counter and refreshes the
// health timestamp.
func RecordSpinAccepted(timestampMs int64) {
	DefaultMetrics.SpinsAccepted.Inc()
	DefaultMetrics.LastAcceptedSpin.Set(float64(timestampMs) / 1000)
}

// RecordSpinReplayed increments the duplicate-spin counter.
func RecordSpinReplayed() {
	DefaultMetrics.SpinsReplayed.Inc()
}

// RecordAlert increments the alert counter for a kind.
func RecordAlert(kind string) {
	DefaultMetrics.AlertsEmitted.WithLabelValues(kind).Inc()
}
