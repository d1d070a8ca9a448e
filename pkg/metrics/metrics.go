// Package metrics provides Prometheus-based metrics recording for dialog turns
// and summarizer calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records dialog and summarizer metrics.
// A nil Recorder is valid and records nothing.
type Recorder struct {
	turnsTotal           *prometheus.CounterVec
	turnDuration         *prometheus.HistogramVec
	classificationsTotal *prometheus.CounterVec
	summarizerTotal      *prometheus.CounterVec
	summarizerDuration   *prometheus.HistogramVec
}

// NewRecorder creates a Prometheus metrics recorder on the default registry.
func NewRecorder() *Recorder {
	return &Recorder{
		turnsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dialog_turns_total",
				Help: "Total number of dialog turns by resulting state and status",
			},
			[]string{"state", "status", "error_kind"},
		),
		turnDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dialog_turn_duration_seconds",
				Help:    "Duration of dialog turns in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"state"},
		),
		classificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lead_classifications_total",
				Help: "Total number of completed lead classifications by tier",
			},
			[]string{"tier"},
		),
		summarizerTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summarizer_requests_total",
				Help: "Total number of summarizer requests by model and status",
			},
			[]string{"model", "status"},
		),
		summarizerDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "summarizer_request_duration_seconds",
				Help:    "Duration of summarizer requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
	}
}

// ObserveTurn records a completed dialog turn.
func (r *Recorder) ObserveTurn(state string, success bool, errorKind string, duration time.Duration) {
	if r == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	r.turnsTotal.WithLabelValues(state, status, errorKind).Inc()
	r.turnDuration.WithLabelValues(state).Observe(duration.Seconds())
}

// ObserveClassification records a completed classification.
func (r *Recorder) ObserveClassification(tier string) {
	if r == nil {
		return
	}
	r.classificationsTotal.WithLabelValues(tier).Inc()
}

// ObserveSummarizer records a summarizer request.
func (r *Recorder) ObserveSummarizer(model string, success bool, duration time.Duration) {
	if r == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	r.summarizerTotal.WithLabelValues(model, status).Inc()
	r.summarizerDuration.WithLabelValues(model).Observe(duration.Seconds())
}
