package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain/service.Metrics using Prometheus.
type Recorder struct {
	cycleDuration prometheus.Histogram
	stageErrors   *prometheus.CounterVec
	cacheEvents   *prometheus.CounterVec
	actions       *prometheus.CounterVec
	universeSize  prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gmpm_pipeline_cycle_duration_seconds",
				Help:    "Duration of one full analysis cycle",
				Buckets: prometheus.DefBuckets,
			},
		),
		stageErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gmpm_pipeline_stage_errors_total",
				Help: "Total errors per pipeline stage",
			},
			[]string{"stage"},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gmpm_cache_events_total",
				Help: "Cache events by kind (hit, stale, miss, refresh)",
			},
			[]string{"kind"},
		),
		actions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gmpm_recommendation_actions_total",
				Help: "Recommendation outcomes by action",
			},
			[]string{"action"},
		),
		universeSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "gmpm_scored_universe_size",
				Help: "Number of instruments in the last scored universe",
			},
		),
	}
}

// RecordCycle records the duration of a full pipeline cycle.
func (r *Recorder) RecordCycle(seconds float64) {
	r.cycleDuration.Observe(seconds)
}

// RecordStageError counts an error in a named stage.
func (r *Recorder) RecordStageError(stage string) {
	r.stageErrors.WithLabelValues(stage).Inc()
}

// RecordCacheEvent counts a cache event.
func (r *Recorder) RecordCacheEvent(kind string) {
	r.cacheEvents.WithLabelValues(kind).Inc()
}

// RecordAction counts a recommendation action.
func (r *Recorder) RecordAction(action string) {
	r.actions.WithLabelValues(action).Inc()
}

// RecordUniverseSize sets the size of the last scored universe.
func (r *Recorder) RecordUniverseSize(n int) {
	r.universeSize.Set(float64(n))
}
