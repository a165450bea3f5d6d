package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records per-entity pipeline activity.
type PipelineMetrics struct {
	processed *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	promoted  *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_records_processed",
		Help: "Records that passed through the quality gate, by entity and outcome.",
	}, []string{"entity", "status"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_records_rejected",
		Help: "Records rejected by validation, by entity.",
	}, []string{"entity"})
	promoted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_records_promoted",
		Help: "Staged records loaded into the production schema, by entity.",
	}, []string{"entity"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_records_skipped",
		Help: "Staged records skipped during promotion, by entity.",
	}, []string{"entity"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Duration of pipeline stages in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	reg.MustRegister(processed, rejected, promoted, skipped, duration)
	return &PipelineMetrics{
		processed: processed,
		rejected:  rejected,
		promoted:  promoted,
		skipped:   skipped,
		duration:  duration,
	}
}

// IncProcessed counts one record landing at a staging checkpoint.
func (p *PipelineMetrics) IncProcessed(entity, status string) {
	if p == nil || p.processed == nil {
		return
	}
	p.processed.WithLabelValues(normalizeLabel(entity), normalizeLabel(status)).Inc()
}

// IncRejected counts one validation rejection.
func (p *PipelineMetrics) IncRejected(entity string) {
	if p == nil || p.rejected == nil {
		return
	}
	p.rejected.WithLabelValues(normalizeLabel(entity)).Inc()
}

// AddPromoted counts records loaded by a promotion pass.
func (p *PipelineMetrics) AddPromoted(entity string, count int) {
	if p == nil || p.promoted == nil || count <= 0 {
		return
	}
	p.promoted.WithLabelValues(normalizeLabel(entity)).Add(float64(count))
}

// AddSkipped counts records a promotion pass left behind.
func (p *PipelineMetrics) AddSkipped(entity string, count int) {
	if p == nil || p.skipped == nil || count <= 0 {
		return
	}
	p.skipped.WithLabelValues(normalizeLabel(entity)).Add(float64(count))
}

// ObserveStage records the duration of a named pipeline stage.
func (p *PipelineMetrics) ObserveStage(stage string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}
