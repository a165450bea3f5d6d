package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/promote"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/metrics"
)

// promoter runs a full dependency-ordered promotion pass.
type promoter interface {
	PromoteAll(ctx context.Context) (map[enums.EntityType]promote.Result, error)
}

// PromotionSweepJob is the backstop behind the debounced trigger. Rows
// that were staged right before a crash, or skipped while a referenced
// record was missing, get another chance on every sweep.
type PromotionSweepJob struct {
	promoter promoter
	logg     *logger.Logger
	metrics  *metrics.PipelineMetrics
}

// NewPromotionSweepJob builds the sweep job.
func NewPromotionSweepJob(p promoter, logg *logger.Logger, m *metrics.PipelineMetrics) (*PromotionSweepJob, error) {
	if p == nil {
		return nil, errors.New("promoter required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &PromotionSweepJob{promoter: p, logg: logg, metrics: m}, nil
}

// Name identifies the job in logs and metrics.
func (j *PromotionSweepJob) Name() string { return "promotion-sweep" }

// Run promotes every entity in dependency order and reports totals.
func (j *PromotionSweepJob) Run(ctx context.Context) error {
	results, err := j.promoter.PromoteAll(ctx)

	var loaded, skipped int
	for entity, result := range results {
		loaded += result.Loaded
		skipped += result.Skipped
		j.metrics.AddPromoted(entity.String(), result.Loaded)
		j.metrics.AddSkipped(entity.String(), result.Skipped)
	}
	runCtx := j.logg.WithFields(ctx, map[string]any{
		"loaded":  loaded,
		"skipped": skipped,
	})
	j.logg.Info(runCtx, "promotion sweep finished")

	if err != nil {
		return fmt.Errorf("promotion sweep: %w", err)
	}
	return nil
}
