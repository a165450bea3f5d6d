package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/staging"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
)

// StagingReportJob logs the per-entity checkpoint counts. Operators
// watch the rejected counts to spot a misbehaving source.
type StagingReportJob struct {
	staged staging.Store
	logg   *logger.Logger
}

// NewStagingReportJob builds the report job.
func NewStagingReportJob(staged staging.Store, logg *logger.Logger) (*StagingReportJob, error) {
	if staged == nil {
		return nil, errors.New("staging store required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &StagingReportJob{staged: staged, logg: logg}, nil
}

// Name identifies the job in logs and metrics.
func (j *StagingReportJob) Name() string { return "staging-report" }

// Run emits one log line per entity/status cell.
func (j *StagingReportJob) Run(ctx context.Context) error {
	summary, err := j.staged.Summary(ctx)
	if err != nil {
		return fmt.Errorf("staging summary: %w", err)
	}
	for _, cell := range summary {
		cellCtx := j.logg.WithFields(ctx, map[string]any{
			"entity": cell.Entity.String(),
			"status": cell.Status.String(),
			"count":  cell.Count,
		})
		j.logg.Info(cellCtx, "staging checkpoint")
	}
	return nil
}
