package pipeline

import (
	"context"
	"time"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Rejection is the error-path envelope for a record the gate refused or
// failed to stage.
type Rejection struct {
	Entity     enums.EntityType          `json:"entity"`
	Key        string                    `json:"key"`
	Source     enums.RecordSource        `json:"source"`
	Reason     string                    `json:"reason"`
	Errors     []records.ValidationError `json:"errors,omitempty"`
	OccurredAt time.Time                 `json:"occurred_at"`
}

// Rejection reasons.
const (
	ReasonValidation = "validation"
	ReasonStaging    = "staging"
)

// Sink receives rejections. The kafka error publisher implements this;
// tests use an in-memory collector.
type Sink interface {
	Publish(ctx context.Context, rejection Rejection) error
}

// NopSink drops rejections. Used when no error transport is configured.
type NopSink struct{}

func (NopSink) Publish(context.Context, Rejection) error { return nil }
