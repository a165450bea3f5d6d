package transport

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/pipeline"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

type captureWriter struct {
	messages []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestPublishRejection(t *testing.T) {
	writer := &captureWriter{}
	p := &ErrorPublisher{writer: writer}

	rejection := pipeline.Rejection{
		Entity: enums.EntityBook,
		Key:    "BK-1",
		Source: enums.SourceCSV,
		Reason: pipeline.ReasonValidation,
		Errors: []records.ValidationError{
			{Field: "title", Rule: records.RuleNotBlank, Message: "title must not be blank"},
		},
		OccurredAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), rejection))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "book/BK-1", string(msg.Key))

	var got pipeline.Rejection
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, enums.EntityBook, got.Entity)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, records.RuleNotBlank, got.Errors[0].Rule)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "validation", headers["x-reject-reason"])
	assert.Equal(t, "csv-batch", headers["x-record-source"])
}
