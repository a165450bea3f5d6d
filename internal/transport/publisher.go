package transport

import (
	"context"
	"encoding/json"
	"fmt"

	kafka "github.com/segmentio/kafka-go"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/pipeline"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/config"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ErrorPublisher writes quality rejections to the error topic so fixers
// downstream can inspect and resubmit them. It satisfies the pipeline
// sink contract.
type ErrorPublisher struct {
	writer messageWriter
}

// NewErrorPublisher builds a publisher for the configured error topic.
func NewErrorPublisher(cfg config.KafkaConfig) *ErrorPublisher {
	return &ErrorPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.ErrorTopic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           cfg.WriteTimeout,
		},
	}
}

// Publish sends one rejection. The message key is entity-scoped so all
// rejections of a record land on the same partition, in order.
func (p *ErrorPublisher) Publish(ctx context.Context, rejection pipeline.Rejection) error {
	payload, err := json.Marshal(rejection)
	if err != nil {
		return fmt.Errorf("marshal rejection: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%s/%s", rejection.Entity, rejection.Key)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "x-reject-reason", Value: []byte(rejection.Reason)},
			{Key: "x-record-source", Value: []byte(rejection.Source)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish rejection: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *ErrorPublisher) Close() error {
	return p.writer.Close()
}
