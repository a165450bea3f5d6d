package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/dedupe"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/config"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
)

// Gate is the slice of the pipeline the consumer feeds. Processing is
// synchronous so the offset commit happens only after the record is
// staged.
type Gate interface {
	ProcessBook(ctx context.Context, b records.Book) (enums.QualityStatus, []records.ValidationError, error)
	ProcessCustomer(ctx context.Context, c records.Customer) (enums.QualityStatus, []records.ValidationError, error)
	ProcessOrder(ctx context.Context, o records.Order) (enums.QualityStatus, []records.ValidationError, error)
	ProcessOrderItem(ctx context.Context, i records.OrderItem) (enums.QualityStatus, []records.ValidationError, error)
	ProcessCart(ctx context.Context, c records.Cart) (enums.QualityStatus, []records.ValidationError, error)
	ProcessInvoice(ctx context.Context, i records.Invoice) (enums.QualityStatus, []records.ValidationError, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer pulls raw records off the ingest topic and runs each through
// the quality gate. Malformed frames and replayed deliveries are
// committed without processing; transient gate failures leave the
// offset uncommitted so the broker redelivers.
type Consumer struct {
	reader messageReader
	gate   Gate
	guard  *dedupe.Guard
	log    *logger.Logger
}

// NewConsumer builds a consumer on the configured raw topic and group.
func NewConsumer(cfg config.KafkaConfig, gate Gate, guard *dedupe.Guard, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.RawTopic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
		MaxWait:  100 * time.Millisecond,
	})
	return &Consumer{reader: reader, gate: gate, guard: guard, log: log}
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.warn(ctx, fmt.Sprintf("kafka fetch failed: %v", err))
			select {
			case <-time.After(300 * time.Millisecond):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		if err := c.handle(ctx, msg.Value); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Uncommitted on purpose so the broker redelivers.
			c.warn(ctx, fmt.Sprintf("record handling failed, leaving offset uncommitted: %v", err))
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.warn(ctx, fmt.Sprintf("offset commit failed: %v", err))
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) handle(ctx context.Context, raw []byte) error {
	env, err := DecodeEnvelope(raw)
	if err != nil {
		// A frame that cannot be decoded never becomes valid. Drop it.
		c.warn(ctx, fmt.Sprintf("dropping malformed frame: %v", err))
		return nil
	}

	switch env.Entity {
	case enums.EntityBook:
		var rec records.Book
		if err := json.Unmarshal(env.Payload, &rec); err != nil {
			c.warn(ctx, fmt.Sprintf("dropping malformed book payload: %v", err))
			return nil
		}
		return c.processOnce(ctx, env.Entity, rec.BookKey, rec.ExtractedAt, func() error {
			_, _, err := c.gate.ProcessBook(ctx, rec)
			return err
		})
	case enums.EntityCustomer:
		var rec records.Customer
		if err := json.Unmarshal(env.Payload, &rec); err != nil {
			c.warn(ctx, fmt.Sprintf("dropping malformed customer payload: %v", err))
			return nil
		}
		return c.processOnce(ctx, env.Entity, rec.CustomerKey, rec.ExtractedAt, func() error {
			_, _, err := c.gate.ProcessCustomer(ctx, rec)
			return err
		})
	case enums.EntityOrder:
		var rec records.Order
		if err := json.Unmarshal(env.Payload, &rec); err != nil {
			c.warn(ctx, fmt.Sprintf("dropping malformed order payload: %v", err))
			return nil
		}
		return c.processOnce(ctx, env.Entity, rec.OrderKey, rec.ExtractedAt, func() error {
			_, _, err := c.gate.ProcessOrder(ctx, rec)
			return err
		})
	case enums.EntityOrderItem:
		var rec records.OrderItem
		if err := json.Unmarshal(env.Payload, &rec); err != nil {
			c.warn(ctx, fmt.Sprintf("dropping malformed order item payload: %v", err))
			return nil
		}
		key := fmt.Sprintf("%s/%d", rec.OrderKey, rec.LineNo)
		return c.processOnce(ctx, env.Entity, key, rec.ExtractedAt, func() error {
			_, _, err := c.gate.ProcessOrderItem(ctx, rec)
			return err
		})
	case enums.EntityCart:
		var rec records.Cart
		if err := json.Unmarshal(env.Payload, &rec); err != nil {
			c.warn(ctx, fmt.Sprintf("dropping malformed cart payload: %v", err))
			return nil
		}
		return c.processOnce(ctx, env.Entity, rec.CartKey, rec.ExtractedAt, func() error {
			_, _, err := c.gate.ProcessCart(ctx, rec)
			return err
		})
	case enums.EntityInvoice:
		var rec records.Invoice
		if err := json.Unmarshal(env.Payload, &rec); err != nil {
			c.warn(ctx, fmt.Sprintf("dropping malformed invoice payload: %v", err))
			return nil
		}
		return c.processOnce(ctx, env.Entity, rec.InvoiceKey, rec.ExtractedAt, func() error {
			_, _, err := c.gate.ProcessInvoice(ctx, rec)
			return err
		})
	}
	return nil
}

// processOnce runs the gate behind the dedupe guard. A gate failure
// releases the marker so the broker's redelivery is not suppressed.
func (c *Consumer) processOnce(ctx context.Context, entity enums.EntityType, key string, extractedAt time.Time, fn func() error) error {
	if c.guard != nil && !c.guard.FirstDelivery(ctx, entity, key, extractedAt) {
		return nil
	}
	if err := fn(); err != nil {
		if c.guard != nil {
			if forgetErr := c.guard.Forget(ctx, entity, key, extractedAt); forgetErr != nil {
				c.warn(ctx, fmt.Sprintf("dedupe marker release failed: %v", forgetErr))
			}
		}
		return err
	}
	return nil
}

func (c *Consumer) warn(ctx context.Context, msg string) {
	if c.log != nil {
		c.log.Warn(ctx, msg)
	}
}
