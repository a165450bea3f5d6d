package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/normalize"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/promote"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/quality"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/staging"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/config"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/metrics"
)

// Promoter is the slice of the promotion service the orchestrator drives.
type Promoter interface {
	Promote(ctx context.Context, entity enums.EntityType) (promote.Result, error)
}

type envelope struct {
	entity    enums.EntityType
	book      records.Book
	customer  records.Customer
	order     records.Order
	orderItem records.OrderItem
	cart      records.Cart
	invoice   records.Invoice
}

// Params configure the orchestrator.
type Params struct {
	Config     config.PipelineConfig
	Normalizer *normalize.Normalizer
	Validator  *quality.Validator
	Staged     staging.Store
	Promoter   Promoter
	Sink       Sink
	Logger     *logger.Logger
	Metrics    *metrics.PipelineMetrics
}

// Orchestrator runs the quality gate: every ingested record is staged
// RAW as received, then normalized, validated with full error capture,
// and restaged at its outcome checkpoint. Validated rows debounce a
// promotion pass; rejected rows go to the error sink as well as the
// staging audit trail.
type Orchestrator struct {
	cfg      config.PipelineConfig
	norm     *normalize.Normalizer
	val      *quality.Validator
	staged   staging.Store
	promoter Promoter
	sink     Sink
	log      *logger.Logger
	metrics  *metrics.PipelineMetrics
	trigger  *Trigger

	queue chan envelope
	wg    sync.WaitGroup
}

// New builds an orchestrator. Start must be called before Ingest.
func New(params Params) (*Orchestrator, error) {
	if params.Staged == nil {
		return nil, fmt.Errorf("staging store required")
	}
	if params.Promoter == nil {
		return nil, fmt.Errorf("promoter required")
	}
	if params.Normalizer == nil {
		params.Normalizer = normalize.New()
	}
	if params.Validator == nil {
		params.Validator = quality.NewValidator()
	}
	if params.Sink == nil {
		params.Sink = NopSink{}
	}
	cfg := params.Config
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	o := &Orchestrator{
		cfg:      cfg,
		norm:     params.Normalizer,
		val:      params.Validator,
		staged:   params.Staged,
		promoter: params.Promoter,
		sink:     params.Sink,
		log:      params.Logger,
		metrics:  params.Metrics,
		queue:    make(chan envelope, cfg.QueueSize),
	}
	o.trigger = NewTrigger(cfg.PromoteDebounce, o.promoteDirty)
	return o, nil
}

// Start launches the worker pool. Workers drain the queue until Stop.
func (o *Orchestrator) Start(ctx context.Context) {
	for i := 0; i < o.cfg.Workers; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for env := range o.queue {
				o.process(ctx, env)
			}
		}()
	}
}

// Stop drains the queue, waits for in-flight work and fires any pending
// promotion.
func (o *Orchestrator) Stop(ctx context.Context) {
	close(o.queue)
	o.wg.Wait()
	o.trigger.Flush(ctx)
	o.trigger.Stop()
}

// enqueue blocks when the queue is full. Backpressure reaches the
// producer instead of dropping records.
func (o *Orchestrator) enqueue(ctx context.Context, env envelope) error {
	select {
	case o.queue <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) IngestBooks(ctx context.Context, batch []records.Book) error {
	for _, b := range batch {
		if err := o.enqueue(ctx, envelope{entity: enums.EntityBook, book: b}); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) IngestCustomers(ctx context.Context, batch []records.Customer) error {
	for _, c := range batch {
		if err := o.enqueue(ctx, envelope{entity: enums.EntityCustomer, customer: c}); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) IngestOrders(ctx context.Context, batch []records.Order) error {
	for _, ord := range batch {
		if err := o.enqueue(ctx, envelope{entity: enums.EntityOrder, order: ord}); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) IngestOrderItems(ctx context.Context, batch []records.OrderItem) error {
	for _, item := range batch {
		if err := o.enqueue(ctx, envelope{entity: enums.EntityOrderItem, orderItem: item}); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) IngestCarts(ctx context.Context, batch []records.Cart) error {
	for _, c := range batch {
		if err := o.enqueue(ctx, envelope{entity: enums.EntityCart, cart: c}); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) IngestInvoices(ctx context.Context, batch []records.Invoice) error {
	for _, inv := range batch {
		if err := o.enqueue(ctx, envelope{entity: enums.EntityInvoice, invoice: inv}); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) process(ctx context.Context, env envelope) {
	var err error
	switch env.entity {
	case enums.EntityBook:
		_, _, err = o.ProcessBook(ctx, env.book)
	case enums.EntityCustomer:
		_, _, err = o.ProcessCustomer(ctx, env.customer)
	case enums.EntityOrder:
		_, _, err = o.ProcessOrder(ctx, env.order)
	case enums.EntityOrderItem:
		_, _, err = o.ProcessOrderItem(ctx, env.orderItem)
	case enums.EntityCart:
		_, _, err = o.ProcessCart(ctx, env.cart)
	case enums.EntityInvoice:
		_, _, err = o.ProcessInvoice(ctx, env.invoice)
	}
	if err != nil && o.log != nil {
		o.log.Error(o.log.WithEntity(ctx, env.entity.String()), "record processing failed", err)
	}
}

// checkpointRaw stages the payload exactly as received, before
// normalization runs. An interrupted gate still leaves an auditable
// row at the RAW checkpoint, and the final status overwrites it.
func (o *Orchestrator) checkpointRaw(
	ctx context.Context,
	entity enums.EntityType,
	key string,
	source enums.RecordSource,
	upsert func(context.Context) error,
) error {
	if err := upsert(ctx); err != nil {
		o.publishRejection(ctx, Rejection{
			Entity:     entity,
			Key:        key,
			Source:     source,
			Reason:     ReasonStaging,
			OccurredAt: time.Now().UTC(),
		})
		return err
	}
	return nil
}

// finish stages the row, routes rejections and accounts the outcome.
// The upsert is supplied as a closure so six entities share one path.
func (o *Orchestrator) finish(
	ctx context.Context,
	entity enums.EntityType,
	key string,
	source enums.RecordSource,
	status enums.QualityStatus,
	findings []records.ValidationError,
	upsert func(context.Context) error,
) (enums.QualityStatus, []records.ValidationError, error) {
	start := time.Now()
	if err := upsert(ctx); err != nil {
		o.publishRejection(ctx, Rejection{
			Entity:     entity,
			Key:        key,
			Source:     source,
			Reason:     ReasonStaging,
			OccurredAt: time.Now().UTC(),
		})
		return status, findings, err
	}
	o.metrics.ObserveStage("stage", time.Since(start))
	o.metrics.IncProcessed(entity.String(), status.String())

	if status == enums.QualityStatusRejected {
		o.metrics.IncRejected(entity.String())
		o.publishRejection(ctx, Rejection{
			Entity:     entity,
			Key:        key,
			Source:     source,
			Reason:     ReasonValidation,
			Errors:     findings,
			OccurredAt: time.Now().UTC(),
		})
	} else {
		o.trigger.Notify(ctx, entity)
	}
	return status, findings, nil
}

func (o *Orchestrator) publishRejection(ctx context.Context, rejection Rejection) {
	if err := o.sink.Publish(ctx, rejection); err != nil && o.log != nil {
		o.log.Error(o.log.WithRecordKey(ctx, rejection.Key), "error sink publish failed", err)
	}
}

func gateStatus(findings []records.ValidationError) enums.QualityStatus {
	if len(findings) > 0 {
		return enums.QualityStatusRejected
	}
	return enums.QualityStatusValidated
}

func stampMeta(source *enums.RecordSource, extractedAt *time.Time) {
	if !source.IsValid() {
		*source = enums.SourceDatabase
	}
	if extractedAt.IsZero() {
		*extractedAt = time.Now().UTC()
	}
}

// ProcessBook runs one book through the gate synchronously.
func (o *Orchestrator) ProcessBook(ctx context.Context, b records.Book) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&b.Source, &b.ExtractedAt)
	raw := stagedBook(b, enums.QualityStatusRaw, nil)
	if err := o.checkpointRaw(ctx, enums.EntityBook, b.BookKey, b.Source, func(ctx context.Context) error {
		return o.staged.UpsertBooks(ctx, []staging.Book{raw})
	}); err != nil {
		return enums.QualityStatusRaw, nil, err
	}
	b = o.norm.Book(b)
	findings := o.val.ValidateBook(b)
	status := gateStatus(findings)
	row := stagedBook(b, status, findings)
	return o.finish(ctx, enums.EntityBook, b.BookKey, b.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertBooks(ctx, []staging.Book{row})
	})
}

// ProcessCustomer runs one customer through the gate synchronously.
func (o *Orchestrator) ProcessCustomer(ctx context.Context, c records.Customer) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&c.Source, &c.ExtractedAt)
	raw := stagedCustomer(c, enums.QualityStatusRaw, nil)
	if err := o.checkpointRaw(ctx, enums.EntityCustomer, c.CustomerKey, c.Source, func(ctx context.Context) error {
		return o.staged.UpsertCustomers(ctx, []staging.Customer{raw})
	}); err != nil {
		return enums.QualityStatusRaw, nil, err
	}
	c = o.norm.Customer(c)
	findings := o.val.ValidateCustomer(c)
	status := gateStatus(findings)
	row := stagedCustomer(c, status, findings)
	return o.finish(ctx, enums.EntityCustomer, c.CustomerKey, c.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertCustomers(ctx, []staging.Customer{row})
	})
}

// ProcessOrder runs one order through the gate synchronously.
func (o *Orchestrator) ProcessOrder(ctx context.Context, ord records.Order) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&ord.Source, &ord.ExtractedAt)
	raw := stagedOrder(ord, enums.QualityStatusRaw, nil)
	if err := o.checkpointRaw(ctx, enums.EntityOrder, ord.OrderKey, ord.Source, func(ctx context.Context) error {
		return o.staged.UpsertOrders(ctx, []staging.Order{raw})
	}); err != nil {
		return enums.QualityStatusRaw, nil, err
	}
	ord = o.norm.Order(ord)
	findings := o.val.ValidateOrder(ord)
	status := gateStatus(findings)
	row := stagedOrder(ord, status, findings)
	return o.finish(ctx, enums.EntityOrder, ord.OrderKey, ord.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertOrders(ctx, []staging.Order{row})
	})
}

// ProcessOrderItem runs one standalone order line through the gate.
func (o *Orchestrator) ProcessOrderItem(ctx context.Context, item records.OrderItem) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&item.Source, &item.ExtractedAt)
	key := fmt.Sprintf("%s/%d", item.OrderKey, item.LineNo)
	raw := stagedOrderItem(item, enums.QualityStatusRaw, nil)
	if err := o.checkpointRaw(ctx, enums.EntityOrderItem, key, item.Source, func(ctx context.Context) error {
		return o.staged.UpsertOrderItems(ctx, []staging.OrderItem{raw})
	}); err != nil {
		return enums.QualityStatusRaw, nil, err
	}
	item = o.norm.OrderItem(item)
	findings := o.val.ValidateOrderItem(item)
	status := gateStatus(findings)
	row := stagedOrderItem(item, status, findings)
	return o.finish(ctx, enums.EntityOrderItem, key, item.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertOrderItems(ctx, []staging.OrderItem{row})
	})
}

// ProcessCart runs one cart through the gate synchronously.
func (o *Orchestrator) ProcessCart(ctx context.Context, c records.Cart) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&c.Source, &c.ExtractedAt)
	raw := stagedCart(c, enums.QualityStatusRaw, nil)
	if err := o.checkpointRaw(ctx, enums.EntityCart, c.CartKey, c.Source, func(ctx context.Context) error {
		return o.staged.UpsertCarts(ctx, []staging.Cart{raw})
	}); err != nil {
		return enums.QualityStatusRaw, nil, err
	}
	c = o.norm.Cart(c)
	findings := o.val.ValidateCart(c)
	status := gateStatus(findings)
	row := stagedCart(c, status, findings)
	return o.finish(ctx, enums.EntityCart, c.CartKey, c.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertCarts(ctx, []staging.Cart{row})
	})
}

// ProcessInvoice runs one invoice through the gate synchronously.
func (o *Orchestrator) ProcessInvoice(ctx context.Context, inv records.Invoice) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&inv.Source, &inv.ExtractedAt)
	raw := stagedInvoice(inv, enums.QualityStatusRaw, nil)
	if err := o.checkpointRaw(ctx, enums.EntityInvoice, inv.InvoiceKey, inv.Source, func(ctx context.Context) error {
		return o.staged.UpsertInvoices(ctx, []staging.Invoice{raw})
	}); err != nil {
		return enums.QualityStatusRaw, nil, err
	}
	inv = o.norm.Invoice(inv)
	findings := o.val.ValidateInvoice(inv)
	status := gateStatus(findings)
	row := stagedInvoice(inv, status, findings)
	return o.finish(ctx, enums.EntityInvoice, inv.InvoiceKey, inv.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertInvoices(ctx, []staging.Invoice{row})
	})
}

// ResubmitBook replays a corrected book through the gate. A passing
// record lands as FIXED and keeps the original extraction timestamp.
func (o *Orchestrator) ResubmitBook(ctx context.Context, b records.Book) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&b.Source, &b.ExtractedAt)
	b.Source = enums.SourceUpload
	if existing, err := o.staged.FindBook(ctx, b.BookKey); err == nil && existing != nil {
		b.ExtractedAt = existing.ExtractedAt
	}
	b = o.norm.Book(b)
	findings := o.val.ValidateBook(b)
	status := fixedStatus(findings)
	row := stagedBook(b, status, findings)
	return o.finish(ctx, enums.EntityBook, b.BookKey, b.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertBooks(ctx, []staging.Book{row})
	})
}

// ResubmitCustomer replays a corrected customer through the gate.
func (o *Orchestrator) ResubmitCustomer(ctx context.Context, c records.Customer) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&c.Source, &c.ExtractedAt)
	c.Source = enums.SourceUpload
	if existing, err := o.staged.FindCustomer(ctx, c.CustomerKey); err == nil && existing != nil {
		c.ExtractedAt = existing.ExtractedAt
	}
	c = o.norm.Customer(c)
	findings := o.val.ValidateCustomer(c)
	status := fixedStatus(findings)
	row := stagedCustomer(c, status, findings)
	return o.finish(ctx, enums.EntityCustomer, c.CustomerKey, c.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertCustomers(ctx, []staging.Customer{row})
	})
}

// ResubmitOrder replays a corrected order through the gate.
func (o *Orchestrator) ResubmitOrder(ctx context.Context, ord records.Order) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&ord.Source, &ord.ExtractedAt)
	ord.Source = enums.SourceUpload
	if existing, err := o.staged.FindOrder(ctx, ord.OrderKey); err == nil && existing != nil {
		ord.ExtractedAt = existing.ExtractedAt
	}
	ord = o.norm.Order(ord)
	findings := o.val.ValidateOrder(ord)
	status := fixedStatus(findings)
	row := stagedOrder(ord, status, findings)
	return o.finish(ctx, enums.EntityOrder, ord.OrderKey, ord.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertOrders(ctx, []staging.Order{row})
	})
}

// ResubmitOrderItem replays a corrected standalone order line.
func (o *Orchestrator) ResubmitOrderItem(ctx context.Context, item records.OrderItem) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&item.Source, &item.ExtractedAt)
	item.Source = enums.SourceUpload
	if existing, err := o.staged.FindOrderItem(ctx, item.OrderKey, item.LineNo); err == nil && existing != nil {
		item.ExtractedAt = existing.ExtractedAt
	}
	item = o.norm.OrderItem(item)
	findings := o.val.ValidateOrderItem(item)
	status := fixedStatus(findings)
	row := stagedOrderItem(item, status, findings)
	key := fmt.Sprintf("%s/%d", item.OrderKey, item.LineNo)
	return o.finish(ctx, enums.EntityOrderItem, key, item.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertOrderItems(ctx, []staging.OrderItem{row})
	})
}

// ResubmitCart replays a corrected cart through the gate.
func (o *Orchestrator) ResubmitCart(ctx context.Context, c records.Cart) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&c.Source, &c.ExtractedAt)
	c.Source = enums.SourceUpload
	if existing, err := o.staged.FindCart(ctx, c.CartKey); err == nil && existing != nil {
		c.ExtractedAt = existing.ExtractedAt
	}
	c = o.norm.Cart(c)
	findings := o.val.ValidateCart(c)
	status := fixedStatus(findings)
	row := stagedCart(c, status, findings)
	return o.finish(ctx, enums.EntityCart, c.CartKey, c.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertCarts(ctx, []staging.Cart{row})
	})
}

// ResubmitInvoice replays a corrected invoice through the gate.
func (o *Orchestrator) ResubmitInvoice(ctx context.Context, inv records.Invoice) (enums.QualityStatus, []records.ValidationError, error) {
	stampMeta(&inv.Source, &inv.ExtractedAt)
	inv.Source = enums.SourceUpload
	if existing, err := o.staged.FindInvoice(ctx, inv.InvoiceKey); err == nil && existing != nil {
		inv.ExtractedAt = existing.ExtractedAt
	}
	inv = o.norm.Invoice(inv)
	findings := o.val.ValidateInvoice(inv)
	status := fixedStatus(findings)
	row := stagedInvoice(inv, status, findings)
	return o.finish(ctx, enums.EntityInvoice, inv.InvoiceKey, inv.Source, status, findings, func(ctx context.Context) error {
		return o.staged.UpsertInvoices(ctx, []staging.Invoice{row})
	})
}

func fixedStatus(findings []records.ValidationError) enums.QualityStatus {
	if len(findings) > 0 {
		return enums.QualityStatusRejected
	}
	return enums.QualityStatusFixed
}

func (o *Orchestrator) promoteDirty(ctx context.Context, entities []enums.EntityType) {
	for _, entity := range entities {
		start := time.Now()
		result, err := o.promoter.Promote(ctx, entity)
		o.metrics.ObserveStage("promote", time.Since(start))
		o.metrics.AddPromoted(entity.String(), result.Loaded)
		o.metrics.AddSkipped(entity.String(), result.Skipped)
		if err != nil && o.log != nil {
			o.log.Error(o.log.WithEntity(ctx, entity.String()), "promotion pass failed", err)
		}
	}
}

func stagedBook(b records.Book, status enums.QualityStatus, findings []records.ValidationError) staging.Book {
	return staging.Book{
		ID:            uuid.New(),
		BookKey:       b.BookKey,
		Title:         b.Title,
		Description:   b.Description,
		Price:         b.Price,
		Free:          b.Free,
		ReleasedAt:    b.ReleasedAt,
		Status:        b.Status,
		AverageRating: b.AverageRating,
		TotalOrders:   b.TotalOrders,
		Authors:       b.Authors,
		Categories:    b.Categories,
		Source:        b.Source,
		QualityStatus: status,
		QualityErrors: records.MarshalErrors(findings),
		ExtractedAt:   b.ExtractedAt,
	}
}

func stagedCustomer(c records.Customer, status enums.QualityStatus, findings []records.ValidationError) staging.Customer {
	return staging.Customer{
		ID:            uuid.New(),
		CustomerKey:   c.CustomerKey,
		FullName:      c.FullName,
		Email:         c.Email,
		Phone:         c.Phone,
		Status:        c.Status,
		Roles:         c.Roles,
		Source:        c.Source,
		QualityStatus: status,
		QualityErrors: records.MarshalErrors(findings),
		ExtractedAt:   c.ExtractedAt,
	}
}

func stagedOrder(ord records.Order, status enums.QualityStatus, findings []records.ValidationError) staging.Order {
	return staging.Order{
		ID:            uuid.New(),
		OrderKey:      ord.OrderKey,
		CustomerName:  ord.CustomerName,
		CustomerEmail: ord.CustomerEmail,
		Status:        ord.Status,
		PaymentMethod: ord.PaymentMethod,
		TotalAmount:   ord.TotalAmount,
		Discount:      ord.Discount,
		ShippingFee:   ord.ShippingFee,
		Items:         ord.Items,
		PlacedAt:      ord.CreatedAt,
		Source:        ord.Source,
		QualityStatus: status,
		QualityErrors: records.MarshalErrors(findings),
		ExtractedAt:   ord.ExtractedAt,
	}
}

func stagedOrderItem(item records.OrderItem, status enums.QualityStatus, findings []records.ValidationError) staging.OrderItem {
	return staging.OrderItem{
		ID:            uuid.New(),
		OrderKey:      item.OrderKey,
		LineNo:        item.LineNo,
		BookKey:       item.BookKey,
		Quantity:      item.Quantity,
		UnitPrice:     item.UnitPrice,
		Source:        item.Source,
		QualityStatus: status,
		QualityErrors: records.MarshalErrors(findings),
		ExtractedAt:   item.ExtractedAt,
	}
}

func stagedCart(c records.Cart, status enums.QualityStatus, findings []records.ValidationError) staging.Cart {
	return staging.Cart{
		ID:            uuid.New(),
		CartKey:       c.CartKey,
		CustomerKey:   c.CustomerKey,
		Items:         c.Items,
		PlacedAt:      c.CreatedAt,
		Source:        c.Source,
		QualityStatus: status,
		QualityErrors: records.MarshalErrors(findings),
		ExtractedAt:   c.ExtractedAt,
	}
}

func stagedInvoice(inv records.Invoice, status enums.QualityStatus, findings []records.ValidationError) staging.Invoice {
	return staging.Invoice{
		ID:            uuid.New(),
		InvoiceKey:    inv.InvoiceKey,
		OrderKey:      inv.OrderKey,
		Amount:        inv.Amount,
		Status:        inv.Status,
		IssuedAt:      inv.CreatedAt,
		Source:        inv.Source,
		QualityStatus: status,
		QualityErrors: records.MarshalErrors(findings),
		ExtractedAt:   inv.ExtractedAt,
	}
}
