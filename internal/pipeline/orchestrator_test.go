package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/promote"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/staging"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/config"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

func setupPipelineTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddls := []string{
		`CREATE TABLE IF NOT EXISTS stg_books (
  id TEXT PRIMARY KEY,
  book_key TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  description TEXT,
  price TEXT NOT NULL,
  free INTEGER NOT NULL DEFAULT 0,
  released_at DATETIME,
  status TEXT NOT NULL,
  average_rating REAL NOT NULL DEFAULT 0,
  total_orders INTEGER NOT NULL DEFAULT 0,
  authors TEXT,
  categories TEXT,
  source TEXT NOT NULL,
  quality_status TEXT NOT NULL,
  quality_errors TEXT,
  extracted_at DATETIME NOT NULL,
  loaded_at DATETIME,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS stg_customers (
  id TEXT PRIMARY KEY,
  customer_key TEXT NOT NULL UNIQUE,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  status TEXT NOT NULL,
  roles TEXT,
  source TEXT NOT NULL,
  quality_status TEXT NOT NULL,
  quality_errors TEXT,
  extracted_at DATETIME NOT NULL,
  loaded_at DATETIME,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS stg_orders (
  id TEXT PRIMARY KEY,
  order_key TEXT NOT NULL UNIQUE,
  customer_name TEXT,
  customer_email TEXT NOT NULL,
  status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  discount TEXT NOT NULL DEFAULT '0',
  shipping_fee TEXT NOT NULL DEFAULT '0',
  items TEXT,
  placed_at DATETIME,
  source TEXT NOT NULL,
  quality_status TEXT NOT NULL,
  quality_errors TEXT,
  extracted_at DATETIME NOT NULL,
  loaded_at DATETIME,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS stg_order_items (
  id TEXT PRIMARY KEY,
  order_key TEXT NOT NULL,
  line_no INTEGER NOT NULL,
  book_key TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  source TEXT NOT NULL,
  quality_status TEXT NOT NULL,
  quality_errors TEXT,
  extracted_at DATETIME NOT NULL,
  loaded_at DATETIME,
  created_at DATETIME,
  UNIQUE (order_key, line_no)
);`,
		`CREATE TABLE IF NOT EXISTS stg_carts (
  id TEXT PRIMARY KEY,
  cart_key TEXT NOT NULL UNIQUE,
  customer_key TEXT NOT NULL,
  items TEXT,
  placed_at DATETIME,
  source TEXT NOT NULL,
  quality_status TEXT NOT NULL,
  quality_errors TEXT,
  extracted_at DATETIME NOT NULL,
  loaded_at DATETIME,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS stg_invoices (
  id TEXT PRIMARY KEY,
  invoice_key TEXT NOT NULL UNIQUE,
  order_key TEXT NOT NULL,
  amount TEXT NOT NULL,
  status TEXT NOT NULL,
  issued_at DATETIME,
  source TEXT NOT NULL,
  quality_status TEXT NOT NULL,
  quality_errors TEXT,
  extracted_at DATETIME NOT NULL,
  loaded_at DATETIME,
  created_at DATETIME
);`,
	}
	for _, ddl := range ddls {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type collectSink struct {
	mu        sync.Mutex
	published []Rejection
}

func (s *collectSink) Publish(_ context.Context, r Rejection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, r)
	return nil
}

func (s *collectSink) all() []Rejection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Rejection, len(s.published))
	copy(out, s.published)
	return out
}

type stubPromoter struct {
	mu     sync.Mutex
	called []enums.EntityType
}

func (p *stubPromoter) Promote(_ context.Context, entity enums.EntityType) (promote.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.called = append(p.called, entity)
	return promote.Result{Loaded: 1}, nil
}

func (p *stubPromoter) calls() []enums.EntityType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]enums.EntityType, len(p.called))
	copy(out, p.called)
	return out
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, staging.Store, *collectSink, *stubPromoter) {
	t.Helper()

	db := setupPipelineTestDB(t)
	staged := staging.NewStore(db)
	sink := &collectSink{}
	promoter := &stubPromoter{}

	o, err := New(Params{
		Config: config.PipelineConfig{
			QueueSize:       8,
			Workers:         2,
			PromoteDebounce: 10 * time.Millisecond,
		},
		Staged:   staged,
		Promoter: promoter,
		Sink:     sink,
	})
	require.NoError(t, err)
	return o, staged, sink, promoter
}

func validBook(key string) records.Book {
	return records.Book{
		Source:      enums.SourceDatabase,
		BookKey:     key,
		Title:       "Dế mèn phiêu lưu ký",
		Price:       decimal.RequireFromString("45.00"),
		Status:      "HIEU_LUC",
		Authors:     []string{"Tô Hoài"},
		Categories:  []string{"Thiếu nhi"},
		ExtractedAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestProcessBookValidatedAndStaged(t *testing.T) {
	o, staged, sink, _ := newTestOrchestrator(t)
	ctx := context.Background()

	status, findings, err := o.ProcessBook(ctx, validBook("BK-1"))
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusValidated, status)
	assert.Empty(t, findings)

	row, err := staged.FindBook(ctx, "BK-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.QualityStatusValidated, row.QualityStatus)
	assert.Nil(t, row.QualityErrors)
	assert.Empty(t, sink.all())
}

func TestProcessBookRejectedCollectsEveryFinding(t *testing.T) {
	o, staged, sink, _ := newTestOrchestrator(t)
	ctx := context.Background()

	bad := validBook("BK-2")
	bad.Title = "   "
	bad.Authors = nil
	bad.Price = decimal.RequireFromString("-1.00")

	status, findings, err := o.ProcessBook(ctx, bad)
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusRejected, status)
	// Blank title, missing authors, negative price and the free/price
	// cross check all report. No short circuit after the first failure.
	require.GreaterOrEqual(t, len(findings), 3)

	row, err := staged.FindBook(ctx, "BK-2")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.QualityStatusRejected, row.QualityStatus)
	require.NotNil(t, row.QualityErrors)

	published := sink.all()
	require.Len(t, published, 1)
	assert.Equal(t, enums.EntityBook, published[0].Entity)
	assert.Equal(t, "BK-2", published[0].Key)
	assert.Equal(t, ReasonValidation, published[0].Reason)
	assert.Len(t, published[0].Errors, len(findings))
}

func TestProcessStampsSourceAndExtractionDefaults(t *testing.T) {
	o, staged, _, _ := newTestOrchestrator(t)
	ctx := context.Background()

	b := validBook("BK-3")
	b.Source = ""
	b.ExtractedAt = time.Time{}

	_, _, err := o.ProcessBook(ctx, b)
	require.NoError(t, err)

	row, err := staged.FindBook(ctx, "BK-3")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.SourceDatabase, row.Source)
	assert.WithinDuration(t, time.Now().UTC(), row.ExtractedAt, 5*time.Second)
}

func TestIngestWorkersDrainQueue(t *testing.T) {
	o, staged, _, promoter := newTestOrchestrator(t)
	ctx := context.Background()

	o.Start(ctx)
	require.NoError(t, o.IngestBooks(ctx, []records.Book{
		validBook("BK-10"), validBook("BK-11"), validBook("BK-12"),
	}))
	o.Stop(ctx)

	rows, err := staged.ListBooks(ctx, enums.QualityStatusValidated)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// Stop flushes the debounced trigger, so the promotion pass ran.
	assert.Contains(t, promoter.calls(), enums.EntityBook)
}

func TestProcessOrderRejectedOnTotalMismatch(t *testing.T) {
	o, staged, sink, _ := newTestOrchestrator(t)
	ctx := context.Background()

	ord := records.Order{
		Source:        enums.SourceCSV,
		OrderKey:      "OD-1",
		CustomerName:  "Nguyễn Văn A",
		CustomerEmail: "an@example.com",
		Status:        "DA_GIAO",
		PaymentMethod: "COD",
		TotalAmount:   decimal.RequireFromString("26.00"),
		ShippingFee:   decimal.RequireFromString("5.00"),
		Items: []records.OrderLine{
			{BookKey: "BK-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
		ExtractedAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
	}

	status, findings, err := o.ProcessOrder(ctx, ord)
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusRejected, status)
	require.Len(t, findings, 1)
	assert.Equal(t, records.RuleTotalMismatch, findings[0].Rule)

	row, err := staged.FindOrder(ctx, "OD-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.QualityStatusRejected, row.QualityStatus)
	require.Len(t, sink.all(), 1)
}

func TestResubmitBookLandsFixedAndKeepsExtraction(t *testing.T) {
	o, staged, _, _ := newTestOrchestrator(t)
	ctx := context.Background()

	original := validBook("BK-20")
	original.Title = ""
	_, _, err := o.ProcessBook(ctx, original)
	require.NoError(t, err)

	fixed := validBook("BK-20")
	fixed.ExtractedAt = time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	status, findings, err := o.ResubmitBook(ctx, fixed)
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusFixed, status)
	assert.Empty(t, findings)

	row, err := staged.FindBook(ctx, "BK-20")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.QualityStatusFixed, row.QualityStatus)
	assert.Equal(t, enums.SourceUpload, row.Source)
	assert.WithinDuration(t, original.ExtractedAt, row.ExtractedAt, time.Second)
}

func TestResubmitStillRejectsBadPayload(t *testing.T) {
	o, _, sink, _ := newTestOrchestrator(t)
	ctx := context.Background()

	bad := validBook("BK-30")
	bad.Authors = nil

	status, findings, err := o.ResubmitBook(ctx, bad)
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusRejected, status)
	assert.NotEmpty(t, findings)
	assert.Len(t, sink.all(), 1)
}

// checkpointStore records the quality status of every book upsert so a
// test can see the intermediate checkpoint the final write overwrites.
type checkpointStore struct {
	staging.Store
	mu       sync.Mutex
	statuses []enums.QualityStatus
}

func (s *checkpointStore) UpsertBooks(ctx context.Context, rows []staging.Book) error {
	s.mu.Lock()
	for _, row := range rows {
		s.statuses = append(s.statuses, row.QualityStatus)
	}
	s.mu.Unlock()
	return s.Store.UpsertBooks(ctx, rows)
}

func TestProcessBookStagesRawBeforeGateOutcome(t *testing.T) {
	db := setupPipelineTestDB(t)
	recorder := &checkpointStore{Store: staging.NewStore(db)}
	o, err := New(Params{
		Config: config.PipelineConfig{
			QueueSize:       8,
			Workers:         2,
			PromoteDebounce: 10 * time.Millisecond,
		},
		Staged:   recorder,
		Promoter: &stubPromoter{},
		Sink:     &collectSink{},
	})
	require.NoError(t, err)
	ctx := context.Background()

	status, _, err := o.ProcessBook(ctx, validBook("BK-40"))
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusValidated, status)

	// The payload lands at RAW first, then the gate outcome replaces it.
	require.Equal(t, []enums.QualityStatus{enums.QualityStatusRaw, enums.QualityStatusValidated}, recorder.statuses)

	row, err := recorder.FindBook(ctx, "BK-40")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.QualityStatusValidated, row.QualityStatus)
}

func TestResubmitOrderItemCartAndInvoiceLandFixed(t *testing.T) {
	o, staged, _, _ := newTestOrchestrator(t)
	ctx := context.Background()

	item := records.OrderItem{
		Source:      enums.SourceDatabase,
		OrderKey:    "OD-5",
		LineNo:      1,
		BookKey:     "BK-1",
		Quantity:    0,
		UnitPrice:   decimal.RequireFromString("45.00"),
		ExtractedAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
	}
	_, _, err := o.ProcessOrderItem(ctx, item)
	require.NoError(t, err)

	item.Quantity = 2
	status, findings, err := o.ResubmitOrderItem(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusFixed, status)
	assert.Empty(t, findings)

	itemRow, err := staged.FindOrderItem(ctx, "OD-5", 1)
	require.NoError(t, err)
	require.NotNil(t, itemRow)
	assert.Equal(t, enums.QualityStatusFixed, itemRow.QualityStatus)
	assert.Equal(t, enums.SourceUpload, itemRow.Source)
	assert.WithinDuration(t, item.ExtractedAt, itemRow.ExtractedAt, time.Second)

	cart := records.Cart{
		Source:      enums.SourceDatabase,
		CartKey:     "CT-5",
		CustomerKey: "CU-1",
		Items: []records.OrderLine{
			{BookKey: "BK-1", Quantity: 1, UnitPrice: decimal.RequireFromString("45.00")},
		},
		ExtractedAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
	}
	status, findings, err = o.ResubmitCart(ctx, cart)
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusFixed, status)
	assert.Empty(t, findings)

	cartRow, err := staged.FindCart(ctx, "CT-5")
	require.NoError(t, err)
	require.NotNil(t, cartRow)
	assert.Equal(t, enums.QualityStatusFixed, cartRow.QualityStatus)

	inv := records.Invoice{
		Source:      enums.SourceDatabase,
		InvoiceKey:  "IV-5",
		OrderKey:    "OD-5",
		Amount:      decimal.RequireFromString("90.00"),
		Status:      "DA_THANH_TOAN",
		ExtractedAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
	}
	status, findings, err = o.ResubmitInvoice(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusFixed, status)
	assert.Empty(t, findings)

	invRow, err := staged.FindInvoice(ctx, "IV-5")
	require.NoError(t, err)
	require.NotNil(t, invRow)
	assert.Equal(t, enums.QualityStatusFixed, invRow.QualityStatus)
	assert.Equal(t, enums.SourceUpload, invRow.Source)
}

func TestProcessCustomerNormalizesBeforeValidation(t *testing.T) {
	o, staged, _, _ := newTestOrchestrator(t)
	ctx := context.Background()

	c := records.Customer{
		Source:      enums.SourceDatabase,
		CustomerKey: "CU-1",
		FullName:    "  nguyễn   văn a  ",
		Email:       " An@Example.COM ",
		Phone:       "0912 345 678",
		Status:      "HOAT_DONG",
		Roles:       []string{"customer"},
		ExtractedAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
	}

	status, findings, err := o.ProcessCustomer(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, enums.QualityStatusValidated, status)
	assert.Empty(t, findings)

	row, err := staged.FindCustomer(ctx, "CU-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Nguyễn Văn A", row.FullName)
	assert.Equal(t, "an@example.com", row.Email)
	assert.Equal(t, "0912345678", row.Phone)
}
