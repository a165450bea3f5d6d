package staging

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

type store struct {
	db *gorm.DB
}

// NewStore builds a staging store bound to the provided DB.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) WithTx(tx *gorm.DB) Store {
	if tx == nil {
		return s
	}
	return &store{db: tx}
}

// keyedUpsert writes rows with ON CONFLICT on the natural key columns,
// replacing the previous payload in full.
func keyedUpsert[T any](ctx context.Context, db *gorm.DB, keyColumns []string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]clause.Column, len(keyColumns))
	for i, name := range keyColumns {
		columns[i] = clause.Column{Name: name}
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: columns, UpdateAll: true}).
		Create(&rows).Error
}

func (s *store) UpsertBooks(ctx context.Context, rows []Book) error {
	return keyedUpsert(ctx, s.db, []string{"book_key"}, rows)
}

func (s *store) UpsertCustomers(ctx context.Context, rows []Customer) error {
	return keyedUpsert(ctx, s.db, []string{"customer_key"}, rows)
}

func (s *store) UpsertOrders(ctx context.Context, rows []Order) error {
	return keyedUpsert(ctx, s.db, []string{"order_key"}, rows)
}

func (s *store) UpsertOrderItems(ctx context.Context, rows []OrderItem) error {
	return keyedUpsert(ctx, s.db, []string{"order_key", "line_no"}, rows)
}

func (s *store) UpsertCarts(ctx context.Context, rows []Cart) error {
	return keyedUpsert(ctx, s.db, []string{"cart_key"}, rows)
}

func (s *store) UpsertInvoices(ctx context.Context, rows []Invoice) error {
	return keyedUpsert(ctx, s.db, []string{"invoice_key"}, rows)
}

func listByStatus[T any](ctx context.Context, db *gorm.DB, status enums.QualityStatus) ([]T, error) {
	var rows []T
	err := db.WithContext(ctx).
		Where("quality_status = ?", status).
		Order("loaded_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *store) ListBooks(ctx context.Context, status enums.QualityStatus) ([]Book, error) {
	return listByStatus[Book](ctx, s.db, status)
}

func (s *store) ListCustomers(ctx context.Context, status enums.QualityStatus) ([]Customer, error) {
	return listByStatus[Customer](ctx, s.db, status)
}

func (s *store) ListOrders(ctx context.Context, status enums.QualityStatus) ([]Order, error) {
	return listByStatus[Order](ctx, s.db, status)
}

func (s *store) ListOrderItems(ctx context.Context, status enums.QualityStatus) ([]OrderItem, error) {
	return listByStatus[OrderItem](ctx, s.db, status)
}

func (s *store) ListCarts(ctx context.Context, status enums.QualityStatus) ([]Cart, error) {
	return listByStatus[Cart](ctx, s.db, status)
}

func (s *store) ListInvoices(ctx context.Context, status enums.QualityStatus) ([]Invoice, error) {
	return listByStatus[Invoice](ctx, s.db, status)
}

func findByKey[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *store) FindBook(ctx context.Context, key string) (*Book, error) {
	return findByKey[Book](ctx, s.db, "book_key = ?", key)
}

func (s *store) FindCustomer(ctx context.Context, key string) (*Customer, error) {
	return findByKey[Customer](ctx, s.db, "customer_key = ?", key)
}

func (s *store) FindOrder(ctx context.Context, key string) (*Order, error) {
	return findByKey[Order](ctx, s.db, "order_key = ?", key)
}

func (s *store) FindOrderItem(ctx context.Context, orderKey string, lineNo int) (*OrderItem, error) {
	return findByKey[OrderItem](ctx, s.db, "order_key = ? AND line_no = ?", orderKey, lineNo)
}

func (s *store) FindCart(ctx context.Context, key string) (*Cart, error) {
	return findByKey[Cart](ctx, s.db, "cart_key = ?", key)
}

func (s *store) FindInvoice(ctx context.Context, key string) (*Invoice, error) {
	return findByKey[Invoice](ctx, s.db, "invoice_key = ?", key)
}

func (s *store) Summary(ctx context.Context) ([]EntitySummary, error) {
	tables := []struct {
		entity enums.EntityType
		name   string
	}{
		{enums.EntityBook, Book{}.TableName()},
		{enums.EntityCustomer, Customer{}.TableName()},
		{enums.EntityOrder, Order{}.TableName()},
		{enums.EntityOrderItem, OrderItem{}.TableName()},
		{enums.EntityCart, Cart{}.TableName()},
		{enums.EntityInvoice, Invoice{}.TableName()},
	}

	var out []EntitySummary
	for _, table := range tables {
		var cells []struct {
			QualityStatus enums.QualityStatus
			Count         int64
		}
		err := s.db.WithContext(ctx).
			Table(table.name).
			Select("quality_status, COUNT(*) AS count").
			Group("quality_status").
			Order("quality_status ASC").
			Scan(&cells).Error
		if err != nil {
			return nil, err
		}
		for _, cell := range cells {
			out = append(out, EntitySummary{
				Entity: table.entity,
				Status: cell.QualityStatus,
				Count:  cell.Count,
			})
		}
	}
	return out, nil
}
