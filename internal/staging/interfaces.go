package staging

import (
	"context"

	"gorm.io/gorm"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Store persists staged rows. Upserts are keyed by each entity's natural
// source key, so replaying an extract is a no-op apart from refreshed
// load timestamps and last-write-wins payloads.
type Store interface {
	WithTx(tx *gorm.DB) Store

	UpsertBooks(ctx context.Context, rows []Book) error
	UpsertCustomers(ctx context.Context, rows []Customer) error
	UpsertOrders(ctx context.Context, rows []Order) error
	UpsertOrderItems(ctx context.Context, rows []OrderItem) error
	UpsertCarts(ctx context.Context, rows []Cart) error
	UpsertInvoices(ctx context.Context, rows []Invoice) error

	ListBooks(ctx context.Context, status enums.QualityStatus) ([]Book, error)
	ListCustomers(ctx context.Context, status enums.QualityStatus) ([]Customer, error)
	ListOrders(ctx context.Context, status enums.QualityStatus) ([]Order, error)
	ListOrderItems(ctx context.Context, status enums.QualityStatus) ([]OrderItem, error)
	ListCarts(ctx context.Context, status enums.QualityStatus) ([]Cart, error)
	ListInvoices(ctx context.Context, status enums.QualityStatus) ([]Invoice, error)

	FindBook(ctx context.Context, key string) (*Book, error)
	FindCustomer(ctx context.Context, key string) (*Customer, error)
	FindOrder(ctx context.Context, key string) (*Order, error)
	FindOrderItem(ctx context.Context, orderKey string, lineNo int) (*OrderItem, error)
	FindCart(ctx context.Context, key string) (*Cart, error)
	FindInvoice(ctx context.Context, key string) (*Invoice, error)

	Summary(ctx context.Context) ([]EntitySummary, error)
}
