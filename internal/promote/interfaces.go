package promote

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/db/models"
)

// Repository defines persistence operations against the production
// schema. Reference rows (authors, categories, roles) are resolved by
// name and created on first use; the insert races are settled by the
// store's unique indexes, not by application locks.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetOrCreateAuthor(ctx context.Context, name string) (*models.Author, error)
	GetOrCreateCategory(ctx context.Context, name string) (*models.Category, error)
	GetOrCreateRole(ctx context.Context, name string) (*models.Role, error)

	UpsertBook(ctx context.Context, book *models.Book) (*models.Book, error)
	LinkBookAuthor(ctx context.Context, bookID, authorID uuid.UUID) error
	LinkBookCategory(ctx context.Context, bookID, categoryID uuid.UUID) error
	FindBookByExternalKey(ctx context.Context, key string) (*models.Book, error)

	UpsertCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	LinkCustomerRole(ctx context.Context, customerID, roleID uuid.UUID) error
	FindCustomerByExternalKey(ctx context.Context, key string) (*models.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)

	UpsertOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	UpsertOrderItem(ctx context.Context, item *models.OrderItem) error
	FindOrderByExternalKey(ctx context.Context, key string) (*models.Order, error)

	UpsertCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	UpsertCartItem(ctx context.Context, item *models.CartItem) error

	UpsertInvoice(ctx context.Context, invoice *models.Invoice) error
}
