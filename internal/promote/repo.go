package promote

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a production repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// getOrCreateByName inserts with DO NOTHING and re-selects, so two
// concurrent promoters converge on the same row.
func getOrCreateByName[T any](ctx context.Context, db *gorm.DB, row *T, name string) (*T, error) {
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	var found T
	if err := db.WithContext(ctx).Where("name = ?", name).First(&found).Error; err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *repository) GetOrCreateAuthor(ctx context.Context, name string) (*models.Author, error) {
	return getOrCreateByName(ctx, r.db, &models.Author{ID: uuid.New(), Name: name}, name)
}

func (r *repository) GetOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	return getOrCreateByName(ctx, r.db, &models.Category{ID: uuid.New(), Name: name}, name)
}

func (r *repository) GetOrCreateRole(ctx context.Context, name string) (*models.Role, error) {
	return getOrCreateByName(ctx, r.db, &models.Role{ID: uuid.New(), Name: name}, name)
}

// upsertByColumns writes the row with ON CONFLICT on the natural key,
// updating the payload in place on replays.
func upsertByColumns[T any](ctx context.Context, db *gorm.DB, keyColumns []string, row *T, omit ...string) error {
	columns := make([]clause.Column, len(keyColumns))
	for i, name := range keyColumns {
		columns[i] = clause.Column{Name: name}
	}
	tx := db.WithContext(ctx).Clauses(clause.OnConflict{Columns: columns, UpdateAll: true})
	if len(omit) > 0 {
		tx = tx.Omit(omit...)
	}
	return tx.Create(row).Error
}

func (r *repository) UpsertBook(ctx context.Context, book *models.Book) (*models.Book, error) {
	if err := upsertByColumns(ctx, r.db, []string{"external_key"}, book, "Authors", "Categories"); err != nil {
		return nil, err
	}
	return r.FindBookByExternalKey(ctx, book.ExternalKey)
}

func (r *repository) LinkBookAuthor(ctx context.Context, bookID, authorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.BookAuthor{BookID: bookID, AuthorID: authorID}).Error
}

func (r *repository) LinkBookCategory(ctx context.Context, bookID, categoryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.BookCategory{BookID: bookID, CategoryID: categoryID}).Error
}

func (r *repository) FindBookByExternalKey(ctx context.Context, key string) (*models.Book, error) {
	return findOne[models.Book](ctx, r.db, "external_key = ?", key)
}

func (r *repository) UpsertCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := upsertByColumns(ctx, r.db, []string{"external_key"}, customer, "Roles"); err != nil {
		return nil, err
	}
	return r.FindCustomerByExternalKey(ctx, customer.ExternalKey)
}

func (r *repository) LinkCustomerRole(ctx context.Context, customerID, roleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CustomerRole{CustomerID: customerID, RoleID: roleID}).Error
}

func (r *repository) FindCustomerByExternalKey(ctx context.Context, key string) (*models.Customer, error) {
	return findOne[models.Customer](ctx, r.db, "external_key = ?", key)
}

func (r *repository) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return findOne[models.Customer](ctx, r.db, "email = ?", email)
}

func (r *repository) UpsertOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := upsertByColumns(ctx, r.db, []string{"external_key"}, order, "Items"); err != nil {
		return nil, err
	}
	return r.FindOrderByExternalKey(ctx, order.ExternalKey)
}

func (r *repository) UpsertOrderItem(ctx context.Context, item *models.OrderItem) error {
	return upsertByColumns(ctx, r.db, []string{"order_id", "line_no"}, item)
}

func (r *repository) FindOrderByExternalKey(ctx context.Context, key string) (*models.Order, error) {
	return findOne[models.Order](ctx, r.db, "external_key = ?", key)
}

func (r *repository) UpsertCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := upsertByColumns(ctx, r.db, []string{"external_key"}, cart, "Items"); err != nil {
		return nil, err
	}
	return findOne[models.Cart](ctx, r.db, "external_key = ?", cart.ExternalKey)
}

func (r *repository) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	return upsertByColumns(ctx, r.db, []string{"cart_id", "line_no"}, item)
}

func (r *repository) UpsertInvoice(ctx context.Context, invoice *models.Invoice) error {
	return upsertByColumns(ctx, r.db, []string{"external_key"}, invoice)
}

func findOne[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
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
