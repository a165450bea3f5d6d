package promote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/staging"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/transform"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/db/models"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
	pkgerrors "github.com/xdieuxd/BOOKNEST-ETL/pkg/errors"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
)

// Result reports one promotion run for one entity.
type Result struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// Service moves validated staged rows into the production schema in
// dependency order. Rows whose references cannot be resolved yet are
// skipped and picked up by a later run; a bad row never aborts the
// batch. Loaded rows write the transformed payload back to their
// staging row, so staging always shows what production received.
type Service interface {
	Promote(ctx context.Context, entity enums.EntityType) (Result, error)
	PromoteAll(ctx context.Context) (map[enums.EntityType]Result, error)
}

type service struct {
	repo   Repository
	staged staging.Store
	tr     *transform.Transformer
	log    *logger.Logger
}

// NewService builds a promotion service with the required dependencies.
func NewService(repo Repository, staged staging.Store, tr *transform.Transformer, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	if staged == nil {
		return nil, fmt.Errorf("staging store required")
	}
	if tr == nil {
		tr = transform.New()
	}
	return &service{repo: repo, staged: staged, tr: tr, log: log}, nil
}

// promotable lists the checkpoints a row may be loaded from. FIXED rows
// are corrected resubmissions that already passed revalidation.
var promotable = []enums.QualityStatus{enums.QualityStatusValidated, enums.QualityStatusFixed}

func (s *service) PromoteAll(ctx context.Context) (map[enums.EntityType]Result, error) {
	results := make(map[enums.EntityType]Result, len(enums.PromotionOrder))
	var errs error
	for _, entity := range enums.PromotionOrder {
		result, err := s.Promote(ctx, entity)
		results[entity] = result
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("promote %s: %w", entity, err))
		}
	}
	return results, errs
}

func (s *service) Promote(ctx context.Context, entity enums.EntityType) (Result, error) {
	if s.log != nil {
		ctx = s.log.WithEntity(ctx, entity.String())
	}
	switch entity {
	case enums.EntityCustomer:
		return s.promoteCustomers(ctx)
	case enums.EntityBook:
		return s.promoteBooks(ctx)
	case enums.EntityOrder:
		return s.promoteOrders(ctx)
	case enums.EntityOrderItem:
		return s.promoteOrderItems(ctx)
	case enums.EntityCart:
		return s.promoteCarts(ctx)
	case enums.EntityInvoice:
		return s.promoteInvoices(ctx)
	default:
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown entity type %q", entity))
	}
}

func (s *service) promoteCustomers(ctx context.Context) (Result, error) {
	var result Result
	var errs error
	for _, status := range promotable {
		rows, err := s.staged.ListCustomers(ctx, status)
		if err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staged customers")
		}
		for _, row := range rows {
			rec := s.tr.Customer(records.Customer{
				CustomerKey: row.CustomerKey,
				FullName:    row.FullName,
				Email:       row.Email,
				Phone:       row.Phone,
				Status:      row.Status,
				Roles:       row.Roles,
			})
			customerStatus, err := enums.ParseCustomerStatus(rec.Status)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("customer %s: %w", row.CustomerKey, err))
				result.Skipped++
				continue
			}
			customer, err := s.repo.UpsertCustomer(ctx, &models.Customer{
				ID:          uuid.New(),
				ExternalKey: rec.CustomerKey,
				FullName:    rec.FullName,
				Email:       rec.Email,
				Phone:       rec.Phone,
				Status:      customerStatus,
			})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("customer %s: %w", row.CustomerKey, err))
				result.Skipped++
				continue
			}
			if err := s.linkRoles(ctx, customer.ID, rec.Roles); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("customer %s roles: %w", row.CustomerKey, err))
			}
			row.FullName = rec.FullName
			row.Email = rec.Email
			row.Phone = rec.Phone
			row.Status = rec.Status
			row.Roles = rec.Roles
			if err := s.staged.UpsertCustomers(ctx, []staging.Customer{row}); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("customer %s restage: %w", row.CustomerKey, err))
			}
			result.Loaded++
		}
	}
	s.logResult(ctx, result)
	return result, errs
}

func (s *service) linkRoles(ctx context.Context, customerID uuid.UUID, roles []string) error {
	var errs error
	for _, name := range roles {
		role, err := s.repo.GetOrCreateRole(ctx, name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := s.repo.LinkCustomerRole(ctx, customerID, role.ID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (s *service) promoteBooks(ctx context.Context) (Result, error) {
	var result Result
	var errs error
	for _, status := range promotable {
		rows, err := s.staged.ListBooks(ctx, status)
		if err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staged books")
		}
		for _, row := range rows {
			rec := s.tr.Book(records.Book{
				BookKey:       row.BookKey,
				Title:         row.Title,
				Description:   row.Description,
				Price:         row.Price,
				Free:          row.Free,
				ReleasedAt:    row.ReleasedAt,
				Status:        row.Status,
				AverageRating: row.AverageRating,
				TotalOrders:   row.TotalOrders,
				Authors:       row.Authors,
				Categories:    row.Categories,
			})
			bookStatus, err := enums.ParseBookStatus(rec.Status)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("book %s: %w", row.BookKey, err))
				result.Skipped++
				continue
			}
			book, err := s.repo.UpsertBook(ctx, &models.Book{
				ID:            uuid.New(),
				ExternalKey:   rec.BookKey,
				Title:         rec.Title,
				Description:   rec.Description,
				Price:         rec.Price,
				Free:          rec.Free,
				ReleasedAt:    rec.ReleasedAt,
				Status:        bookStatus,
				AverageRating: rec.AverageRating,
				TotalOrders:   rec.TotalOrders,
			})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("book %s: %w", row.BookKey, err))
				result.Skipped++
				continue
			}
			if err := s.linkBookRefs(ctx, book.ID, rec.Authors, rec.Categories); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("book %s refs: %w", row.BookKey, err))
			}
			row.Title = rec.Title
			row.Description = rec.Description
			row.Status = rec.Status
			row.Authors = rec.Authors
			row.Categories = rec.Categories
			if err := s.staged.UpsertBooks(ctx, []staging.Book{row}); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("book %s restage: %w", row.BookKey, err))
			}
			result.Loaded++
		}
	}
	s.logResult(ctx, result)
	return result, errs
}

func (s *service) linkBookRefs(ctx context.Context, bookID uuid.UUID, authors, categories []string) error {
	var errs error
	for _, name := range authors {
		author, err := s.repo.GetOrCreateAuthor(ctx, name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := s.repo.LinkBookAuthor(ctx, bookID, author.ID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	for _, name := range categories {
		category, err := s.repo.GetOrCreateCategory(ctx, name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := s.repo.LinkBookCategory(ctx, bookID, category.ID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (s *service) promoteOrders(ctx context.Context) (Result, error) {
	var result Result
	var errs error
	for _, status := range promotable {
		rows, err := s.staged.ListOrders(ctx, status)
		if err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staged orders")
		}
		for _, row := range rows {
			rec := s.tr.Order(records.Order{
				OrderKey:      row.OrderKey,
				CustomerName:  row.CustomerName,
				CustomerEmail: row.CustomerEmail,
				Status:        row.Status,
				PaymentMethod: row.PaymentMethod,
				TotalAmount:   row.TotalAmount,
				Discount:      row.Discount,
				ShippingFee:   row.ShippingFee,
				Items:         row.Items,
				CreatedAt:     row.PlacedAt,
			})
			customer, err := s.repo.FindCustomerByEmail(ctx, rec.CustomerEmail)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order %s: %w", row.OrderKey, err))
				result.Skipped++
				continue
			}
			if customer == nil {
				s.warnSkip(ctx, row.OrderKey, "customer not promoted yet")
				result.Skipped++
				continue
			}
			orderStatus, err := enums.ParseOrderStatus(rec.Status)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order %s: %w", row.OrderKey, err))
				result.Skipped++
				continue
			}
			method, err := enums.ParsePaymentMethod(rec.PaymentMethod)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order %s: %w", row.OrderKey, err))
				result.Skipped++
				continue
			}
			order, err := s.repo.UpsertOrder(ctx, &models.Order{
				ID:            uuid.New(),
				ExternalKey:   rec.OrderKey,
				CustomerID:    customer.ID,
				Status:        orderStatus,
				PaymentMethod: method,
				TotalAmount:   rec.TotalAmount,
				Discount:      rec.Discount,
				ShippingFee:   rec.ShippingFee,
				PlacedAt:      rec.CreatedAt,
			})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order %s: %w", row.OrderKey, err))
				result.Skipped++
				continue
			}
			for i, line := range rec.Items {
				book, err := s.repo.FindBookByExternalKey(ctx, line.BookKey)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("order %s line %d: %w", row.OrderKey, i+1, err))
					continue
				}
				if book == nil {
					s.warnSkip(ctx, row.OrderKey, fmt.Sprintf("line %d references unknown book %s", i+1, line.BookKey))
					continue
				}
				err = s.repo.UpsertOrderItem(ctx, &models.OrderItem{
					ID:        uuid.New(),
					OrderID:   order.ID,
					LineNo:    i + 1,
					BookID:    book.ID,
					Quantity:  line.Quantity,
					UnitPrice: line.UnitPrice,
				})
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("order %s line %d: %w", row.OrderKey, i+1, err))
				}
			}
			row.CustomerName = rec.CustomerName
			row.CustomerEmail = rec.CustomerEmail
			row.Status = rec.Status
			row.TotalAmount = rec.TotalAmount
			row.Items = rec.Items
			if err := s.staged.UpsertOrders(ctx, []staging.Order{row}); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order %s restage: %w", row.OrderKey, err))
			}
			result.Loaded++
		}
	}
	s.logResult(ctx, result)
	return result, errs
}

func (s *service) promoteOrderItems(ctx context.Context) (Result, error) {
	var result Result
	var errs error
	for _, status := range promotable {
		rows, err := s.staged.ListOrderItems(ctx, status)
		if err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staged order items")
		}
		for _, row := range rows {
			rec := s.tr.OrderItem(records.OrderItem{
				OrderKey:  row.OrderKey,
				LineNo:    row.LineNo,
				BookKey:   row.BookKey,
				Quantity:  row.Quantity,
				UnitPrice: row.UnitPrice,
			})
			order, err := s.repo.FindOrderByExternalKey(ctx, rec.OrderKey)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order item %s/%d: %w", row.OrderKey, row.LineNo, err))
				result.Skipped++
				continue
			}
			if order == nil {
				s.warnSkip(ctx, rec.OrderKey, "order not promoted yet")
				result.Skipped++
				continue
			}
			book, err := s.repo.FindBookByExternalKey(ctx, rec.BookKey)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order item %s/%d: %w", row.OrderKey, row.LineNo, err))
				result.Skipped++
				continue
			}
			if book == nil {
				s.warnSkip(ctx, rec.OrderKey, fmt.Sprintf("line %d references unknown book %s", rec.LineNo, rec.BookKey))
				result.Skipped++
				continue
			}
			err = s.repo.UpsertOrderItem(ctx, &models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				LineNo:    rec.LineNo,
				BookID:    book.ID,
				Quantity:  rec.Quantity,
				UnitPrice: rec.UnitPrice,
			})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order item %s/%d: %w", row.OrderKey, row.LineNo, err))
				result.Skipped++
				continue
			}
			row.BookKey = rec.BookKey
			if err := s.staged.UpsertOrderItems(ctx, []staging.OrderItem{row}); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("order item %s/%d restage: %w", row.OrderKey, row.LineNo, err))
			}
			result.Loaded++
		}
	}
	s.logResult(ctx, result)
	return result, errs
}

func (s *service) promoteCarts(ctx context.Context) (Result, error) {
	var result Result
	var errs error
	for _, status := range promotable {
		rows, err := s.staged.ListCarts(ctx, status)
		if err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staged carts")
		}
		for _, row := range rows {
			rec := s.tr.Cart(records.Cart{
				CartKey:     row.CartKey,
				CustomerKey: row.CustomerKey,
				Items:       row.Items,
				CreatedAt:   row.PlacedAt,
			})
			customer, err := s.repo.FindCustomerByExternalKey(ctx, rec.CustomerKey)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("cart %s: %w", row.CartKey, err))
				result.Skipped++
				continue
			}
			if customer == nil {
				s.warnSkip(ctx, row.CartKey, "customer not promoted yet")
				result.Skipped++
				continue
			}
			cart, err := s.repo.UpsertCart(ctx, &models.Cart{
				ID:          uuid.New(),
				ExternalKey: rec.CartKey,
				CustomerID:  customer.ID,
				PlacedAt:    rec.CreatedAt,
			})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("cart %s: %w", row.CartKey, err))
				result.Skipped++
				continue
			}
			for i, line := range rec.Items {
				book, err := s.repo.FindBookByExternalKey(ctx, line.BookKey)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("cart %s line %d: %w", row.CartKey, i+1, err))
					continue
				}
				if book == nil {
					s.warnSkip(ctx, row.CartKey, fmt.Sprintf("line %d references unknown book %s", i+1, line.BookKey))
					continue
				}
				err = s.repo.UpsertCartItem(ctx, &models.CartItem{
					ID:        uuid.New(),
					CartID:    cart.ID,
					LineNo:    i + 1,
					BookID:    book.ID,
					Quantity:  line.Quantity,
					UnitPrice: line.UnitPrice,
				})
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("cart %s line %d: %w", row.CartKey, i+1, err))
				}
			}
			row.CustomerKey = rec.CustomerKey
			row.Items = rec.Items
			if err := s.staged.UpsertCarts(ctx, []staging.Cart{row}); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("cart %s restage: %w", row.CartKey, err))
			}
			result.Loaded++
		}
	}
	s.logResult(ctx, result)
	return result, errs
}

func (s *service) promoteInvoices(ctx context.Context) (Result, error) {
	var result Result
	var errs error
	for _, status := range promotable {
		rows, err := s.staged.ListInvoices(ctx, status)
		if err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staged invoices")
		}
		for _, row := range rows {
			rec := s.tr.Invoice(records.Invoice{
				InvoiceKey: row.InvoiceKey,
				OrderKey:   row.OrderKey,
				Amount:     row.Amount,
				Status:     row.Status,
				CreatedAt:  row.IssuedAt,
			})
			order, err := s.repo.FindOrderByExternalKey(ctx, rec.OrderKey)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("invoice %s: %w", row.InvoiceKey, err))
				result.Skipped++
				continue
			}
			if order == nil {
				s.warnSkip(ctx, row.InvoiceKey, "order not promoted yet")
				result.Skipped++
				continue
			}
			invoiceStatus, err := enums.ParseInvoiceStatus(rec.Status)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("invoice %s: %w", row.InvoiceKey, err))
				result.Skipped++
				continue
			}
			err = s.repo.UpsertInvoice(ctx, &models.Invoice{
				ID:          uuid.New(),
				ExternalKey: rec.InvoiceKey,
				OrderID:     order.ID,
				Amount:      rec.Amount,
				Status:      invoiceStatus,
				IssuedAt:    rec.CreatedAt,
			})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("invoice %s: %w", row.InvoiceKey, err))
				result.Skipped++
				continue
			}
			row.OrderKey = rec.OrderKey
			row.Status = rec.Status
			if err := s.staged.UpsertInvoices(ctx, []staging.Invoice{row}); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("invoice %s restage: %w", row.InvoiceKey, err))
			}
			result.Loaded++
		}
	}
	s.logResult(ctx, result)
	return result, errs
}

func (s *service) warnSkip(ctx context.Context, key, reason string) {
	if s.log == nil {
		return
	}
	s.log.Warn(s.log.WithRecordKey(ctx, key), "skipping record: "+reason)
}

func (s *service) logResult(ctx context.Context, result Result) {
	if s.log == nil {
		return
	}
	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"loaded":  result.Loaded,
		"skipped": result.Skipped,
	}), "promotion pass complete")
}
