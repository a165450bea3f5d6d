package controllers

import (
	"context"
	"net/http"

	"github.com/xdieuxd/BOOKNEST-ETL/api/responses"
	"github.com/xdieuxd/BOOKNEST-ETL/api/validators"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
	pkgerrors "github.com/xdieuxd/BOOKNEST-ETL/pkg/errors"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
)

// Pipeline is the gate surface the upload endpoints drive. Uploads are
// synchronous so the caller sees the findings in the response instead
// of hunting for them on the error topic.
type Pipeline interface {
	ProcessBook(ctx context.Context, b records.Book) (enums.QualityStatus, []records.ValidationError, error)
	ProcessCustomer(ctx context.Context, c records.Customer) (enums.QualityStatus, []records.ValidationError, error)
	ProcessOrder(ctx context.Context, o records.Order) (enums.QualityStatus, []records.ValidationError, error)
	ProcessOrderItem(ctx context.Context, i records.OrderItem) (enums.QualityStatus, []records.ValidationError, error)
	ProcessCart(ctx context.Context, c records.Cart) (enums.QualityStatus, []records.ValidationError, error)
	ProcessInvoice(ctx context.Context, i records.Invoice) (enums.QualityStatus, []records.ValidationError, error)
	ResubmitBook(ctx context.Context, b records.Book) (enums.QualityStatus, []records.ValidationError, error)
	ResubmitCustomer(ctx context.Context, c records.Customer) (enums.QualityStatus, []records.ValidationError, error)
	ResubmitOrder(ctx context.Context, o records.Order) (enums.QualityStatus, []records.ValidationError, error)
	ResubmitOrderItem(ctx context.Context, i records.OrderItem) (enums.QualityStatus, []records.ValidationError, error)
	ResubmitCart(ctx context.Context, c records.Cart) (enums.QualityStatus, []records.ValidationError, error)
	ResubmitInvoice(ctx context.Context, i records.Invoice) (enums.QualityStatus, []records.ValidationError, error)
}

type gateFunc[T any] func(context.Context, T) (enums.QualityStatus, []records.ValidationError, error)

func runGate[D any, T any](logg *logger.Logger, key func(D) string, convert func(D) T, gate gateFunc[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req D
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, findings, err := gate(ctx, convert(req))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record could not be staged"))
			return
		}
		responses.WriteSuccess(w, gateResponse{
			Key:     key(req),
			Status:  status,
			Errors:  findings,
			Fixable: status == enums.QualityStatusRejected,
		})
	}
}

// UploadBook pushes one book through the gate.
func UploadBook(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r bookRequest) string { return r.BookKey },
		bookRequest.toRecord, p.ProcessBook)
}

// UploadCustomer pushes one customer through the gate.
func UploadCustomer(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r customerRequest) string { return r.CustomerKey },
		customerRequest.toRecord, p.ProcessCustomer)
}

// UploadOrder pushes one order through the gate.
func UploadOrder(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r orderRequest) string { return r.OrderKey },
		orderRequest.toRecord, p.ProcessOrder)
}

// UploadOrderItem pushes one standalone line through the gate.
func UploadOrderItem(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r orderItemRequest) string { return r.OrderKey },
		orderItemRequest.toRecord, p.ProcessOrderItem)
}

// UploadCart pushes one cart through the gate.
func UploadCart(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r cartRequest) string { return r.CartKey },
		cartRequest.toRecord, p.ProcessCart)
}

// UploadInvoice pushes one invoice through the gate.
func UploadInvoice(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r invoiceRequest) string { return r.InvoiceKey },
		invoiceRequest.toRecord, p.ProcessInvoice)
}

// ResubmitBook replays a corrected book. On success it lands FIXED.
func ResubmitBook(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r bookRequest) string { return r.BookKey },
		bookRequest.toRecord, p.ResubmitBook)
}

// ResubmitCustomer replays a corrected customer.
func ResubmitCustomer(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r customerRequest) string { return r.CustomerKey },
		customerRequest.toRecord, p.ResubmitCustomer)
}

// ResubmitOrder replays a corrected order.
func ResubmitOrder(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r orderRequest) string { return r.OrderKey },
		orderRequest.toRecord, p.ResubmitOrder)
}

// ResubmitOrderItem replays a corrected standalone order line.
func ResubmitOrderItem(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r orderItemRequest) string { return r.OrderKey },
		orderItemRequest.toRecord, p.ResubmitOrderItem)
}

// ResubmitCart replays a corrected cart.
func ResubmitCart(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r cartRequest) string { return r.CartKey },
		cartRequest.toRecord, p.ResubmitCart)
}

// ResubmitInvoice replays a corrected invoice.
func ResubmitInvoice(p Pipeline, logg *logger.Logger) http.HandlerFunc {
	return runGate(logg,
		func(r invoiceRequest) string { return r.InvoiceKey },
		invoiceRequest.toRecord, p.ResubmitInvoice)
}
