package controllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Request DTOs keep HTTP validation structural: a natural key must be
// present, everything else is the quality gate's job so the caller gets
// the full findings list instead of a 400.

type orderLineRequest struct {
	BookKey   string          `json:"book_key" validate:"required"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type bookRequest struct {
	BookKey       string          `json:"book_key" validate:"required,max=50"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Free          bool            `json:"free"`
	ReleasedAt    *time.Time      `json:"released_at"`
	Status        string          `json:"status"`
	AverageRating float64         `json:"average_rating"`
	TotalOrders   int             `json:"total_orders"`
	Authors       []string        `json:"authors"`
	Categories    []string        `json:"categories"`
	ExtractedAt   *time.Time      `json:"extracted_at"`
}

func (r bookRequest) toRecord() records.Book {
	return records.Book{
		Source:        enums.SourceUpload,
		BookKey:       r.BookKey,
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price,
		Free:          r.Free,
		ReleasedAt:    r.ReleasedAt,
		Status:        r.Status,
		AverageRating: r.AverageRating,
		TotalOrders:   r.TotalOrders,
		Authors:       r.Authors,
		Categories:    r.Categories,
		ExtractedAt:   extractedAt(r.ExtractedAt),
	}
}

type customerRequest struct {
	CustomerKey string     `json:"customer_key" validate:"required,max=50"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Status      string     `json:"status"`
	Roles       []string   `json:"roles"`
	ExtractedAt *time.Time `json:"extracted_at"`
}

func (r customerRequest) toRecord() records.Customer {
	return records.Customer{
		Source:      enums.SourceUpload,
		CustomerKey: r.CustomerKey,
		FullName:    r.FullName,
		Email:       r.Email,
		Phone:       r.Phone,
		Status:      r.Status,
		Roles:       r.Roles,
		ExtractedAt: extractedAt(r.ExtractedAt),
	}
}

type orderRequest struct {
	OrderKey      string             `json:"order_key" validate:"required,max=50"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Discount      decimal.Decimal    `json:"discount"`
	ShippingFee   decimal.Decimal    `json:"shipping_fee"`
	Items         []orderLineRequest `json:"items" validate:"dive"`
	CreatedAt     *time.Time         `json:"created_at"`
	ExtractedAt   *time.Time         `json:"extracted_at"`
}

func (r orderRequest) toRecord() records.Order {
	lines := make([]records.OrderLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, records.OrderLine{
			BookKey:   item.BookKey,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return records.Order{
		Source:        enums.SourceUpload,
		OrderKey:      r.OrderKey,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		TotalAmount:   r.TotalAmount,
		Discount:      r.Discount,
		ShippingFee:   r.ShippingFee,
		Items:         lines,
		CreatedAt:     r.CreatedAt,
		ExtractedAt:   extractedAt(r.ExtractedAt),
	}
}

type orderItemRequest struct {
	OrderKey    string          `json:"order_key" validate:"required,max=50"`
	LineNo      int             `json:"line_no" validate:"required"`
	BookKey     string          `json:"book_key" validate:"required"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ExtractedAt *time.Time      `json:"extracted_at"`
}

func (r orderItemRequest) toRecord() records.OrderItem {
	return records.OrderItem{
		Source:      enums.SourceUpload,
		OrderKey:    r.OrderKey,
		LineNo:      r.LineNo,
		BookKey:     r.BookKey,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		ExtractedAt: extractedAt(r.ExtractedAt),
	}
}

type cartRequest struct {
	CartKey     string             `json:"cart_key" validate:"required,max=50"`
	CustomerKey string             `json:"customer_key"`
	Items       []orderLineRequest `json:"items" validate:"dive"`
	CreatedAt   *time.Time         `json:"created_at"`
	ExtractedAt *time.Time         `json:"extracted_at"`
}

func (r cartRequest) toRecord() records.Cart {
	lines := make([]records.OrderLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, records.OrderLine{
			BookKey:   item.BookKey,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return records.Cart{
		Source:      enums.SourceUpload,
		CartKey:     r.CartKey,
		CustomerKey: r.CustomerKey,
		Items:       lines,
		CreatedAt:   r.CreatedAt,
		ExtractedAt: extractedAt(r.ExtractedAt),
	}
}

type invoiceRequest struct {
	InvoiceKey  string          `json:"invoice_key" validate:"required,max=50"`
	OrderKey    string          `json:"order_key"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	CreatedAt   *time.Time      `json:"created_at"`
	ExtractedAt *time.Time      `json:"extracted_at"`
}

func (r invoiceRequest) toRecord() records.Invoice {
	return records.Invoice{
		Source:      enums.SourceUpload,
		InvoiceKey:  r.InvoiceKey,
		OrderKey:    r.OrderKey,
		Amount:      r.Amount,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		ExtractedAt: extractedAt(r.ExtractedAt),
	}
}

func extractedAt(t *time.Time) time.Time {
	if t == nil {
		return time.Now().UTC()
	}
	return *t
}

// gateResponse is the synchronous upload reply: the checkpoint the
// record landed at plus every finding when it was rejected.
type gateResponse struct {
	Key     string                    `json:"key"`
	Status  enums.QualityStatus       `json:"status"`
	Errors  []records.ValidationError `json:"errors,omitempty"`
	Fixable bool                      `json:"fixable"`
}
