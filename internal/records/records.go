package records

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Book is the raw catalog record as delivered by a source, prior to the
// quality gate. BookKey is the stable source identifier and doubles as the
// staging natural key.
type Book struct {
	Source        enums.RecordSource `json:"source"`
	BookKey       string             `json:"book_key"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Price         decimal.Decimal    `json:"price"`
	Free          bool               `json:"free"`
	ReleasedAt    *time.Time         `json:"released_at,omitempty"`
	Status        string             `json:"status"`
	AverageRating float64            `json:"average_rating"`
	TotalOrders   int                `json:"total_orders"`
	Authors       []string           `json:"authors"`
	Categories    []string           `json:"categories"`
	ExtractedAt   time.Time          `json:"extracted_at"`
}

// Key returns the natural key.
func (b Book) Key() string { return b.BookKey }

// Customer is the raw account record. CustomerKey is the staging natural key;
// the production store resolves customers by email.
type Customer struct {
	Source      enums.RecordSource `json:"source"`
	CustomerKey string             `json:"customer_key"`
	FullName    string             `json:"full_name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Status      string             `json:"status"`
	Roles       []string           `json:"roles"`
	ExtractedAt time.Time          `json:"extracted_at"`
}

// Key returns the natural key.
func (c Customer) Key() string { return c.CustomerKey }

// OrderLine is one line of an order or cart. Repeated lines for the same book
// are allowed and kept distinct.
type OrderLine struct {
	BookKey   string          `json:"book_key"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order is the raw sales order record with its owned line items.
type Order struct {
	Source        enums.RecordSource `json:"source"`
	OrderKey      string             `json:"order_key"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Discount      decimal.Decimal    `json:"discount"`
	ShippingFee   decimal.Decimal    `json:"shipping_fee"`
	Items         []OrderLine        `json:"items"`
	CreatedAt     *time.Time         `json:"created_at,omitempty"`
	ExtractedAt   time.Time          `json:"extracted_at"`
}

// Key returns the natural key.
func (o Order) Key() string { return o.OrderKey }

// OrderItem is the standalone line-item feed variant, keyed by its parent
// order plus line number.
type OrderItem struct {
	Source      enums.RecordSource `json:"source"`
	OrderKey    string             `json:"order_key"`
	LineNo      int                `json:"line_no"`
	BookKey     string             `json:"book_key"`
	Quantity    int                `json:"quantity"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
	ExtractedAt time.Time          `json:"extracted_at"`
}

// Cart is the raw shopping cart record with its owned line items.
type Cart struct {
	Source      enums.RecordSource `json:"source"`
	CartKey     string             `json:"cart_key"`
	CustomerKey string             `json:"customer_key"`
	Items       []OrderLine        `json:"items"`
	CreatedAt   *time.Time         `json:"created_at,omitempty"`
	ExtractedAt time.Time          `json:"extracted_at"`
}

// Key returns the natural key.
func (c Cart) Key() string { return c.CartKey }

// Invoice is the raw billing record tied to an order.
type Invoice struct {
	Source      enums.RecordSource `json:"source"`
	InvoiceKey  string             `json:"invoice_key"`
	OrderKey    string             `json:"order_key"`
	Amount      decimal.Decimal    `json:"amount"`
	Status      string             `json:"status"`
	CreatedAt   *time.Time         `json:"created_at,omitempty"`
	ExtractedAt time.Time          `json:"extracted_at"`
}

// Key returns the natural key.
func (i Invoice) Key() string { return i.InvoiceKey }
