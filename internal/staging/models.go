package staging

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Book is a staged book row keyed by its natural source key.
type Book struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookKey       string              `gorm:"column:book_key;not null;uniqueIndex:ux_stg_books_key"`
	Title         string              `gorm:"column:title;not null"`
	Description   string              `gorm:"column:description"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	Free          bool                `gorm:"column:free;not null;default:false"`
	ReleasedAt    *time.Time          `gorm:"column:released_at"`
	Status        string              `gorm:"column:status;not null"`
	AverageRating float64             `gorm:"column:average_rating;not null;default:0"`
	TotalOrders   int                 `gorm:"column:total_orders;not null;default:0"`
	Authors       []string            `gorm:"column:authors;type:jsonb;serializer:json"`
	Categories    []string            `gorm:"column:categories;type:jsonb;serializer:json"`
	Source        enums.RecordSource  `gorm:"column:source;type:text;not null"`
	QualityStatus enums.QualityStatus `gorm:"column:quality_status;type:text;not null"`
	QualityErrors *string             `gorm:"column:quality_errors"`
	ExtractedAt   time.Time           `gorm:"column:extracted_at;not null"`
	LoadedAt      time.Time           `gorm:"column:loaded_at;autoUpdateTime"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Book) TableName() string { return "stg_books" }

// Customer is a staged customer row keyed by its natural source key.
type Customer struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerKey   string              `gorm:"column:customer_key;not null;uniqueIndex:ux_stg_customers_key"`
	FullName      string              `gorm:"column:full_name;not null"`
	Email         string              `gorm:"column:email;not null"`
	Phone         string              `gorm:"column:phone"`
	Status        string              `gorm:"column:status;not null"`
	Roles         []string            `gorm:"column:roles;type:jsonb;serializer:json"`
	Source        enums.RecordSource  `gorm:"column:source;type:text;not null"`
	QualityStatus enums.QualityStatus `gorm:"column:quality_status;type:text;not null"`
	QualityErrors *string             `gorm:"column:quality_errors"`
	ExtractedAt   time.Time           `gorm:"column:extracted_at;not null"`
	LoadedAt      time.Time           `gorm:"column:loaded_at;autoUpdateTime"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Customer) TableName() string { return "stg_customers" }

// Order is a staged order row. Its lines are kept inline as a JSON
// document so staging upserts stay a single-row write.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderKey      string              `gorm:"column:order_key;not null;uniqueIndex:ux_stg_orders_key"`
	CustomerName  string              `gorm:"column:customer_name"`
	CustomerEmail string              `gorm:"column:customer_email;not null"`
	Status        string              `gorm:"column:status;not null"`
	PaymentMethod string              `gorm:"column:payment_method;not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Discount      decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	ShippingFee   decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(12,2);not null;default:0"`
	Items         []records.OrderLine `gorm:"column:items;type:jsonb;serializer:json"`
	PlacedAt      *time.Time          `gorm:"column:placed_at"`
	Source        enums.RecordSource  `gorm:"column:source;type:text;not null"`
	QualityStatus enums.QualityStatus `gorm:"column:quality_status;type:text;not null"`
	QualityErrors *string             `gorm:"column:quality_errors"`
	ExtractedAt   time.Time           `gorm:"column:extracted_at;not null"`
	LoadedAt      time.Time           `gorm:"column:loaded_at;autoUpdateTime"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "stg_orders" }

// OrderItem is a staged standalone order line, keyed by order key plus
// line number.
type OrderItem struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderKey      string              `gorm:"column:order_key;not null;uniqueIndex:ux_stg_order_items_key"`
	LineNo        int                 `gorm:"column:line_no;not null;uniqueIndex:ux_stg_order_items_key"`
	BookKey       string              `gorm:"column:book_key;not null"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Source        enums.RecordSource  `gorm:"column:source;type:text;not null"`
	QualityStatus enums.QualityStatus `gorm:"column:quality_status;type:text;not null"`
	QualityErrors *string             `gorm:"column:quality_errors"`
	ExtractedAt   time.Time           `gorm:"column:extracted_at;not null"`
	LoadedAt      time.Time           `gorm:"column:loaded_at;autoUpdateTime"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "stg_order_items" }

// Cart is a staged cart row with its lines inline.
type Cart struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartKey       string              `gorm:"column:cart_key;not null;uniqueIndex:ux_stg_carts_key"`
	CustomerKey   string              `gorm:"column:customer_key;not null"`
	Items         []records.OrderLine `gorm:"column:items;type:jsonb;serializer:json"`
	PlacedAt      *time.Time          `gorm:"column:placed_at"`
	Source        enums.RecordSource  `gorm:"column:source;type:text;not null"`
	QualityStatus enums.QualityStatus `gorm:"column:quality_status;type:text;not null"`
	QualityErrors *string             `gorm:"column:quality_errors"`
	ExtractedAt   time.Time           `gorm:"column:extracted_at;not null"`
	LoadedAt      time.Time           `gorm:"column:loaded_at;autoUpdateTime"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Cart) TableName() string { return "stg_carts" }

// Invoice is a staged invoice row keyed by its natural source key.
type Invoice struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceKey    string              `gorm:"column:invoice_key;not null;uniqueIndex:ux_stg_invoices_key"`
	OrderKey      string              `gorm:"column:order_key;not null"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status        string              `gorm:"column:status;not null"`
	IssuedAt      *time.Time          `gorm:"column:issued_at"`
	Source        enums.RecordSource  `gorm:"column:source;type:text;not null"`
	QualityStatus enums.QualityStatus `gorm:"column:quality_status;type:text;not null"`
	QualityErrors *string             `gorm:"column:quality_errors"`
	ExtractedAt   time.Time           `gorm:"column:extracted_at;not null"`
	LoadedAt      time.Time           `gorm:"column:loaded_at;autoUpdateTime"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Invoice) TableName() string { return "stg_invoices" }

// EntitySummary is one cell of the staging dashboard: how many rows of
// an entity sit at a given checkpoint.
type EntitySummary struct {
	Entity enums.EntityType    `json:"entity"`
	Status enums.QualityStatus `json:"status"`
	Count  int64               `json:"count"`
}
