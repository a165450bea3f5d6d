package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Order is a promoted order header.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalKey   string              `gorm:"column:external_key;not null;uniqueIndex:ux_orders_external_key"`
	CustomerID    uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Discount      decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	ShippingFee   decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(12,2);not null;default:0"`
	PlacedAt      *time.Time          `gorm:"column:placed_at"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
