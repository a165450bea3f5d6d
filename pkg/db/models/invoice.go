package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Invoice is a promoted billing document tied to an order.
type Invoice struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalKey string              `gorm:"column:external_key;not null;uniqueIndex:ux_invoices_external_key"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status      enums.InvoiceStatus `gorm:"column:status;type:text;not null"`
	IssuedAt    *time.Time          `gorm:"column:issued_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
