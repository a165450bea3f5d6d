package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is a promoted cart header.
type Cart struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalKey string     `gorm:"column:external_key;not null;uniqueIndex:ux_carts_external_key"`
	CustomerID  uuid.UUID  `gorm:"column:customer_id;type:uuid;not null"`
	PlacedAt    *time.Time `gorm:"column:placed_at"`
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
