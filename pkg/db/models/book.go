package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Book is a promoted catalog entry. ExternalKey is the stable source
// identifier staged rows carry, so re-promotion updates in place.
type Book struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalKey   string           `gorm:"column:external_key;not null;uniqueIndex:ux_books_external_key"`
	Title         string           `gorm:"column:title;not null"`
	Description   string           `gorm:"column:description"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	Free          bool             `gorm:"column:free;not null;default:false"`
	ReleasedAt    *time.Time       `gorm:"column:released_at"`
	Status        enums.BookStatus `gorm:"column:status;type:text;not null"`
	AverageRating float64          `gorm:"column:average_rating;not null;default:0"`
	TotalOrders   int              `gorm:"column:total_orders;not null;default:0"`
	Authors       []Author         `gorm:"many2many:book_authors"`
	Categories    []Category       `gorm:"many2many:book_categories"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
