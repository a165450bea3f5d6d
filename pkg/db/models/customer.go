package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Customer is a promoted account. Email doubles as the lookup key orders
// resolve their buyer through.
type Customer struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalKey string               `gorm:"column:external_key;not null;uniqueIndex:ux_customers_external_key"`
	FullName    string               `gorm:"column:full_name;not null"`
	Email       string               `gorm:"column:email;not null;uniqueIndex:ux_customers_email"`
	Phone       string               `gorm:"column:phone"`
	Status      enums.CustomerStatus `gorm:"column:status;type:text;not null"`
	Roles       []Role               `gorm:"many2many:customer_roles"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
