package models

import "github.com/google/uuid"

// CustomerRole joins customers to roles.
type CustomerRole struct {
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;primaryKey"`
	RoleID     uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey"`
}
