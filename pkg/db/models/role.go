package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is resolved by name during promotion and created on first use.
type Role struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:ux_roles_name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
