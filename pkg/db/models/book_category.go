package models

import "github.com/google/uuid"

// BookCategory joins books to categories.
type BookCategory struct {
	BookID     uuid.UUID `gorm:"column:book_id;type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey"`
}
