package models

import "github.com/google/uuid"

// BookAuthor joins books to authors. The composite key keeps repeated
// promotion runs from duplicating links.
type BookAuthor struct {
	BookID   uuid.UUID `gorm:"column:book_id;type:uuid;primaryKey"`
	AuthorID uuid.UUID `gorm:"column:author_id;type:uuid;primaryKey"`
}
