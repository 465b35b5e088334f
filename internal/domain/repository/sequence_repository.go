package repository

import "gorm.io/gorm"

// SequenceRepository allocates the numeric part of formatted identifiers.
type SequenceRepository interface {
	// Next increments and returns the counter for prefix. Call it inside the
	// transaction that inserts the row carrying the new ID.
	Next(db *gorm.DB, prefix string) (int64, error)
}
