package repository

import (
	"errors"

	"hospital-management/internal/domain/entity"

	"gorm.io/gorm"
)

// paginate applies LIMIT/OFFSET for a normalized page.
func paginate(db *gorm.DB, page entity.Pagination) *gorm.DB {
	p := page.Normalize()
	return db.Offset(p.Offset()).Limit(p.Limit)
}

// likePattern wraps a search term for a case-insensitive LIKE match.
func likePattern(term string) string {
	return "%" + term + "%"
}

// first loads one row into dest, mapping "not found" to (false, nil).
func first(db *gorm.DB, dest interface{}) (bool, error) {
	err := db.First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
