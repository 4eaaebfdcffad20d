package database

import (
	"gorm.io/gorm"
)

// Paginate applies pagination to a GORM query. Page and size must both be
// positive; otherwise the query is returned unchanged.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
