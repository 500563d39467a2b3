package database

import (
	"github.com/mountainthreads/rental-ops/internal/utils"
	"gorm.io/gorm"
)

// Paginate limits a query to one page. A zero limit leaves it unbounded.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ActiveGroups restricts a groups query to archived or active rows.
func ActiveGroups(archived bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("archived = ?", archived)
	}
}
