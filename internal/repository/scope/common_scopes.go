package scope

import "gorm.io/gorm"

// NewestFirst orders a joined query by the given table's creation time, id as tie-breaker.
func NewestFirst(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}

func OldestFirst(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at ASC").Order(table + ".id ASC")
	}
}
