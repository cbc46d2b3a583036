package specification

import "gorm.io/gorm"

// Specification defines the interface for query specifications
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Apply folds specs onto a query in order.
func Apply(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
