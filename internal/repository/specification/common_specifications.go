package specification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByIDs filters by a list of IDs
type ByIDs struct {
	IDs []uuid.UUID
}

func (s ByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

// OwnedBy scopes a query to one tenant. Table is needed when the query joins.
type OwnedBy struct {
	OwnerID uuid.UUID
	Table   string
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(column(s.Table, "owner_id")+" = ?", s.OwnerID)
}

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(email) = LOWER(?)", s.Email)
}

type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// FilterBy Generic Filter
type FilterBy struct {
	Field string
	Value interface{}
}

func (s FilterBy) Apply(db *gorm.DB) *gorm.DB {
	query := fmt.Sprintf("%s = ?", s.Field)
	return db.Where(query, s.Value)
}

func Filter(field string, value interface{}) Specification {
	return FilterBy{Field: field, Value: value}
}

// CreatedSince keeps rows created at or after Since.
type CreatedSince struct {
	Since time.Time
	Table string
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(column(s.Table, "created_at")+" >= ?", s.Since)
}

func column(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}
