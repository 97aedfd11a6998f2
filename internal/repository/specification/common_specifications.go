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

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Limit caps the result size
type Limit struct {
	Limit int
}

func (s Limit) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit)
}

// CreatedBefore implements keyset pagination for newest-first listings.
// The (created_at, id) pair keeps cursors stable under concurrent inserts:
// new rows sort after the cursor and never shift already-returned pages.
type CreatedBefore struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func (s CreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(created_at, id) < (?, ?)", s.CreatedAt, s.ID)
}

// CreatedAfter is the ascending counterpart of CreatedBefore.
type CreatedAfter struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(created_at, id) > (?, ?)", s.CreatedAt, s.ID)
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
