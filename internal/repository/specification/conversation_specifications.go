package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByOrganizationID struct {
	OrganizationID string
}

func (s ByOrganizationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("organization_id = ?", s.OrganizationID)
}

type ByContactSessionID struct {
	ContactSessionID uuid.UUID
}

func (s ByContactSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("contact_session_id = ?", s.ContactSessionID)
}

type ByThreadID struct {
	ThreadID uuid.UUID
}

func (s ByThreadID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("thread_id = ?", s.ThreadID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
