package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContactSession struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationId string         `gorm:"type:varchar(128);not null;index"`
	Name           string         `gorm:"type:text;not null"`
	Email          string         `gorm:"type:text;not null"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"`
	ExpiresAt      time.Time      `gorm:"not null;index"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (ContactSession) TableName() string {
	return "contact_sessions"
}
