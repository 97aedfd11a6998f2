package model

import (
	"time"

	"github.com/google/uuid"
)

type Operator struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email          string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash   string    `gorm:"type:text;not null"`
	FullName       string    `gorm:"type:text;not null"`
	OrganizationId string    `gorm:"type:varchar(128);not null;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Operator) TableName() string {
	return "operators"
}
