package entity

import (
	"time"

	"github.com/google/uuid"
)

// Operator is a dashboard user. Operators authenticate with email/password
// and act on behalf of exactly one organization.
type Operator struct {
	Id             uuid.UUID
	Email          string
	PasswordHash   string
	FullName       string
	OrganizationId string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
