package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationStatus string

const (
	ConversationStatusUnresolved ConversationStatus = "unresolved"
	ConversationStatusEscalated  ConversationStatus = "escalated"
	ConversationStatusResolved   ConversationStatus = "resolved"
)

// Valid reports whether s is one of the three known statuses.
func (s ConversationStatus) Valid() bool {
	switch s {
	case ConversationStatusUnresolved, ConversationStatusEscalated, ConversationStatusResolved:
		return true
	}
	return false
}

// Next returns the successor in the operator toggle cycle:
// unresolved -> escalated -> resolved -> unresolved.
func (s ConversationStatus) Next() ConversationStatus {
	switch s {
	case ConversationStatusUnresolved:
		return ConversationStatusEscalated
	case ConversationStatusEscalated:
		return ConversationStatusResolved
	default:
		return ConversationStatusUnresolved
	}
}

// Conversation is one support dialogue. OrganizationId and ContactSessionId
// are immutable after creation; only Status is ever patched.
type Conversation struct {
	Id               uuid.UUID
	OrganizationId   string
	ContactSessionId uuid.UUID
	ThreadId         uuid.UUID
	Status           ConversationStatus
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
