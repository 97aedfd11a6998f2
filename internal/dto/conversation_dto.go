package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	OrganizationId   string    `json:"organization_id" validate:"required"`
	ContactSessionId uuid.UUID `json:"contact_session_id" validate:"required"`
}

type CreateConversationResponse struct {
	Id uuid.UUID `json:"id"`
}

type ContactSessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationDetailResponse is the operator projection: the full record
// joined with its contact session.
type ConversationDetailResponse struct {
	Id             uuid.UUID               `json:"id"`
	OrganizationId string                  `json:"organization_id"`
	ThreadId       uuid.UUID               `json:"thread_id"`
	Status         string                  `json:"status"`
	CreatedAt      time.Time               `json:"created_at"`
	ContactSession *ContactSessionResponse `json:"contact_session"`
}

// WidgetConversationResponse is the end-user projection. No organization id
// leaks to the widget.
type WidgetConversationResponse struct {
	Id       uuid.UUID `json:"id"`
	Status   string    `json:"status"`
	ThreadId uuid.UUID `json:"thread_id"`
}

type MessagePreview struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationListItem struct {
	Id             uuid.UUID               `json:"id"`
	OrganizationId string                  `json:"organization_id,omitempty"`
	ThreadId       uuid.UUID               `json:"thread_id"`
	Status         string                  `json:"status"`
	CreatedAt      time.Time               `json:"created_at"`
	ContactSession *ContactSessionResponse `json:"contact_session,omitempty"`
	LastMessage    *MessagePreview         `json:"last_message,omitempty"`
}

type ListConversationsRequest struct {
	Cursor   string
	PageSize int
	Status   string // optional filter, operator listings only
}

type UpdateConversationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unresolved escalated resolved"`
}

type ToggleConversationStatusResponse struct {
	Status string `json:"status"`
}
