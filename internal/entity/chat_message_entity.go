package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// ChatMessage is one entry in a thread's append-only log. Messages are never
// updated or deleted; ordering within a thread is (created_at, id).
type ChatMessage struct {
	Id        uuid.UUID
	ThreadId  uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}
