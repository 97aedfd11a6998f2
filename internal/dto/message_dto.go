package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMessageRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Content        string    `json:"content" validate:"required"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	ThreadId  uuid.UUID `json:"thread_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMessageResponse carries the appended message and, for widget calls,
// the assistant reply generated by the support agent.
type CreateMessageResponse struct {
	Message *MessageResponse `json:"message"`
	Reply   *MessageResponse `json:"reply,omitempty"`
}

type EnhanceResponseRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type EnhanceResponseResponse struct {
	Text string `json:"text"`
}
