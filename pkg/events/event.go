package events

import "time"

// Event type codes emitted on the bus. Dashboard listeners key off these to
// refresh conversation lists and unread badges.
const (
	TypeConversationCreated       = "CONVERSATION_CREATED"
	TypeConversationStatusChanged = "CONVERSATION_STATUS_CHANGED"
	TypeMessageCreated            = "MESSAGE_CREATED"
	TypeFileIndexed               = "FILE_INDEXED"
	TypeFileDeleted               = "FILE_DELETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "MESSAGE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic Event implementation used by all publishers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewConversationEvent builds an event scoped to one organization. The
// organization id rides in the payload so the notification hub can route it
// to the right dashboard sockets.
func NewConversationEvent(eventType, organizationId, conversationId string, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"organization_id": organizationId,
		"conversation_id": conversationId,
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

// NewFileEvent builds an event for the document index lifecycle.
func NewFileEvent(eventType, organizationId, entryId string, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"organization_id": organizationId,
		"entry_id":        entryId,
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
