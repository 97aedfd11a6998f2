package service

import "support-chat-be/pkg/events"

// RealtimeNotifier pushes an event to the dashboard sockets of one
// organization. Implemented by the websocket hub; nil-safe wrappers in the
// services treat a missing notifier as a no-op.
type RealtimeNotifier interface {
	Notify(organizationId string, event events.Event)
}
