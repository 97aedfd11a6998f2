package service

import (
	"context"
	"strings"

	"support-chat-be/internal/pkg/logger"
	"support-chat-be/pkg/events"
	pktNats "support-chat-be/pkg/nats"
)

// NotificationService bridges the event bus to dashboard sockets. It holds a
// durable NATS consumer, so exactly one instance receives each event; the
// hub's Redis fan-out then reaches sockets held by other instances.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   RealtimeNotifier
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery RealtimeNotifier, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "dashboard-notifier", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	s.logger.Debug("NotificationService", "Processing event", map[string]interface{}{"type": typeCode})

	orgId, _ := event.Payload()["organization_id"].(string)
	if orgId == "" {
		// Nothing to route without a tenant. Drop rather than retry.
		s.logger.Warn("NotificationService", "Event without organization_id", map[string]interface{}{"type": typeCode})
		return nil
	}

	if s.delivery != nil {
		s.delivery.Notify(orgId, events.BaseEvent{
			Type:       typeCode,
			Data:       event.Payload(),
			OccurredAt: event.Timestamp(),
		})
	}
	return nil
}
