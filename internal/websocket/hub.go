package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"support-chat-be/internal/pkg/logger"
	"support-chat-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub fans dashboard notifications out to connected operator sockets. Rooms
// are keyed by organization id: every operator of an organization shares one
// room, and an event for that organization reaches all of its open tabs.
type Hub struct {
	// organization id -> connected clients (multi-tab, multi-operator)
	rooms map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// instanceId identifies this process on the cluster channel, so the
	// publisher can recognize and skip its own relayed messages.
	instanceId string

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string][]*Client),
		instanceId: uuid.NewString(),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.rooms[client.OrganizationId] = append(h.rooms[client.OrganizationId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"organization_id": client.OrganizationId})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.OrganizationId]; ok {
				for i, c := range clients {
					if c == client {
						h.rooms[client.OrganizationId] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.rooms[client.OrganizationId]) == 0 {
					delete(h.rooms, client.OrganizationId)
					h.logger.Info("Hub", "Room emptied", map[string]interface{}{"organization_id": client.OrganizationId})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify pushes an event to every socket in the organization's room, then
// relays it over Redis so other instances can reach their local sockets.
func (h *Hub) Notify(organizationId string, event events.Event) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":        event.EventType(),
		"data":        event.Payload(),
		"occurred_at": event.Timestamp(),
	})

	h.sendLocal(organizationId, data)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"origin":                 h.instanceId,
			"target_organization_id": organizationId,
			"message":                json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), clusterChannel, jsonPayload)
	}
}

func (h *Hub) sendLocal(organizationId string, data []byte) {
	// Sends run under RLock and the unregister branch closes under Lock, so
	// a frame can never hit a channel that was just closed.
	h.mu.RLock()
	var stale []*Client
	for _, client := range h.rooms[organizationId] {
		select {
		case client.Send <- data:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	// The unregister branch is the single owner of close(client.Send);
	// queueing the same client more than once is harmless, only the first
	// pass finds it in the room.
	for _, client := range stale {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"organization_id": organizationId})
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to one channel carrying {origin,
	// target_organization_id, data}; each instance delivers to the rooms it
	// holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleClusterMessage([]byte(msg.Payload))
	}
}

// handleClusterMessage delivers a relayed frame to local sockets, unless this
// instance published it: Notify already reached those sockets directly.
func (h *Hub) handleClusterMessage(raw []byte) {
	var payload struct {
		Origin               string          `json:"origin"`
		TargetOrganizationId string          `json:"target_organization_id"`
		Message              json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("Redis msg parse error: %v", err)
		return
	}
	if payload.Origin == h.instanceId {
		return
	}

	h.sendLocal(payload.TargetOrganizationId, payload.Message)
}
