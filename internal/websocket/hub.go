package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"nia-sales-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "session_events"

// Hub groups realtime clients by session id. A chat session can hold several
// connections at once (multi-party); broadcasts reach all of them, and the
// Redis channel fans messages out to other instances.
type Hub struct {
	// SessionID -> connected clients
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
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
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("hub", "client joined session group", map[string]interface{}{
				"session_id": client.SessionID.String(),
				"user_id":    client.UserID.String(),
			})

		case client := <-h.unregister:
			// Send is never closed here: the worker may still be draining
			// queued frames whose handlers write to it.
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast delivers a JSON text frame to every client in the session's
// group, locally and on other instances via Redis. Binary audio never goes
// through here; it is pushed per connection with SendBinary.
func (h *Hub) Broadcast(sessionID uuid.UUID, data []byte) {
	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"session_id": sessionID.String(),
			"message":    json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

// GroupSize reports how many local clients are in a session's group.
func (h *Hub) GroupSize(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionID]...)
	h.mu.RUnlock()

	for _, client := range clients {
		if !client.enqueue(outbound{messageType: websocket.TextMessage, data: data}) {
			h.logger.Warn("hub", "client send buffer full, dropping connection", map[string]interface{}{
				"session_id": sessionID.String(),
				"user_id":    client.UserID.String(),
			})
			client.shutdown()
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			SessionID string          `json:"session_id"`
			Message   json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("hub", "bad cluster payload", map[string]interface{}{"error": err.Error()})
			continue
		}
		sid, err := uuid.Parse(payload.SessionID)
		if err != nil {
			continue
		}
		h.deliverLocal(sid, payload.Message)
	}
}
