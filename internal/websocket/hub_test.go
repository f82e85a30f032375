package websocket

import (
	"testing"
	"time"

	"nia-sales-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, quietLogger{})
	go hub.Run()
	return hub
}

func joinGroup(t *testing.T, hub *Hub, sessionID uuid.UUID) *Client {
	t.Helper()
	client := NewClient(hub, nil, uuid.New(), sessionID)
	hub.register <- client
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		for _, c := range hub.clients[sessionID] {
			if c == client {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
	return client
}

func receiveText(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		assert.Equal(t, websocket.TextMessage, msg.messageType)
		return msg.data
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestHub_BroadcastReachesWholeGroup(t *testing.T) {
	hub := newRunningHub(t)
	sessionID := uuid.New()

	a := joinGroup(t, hub, sessionID)
	b := joinGroup(t, hub, sessionID)
	other := joinGroup(t, hub, uuid.New())

	payload := dto.ServerEvent{Type: dto.EventChatMessage}.Marshal()
	hub.Broadcast(sessionID, payload)

	assert.Equal(t, payload, receiveText(t, a))
	assert.Equal(t, payload, receiveText(t, b))
	assert.Empty(t, other.Send)
	assert.Equal(t, 2, hub.GroupSize(sessionID))
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := newRunningHub(t)
	sessionID := uuid.New()

	healthy := joinGroup(t, hub, sessionID)
	slow := joinGroup(t, hub, sessionID)
	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- outbound{messageType: websocket.TextMessage, data: []byte("backlog")}
	}

	hub.Broadcast(sessionID, []byte(`{"type":"message"}`))

	require.Eventually(t, func() bool {
		return hub.GroupSize(sessionID) == 1
	}, time.Second, time.Millisecond)
	receiveText(t, healthy)

	select {
	case <-slow.done:
	default:
		t.Fatal("dropped client was not shut down")
	}
}

func TestHub_SendAfterDisconnectDoesNotPanic(t *testing.T) {
	hub := newRunningHub(t)
	sessionID := uuid.New()

	client := joinGroup(t, hub, sessionID)

	// Reader teardown order: unregister, then mark the client closed while
	// the worker may still be draining queued frames.
	hub.unregister <- client
	client.shutdown()

	require.Eventually(t, func() bool {
		return hub.GroupSize(sessionID) == 0
	}, time.Second, time.Millisecond)

	// A frame handler finishing late must be able to write without blowing
	// up the connection teardown.
	assert.NotPanics(t, func() {
		client.SendEvent(dto.ServerEvent{Type: dto.EventError, Error: "late"})
		client.SendBinary([]byte{0x01})
	})
	assert.Empty(t, client.Send)
}

func TestHub_BroadcastToClosedClientRemovesIt(t *testing.T) {
	hub := newRunningHub(t)
	sessionID := uuid.New()

	stale := joinGroup(t, hub, sessionID)
	live := joinGroup(t, hub, sessionID)
	stale.shutdown()

	hub.Broadcast(sessionID, []byte(`{"type":"message"}`))

	require.Eventually(t, func() bool {
		return hub.GroupSize(sessionID) == 1
	}, time.Second, time.Millisecond)
	receiveText(t, live)
}

func TestHub_UnregisterTwiceIsHarmless(t *testing.T) {
	hub := newRunningHub(t)
	sessionID := uuid.New()

	client := joinGroup(t, hub, sessionID)
	hub.unregister <- client
	hub.unregister <- client

	require.Eventually(t, func() bool {
		return hub.GroupSize(sessionID) == 0
	}, time.Second, time.Millisecond)
}
