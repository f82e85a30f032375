package websocket

import (
	"sync"
	"time"

	"nia-sales-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Audio frames can be large; control frames never are.
	maxMessageSize = 1 << 20

	// inboundQueueSize bounds the per-connection frame queue. The reader
	// blocks when it fills, which backpressures the peer instead of fanning
	// out unbounded work.
	inboundQueueSize = 32
)

// Close codes for handshake rejection. Auth failures and unknown sessions
// are distinguishable by the client.
const (
	CloseUnauthorized    = 4401
	CloseSessionNotFound = 4404
)

type outbound struct {
	messageType int
	data        []byte
}

type inboundFrame struct {
	messageType int
	data        []byte
}

// Client is one realtime connection bound to a session group. Inbound frames
// for a connection are processed by a single worker in arrival order;
// different connections never wait on each other.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn

	UserID    uuid.UUID
	SessionID uuid.UUID

	// Send is never closed. The connection tears down through the done
	// channel instead, so queued frame handlers can still call SendEvent
	// after the reader has gone without panicking; those sends are dropped.
	Send chan outbound

	// OnFrame handles one inbound frame. Called from the connection's worker
	// goroutine, strictly in arrival order.
	OnFrame func(c *Client, messageType int, data []byte)

	// OnClose runs once when the connection goes away.
	OnClose func(c *Client)

	inbound chan inboundFrame

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, sessionID uuid.UUID) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		UserID:    userID,
		SessionID: sessionID,
		Send:      make(chan outbound, 256),
		inbound:   make(chan inboundFrame, inboundQueueSize),
		done:      make(chan struct{}),
	}
}

// shutdown marks the client dead and wakes the write pump. Idempotent.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

// enqueue queues one outbound message. Returns false when the client is
// closed or its buffer is full.
func (c *Client) enqueue(msg outbound) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// Serve registers with the hub and runs the pumps. Blocks until the
// connection closes.
func (c *Client) Serve() {
	c.Hub.register <- c
	go c.writePump()
	go c.workerPump()
	c.readPump()
}

// SendEvent queues a JSON event for this connection only.
func (c *Client) SendEvent(event dto.ServerEvent) {
	c.enqueue(outbound{websocket.TextMessage, event.Marshal()})
}

// SendBinary queues raw bytes (synthesized audio) for this connection only.
func (c *Client) SendBinary(data []byte) {
	c.enqueue(outbound{websocket.BinaryMessage, data})
}

// BroadcastEvent delivers a JSON event to every connection in the session
// group, this one included.
func (c *Client) BroadcastEvent(event dto.ServerEvent) {
	c.Hub.Broadcast(c.SessionID, event.Marshal())
}

// CloseWith sends a close frame with a specific code, then drops the
// connection.
func (c *Client) CloseWith(code int, reason string) {
	Reject(c.Conn, code, reason)
}

// Reject closes a connection with a specific close code before it ever joins
// the hub.
func Reject(conn *websocket.Conn, code int, reason string) {
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeWait),
	)
	conn.Close()
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.shutdown()
		close(c.inbound)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		c.inbound <- inboundFrame{messageType: messageType, data: data}
	}
}

// workerPump is the connection's single worker: frames are handled one at a
// time, in the order they arrived.
func (c *Client) workerPump() {
	for frame := range c.inbound {
		if c.OnFrame != nil {
			c.OnFrame(c, frame.messageType, frame.data)
		}
	}
	if c.OnClose != nil {
		c.OnClose(c)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(message.messageType, message.data); err != nil {
				return
			}
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
