// Package notifications provides real-time chat delivery over websockets.
package notifications

import (
	"log"
	"time"

	"waypoint/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10 // must stay under pongWait
	maxMessageSize  = 16384
	maxConnsPerUser = 12
	sendBufferSize  = 256
)

// clientOwner is the hub side of a Client's lifecycle.
type clientOwner interface {
	UnregisterClient(c *Client)
	Name() string
}

// Client owns one websocket connection. The hub never writes to the socket
// directly; everything goes through the buffered Send channel so one slow
// reader cannot stall a broadcast.
type Client struct {
	Hub    clientOwner
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint

	// IncomingHandler receives every frame the peer sends. Set before
	// ReadPump starts.
	IncomingHandler func(*Client, []byte)
}

// NewClient wraps an upgraded connection for the given user.
func NewClient(hub clientOwner, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
}

// ReadPump reads frames until the peer goes away, feeding each one to
// IncomingHandler. It unregisters the client on exit, which closes Send and
// ends WritePump.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read failed for user %d: %v", c.UserID, err)
			}
			return
		}
		if c.IncomingHandler != nil {
			c.IncomingHandler(c, frame)
		}
	}
}

// WritePump drains Send onto the socket and keeps the connection alive with
// pings. Returns when Send closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a frame without blocking. When the buffer is full the frame
// is dropped, counted, and a gap notice is queued best-effort so the client
// knows to re-fetch history. Safe to call on a closing client.
func (c *Client) TrySend(frame []byte) {
	defer func() {
		if recover() != nil {
			observability.WebSocketBackpressureDrops.WithLabelValues(c.Hub.Name(), "closed").Inc()
		}
	}()

	select {
	case c.Send <- frame:
		return
	default:
	}

	observability.WebSocketBackpressureDrops.WithLabelValues(c.Hub.Name(), "full").Inc()
	log.Printf("send buffer full for user %d on %s, dropping frame", c.UserID, c.Hub.Name())

	notice := []byte(`{"type":"messages_dropped","payload":{"reason":"buffer_full"}}`)
	select {
	case c.Send <- notice:
	default:
	}
}
