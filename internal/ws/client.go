package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
)

// Client is one connected websocket peer. The transport assigns it an
// opaque connection identity at upgrade time; that identity is the key for
// host/player roles throughout a session's lifetime.
type Client struct {
	ID model.ConnID

	conn   *websocket.Conn
	send   chan []byte
	cfg    Config
	logger *slog.Logger

	closeOnce   sync.Once
	done        chan struct{}
	connectedAt time.Time
}

// NewClient wraps an upgraded websocket connection
func NewClient(id model.ConnID, conn *websocket.Conn, cfg Config, logger *slog.Logger) *Client {
	return &Client{
		ID:          id,
		conn:        conn,
		send:        make(chan []byte, cfg.SendBufferSize),
		cfg:         cfg,
		logger:      logger.With(slog.String("conn", string(id))),
		done:        make(chan struct{}),
		connectedAt: time.Now(),
	}
}

// Enqueue queues a message for delivery. Delivery is fire-and-forget: a
// full buffer drops the message rather than blocking the event pipeline.
func (c *Client) Enqueue(message []byte) {
	select {
	case c.send <- message:
	case <-c.done:
	default:
		c.logger.Warn("message dropped - client buffer full")
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// WritePump drains the send queue onto the wire and keeps the connection
// alive with pings. Runs until Close or a write failure.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("write failed", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// ReadMessage blocks for the next inbound message, refreshing the read
// deadline on every pong
func (c *Client) ReadMessage() ([]byte, error) {
	_, message, err := c.conn.ReadMessage()
	return message, err
}

// configureRead applies size and deadline limits to the inbound side
func (c *Client) configureRead() {
	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})
}

// ConnectedFor reports how long the client has been connected
func (c *Client) ConnectedFor() time.Duration {
	return time.Since(c.connectedAt)
}
