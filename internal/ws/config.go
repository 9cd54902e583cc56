package ws

import (
	"net/http"
	"time"
)

// Config holds websocket connection settings
type Config struct {
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64

	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int

	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns sensible defaults for websocket connections
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		PongTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  64,
		CheckOrigin: func(r *http.Request) bool {
			// The game is code-gated, not origin-gated
			return true
		},
	}
}
