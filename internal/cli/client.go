package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizbuzz/quizbuzz-go/internal/ws"
)

// httpGet performs a GET request against the server and decodes the JSON body
func httpGet(baseURL, path string, result any) error {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	resp, err := httpClient.Get(strings.TrimSuffix(baseURL, "/") + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// wsConn is a websocket connection speaking the game's envelope protocol
type wsConn struct {
	conn *websocket.Conn
}

// dialWS connects to the server's websocket endpoint. The serverURL may use
// an http, https, ws or wss scheme.
func dialWS(serverURL string) (*wsConn, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return &wsConn{conn: conn}, nil
}

// Send writes an envelope with the given type and payload
func (c *wsConn) Send(eventType string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = data
	}
	return c.conn.WriteJSON(ws.Envelope{Type: eventType, Payload: raw})
}

// Next blocks until the server sends the next event
func (c *wsConn) Next() (*ws.Envelope, error) {
	var env ws.Envelope
	if err := c.conn.ReadJSON(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Close shuts the connection down
func (c *wsConn) Close() error {
	return c.conn.Close()
}
