package model

import "time"

// ConnID is the opaque per-connection token assigned by the transport layer.
// It is the join key for players and the authorization key for host actions.
type ConnID string

// Role describes what a connection is within a session
type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

// Player represents a joined contestant in a session
type Player struct {
	Conn        ConnID
	DisplayName string
	Slot        int // 1 or 2, assigned in join order, never reused
	JoinedAt    time.Time
}

// PlayerRecord is the durable mirror row for a player, keyed by session code
// and slot number the way the original persistence schema keyed it
type PlayerRecord struct {
	Code        SessionCode
	Slot        int
	DisplayName string
	Score       int
}

// PlayerScore is one entry in a score snapshot broadcast
type PlayerScore struct {
	Conn        ConnID `json:"playerId"`
	DisplayName string `json:"displayName"`
	Slot        int    `json:"slotNumber"`
	Score       int    `json:"score"`
}
