package model

// EventType identifies an outbound event sent to clients
type EventType string

const (
	// Direct replies
	EventSessionCreated EventType = "sessionCreated"
	EventJoinedSession  EventType = "joinedSession"

	// Host-only notices
	EventPlayerJoined EventType = "playerJoined"
	EventPlayerLeft   EventType = "playerLeft"

	// All-participant broadcasts
	EventQuestion     EventType = "questionBroadcast"
	EventBuzzerOpened EventType = "buzzerOpened"
	EventPlayerBuzzed EventType = "playerBuzzed"
	EventAnswerResult EventType = "answerResult"
	EventBuzzerReset  EventType = "buzzerReset"
	EventHostLeft     EventType = "hostLeft"
	EventGameOver     EventType = "gameOver"
)

// SessionCreatedPayload is returned to the host after createSession
type SessionCreatedPayload struct {
	Code SessionCode `json:"code"`
}

// JoinedSessionPayload is returned directly to the joining connection
type JoinedSessionPayload struct {
	PlayerID    ConnID `json:"playerId"`
	DisplayName string `json:"displayName"`
	Slot        int    `json:"slotNumber"`
}

// PlayerJoinedPayload is sent to the host when a player joins
type PlayerJoinedPayload struct {
	PlayerID    ConnID `json:"playerId"`
	DisplayName string `json:"displayName"`
	Slot        int    `json:"slotNumber"`
}

// PlayerBuzzedPayload names the buzz winner
type PlayerBuzzedPayload struct {
	PlayerID    ConnID `json:"playerId"`
	DisplayName string `json:"displayName"`
}

// AnswerResultPayload carries the correctness result and full score snapshot
type AnswerResultPayload struct {
	PlayerID    ConnID        `json:"playerId"`
	DisplayName string        `json:"displayName"`
	IsCorrect   bool          `json:"isCorrect"`
	Scores      []PlayerScore `json:"scoreSnapshot"`
}

// PlayerLeftPayload is sent to the host when a player disconnects
type PlayerLeftPayload struct {
	PlayerID ConnID `json:"playerId"`
}
