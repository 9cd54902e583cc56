package model

import "time"

// SessionCode is the human-readable identifier for joining sessions
type SessionCode string

// MaxPlayers is the contestant capacity of a session (the host is not a player)
const MaxPlayers = 2

// SessionState represents where a session is in the question lifecycle
type SessionState string

const (
	// SessionStateAwaitingQuestion means no question has been drawn yet
	SessionStateAwaitingQuestion SessionState = "awaiting_question"
	// SessionStateQuestionActive means a question is live with the buzzer locked
	SessionStateQuestionActive SessionState = "question_active"
	// SessionStateBuzzerOpen means players may race to claim the buzzer
	SessionStateBuzzerOpen SessionState = "buzzer_open"
	// SessionStateAnswerPending means a player holds the buzzer and may answer
	SessionStateAnswerPending SessionState = "answer_pending"
	// SessionStateGameOver is terminal: the question deck is exhausted
	SessionStateGameOver SessionState = "game_over"
)

// BuzzerStatus is the buzzer arbitration state.
// Transitions: Locked -> Open -> Claimed -> Locked, or Open -> Locked on reset.
type BuzzerStatus string

const (
	BuzzerLocked  BuzzerStatus = "locked"
	BuzzerOpen    BuzzerStatus = "open"
	BuzzerClaimed BuzzerStatus = "claimed"
)

// Buzzer holds the buzzer state and, when claimed, the winning connection
type Buzzer struct {
	Status    BuzzerStatus
	ClaimedBy ConnID // set only when Status is BuzzerClaimed
}

// Session is one hosted quiz game: one host, up to two players
type Session struct {
	Code            SessionCode
	Host            ConnID
	Players         []Player // join order
	Scores          map[ConnID]int
	CurrentQuestion *Question // snapshot of the active question, nil before the first draw
	Buzzer          Buzzer
	State           SessionState
	NextSlot        int // next slot number to assign; never decremented
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GetPlayer returns the player for the given connection, or nil
func (s *Session) GetPlayer(conn ConnID) *Player {
	for i := range s.Players {
		if s.Players[i].Conn == conn {
			return &s.Players[i]
		}
	}
	return nil
}

// RemovePlayer deletes the player and its score entry, keeping both maps in
// step. Returns true if the connection was a player of this session.
func (s *Session) RemovePlayer(conn ConnID) bool {
	for i := range s.Players {
		if s.Players[i].Conn == conn {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			delete(s.Scores, conn)
			return true
		}
	}
	return false
}

// ScoreSnapshot returns every player's identity and score, in join order
func (s *Session) ScoreSnapshot() []PlayerScore {
	snapshot := make([]PlayerScore, 0, len(s.Players))
	for _, p := range s.Players {
		snapshot = append(snapshot, PlayerScore{
			Conn:        p.Conn,
			DisplayName: p.DisplayName,
			Slot:        p.Slot,
			Score:       s.Scores[p.Conn],
		})
	}
	return snapshot
}
