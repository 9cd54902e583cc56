package redis

import (
	"fmt"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
)

// Key prefix for all quiz data
const keyPrefix = "quizbuzz"

// sessionKey returns the Redis key for a Session snapshot
func sessionKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, code)
}

// playerKey returns the Redis key for a player record
func playerKey(code model.SessionCode, slot int) string {
	return fmt.Sprintf("%s:player:%s:%d", keyPrefix, code, slot)
}

// playersForSessionIndexKey returns the Redis key for the SET of player slots
// in a session
func playersForSessionIndexKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:idx:players_for_session:%s", keyPrefix, code)
}

// questionsKey returns the Redis key for the loaded question set
func questionsKey() string {
	return fmt.Sprintf("%s:questions", keyPrefix)
}
