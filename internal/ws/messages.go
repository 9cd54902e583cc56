package ws

import (
	"encoding/json"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
)

// Inbound event names, one per client operation
const (
	InCreateSession   = "createSession"
	InJoinSession     = "joinSession"
	InAdvanceQuestion = "advanceQuestion"
	InOpenBuzzer      = "openBuzzer"
	InClaimBuzzer     = "claimBuzzer"
	InSubmitAnswer    = "submitAnswer"
	InResetBuzzer     = "resetBuzzer"
)

// Envelope is the wire format in both directions: a type tag plus a
// type-specific payload
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound payloads

// JoinPayload accompanies joinSession
type JoinPayload struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

// CodePayload accompanies the host actions and claimBuzzer
type CodePayload struct {
	Code string `json:"code"`
}

// AnswerPayload accompanies submitAnswer
type AnswerPayload struct {
	Code        string `json:"code"`
	AnswerLabel string `json:"answerLabel"`
}

// Encode marshals an outbound event into its wire form
func Encode(eventType model.EventType, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(Envelope{Type: string(eventType), Payload: raw})
}
