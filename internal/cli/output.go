package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
	"github.com/quizbuzz/quizbuzz-go/internal/ws"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}

	switch v := data.(type) {
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintEvent renders one server event. In json mode the raw envelope is
// emitted as a JSON line; in text mode known events get a readable form.
func (o *Output) PrintEvent(env *ws.Envelope) {
	if o.format == "json" {
		data, _ := json.Marshal(env)
		fmt.Println(string(data))
		return
	}

	timestamp := time.Now().Format("15:04:05")

	switch model.EventType(env.Type) {
	case model.EventSessionCreated:
		var p model.SessionCreatedPayload
		_ = json.Unmarshal(env.Payload, &p)
		fmt.Printf("[%s] session created, code: %s\n", timestamp, p.Code)
	case model.EventJoinedSession:
		var p model.JoinedSessionPayload
		_ = json.Unmarshal(env.Payload, &p)
		fmt.Printf("[%s] joined as %s (slot %d)\n", timestamp, p.DisplayName, p.Slot)
	case model.EventPlayerJoined:
		var p model.PlayerJoinedPayload
		_ = json.Unmarshal(env.Payload, &p)
		fmt.Printf("[%s] player joined: %s (slot %d)\n", timestamp, p.DisplayName, p.Slot)
	case model.EventPlayerLeft:
		var p model.PlayerLeftPayload
		_ = json.Unmarshal(env.Payload, &p)
		fmt.Printf("[%s] player left: %s\n", timestamp, p.PlayerID)
	case model.EventQuestion:
		var q model.QuestionView
		_ = json.Unmarshal(env.Payload, &q)
		fmt.Printf("[%s] question: %s\n", timestamp, q.Prompt)
		for _, label := range model.OptionLabels {
			fmt.Printf("           %s) %s\n", label, q.Options[label])
		}
	case model.EventBuzzerOpened:
		fmt.Printf("[%s] buzzer open!\n", timestamp)
	case model.EventPlayerBuzzed:
		var p model.PlayerBuzzedPayload
		_ = json.Unmarshal(env.Payload, &p)
		fmt.Printf("[%s] %s buzzed in\n", timestamp, p.DisplayName)
	case model.EventAnswerResult:
		var p model.AnswerResultPayload
		_ = json.Unmarshal(env.Payload, &p)
		verdict := "wrong"
		if p.IsCorrect {
			verdict = "correct"
		}
		fmt.Printf("[%s] %s answered: %s\n", timestamp, p.DisplayName, verdict)
		for _, s := range p.Scores {
			fmt.Printf("           %s: %d\n", s.DisplayName, s.Score)
		}
	case model.EventBuzzerReset:
		fmt.Printf("[%s] buzzer reset\n", timestamp)
	case model.EventHostLeft:
		fmt.Printf("[%s] host left, session over\n", timestamp)
	case model.EventGameOver:
		fmt.Printf("[%s] game over\n", timestamp)
	default:
		fmt.Printf("[%s] %s: %s\n", timestamp, env.Type, string(env.Payload))
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}
