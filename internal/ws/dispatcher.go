package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
	"github.com/quizbuzz/quizbuzz-go/internal/services/game"
)

// Dispatcher binds inbound client events to state machine operations and
// fans the resulting broadcasts out to the right audience.
//
// Events are handled one at a time under a single mutex: each event runs to
// completion, including all of its broadcast enqueues, before the next is
// processed. That ordering is what resolves the buzzer race.
//
// Authorization and capacity failures are swallowed silently: the offending
// client sees no state change and no error event.
type Dispatcher struct {
	controller *game.Controller
	hubs       *HubManager
	logger     *slog.Logger

	mu sync.Mutex
}

// NewDispatcher creates a dispatcher over the given controller and hubs
func NewDispatcher(controller *game.Controller, hubs *HubManager, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		controller: controller,
		hubs:       hubs,
		logger:     logger.With(slog.String("component", "dispatch")),
	}
}

// Dispatch handles one inbound message from a client
func (d *Dispatcher) Dispatch(ctx context.Context, client *Client, raw []byte) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		d.logger.Debug("unparseable message",
			slog.String("conn", string(client.ID)),
			slog.String("error", err.Error()),
		)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch envelope.Type {
	case InCreateSession:
		d.createSession(ctx, client)
	case InJoinSession:
		d.joinSession(ctx, client, envelope.Payload)
	case InAdvanceQuestion:
		d.advanceQuestion(ctx, client, envelope.Payload)
	case InOpenBuzzer:
		d.openBuzzer(ctx, client, envelope.Payload)
	case InClaimBuzzer:
		d.claimBuzzer(ctx, client, envelope.Payload)
	case InSubmitAnswer:
		d.submitAnswer(ctx, client, envelope.Payload)
	case InResetBuzzer:
		d.resetBuzzer(ctx, client, envelope.Payload)
	default:
		d.logger.Debug("unknown event type",
			slog.String("conn", string(client.ID)),
			slog.String("type", envelope.Type),
		)
	}
}

// Disconnect handles a dropped connection: host departure destroys the
// session for everyone, player departure notifies the host.
func (d *Dispatcher) Disconnect(ctx context.Context, client *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := d.controller.Disconnect(ctx, client.ID)
	if err != nil || result == nil {
		return
	}

	hub := d.hubs.Get(result.Code)
	if hub == nil {
		return
	}

	switch result.Role {
	case model.RoleHost:
		hub.Remove(client.ID)
		hub.Broadcast(model.EventHostLeft, nil)
		d.hubs.Remove(result.Code)
	case model.RolePlayer:
		hub.Remove(client.ID)
		hub.SendTo(result.Host, model.EventPlayerLeft, model.PlayerLeftPayload{
			PlayerID: client.ID,
		})
	}
}

func (d *Dispatcher) createSession(ctx context.Context, client *Client) {
	session, err := d.controller.CreateSession(ctx, client.ID)
	if err != nil {
		d.drop(client, InCreateSession, err)
		return
	}

	hub := d.hubs.GetOrCreate(session.Code)
	hub.Add(client)
	hub.SendTo(client.ID, model.EventSessionCreated, model.SessionCreatedPayload{
		Code: session.Code,
	})
}

func (d *Dispatcher) joinSession(ctx context.Context, client *Client, payload json.RawMessage) {
	var join JoinPayload
	if err := json.Unmarshal(payload, &join); err != nil {
		d.drop(client, InJoinSession, err)
		return
	}

	result, err := d.controller.Join(ctx, model.SessionCode(join.Code), client.ID, join.DisplayName)
	if err != nil {
		d.drop(client, InJoinSession, err)
		return
	}

	hub := d.hubs.GetOrCreate(result.Session.Code)
	hub.Add(client)

	// Join confirmation goes to the joiner alone; the host gets the notice
	hub.SendTo(client.ID, model.EventJoinedSession, model.JoinedSessionPayload{
		PlayerID:    result.Player.Conn,
		DisplayName: result.Player.DisplayName,
		Slot:        result.Player.Slot,
	})
	hub.SendTo(result.Session.Host, model.EventPlayerJoined, model.PlayerJoinedPayload{
		PlayerID:    result.Player.Conn,
		DisplayName: result.Player.DisplayName,
		Slot:        result.Player.Slot,
	})
}

func (d *Dispatcher) advanceQuestion(ctx context.Context, client *Client, payload json.RawMessage) {
	code, ok := d.sessionCode(client, InAdvanceQuestion, payload)
	if !ok {
		return
	}

	result, err := d.controller.AdvanceQuestion(ctx, code, client.ID)
	if err != nil {
		d.drop(client, InAdvanceQuestion, err)
		return
	}

	hub := d.hubs.Get(code)
	if hub == nil {
		return
	}
	if result.GameOver {
		hub.Broadcast(model.EventGameOver, nil)
		return
	}
	hub.Broadcast(model.EventQuestion, result.Question)
}

func (d *Dispatcher) openBuzzer(ctx context.Context, client *Client, payload json.RawMessage) {
	code, ok := d.sessionCode(client, InOpenBuzzer, payload)
	if !ok {
		return
	}

	if err := d.controller.OpenBuzzer(ctx, code, client.ID); err != nil {
		d.drop(client, InOpenBuzzer, err)
		return
	}
	if hub := d.hubs.Get(code); hub != nil {
		hub.Broadcast(model.EventBuzzerOpened, nil)
	}
}

func (d *Dispatcher) claimBuzzer(ctx context.Context, client *Client, payload json.RawMessage) {
	code, ok := d.sessionCode(client, InClaimBuzzer, payload)
	if !ok {
		return
	}

	result, err := d.controller.ClaimBuzzer(ctx, code, client.ID)
	if err != nil {
		// Losing the race is not an error worth surfacing
		d.drop(client, InClaimBuzzer, err)
		return
	}
	if hub := d.hubs.Get(code); hub != nil {
		hub.Broadcast(model.EventPlayerBuzzed, model.PlayerBuzzedPayload{
			PlayerID:    result.Player.Conn,
			DisplayName: result.Player.DisplayName,
		})
	}
}

func (d *Dispatcher) submitAnswer(ctx context.Context, client *Client, payload json.RawMessage) {
	var answer AnswerPayload
	if err := json.Unmarshal(payload, &answer); err != nil {
		d.drop(client, InSubmitAnswer, err)
		return
	}

	result, err := d.controller.SubmitAnswer(ctx, model.SessionCode(answer.Code), client.ID, answer.AnswerLabel)
	if err != nil {
		d.drop(client, InSubmitAnswer, err)
		return
	}
	if hub := d.hubs.Get(model.SessionCode(answer.Code)); hub != nil {
		hub.Broadcast(model.EventAnswerResult, model.AnswerResultPayload{
			PlayerID:    result.Player.Conn,
			DisplayName: result.Player.DisplayName,
			IsCorrect:   result.IsCorrect,
			Scores:      result.Scores,
		})
	}
}

func (d *Dispatcher) resetBuzzer(ctx context.Context, client *Client, payload json.RawMessage) {
	code, ok := d.sessionCode(client, InResetBuzzer, payload)
	if !ok {
		return
	}

	if err := d.controller.ResetBuzzer(ctx, code, client.ID); err != nil {
		d.drop(client, InResetBuzzer, err)
		return
	}
	if hub := d.hubs.Get(code); hub != nil {
		hub.Broadcast(model.EventBuzzerReset, nil)
	}
}

// sessionCode parses the common {code} payload
func (d *Dispatcher) sessionCode(client *Client, event string, payload json.RawMessage) (model.SessionCode, bool) {
	var body CodePayload
	if err := json.Unmarshal(payload, &body); err != nil {
		d.drop(client, event, err)
		return "", false
	}
	return model.SessionCode(body.Code), true
}

// drop records a rejected event. Nothing is sent back to the client.
func (d *Dispatcher) drop(client *Client, event string, err error) {
	d.logger.Debug("event rejected",
		slog.String("conn", string(client.ID)),
		slog.String("event", event),
		slog.String("reason", err.Error()),
	)
}
