package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/quizbuzz/quizbuzz-go/internal/dependencies/clock"
	"github.com/quizbuzz/quizbuzz-go/internal/dependencies/random"
	"github.com/quizbuzz/quizbuzz-go/internal/model"
	"github.com/quizbuzz/quizbuzz-go/internal/services/questionbank"
	"github.com/quizbuzz/quizbuzz-go/internal/services/registry"
	"github.com/quizbuzz/quizbuzz-go/internal/storage"
)

// Controller is the per-session state machine: question lifecycle, buzzer
// arbitration, scoring, and disconnect handling.
//
// A single mutex serializes every state transition across all sessions, the
// way the original single-threaded event loop did. The buzzer race is
// resolved purely by lock acquisition order: the first claim to run while
// the buzzer is open wins, every later claim sees a claimed buzzer.
type Controller struct {
	registry *registry.Registry
	bank     *questionbank.Service
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	mu    sync.Mutex
	decks map[model.SessionCode]*questionbank.Deck
}

// NewController creates a new game controller
func NewController(
	registry *registry.Registry,
	bank *questionbank.Service,
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry: registry,
		bank:     bank,
		storage:  storage,
		clock:    clock,
		random:   random,
		logger:   logger.With(slog.String("component", "game")),
		decks:    make(map[model.SessionCode]*questionbank.Deck),
	}
}

// JoinResult is what a successful join produces
type JoinResult struct {
	Session *model.Session
	Player  model.Player
}

// AdvanceResult reports either the next question or deck exhaustion
type AdvanceResult struct {
	Question *model.QuestionView // nil when GameOver
	GameOver bool
}

// ClaimResult names the buzz winner
type ClaimResult struct {
	Player model.Player
}

// SubmitResult carries the correctness verdict and the full score snapshot
type SubmitResult struct {
	Player    model.Player
	IsCorrect bool
	Scores    []model.PlayerScore
}

// DisconnectResult describes the cleanup a disconnect triggered
type DisconnectResult struct {
	Code model.SessionCode
	Role model.Role
	// Player is set when Role is RolePlayer
	Player model.Player
	// Host is the session host, for routing host-only notices
	Host model.ConnID
}

// CreateSession creates a session hosted by the given connection and deals
// it a private shuffled deck.
func (c *Controller) CreateSession(ctx context.Context, host model.ConnID) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.registry.CreateSession(host)
	if err != nil {
		return nil, err
	}
	c.decks[session.Code] = c.bank.NewDeck(c.random)

	c.mirrorSession(ctx, session)
	return session, nil
}

// Join adds a player to a session
func (c *Controller) Join(ctx context.Context, code model.SessionCode, conn model.ConnID, displayName string) (*JoinResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	player, err := c.registry.AddPlayer(code, conn, displayName)
	if err != nil {
		return nil, err
	}
	session, err := c.registry.Get(code)
	if err != nil {
		return nil, err
	}

	c.mirrorSession(ctx, session)
	c.mirrorPlayer(ctx, session, *player)

	c.logger.Info("player joined",
		slog.String("code", string(code)),
		slog.String("player", displayName),
		slog.Int("slot", player.Slot),
	)

	return &JoinResult{Session: session, Player: *player}, nil
}

// AdvanceQuestion draws the next question from the session's deck, or ends
// the game when the deck is exhausted. Host only.
func (c *Controller) AdvanceQuestion(ctx context.Context, code model.SessionCode, actor model.ConnID) (*AdvanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.hostSession(code, actor)
	if err != nil {
		return nil, err
	}
	if session.State == model.SessionStateGameOver {
		return nil, model.ErrGameOver
	}

	deck := c.decks[code]
	question := deck.Next()
	if question == nil {
		session.CurrentQuestion = nil
		session.Buzzer = model.Buzzer{Status: model.BuzzerLocked}
		session.State = model.SessionStateGameOver
		session.UpdatedAt = c.clock.Now()
		c.mirrorSession(ctx, session)

		c.logger.Info("deck exhausted, game over", slog.String("code", string(code)))
		return &AdvanceResult{GameOver: true}, nil
	}

	session.CurrentQuestion = question
	session.Buzzer = model.Buzzer{Status: model.BuzzerLocked}
	session.State = model.SessionStateQuestionActive
	session.UpdatedAt = c.clock.Now()
	c.mirrorSession(ctx, session)

	view := question.Public()
	return &AdvanceResult{Question: &view}, nil
}

// OpenBuzzer opens the buzz window for the active question. Host only.
func (c *Controller) OpenBuzzer(ctx context.Context, code model.SessionCode, actor model.ConnID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.hostSession(code, actor)
	if err != nil {
		return err
	}
	if session.State == model.SessionStateGameOver {
		return model.ErrGameOver
	}
	if session.CurrentQuestion == nil {
		return model.ErrNoActiveQuestion
	}
	if session.Buzzer.Status != model.BuzzerLocked {
		return model.ErrBuzzerNotLocked
	}

	session.Buzzer = model.Buzzer{Status: model.BuzzerOpen}
	session.State = model.SessionStateBuzzerOpen
	session.UpdatedAt = c.clock.Now()
	c.mirrorSession(ctx, session)
	return nil
}

// ClaimBuzzer is the race-resolution point: the first claim while the buzzer
// is open wins it; every other claim gets ErrBuzzerNotOpen, which the
// protocol boundary treats as a silent no-op.
func (c *Controller) ClaimBuzzer(ctx context.Context, code model.SessionCode, actor model.ConnID) (*ClaimResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.registry.Get(code)
	if err != nil {
		return nil, err
	}
	player := session.GetPlayer(actor)
	if player == nil {
		return nil, model.ErrNotAuthorized
	}
	if session.Buzzer.Status != model.BuzzerOpen {
		return nil, model.ErrBuzzerNotOpen
	}

	session.Buzzer = model.Buzzer{Status: model.BuzzerClaimed, ClaimedBy: actor}
	session.State = model.SessionStateAnswerPending
	session.UpdatedAt = c.clock.Now()
	c.mirrorSession(ctx, session)

	c.logger.Info("buzzer claimed",
		slog.String("code", string(code)),
		slog.String("player", player.DisplayName),
	)

	return &ClaimResult{Player: *player}, nil
}

// SubmitAnswer scores the buzz winner's answer against the current question.
// Only the connection holding the buzzer may submit. A correct answer is
// worth a flat +1 regardless of the question's declared point value. The
// buzzer stays claimed until the host resets it or advances the question.
func (c *Controller) SubmitAnswer(ctx context.Context, code model.SessionCode, actor model.ConnID, label string) (*SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.registry.Get(code)
	if err != nil {
		return nil, err
	}
	if session.Buzzer.Status != model.BuzzerClaimed {
		return nil, model.ErrBuzzerNotClaimed
	}
	if session.Buzzer.ClaimedBy != actor {
		return nil, model.ErrNotAuthorized
	}
	player := session.GetPlayer(actor)
	if player == nil {
		return nil, model.ErrNotAuthorized
	}

	correct := c.decks[code].CheckAnswer(label)
	if correct {
		session.Scores[actor]++
	}
	session.UpdatedAt = c.clock.Now()

	c.mirrorSession(ctx, session)
	c.mirrorPlayer(ctx, session, *player)

	c.logger.Info("answer submitted",
		slog.String("code", string(code)),
		slog.String("player", player.DisplayName),
		slog.Bool("correct", correct),
	)

	return &SubmitResult{
		Player:    *player,
		IsCorrect: correct,
		Scores:    session.ScoreSnapshot(),
	}, nil
}

// ResetBuzzer locks the buzzer so the host can reopen it for the same
// question. Host only.
func (c *Controller) ResetBuzzer(ctx context.Context, code model.SessionCode, actor model.ConnID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.hostSession(code, actor)
	if err != nil {
		return err
	}
	if session.State == model.SessionStateGameOver {
		return model.ErrGameOver
	}

	session.Buzzer = model.Buzzer{Status: model.BuzzerLocked}
	if session.CurrentQuestion != nil {
		session.State = model.SessionStateQuestionActive
	} else {
		session.State = model.SessionStateAwaitingQuestion
	}
	session.UpdatedAt = c.clock.Now()
	c.mirrorSession(ctx, session)
	return nil
}

// Disconnect handles a dropped connection in any state. A departing host
// tears the whole session down; a departing player is removed along with its
// score entry. Returns nil when the connection belonged to no session.
func (c *Controller) Disconnect(ctx context.Context, conn model.ConnID) (*DisconnectResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, role, ok := c.registry.Lookup(conn)
	if !ok {
		return nil, nil
	}

	session, err := c.registry.Get(code)
	if err != nil {
		return nil, err
	}
	host := session.Host

	if role == model.RoleHost {
		c.registry.Remove(code)
		delete(c.decks, code)
		if err := c.storage.DeleteSession(ctx, code); err != nil {
			c.logger.Warn("session mirror delete failed",
				slog.String("code", string(code)),
				slog.String("error", err.Error()),
			)
		}
		c.logger.Info("host disconnected, session destroyed", slog.String("code", string(code)))
		return &DisconnectResult{Code: code, Role: model.RoleHost, Host: host}, nil
	}

	player := c.registry.RemovePlayer(code, conn)
	if player == nil {
		return nil, nil
	}
	// A departing buzz winner releases the buzzer
	if session.Buzzer.Status == model.BuzzerClaimed && session.Buzzer.ClaimedBy == conn {
		session.Buzzer = model.Buzzer{Status: model.BuzzerLocked}
		if session.CurrentQuestion != nil {
			session.State = model.SessionStateQuestionActive
		}
	}
	c.mirrorSession(ctx, session)
	if err := c.storage.DeletePlayerRecord(ctx, code, player.Slot); err != nil {
		c.logger.Warn("player mirror delete failed",
			slog.String("code", string(code)),
			slog.Int("slot", player.Slot),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("player disconnected",
		slog.String("code", string(code)),
		slog.String("player", player.DisplayName),
	)

	return &DisconnectResult{Code: code, Role: model.RolePlayer, Player: *player, Host: host}, nil
}

// Session returns the live session for a code
func (c *Controller) Session(code model.SessionCode) (*model.Session, error) {
	return c.registry.Get(code)
}

// hostSession fetches a session and verifies the actor is its host
func (c *Controller) hostSession(code model.SessionCode, actor model.ConnID) (*model.Session, error) {
	session, err := c.registry.Get(code)
	if err != nil {
		return nil, err
	}
	if session.Host != actor {
		return nil, model.ErrNotHost
	}
	return session, nil
}

// mirrorSession writes the session snapshot through to storage. Mirror
// failures are logged and swallowed: the registry stays authoritative.
func (c *Controller) mirrorSession(ctx context.Context, session *model.Session) {
	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Warn("session mirror write failed",
			slog.String("code", string(session.Code)),
			slog.String("error", err.Error()),
		)
	}
}

// mirrorPlayer writes a player's record (including score) through to storage
func (c *Controller) mirrorPlayer(ctx context.Context, session *model.Session, player model.Player) {
	record := &model.PlayerRecord{
		Code:        session.Code,
		Slot:        player.Slot,
		DisplayName: player.DisplayName,
		Score:       session.Scores[player.Conn],
	}
	if err := c.storage.SavePlayerRecord(ctx, record); err != nil {
		c.logger.Warn("player mirror write failed",
			slog.String("code", string(session.Code)),
			slog.Int("slot", player.Slot),
			slog.String("error", err.Error()),
		)
	}
}
