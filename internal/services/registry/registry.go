package registry

import (
	"log/slog"
	"sync"

	"github.com/quizbuzz/quizbuzz-go/internal/dependencies/clock"
	"github.com/quizbuzz/quizbuzz-go/internal/dependencies/random"
	"github.com/quizbuzz/quizbuzz-go/internal/model"
)

const (
	// SessionCodeLength is the length of generated session codes
	SessionCodeLength = 6
	// SessionCodeAlphabet is the characters used in session codes (avoid confusing chars)
	SessionCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// membership records which session a connection belongs to and as what.
// A connection holds at most one role in at most one session.
type membership struct {
	code model.SessionCode
	role model.Role
}

// Registry is the owned collection of live sessions, indexed by code, plus a
// connection index so disconnects resolve without scanning every session.
// It is the source of truth; the storage mirror is written elsewhere.
type Registry struct {
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[model.SessionCode]*model.Session
	byConn   map[model.ConnID]membership
}

// New creates an empty session registry
func New(clock clock.Clock, random random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		clock:    clock,
		random:   random,
		logger:   logger.With(slog.String("component", "registry")),
		sessions: make(map[model.SessionCode]*model.Session),
		byConn:   make(map[model.ConnID]membership),
	}
}

// CreateSession creates an empty session hosted by the given connection.
// The code is generated fresh and collision-checked against live sessions.
func (r *Registry) CreateSession(host model.ConnID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byConn[host]; ok {
		return nil, model.ErrAlreadyInGame
	}

	var code model.SessionCode
	for {
		code = model.SessionCode(r.random.String(SessionCodeLength, SessionCodeAlphabet))
		if _, exists := r.sessions[code]; !exists {
			break
		}
	}

	now := r.clock.Now()
	session := &model.Session{
		Code:      code,
		Host:      host,
		Players:   []model.Player{},
		Scores:    make(map[model.ConnID]int),
		Buzzer:    model.Buzzer{Status: model.BuzzerLocked},
		State:     model.SessionStateAwaitingQuestion,
		NextSlot:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.sessions[code] = session
	r.byConn[host] = membership{code: code, role: model.RoleHost}

	r.logger.Info("session created", slog.String("code", string(code)))
	return session, nil
}

// Get returns the session for the given code
func (r *Registry) Get(code model.SessionCode) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

// Remove deletes the session and all its connection memberships
func (r *Registry) Remove(code model.SessionCode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[code]
	if !ok {
		return
	}

	delete(r.byConn, session.Host)
	for _, p := range session.Players {
		delete(r.byConn, p.Conn)
	}
	delete(r.sessions, code)

	r.logger.Info("session removed", slog.String("code", string(code)))
}

// AddPlayer joins a connection to a session as a player, assigning the next
// slot number. Slot numbers are never reused within a session, even after a
// player leaves. The score entry is created atomically with the join.
func (r *Registry) AddPlayer(code model.SessionCode, conn model.ConnID, displayName string) (*model.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	if _, ok := r.byConn[conn]; ok {
		return nil, model.ErrAlreadyInGame
	}
	if len(session.Players) >= model.MaxPlayers {
		return nil, model.ErrSessionFull
	}

	player := model.Player{
		Conn:        conn,
		DisplayName: displayName,
		Slot:        session.NextSlot,
		JoinedAt:    r.clock.Now(),
	}
	session.NextSlot++
	session.Players = append(session.Players, player)
	session.Scores[conn] = 0
	session.UpdatedAt = r.clock.Now()

	r.byConn[conn] = membership{code: code, role: model.RolePlayer}

	return &player, nil
}

// RemovePlayer drops a player and its score entry from a session. Returns
// the removed player, or nil if the connection was not a player there.
func (r *Registry) RemovePlayer(code model.SessionCode, conn model.ConnID) *model.Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[code]
	if !ok {
		return nil
	}

	player := session.GetPlayer(conn)
	if player == nil {
		return nil
	}
	removed := *player

	session.RemovePlayer(conn)
	session.UpdatedAt = r.clock.Now()
	delete(r.byConn, conn)

	return &removed
}

// Lookup resolves a connection to its session and role
func (r *Registry) Lookup(conn model.ConnID) (model.SessionCode, model.Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byConn[conn]
	if !ok {
		return "", "", false
	}
	return m.code, m.role, true
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
