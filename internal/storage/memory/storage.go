package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
	"github.com/quizbuzz/quizbuzz-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions  map[model.SessionCode]*model.Session
	players   map[playerKey]*model.PlayerRecord
	questions []model.Question
}

type playerKey struct {
	code model.SessionCode
	slot int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionCode]*model.Session),
		players:  make(map[playerKey]*model.PlayerRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Code] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, code model.SessionCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
	for key := range s.players {
		if key.code == code {
			delete(s.players, key)
		}
	}
	return nil
}

// Player record operations

func (s *Storage) SavePlayerRecord(ctx context.Context, record *model.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[playerKey{code: record.Code, slot: record.Slot}] = record
	return nil
}

func (s *Storage) GetPlayerRecords(ctx context.Context, code model.SessionCode) ([]*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []*model.PlayerRecord
	for key, record := range s.players {
		if key.code == code {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Slot < records[j].Slot
	})
	return records, nil
}

func (s *Storage) DeletePlayerRecord(ctx context.Context, code model.SessionCode, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, playerKey{code: code, slot: slot})
	return nil
}

// Question operations

func (s *Storage) SaveQuestions(ctx context.Context, questions []model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = make([]model.Question, len(questions))
	copy(s.questions, questions)
	return nil
}

func (s *Storage) GetQuestions(ctx context.Context) ([]model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]model.Question, len(s.questions))
	copy(questions, s.questions)
	return questions, nil
}
