package storage

import (
	"context"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
)

// Storage is the durable mirror of session, player, and question data.
// It is a write-through side channel, not a source of truth: the in-memory
// session registry stays authoritative and the game keeps working if mirror
// writes fail.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error)
	DeleteSession(ctx context.Context, code model.SessionCode) error

	// Player record operations, keyed by session code and slot number
	SavePlayerRecord(ctx context.Context, record *model.PlayerRecord) error
	GetPlayerRecords(ctx context.Context, code model.SessionCode) ([]*model.PlayerRecord, error)
	DeletePlayerRecord(ctx context.Context, code model.SessionCode, slot int) error

	// Question operations
	SaveQuestions(ctx context.Context, questions []model.Question) error
	GetQuestions(ctx context.Context) ([]model.Question, error)
}

// Not-found sentinels live in the model package (model.ErrSessionNotFound)
// so services can errors.Is against them without importing a storage
// implementation.
