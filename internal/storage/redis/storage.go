package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
	"github.com/quizbuzz/quizbuzz-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.Code), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, code model.SessionCode) error {
	slots, err := s.client.SMembers(ctx, playersForSessionIndexKey(code)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(code))
	for _, raw := range slots {
		slot, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		pipe.Del(ctx, playerKey(code, slot))
	}
	pipe.Del(ctx, playersForSessionIndexKey(code))
	_, err = pipe.Exec(ctx)
	return err
}

// Player record operations

func (s *Storage) SavePlayerRecord(ctx context.Context, record *model.PlayerRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(record.Code, record.Slot), data, s.cfg.PlayerTTL)
	pipe.SAdd(ctx, playersForSessionIndexKey(record.Code), strconv.Itoa(record.Slot))
	pipe.Expire(ctx, playersForSessionIndexKey(record.Code), s.cfg.PlayerTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayerRecords(ctx context.Context, code model.SessionCode) ([]*model.PlayerRecord, error) {
	slots, err := s.client.SMembers(ctx, playersForSessionIndexKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var records []*model.PlayerRecord
	for _, raw := range slots {
		slot, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		data, err := s.client.Get(ctx, playerKey(code, slot)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Index entry outlived the record; skip
				continue
			}
			return nil, err
		}
		var record model.PlayerRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	sortBySlot(records)
	return records, nil
}

func (s *Storage) DeletePlayerRecord(ctx context.Context, code model.SessionCode, slot int) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, playerKey(code, slot))
	pipe.SRem(ctx, playersForSessionIndexKey(code), strconv.Itoa(slot))
	_, err := pipe.Exec(ctx)
	return err
}

// Question operations

func (s *Storage) SaveQuestions(ctx context.Context, questions []model.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	// Questions persist until replaced by the next load
	return s.client.Set(ctx, questionsKey(), data, 0).Err()
}

func (s *Storage) GetQuestions(ctx context.Context) ([]model.Question, error) {
	data, err := s.client.Get(ctx, questionsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func sortBySlot(records []*model.PlayerRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Slot < records[j].Slot
	})
}
