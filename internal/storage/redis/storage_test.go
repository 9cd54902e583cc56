package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour
	cfg.PlayerTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) makeSession(code model.SessionCode) *model.Session {
	return &model.Session{
		Code:     code,
		Host:     "conn-host",
		Players:  []model.Player{{Conn: "conn-alice", DisplayName: "Alice", Slot: 1}},
		Scores:   map[model.ConnID]int{"conn-alice": 2},
		Buzzer:   model.Buzzer{Status: model.BuzzerOpen},
		State:    model.SessionStateBuzzerOpen,
		NextSlot: 2,
	}
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := s.makeSession("ABC123")

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(session.Code, retrieved.Code)
	s.Equal(session.Host, retrieved.Host)
	s.Equal(model.BuzzerOpen, retrieved.Buzzer.Status)
	s.Equal(2, retrieved.Scores["conn-alice"])
	s.Require().Len(retrieved.Players, 1)
	s.Equal("Alice", retrieved.Players[0].DisplayName)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "NOPE99")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExpiry() {
	_ = s.storage.SaveSession(s.ctx, s.makeSession("ABC123"))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSessionCascadesPlayerRecords() {
	_ = s.storage.SaveSession(s.ctx, s.makeSession("ABC123"))
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 1, DisplayName: "Alice"})
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 2, DisplayName: "Bob"})

	err := s.storage.DeleteSession(s.ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrSessionNotFound)

	records, err := s.storage.GetPlayerRecords(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Empty(records)
}

// Player record tests

func (s *StorageSuite) TestSaveAndGetPlayerRecords() {
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 2, DisplayName: "Bob", Score: 1})
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 1, DisplayName: "Alice", Score: 4})

	records, err := s.storage.GetPlayerRecords(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Len(records, 2)

	s.Equal("Alice", records[0].DisplayName)
	s.Equal(4, records[0].Score)
	s.Equal("Bob", records[1].DisplayName)
	s.Equal(1, records[1].Score)
}

func (s *StorageSuite) TestGetPlayerRecordsEmpty() {
	records, err := s.storage.GetPlayerRecords(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *StorageSuite) TestDeletePlayerRecord() {
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 1, DisplayName: "Alice"})
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 2, DisplayName: "Bob"})

	err := s.storage.DeletePlayerRecord(s.ctx, "ABC123", 1)
	s.Require().NoError(err)

	records, err := s.storage.GetPlayerRecords(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("Bob", records[0].DisplayName)
}

// Question tests

func (s *StorageSuite) TestSaveAndGetQuestions() {
	questions := []model.Question{
		{Prompt: "1+1=?", Options: map[string]string{"A": "1", "B": "2", "C": "3", "D": "4"}, Correct: "B", Points: 20},
		{Prompt: "2+2=?", Options: map[string]string{"A": "4", "B": "5", "C": "6", "D": "7"}, Correct: "A", Points: 20},
	}

	err := s.storage.SaveQuestions(s.ctx, questions)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetQuestions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(retrieved, 2)
	s.Equal("1+1=?", retrieved[0].Prompt)
	s.Equal("2", retrieved[0].Options["B"])
}

func (s *StorageSuite) TestGetQuestionsEmpty() {
	questions, err := s.storage.GetQuestions(s.ctx)
	s.Require().NoError(err)
	s.Empty(questions)
}
