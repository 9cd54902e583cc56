package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) makeSession(code model.SessionCode) *model.Session {
	return &model.Session{
		Code:      code,
		Host:      "conn-host",
		Players:   []model.Player{},
		Scores:    map[model.ConnID]int{},
		Buzzer:    model.Buzzer{Status: model.BuzzerLocked},
		State:     model.SessionStateAwaitingQuestion,
		NextSlot:  1,
		CreatedAt: time.Now(),
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
	s.Equal(model.SessionStateAwaitingQuestion, retrieved.State)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "NOPE99")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	_ = s.storage.SaveSession(s.ctx, s.makeSession("ABC123"))

	err := s.storage.DeleteSession(s.ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSessionCascadesPlayerRecords() {
	_ = s.storage.SaveSession(s.ctx, s.makeSession("ABC123"))
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 1, DisplayName: "Alice"})
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 2, DisplayName: "Bob"})

	err := s.storage.DeleteSession(s.ctx, "ABC123")
	s.Require().NoError(err)

	records, err := s.storage.GetPlayerRecords(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Empty(records)
}

// Player record tests

func (s *StorageSuite) TestSaveAndGetPlayerRecords() {
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 2, DisplayName: "Bob", Score: 3})
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 1, DisplayName: "Alice", Score: 5})

	records, err := s.storage.GetPlayerRecords(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Len(records, 2)

	// Ordered by slot regardless of insertion order
	s.Equal("Alice", records[0].DisplayName)
	s.Equal(5, records[0].Score)
	s.Equal("Bob", records[1].DisplayName)
}

func (s *StorageSuite) TestGetPlayerRecordsScopedToSession() {
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 1, DisplayName: "Alice"})
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "XYZ789", Slot: 1, DisplayName: "Carol"})

	records, err := s.storage.GetPlayerRecords(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("Alice", records[0].DisplayName)
}

func (s *StorageSuite) TestSavePlayerRecordOverwritesBySlot() {
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 1, DisplayName: "Alice", Score: 0})
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 1, DisplayName: "Alice", Score: 2})

	records, err := s.storage.GetPlayerRecords(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(2, records[0].Score)
}

func (s *StorageSuite) TestDeletePlayerRecord() {
	_ = s.storage.SavePlayerRecord(s.ctx, &model.PlayerRecord{Code: "ABC123", Slot: 1, DisplayName: "Alice"})

	err := s.storage.DeletePlayerRecord(s.ctx, "ABC123", 1)
	s.Require().NoError(err)

	records, err := s.storage.GetPlayerRecords(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Empty(records)
}

// Question tests

func (s *StorageSuite) TestSaveAndGetQuestions() {
	questions := []model.Question{
		{Prompt: "1+1=?", Options: map[string]string{"A": "1", "B": "2", "C": "3", "D": "4"}, Correct: "B", Points: 20},
	}

	err := s.storage.SaveQuestions(s.ctx, questions)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetQuestions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(retrieved, 1)
	s.Equal("1+1=?", retrieved[0].Prompt)
	s.Equal("B", retrieved[0].Correct)
}

func (s *StorageSuite) TestGetQuestionsEmpty() {
	questions, err := s.storage.GetQuestions(s.ctx)
	s.Require().NoError(err)
	s.Empty(questions)
}

func (s *StorageSuite) TestSaveQuestionsReplacesSet() {
	_ = s.storage.SaveQuestions(s.ctx, []model.Question{{Prompt: "old"}, {Prompt: "older"}})
	_ = s.storage.SaveQuestions(s.ctx, []model.Question{{Prompt: "new"}})

	questions, err := s.storage.GetQuestions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(questions, 1)
	s.Equal("new", questions[0].Prompt)
}

func (s *StorageSuite) TestSaveQuestionsCopiesInput() {
	input := []model.Question{{Prompt: "original"}}
	_ = s.storage.SaveQuestions(s.ctx, input)

	input[0].Prompt = "mutated"

	questions, err := s.storage.GetQuestions(s.ctx)
	s.Require().NoError(err)
	s.Equal("original", questions[0].Prompt)
}
