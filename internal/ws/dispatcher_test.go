package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizbuzz/quizbuzz-go/internal/dependencies/mocks"
	"github.com/quizbuzz/quizbuzz-go/internal/model"
	"github.com/quizbuzz/quizbuzz-go/internal/services/game"
	"github.com/quizbuzz/quizbuzz-go/internal/services/questionbank"
	"github.com/quizbuzz/quizbuzz-go/internal/services/registry"
	"github.com/quizbuzz/quizbuzz-go/internal/storage/memory"
	"github.com/quizbuzz/quizbuzz-go/internal/testutil"
)

type DispatcherSuite struct {
	suite.Suite
	random     *mocks.MockRandom
	dispatcher *Dispatcher
	ctx        context.Context

	host  *Client
	alice *Client
	bob   *Client
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	logger := testutil.NopLogger()
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()

	bank := questionbank.New(store, logger)
	s.Require().NoError(bank.LoadQuestions(context.Background(), questionbank.DefaultQuestions()))

	reg := registry.New(clk, s.random, logger)
	controller := game.NewController(reg, bank, store, clk, s.random, logger)
	s.dispatcher = NewDispatcher(controller, NewHubManager(logger), logger)
	s.ctx = context.Background()

	cfg := DefaultConfig()
	s.host = NewClient("conn-host", nil, cfg, logger)
	s.alice = NewClient("conn-alice", nil, cfg, logger)
	s.bob = NewClient("conn-bob", nil, cfg, logger)
}

func (s *DispatcherSuite) dispatch(client *Client, eventType string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		s.Require().NoError(err)
		raw = data
	}
	message, err := json.Marshal(Envelope{Type: eventType, Payload: raw})
	s.Require().NoError(err)
	s.dispatcher.Dispatch(s.ctx, client, message)
}

// expectEvent requires the client's next queued message to be eventType and
// decodes its payload into out when non-nil
func (s *DispatcherSuite) expectEvent(client *Client, eventType model.EventType, out any) {
	select {
	case raw := <-client.send:
		var env Envelope
		s.Require().NoError(json.Unmarshal(raw, &env))
		s.Require().Equal(string(eventType), env.Type)
		if out != nil {
			s.Require().NoError(json.Unmarshal(env.Payload, out))
		}
	default:
		s.FailNow("no event queued for " + string(client.ID))
	}
}

func (s *DispatcherSuite) expectSilence(client *Client) {
	select {
	case raw := <-client.send:
		s.FailNow("unexpected event for " + string(client.ID) + ": " + string(raw))
	default:
	}
}

// startGame creates a session with Alice and Bob seated, draining the
// setup events
func (s *DispatcherSuite) startGame() string {
	s.random.QueueString("ABC123")
	s.random.QueueIntn(2, 1)

	s.dispatch(s.host, InCreateSession, nil)
	var created model.SessionCreatedPayload
	s.expectEvent(s.host, model.EventSessionCreated, &created)
	code := string(created.Code)

	s.dispatch(s.alice, InJoinSession, JoinPayload{Code: code, DisplayName: "Alice"})
	s.expectEvent(s.alice, model.EventJoinedSession, nil)
	s.expectEvent(s.host, model.EventPlayerJoined, nil)

	s.dispatch(s.bob, InJoinSession, JoinPayload{Code: code, DisplayName: "Bob"})
	s.expectEvent(s.bob, model.EventJoinedSession, nil)
	s.expectEvent(s.host, model.EventPlayerJoined, nil)

	return code
}

func (s *DispatcherSuite) everyone() []*Client {
	return []*Client{s.host, s.alice, s.bob}
}

// Session setup

func (s *DispatcherSuite) TestCreateSessionRepliesWithCode() {
	s.random.QueueString("ABC123")
	s.random.QueueIntn(2, 1)

	s.dispatch(s.host, InCreateSession, nil)

	var created model.SessionCreatedPayload
	s.expectEvent(s.host, model.EventSessionCreated, &created)
	s.Equal(model.SessionCode("ABC123"), created.Code)
}

func (s *DispatcherSuite) TestJoinRoutesConfirmationAndNotice() {
	s.random.QueueString("ABC123")
	s.random.QueueIntn(2, 1)
	s.dispatch(s.host, InCreateSession, nil)
	s.expectEvent(s.host, model.EventSessionCreated, nil)

	s.dispatch(s.alice, InJoinSession, JoinPayload{Code: "ABC123", DisplayName: "Alice"})

	var joined model.JoinedSessionPayload
	s.expectEvent(s.alice, model.EventJoinedSession, &joined)
	s.Equal("Alice", joined.DisplayName)
	s.Equal(1, joined.Slot)

	var notice model.PlayerJoinedPayload
	s.expectEvent(s.host, model.EventPlayerJoined, &notice)
	s.Equal("Alice", notice.DisplayName)
}

func (s *DispatcherSuite) TestRejectedJoinIsSilent() {
	code := s.startGame()

	carol := NewClient("conn-carol", nil, DefaultConfig(), testutil.NopLogger())
	s.dispatch(carol, InJoinSession, JoinPayload{Code: code, DisplayName: "Carol"})

	// A full session sends nothing back, to anyone
	s.expectSilence(carol)
	for _, c := range s.everyone() {
		s.expectSilence(c)
	}
}

func (s *DispatcherSuite) TestUnknownCodeJoinIsSilent() {
	s.dispatch(s.alice, InJoinSession, JoinPayload{Code: "NOPE99", DisplayName: "Alice"})
	s.expectSilence(s.alice)
}

// Game flow

func (s *DispatcherSuite) TestQuestionBroadcastReachesEveryone() {
	code := s.startGame()

	s.dispatch(s.host, InAdvanceQuestion, CodePayload{Code: code})

	var question model.QuestionView
	for _, c := range s.everyone() {
		s.expectEvent(c, model.EventQuestion, &question)
	}
	s.Equal("1+1=?", question.Prompt)
}

func (s *DispatcherSuite) TestPlayerCannotAdvanceQuestion() {
	code := s.startGame()

	s.dispatch(s.alice, InAdvanceQuestion, CodePayload{Code: code})

	for _, c := range s.everyone() {
		s.expectSilence(c)
	}
}

func (s *DispatcherSuite) TestBuzzRace() {
	code := s.startGame()

	s.dispatch(s.host, InAdvanceQuestion, CodePayload{Code: code})
	s.dispatch(s.host, InOpenBuzzer, CodePayload{Code: code})
	for _, c := range s.everyone() {
		s.expectEvent(c, model.EventQuestion, nil)
		s.expectEvent(c, model.EventBuzzerOpened, nil)
	}

	// Bob's event arrives first, so Bob wins; Alice's claim vanishes
	s.dispatch(s.bob, InClaimBuzzer, CodePayload{Code: code})
	s.dispatch(s.alice, InClaimBuzzer, CodePayload{Code: code})

	var buzzed model.PlayerBuzzedPayload
	for _, c := range s.everyone() {
		s.expectEvent(c, model.EventPlayerBuzzed, &buzzed)
	}
	s.Equal("Bob", buzzed.DisplayName)
	for _, c := range s.everyone() {
		s.expectSilence(c)
	}
}

func (s *DispatcherSuite) TestAnswerResultBroadcast() {
	code := s.startGame()

	s.dispatch(s.host, InAdvanceQuestion, CodePayload{Code: code})
	s.dispatch(s.host, InOpenBuzzer, CodePayload{Code: code})
	s.dispatch(s.alice, InClaimBuzzer, CodePayload{Code: code})
	for _, c := range s.everyone() {
		s.expectEvent(c, model.EventQuestion, nil)
		s.expectEvent(c, model.EventBuzzerOpened, nil)
		s.expectEvent(c, model.EventPlayerBuzzed, nil)
	}

	s.dispatch(s.alice, InSubmitAnswer, AnswerPayload{Code: code, AnswerLabel: "B"})

	var result model.AnswerResultPayload
	for _, c := range s.everyone() {
		s.expectEvent(c, model.EventAnswerResult, &result)
	}
	s.True(result.IsCorrect)
	s.Equal("Alice", result.DisplayName)
	s.Require().Len(result.Scores, 2)
	s.Equal(1, result.Scores[0].Score)
}

func (s *DispatcherSuite) TestBuzzerResetBroadcast() {
	code := s.startGame()

	s.dispatch(s.host, InAdvanceQuestion, CodePayload{Code: code})
	s.dispatch(s.host, InOpenBuzzer, CodePayload{Code: code})
	s.dispatch(s.alice, InClaimBuzzer, CodePayload{Code: code})
	s.dispatch(s.host, InResetBuzzer, CodePayload{Code: code})

	for _, c := range s.everyone() {
		s.expectEvent(c, model.EventQuestion, nil)
		s.expectEvent(c, model.EventBuzzerOpened, nil)
		s.expectEvent(c, model.EventPlayerBuzzed, nil)
		s.expectEvent(c, model.EventBuzzerReset, nil)
	}
}

func (s *DispatcherSuite) TestDeckExhaustionBroadcastsGameOver() {
	code := s.startGame()

	for i := 0; i < 4; i++ {
		s.dispatch(s.host, InAdvanceQuestion, CodePayload{Code: code})
	}

	for _, c := range s.everyone() {
		s.expectEvent(c, model.EventQuestion, nil)
		s.expectEvent(c, model.EventQuestion, nil)
		s.expectEvent(c, model.EventQuestion, nil)
		s.expectEvent(c, model.EventGameOver, nil)
	}
}

// Disconnects

func (s *DispatcherSuite) TestHostDisconnectBroadcastsHostLeft() {
	code := s.startGame()

	s.dispatcher.Disconnect(s.ctx, s.host)

	s.expectEvent(s.alice, model.EventHostLeft, nil)
	s.expectEvent(s.bob, model.EventHostLeft, nil)
	// The departed host's queue stays quiet
	s.expectSilence(s.host)

	// The session is gone; a rejoin attempt is silently dropped
	s.dispatch(s.alice, InClaimBuzzer, CodePayload{Code: code})
	s.expectSilence(s.alice)
}

func (s *DispatcherSuite) TestPlayerDisconnectNotifiesHostOnly() {
	s.startGame()

	s.dispatcher.Disconnect(s.ctx, s.alice)

	var left model.PlayerLeftPayload
	s.expectEvent(s.host, model.EventPlayerLeft, &left)
	s.Equal(model.ConnID("conn-alice"), left.PlayerID)
	s.expectSilence(s.bob)
}

func (s *DispatcherSuite) TestStrangerDisconnectIsANoOp() {
	s.startGame()

	stranger := NewClient("conn-stranger", nil, DefaultConfig(), testutil.NopLogger())
	s.dispatcher.Disconnect(s.ctx, stranger)

	for _, c := range s.everyone() {
		s.expectSilence(c)
	}
}

// Malformed input

func (s *DispatcherSuite) TestGarbageMessageIsIgnored() {
	s.startGame()

	s.dispatcher.Dispatch(s.ctx, s.alice, []byte("not json"))
	s.dispatcher.Dispatch(s.ctx, s.alice, []byte(`{"type":"noSuchEvent"}`))

	for _, c := range s.everyone() {
		s.expectSilence(c)
	}
}
