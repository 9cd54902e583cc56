package factory

import (
	"context"
	"time"

	"github.com/quizbuzz/quizbuzz-go/internal/dependencies/mocks"
	"github.com/quizbuzz/quizbuzz-go/internal/services/questionbank"
	"github.com/quizbuzz/quizbuzz-go/internal/storage/memory"
	"github.com/quizbuzz/quizbuzz-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestQuestions loads the built-in arithmetic question set
func (t *TestApp) LoadTestQuestions() error {
	return t.QuestionBank.LoadQuestions(context.Background(), questionbank.DefaultQuestions())
}
