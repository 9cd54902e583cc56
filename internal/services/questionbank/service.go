package questionbank

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/quizbuzz/quizbuzz-go/internal/dependencies/random"
	"github.com/quizbuzz/quizbuzz-go/internal/model"
	"github.com/quizbuzz/quizbuzz-go/internal/storage"
)

// Columns the question CSV must carry, in any order
var requiredColumns = []string{
	"question", "optionA", "optionB", "optionC", "optionD", "correctAnswer", "points",
}

// Service owns the loaded question set. The set is immutable between loads;
// sessions draw from it through per-session Decks, never directly.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu        sync.RWMutex
	questions []model.Question
}

// New creates a new question bank service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "questionbank")),
	}
}

// LoadFromFile parses a CSV question source and replaces the loaded set.
// The file must have a header row naming the required columns.
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open question source: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrQuestionSourceMalformed, err)
	}
	if len(rows) < 1 {
		return fmt.Errorf("%w: missing header row", model.ErrQuestionSourceMalformed)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return fmt.Errorf("%w: missing column %q", model.ErrQuestionSourceMalformed, name)
		}
	}

	questions := make([]model.Question, 0, len(rows)-1)
	for n, row := range rows[1:] {
		q, err := parseRow(columns, row)
		if err != nil {
			return fmt.Errorf("%w: row %d: %v", model.ErrQuestionSourceMalformed, n+2, err)
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: %s", model.ErrNoQuestionsLoaded, path)
	}

	return s.LoadQuestions(ctx, questions)
}

// LoadQuestions replaces the loaded set directly and mirrors it to storage
func (s *Service) LoadQuestions(ctx context.Context, questions []model.Question) error {
	if err := s.storage.SaveQuestions(ctx, questions); err != nil {
		s.logger.Warn("question mirror write failed", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = questions

	return nil
}

// Count returns the number of loaded questions
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

// NewDeck returns a freshly shuffled deck over the loaded set. Each session
// gets its own deck so question progress is never shared across sessions.
func (s *Service) NewDeck(rnd random.Random) *Deck {
	s.mu.RLock()
	questions := make([]model.Question, len(s.questions))
	copy(questions, s.questions)
	s.mu.RUnlock()

	rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return &Deck{questions: questions, cursor: -1}
}

func parseRow(columns map[string]int, row []string) (model.Question, error) {
	field := func(name string) (string, error) {
		idx := columns[name]
		if idx >= len(row) {
			return "", fmt.Errorf("missing field %q", name)
		}
		return strings.TrimSpace(row[idx]), nil
	}

	var q model.Question
	var err error
	if q.Prompt, err = field("question"); err != nil {
		return q, err
	}

	q.Options = make(map[string]string, len(model.OptionLabels))
	for _, label := range model.OptionLabels {
		text, err := field("option" + label)
		if err != nil {
			return q, err
		}
		q.Options[label] = text
	}

	if q.Correct, err = field("correctAnswer"); err != nil {
		return q, err
	}
	if _, ok := q.Options[q.Correct]; !ok {
		return q, fmt.Errorf("correctAnswer %q is not one of the option labels", q.Correct)
	}

	points, err := field("points")
	if err != nil {
		return q, err
	}
	if q.Points, err = strconv.Atoi(points); err != nil {
		return q, fmt.Errorf("points %q is not an integer", points)
	}

	return q, nil
}

// DefaultQuestions returns the built-in arithmetic questions used when no
// question source is configured, so a fresh checkout is immediately playable.
func DefaultQuestions() []model.Question {
	return []model.Question{
		{
			Prompt:  "1+1=?",
			Options: map[string]string{"A": "1", "B": "2", "C": "3", "D": "4"},
			Correct: "B",
			Points:  20,
		},
		{
			Prompt:  "1+2=?",
			Options: map[string]string{"A": "2", "B": "3", "C": "4", "D": "5"},
			Correct: "B",
			Points:  20,
		},
		{
			Prompt:  "2+2=?",
			Options: map[string]string{"A": "4", "B": "5", "C": "6", "D": "7"},
			Correct: "A",
			Points:  20,
		},
	}
}
