package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/quizbuzz/quizbuzz-go/internal/dependencies/clock"
	"github.com/quizbuzz/quizbuzz-go/internal/dependencies/random"
	"github.com/quizbuzz/quizbuzz-go/internal/services/game"
	"github.com/quizbuzz/quizbuzz-go/internal/services/questionbank"
	"github.com/quizbuzz/quizbuzz-go/internal/services/registry"
	"github.com/quizbuzz/quizbuzz-go/internal/storage"
	"github.com/quizbuzz/quizbuzz-go/internal/storage/memory"
	redisstorage "github.com/quizbuzz/quizbuzz-go/internal/storage/redis"
	"github.com/quizbuzz/quizbuzz-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	QuestionBank   *questionbank.Service
	Registry       *registry.Registry
	GameController *game.Controller

	// Websocket layer
	HubManager *ws.HubManager
	Dispatcher *ws.Dispatcher
}

// Config holds configuration for the application factory
type Config struct {
	// QuestionFile is the path to a CSV question file (optional)
	// If empty, questions must be loaded manually
	QuestionFile string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, logger)

	if cfg.QuestionFile != "" {
		if err := app.QuestionBank.LoadFromFile(context.Background(), cfg.QuestionFile); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	bank := questionbank.New(store, logger)
	reg := registry.New(clk, rnd, logger)
	gameController := game.NewController(reg, bank, store, clk, rnd, logger)
	hubManager := ws.NewHubManager(logger)
	dispatcher := ws.NewDispatcher(gameController, hubManager, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		QuestionBank:   bank,
		Registry:       reg,
		GameController: gameController,
		HubManager:     hubManager,
		Dispatcher:     dispatcher,
	}
}
