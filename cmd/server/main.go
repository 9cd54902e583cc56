package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/quizbuzz/quizbuzz-go/internal/api"
	"github.com/quizbuzz/quizbuzz-go/internal/factory"
	"github.com/quizbuzz/quizbuzz-go/internal/services/questionbank"
	redisstorage "github.com/quizbuzz/quizbuzz-go/internal/storage/redis"
	"github.com/quizbuzz/quizbuzz-go/internal/ws"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load questions; a bad file is logged, not fatal, and the built-in set
	// keeps the server playable either way
	questionFile := os.Getenv("QUESTION_FILE")
	if questionFile != "" {
		if err := app.QuestionBank.LoadFromFile(context.Background(), questionFile); err != nil {
			logger.Warn("could not load question file",
				slog.String("path", questionFile),
				slog.String("error", err.Error()),
			)
		}
	}
	if app.QuestionBank.Count() == 0 {
		logger.Info("no questions loaded, seeding built-in set")
		if err := app.QuestionBank.LoadQuestions(context.Background(), questionbank.DefaultQuestions()); err != nil {
			logger.Error("failed to seed questions", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	logger.Info("question bank ready", slog.Int("count", app.QuestionBank.Count()))

	// Create websocket endpoint and router
	wsHandler := ws.NewHandler(app.Dispatcher, ws.DefaultConfig(), logger)
	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		WSHandler: wsHandler,
		StaticDir: staticDir(),
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("value", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// staticDir resolves the directory for the host and player pages, if any
func staticDir() string {
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		return dir
	}
	if info, err := os.Stat("web/static"); err == nil && info.IsDir() {
		return "web/static"
	}
	return ""
}
