package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"parley/internal/config"
	"parley/internal/handler"
	"parley/internal/middleware"
	"parley/internal/repository/postgres"
	"parley/internal/service/answer"
	"parley/internal/service/conversation"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Bring the schema up to date before accepting traffic
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories and the transaction manager. The manager is
	// constructed once here and injected - there is no ambient global.
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	convRepo := postgres.NewConversationRepository(repoConfig)
	turnRepo := postgres.NewTurnRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// External answer provider
	provider := answer.NewClient(answer.Config{
		APIURL:  cfg.Answer.APIURL,
		APIKey:  cfg.Answer.APIKey,
		Timeout: cfg.Answer.Timeout,
	}, logger)

	if cfg.Answer.APIKey == "" {
		logger.Warn("ANSWER_API_KEY is not set; ask requests will fail until configured")
	}

	// Orchestrator
	convService := conversation.NewService(convRepo, turnRepo, txManager, provider, logger)

	// Handlers
	convHandler := handler.NewConversationHandler(convService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	mux.HandleFunc("POST /api/search", convHandler.Ask)
	mux.HandleFunc("GET /api/chats/{owner}", convHandler.List)
	mux.HandleFunc("GET /api/chats/{owner}/title/{title}", convHandler.Get)
	mux.HandleFunc("PATCH /api/chats/{owner}/title/{title}", convHandler.Rename)
	mux.HandleFunc("DELETE /api/chats/{owner}/title/{title}", convHandler.Delete)

	// Build middleware chain (applied in reverse order, they wrap each other)
	var httpHandler http.Handler = mux
	httpHandler = middleware.RequestLogger(logger)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpHandler,
		// Write timeout leaves room for the answer provider's own timeout
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Answer.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
