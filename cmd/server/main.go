package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"codeforge/internal/ai"
	"codeforge/internal/config"
	"codeforge/internal/database"
	"codeforge/internal/docstore"
	"codeforge/internal/event"
	"codeforge/internal/handlers"
	"codeforge/internal/logger"
	"codeforge/internal/metrics"
	"codeforge/internal/quiz"
	"codeforge/internal/repository"
	"codeforge/internal/security"
	"codeforge/internal/service"
)

// quizStore is what the quiz controllers write to and the history reads from
type quizStore interface {
	quiz.PersistenceSink
	service.HistoryStore
}

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()

	log.Info("Database connection established", "type", cfg.DatabaseType)

	applied, err := db.RunMigrations(ctx, cfg.MigrationsPath)
	if err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}
	log.Info("Migrations completed successfully", "applied", applied)

	checks := map[string]handlers.HealthCheck{"database": db.PingContext}

	// Quiz and chat history live in SQL by default, or in MongoDB
	var (
		quizzes quizStore
		chats   service.ChatStore
	)
	switch cfg.StoreBackend {
	case "sql":
		quizzes = repository.NewQuizRepository(db)
		chats = repository.NewChatRepository(db)
	case "mongo":
		store, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatal("Failed to connect to document store", "error", err)
		}
		defer store.Close(context.Background())
		quizzes, chats = store, store
		checks["mongo"] = store.Ping
		log.Info("Document store connected", "database", cfg.MongoDatabase)
	default:
		log.Fatal("Unknown store backend", "backend", cfg.StoreBackend)
	}

	sink := quiz.FanoutSink{quizzes}
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		publisher, err := event.NewPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange, log)
		if err != nil {
			log.Warn("Event publishing disabled", "error", err)
		} else {
			defer publisher.Close()
			sink = append(sink, publisher)
			log.Info("Publishing quiz events", "exchange", cfg.RabbitMQExchange)
		}
	}

	// Initialize services
	userRepo := repository.NewUserRepository(db)
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.SessionDuration)
	authService := service.NewAuthService(userRepo, tokens, cfg.SessionDuration)
	chatService := service.NewChatService(chats, ai.NewResponder(cfg.AssistantLatency), log.With("component", "chat"))
	historyService := service.NewHistoryService(quizzes)

	generator := ai.NewQuestionGenerator(cfg.AssistantLatency, rand.New(rand.NewSource(time.Now().UnixNano())))
	controllerLog := log.With("component", "quiz")
	registry := quiz.NewRegistry(func(userID string) *quiz.Controller {
		return quiz.NewController(generator, sink, controllerLog, userID, quiz.Options{
			GenerationTimeout: cfg.QuizGenerationTimeout,
			PersistTimeout:    cfg.PersistTimeout,
		})
	})

	limiter := security.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	go limiter.RunCleanup(ctx, 5*time.Minute)

	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	router := &handlers.Router{
		Middleware: handlers.NewMiddleware(authService, csrf, limiter, log),
		Auth:       handlers.NewAuthHandler(authService, csrf, log),
		Quiz:       handlers.NewQuizHandler(registry, generator, log),
		Chat:       handlers.NewChatHandler(chatService, log),
		History:    handlers.NewHistoryHandler(historyService, log),
		Health:     handlers.Health(checks, log),
		Metrics:    metrics.Handler(),
		Log:        log,
	}

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.QuizGenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background cleanup of sessions and idle quiz controllers
	go runCleanup(ctx, authService, registry, cfg.ControllerIdleTTL, log)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", "addr", fmt.Sprintf("http://localhost%s", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error("Server failed", "error", err)
	}
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}

	// Let best-effort writes started by in-flight requests land
	registry.Wait()
	log.Info("Server stopped")
}

// runCleanup periodically removes expired sessions and idle quiz controllers
func runCleanup(ctx context.Context, authService *service.AuthService, registry *quiz.Registry, idleTTL time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if n, err := authService.CleanupExpiredSessions(ctx); err != nil {
			log.Error("Error cleaning up expired sessions", "error", err)
		} else {
			log.Info("Expired sessions cleaned up", "removed", n)
		}

		log.Info("Idle quiz controllers pruned", "removed", registry.Prune(idleTTL), "active", registry.Len())
	}
}
