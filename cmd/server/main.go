package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leet_tracker/internal/api"
	"leet_tracker/internal/app/service"
	"leet_tracker/internal/app/session"
	"leet_tracker/internal/common/security"
	"leet_tracker/internal/domain/repository"
	"leet_tracker/internal/platform/cache"
	"leet_tracker/internal/platform/config"
	"leet_tracker/internal/platform/database"
	"leet_tracker/internal/platform/logger"
)

func main() {
	// 1. Load Configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.AppConfig

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	ctx := context.Background()

	// 2. Initialize Database
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBConnStr)
	if err != nil {
		appLog.Fatal("database connection failed", "driver", cfg.DBDriver, "error", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		appLog.Fatal("schema migration failed", "error", err)
	}
	appLog.Info("database ready", "driver", cfg.DBDriver)

	// 3. Initialize Session Store
	var sessions session.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLog.Fatal("redis connection failed", "addr", cfg.RedisAddr, "error", err)
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb)
	default:
		sessions = session.NewMemoryStore()
	}
	appLog.Info("session store ready", "store", cfg.SessionStore)

	// 4. Initialize Repositories
	questionRepo := repository.NewQuestionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)

	// 5. Initialize Services
	tokens := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)
	services := api.Services{
		Auth:       service.NewAuthService(cfg.Users, sessions, tokens, cfg.SessionTTL, appLog.With("component", "auth")),
		Questions:  service.NewQuestionService(questionRepo, progressRepo, appLog.With("component", "questions")),
		Progress:   service.NewProgressService(progressRepo, questionRepo, appLog.With("component", "progress")),
		Interviews: service.NewInterviewService(interviewRepo, questionRepo, appLog.With("component", "interviews")),
	}

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(services, tokens, appLog.With("component", "http"))

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		appLog.Info("server starting", "port", cfg.APIPort, "users", len(cfg.Users))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("could not listen on %s", cfg.APIPort), "error", err)
		}
	}()

	<-stop

	appLog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown failed", "error", err)
		return
	}
	appLog.Info("server stopped gracefully")
}
