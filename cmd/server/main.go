package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codequiz/internal/api"
	"codequiz/internal/api/view"
	"codequiz/internal/app/service"
	"codequiz/internal/common/security"
	"codequiz/internal/domain/repository"
	"codequiz/internal/platform/config"
	"codequiz/internal/platform/database"
	"codequiz/internal/platform/evaluator"
	"codequiz/internal/platform/session"
)

func main() {
	// 1. Load Configuration
	config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	logger.Info("configuration loaded")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	// 4. Initialize Redis
	session.ConnectRedis()
	defer session.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	categoryRepo := repository.NewPgCategoryRepository(database.DB)
	taskRepo := repository.NewPgTaskRepository(database.DB)

	// 6. Initialize Services
	revoker := session.NewRedisTokenRevoker(session.RDB)
	authService := service.NewAuthService(userRepo, revoker, logger)
	catalogService := service.NewCatalogService(categoryRepo, taskRepo)
	evaluatorClient := evaluator.NewClient(
		config.AppConfig.EvaluatorAPIKey,
		config.AppConfig.EvaluatorBaseURL,
		config.AppConfig.EvaluatorModel,
	)
	evaluationService := service.NewEvaluationService(evaluatorClient, config.AppConfig.EvaluatorTimeout, logger)

	// 7. Templates
	renderer, err := view.New("web/templates")
	if err != nil {
		log.Fatalf("Could not parse templates: %v", err)
	}

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService,
		catalogService,
		evaluationService,
		revoker,
		renderer,
		config.AppConfig.CookieSecure,
		logger,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	logger.Info("server stopped gracefully")
}
