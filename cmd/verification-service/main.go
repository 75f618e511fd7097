package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rentora/rentora-backend/internal/verification/events"
	"github.com/rentora/rentora-backend/internal/verification/extractor"
	"github.com/rentora/rentora-backend/internal/verification/handler"
	"github.com/rentora/rentora-backend/internal/verification/repository"
	"github.com/rentora/rentora-backend/internal/verification/service"
	"github.com/rentora/rentora-backend/pkg/config"
	"github.com/rentora/rentora-backend/pkg/database"
	"github.com/rentora/rentora-backend/pkg/httputil"
	"github.com/rentora/rentora-backend/pkg/logger"
	"github.com/rentora/rentora-backend/pkg/messaging"
	"github.com/rentora/rentora-backend/pkg/token"
)

func main() {
	// Load .env for local development; ignore when absent
	_ = godotenv.Load()

	cfg, err := config.LoadWithValidation("verification-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("verification-service", cfg.Server.Environment)
	log.Info().Msg("starting Verification Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ. Events are best-effort notifications, so a
	// missing broker degrades to running without a publisher instead of
	// refusing to start.
	var publisher service.EventPublisher
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, verification events disabled")
	} else {
		defer rmq.Close()
		eventPublisher, err := events.NewVerificationEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		publisher = eventPublisher
	}

	// Wire up the verification flow
	ocrClient := extractor.NewOCRClient(cfg.OCR.URL)
	verificationRepo := repository.NewVerificationRepository(db)
	verificationService := service.NewService(verificationRepo, ocrClient, publisher, cfg.OCR.SideTimeout, log)
	verificationHandler := handler.NewHandler(verificationService, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"message": "verification service is running",
		})
	})

	// Verification endpoints
	r.Route("/verify", func(r chi.Router) {
		if cfg.Auth.Enabled {
			r.Use(httputil.Auth(token.NewManager(&cfg.Auth)))
		}
		r.Post("/ic", verificationHandler.VerifyIC)
		r.Get("/ic/{id}", verificationHandler.GetVerification)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
