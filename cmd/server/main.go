package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/lunch-order/internal/auth"
	"github.com/Lixing-Zhang/lunch-order/internal/config"
	"github.com/Lixing-Zhang/lunch-order/internal/handlers"
	"github.com/Lixing-Zhang/lunch-order/internal/middleware"
	"github.com/Lixing-Zhang/lunch-order/internal/repository"
	"github.com/Lixing-Zhang/lunch-order/internal/service"
	"github.com/Lixing-Zhang/lunch-order/internal/sheets"
	"github.com/Lixing-Zhang/lunch-order/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting lunch order server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"admin_enabled", cfg.Admin.Enabled(),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Spreadsheet backend
	sheetsClient := sheets.NewClient(cfg.Sheets.ScriptURL, nil, cfg.Sheets.Timeout, log)

	// Ordering sessions
	sessionRepo := repository.NewInMemorySessionRepository(cfg.Session.TTL)
	go sessionRepo.RunJanitor(ctx, cfg.Session.PurgeInterval)

	newController := func() *service.OrderController {
		return service.NewOrderController(sheetsClient, sheetsClient, service.WithLogger(log))
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	sessionHandler := handlers.NewSessionHandler(sessionRepo, newController, log)

	var adminHandler *handlers.AdminHandler
	var authenticator *auth.Authenticator
	if cfg.Admin.Enabled() {
		authenticator, err = newAuthenticator(cfg.Admin)
		if err != nil {
			log.Error("failed to initialize admin authentication", "error", err)
			os.Exit(1)
		}
		adminHandler = handlers.NewAdminHandler(
			authenticator,
			service.NewAdminService(sheetsClient, log),
			service.DefaultQRGenerator{FormURL: cfg.Server.PublicURL},
			log,
		)
	}

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions", sessionHandler.Routes)

		if adminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				adminHandler.Routes(r, middleware.AdminAuth(authenticator))
			})
		}
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// newAuthenticator prefers a stored bcrypt hash; a plain password is hashed at startup
func newAuthenticator(cfg config.AdminConfig) (*auth.Authenticator, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = auth.HashPassword(cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	}
	return auth.NewAuthenticator(hash, []byte(cfg.JWTSecret), cfg.TokenTTL)
}
