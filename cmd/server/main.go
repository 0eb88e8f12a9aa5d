// Package main is the entry point for the casedesk console server.
// It signs users into the case-management backend, mounts the dashboard
// for their role, and serves that dashboard's state as JSON under /console.
//
// Architecture:
//   - The backend REST API owns all data; the console keeps only the
//     signed-in session (memory, file, Redis or PostgreSQL).
//   - One dashboard controller is mounted per session and dropped on
//     sign-out or when the backend rejects the token.
//   - A background watcher signs the session out once its token expires.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aawaaz/casedesk/internal/config"
	"github.com/aawaaz/casedesk/internal/dashboard"
	"github.com/aawaaz/casedesk/internal/database"
	"github.com/aawaaz/casedesk/internal/handlers"
	"github.com/aawaaz/casedesk/internal/middleware"
	"github.com/aawaaz/casedesk/internal/services"
	"github.com/aawaaz/casedesk/internal/session"
	"github.com/aawaaz/casedesk/internal/transport"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	logger, _ := zap.NewProduction()
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("Starting casedesk console",
		"port", cfg.Port,
		"env", cfg.Environment,
		"api_base_url", cfg.APIBaseURL,
		"session_store", cfg.SessionStore,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalf("Failed to open session store: %v", err)
	}
	defer closeStore()

	// Backend client and resource services
	client := transport.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, sugar)
	svc := services.NewSet(client, sugar)

	opts := session.Options{
		ClientSideLogin: cfg.ClientSideLogin,
		DemoMode:        cfg.DemoMode,
		Tokens:          session.NewLocalTokens(cfg.SessionSecret, cfg.SessionTTL),
	}
	if cfg.DemoMode {
		opts.Demo, err = demoAccounts(cfg)
		if err != nil {
			sugar.Fatalf("Failed to load demo accounts: %v", err)
		}
		sugar.Warnw("Demo accounts enabled", "accounts", opts.Demo.Len())
	}

	manager := session.NewManager(store, svc, opts, sugar)
	client.SetTokenSource(manager)
	client.SetUnauthorizedHook(manager.HandleUnauthorized)

	if err := manager.Hydrate(ctx); err != nil {
		sugar.Warnw("Failed to restore session", "error", err)
	}

	// Sign out once the token expires
	go session.NewWatcher(manager, sugar).Start(ctx, cfg.TokenCheckInterval)

	router := dashboard.NewRouter(svc, sugar)

	console := handlers.Console{
		Health:     handlers.NewHealthHandler(svc.Health, store, sugar),
		Sessions:   handlers.NewSessionHandler(manager, router, sugar),
		Dashboard:  handlers.NewDashboardHandler(router, sugar),
		Active:     manager,
		LoginLimit: middleware.RateLimit(ctx, cfg.LoginRateRPM),
	}

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout + 5*time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	console.Mount(r)

	// Serve the dashboard front end when one is built alongside
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}

// openStore builds the configured session store. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) (session.Store, func(), error) {
	noop := func() {}

	switch cfg.SessionStore {
	case config.StoreMemory:
		return session.NewMemoryStore(), noop, nil

	case config.StoreFile:
		store, err := session.NewFileStore(cfg.SessionFile)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.StoreRedis:
		store, err := session.NewRedisStore(cfg.RedisURL, "casedesk:")
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis unreachable: %w", err)
		}
		return store, func() { store.Close() }, nil

	case config.StorePostgres:
		db, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := session.NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		sugar.Info("Session store ready on PostgreSQL")
		return store, db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}

func demoAccounts(cfg *config.Config) (*session.DemoAccounts, error) {
	spec := cfg.DemoAccounts
	if spec == "" {
		spec = session.DefaultDemoSpec
	}
	password := cfg.DemoPassword
	if password == "" {
		password = session.DefaultDemoPassword
	}
	return session.ParseDemoAccounts(spec, password, bcrypt.DefaultCost)
}
