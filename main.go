package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/msomdec/forumvotes/internal/config"
	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/msomdec/forumvotes/internal/handler"
	"github.com/msomdec/forumvotes/internal/repository/postgres"
	"github.com/msomdec/forumvotes/internal/repository/sqlite"
	"github.com/msomdec/forumvotes/internal/service"
)

const tokenTTL = time.Hour

// store is what both backends provide.
type store interface {
	domain.Database
	Users() domain.UserRepository
	Posts() domain.PostRepository
	Votes() domain.VoteRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	fixtureService := service.NewFixtureService(db, cfg.BcryptCost)
	if cfg.SeedOnStart {
		if err := fixtureService.Seed(context.Background()); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	authService := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost, tokenTTL)
	var identity service.Identifier = service.NewTokenDecoder()
	if cfg.AuthVerifyTokens {
		identity = authService
	} else {
		slog.Warn("bearer tokens are decoded without signature verification")
	}

	services := handler.Services{
		Identity: identity,
		Auth:     authService,
		Votes:    service.NewVoteService(db.Votes(), db.Posts()),
		Comments: service.NewCommentService(db.Posts()),
		Views:    service.NewViewService(db.Posts(), db.Votes(), db.Users()),
	}
	if cfg.AdminEndpoints {
		services.Fixtures = fixtureService
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, services)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var h http.Handler = mux
	if cfg.RateLimitEnabled() {
		h = handler.RateLimit(service.NewTokenBucket(ctx, cfg.RateLimitPerSecond, float64(cfg.RateLimitBurst)), h)
	}
	h = handler.CORS(cfg.CORSOrigin, h)
	h = handler.RequestLogger(h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gzhttp.GzipHandler(h),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore picks Postgres when DATABASE_URL is set and SQLite otherwise.
func openStore(cfg *config.Config) (store, error) {
	if cfg.DatabaseURL != "" {
		slog.Info("using postgres store")
		return postgres.New(cfg.DatabaseURL)
	}
	slog.Info("using sqlite store", "path", cfg.DatabasePath)
	return sqlite.New(cfg.DatabasePath)
}
