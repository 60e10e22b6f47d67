// Package main is the entry point for the travel booking API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pkordes/travel-booking/backend/internal/audit"
	"github.com/pkordes/travel-booking/backend/internal/auth"
	"github.com/pkordes/travel-booking/backend/internal/authz"
	"github.com/pkordes/travel-booking/backend/internal/config"
	"github.com/pkordes/travel-booking/backend/internal/handler"
	"github.com/pkordes/travel-booking/backend/internal/middleware"
	"github.com/pkordes/travel-booking/backend/internal/repo"
	"github.com/pkordes/travel-booking/backend/internal/service"
	"github.com/pkordes/travel-booking/backend/migrations"
)

// revocationStore is satisfied by both the in-memory and the redis store.
type revocationStore interface {
	service.Revoker
	middleware.RevocationChecker
}

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	if err := migrate(ctx, cfg.DatabaseURL, logger); err != nil {
		return err
	}

	// --- Auth -------------------------------------------------------------
	creds, err := auth.NewCredentials([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return err
	}

	revocations, closeRevocations, err := newRevocationStore(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer closeRevocations()

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Audit ------------------------------------------------------------
	var auditFile *logrus.Logger
	if cfg.AuditLogPath != "" {
		var closer io.Closer
		auditFile, closer = audit.NewFileLogger(cfg.AuditLogPath)
		defer closer.Close()
		logger.Info("audit file enabled", "path", cfg.AuditLogPath)
	}

	// --- Repos and services -----------------------------------------------
	continentRepo := repo.NewContinentRepo(pool)
	countryRepo := repo.NewCountryRepo(pool)
	tripRepo := repo.NewTripRepo(pool)
	userRepo := repo.NewUserRepo(pool)
	reservationRepo := repo.NewReservationRepo(pool)
	sink := audit.NewSink(repo.NewAuditRepo(pool), auditFile, logger)

	reservations := service.NewReservationService(reservationRepo, userRepo, tripRepo, sink, time.Now)
	server := handler.NewServer(handler.Services{
		Continents:   service.NewContinentService(continentRepo, sink),
		Countries:    service.NewCountryService(countryRepo, continentRepo, sink),
		Trips:        service.NewTripService(tripRepo, countryRepo, sink),
		Users:        service.NewUserService(userRepo, creds, sink),
		Reservations: reservations,
		Auth:         service.NewAuthService(userRepo, creds, creds, revocations, sink),
		Reports:      service.NewReportService(continentRepo, countryRepo, tripRepo, userRepo, reservationRepo, sink),
	}, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order. The authenticator resolves the caller
	// from the bearer token; the authorizer then checks the route policy, so
	// handlers only ever see permitted callers.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewAuthenticator(creds, revocations, logger))
	r.Use(middleware.NewAuthorizer(enforcer, logger))
	server.Routes(r, middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst))

	// --- Sweeper ----------------------------------------------------------
	sweepCtx, stopSweep := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		service.NewSweeper(reservations, cfg.SweepInterval, logger).Run(sweepCtx)
	}()

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		stopSweep()
		<-sweepDone
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("shutting down server")

	// Give in-flight requests up to 15 seconds to complete. A sweep batch
	// already running is allowed to finish.
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	stopSweep()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-sweepDone
	logger.Info("server stopped")
	return nil
}

// migrate applies pending goose migrations before the server accepts traffic.
func migrate(ctx context.Context, dsn string, logger *slog.Logger) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, res := range results {
		logger.Info("migration applied", "version", res.Source.Version, "duration_ms", res.Duration.Milliseconds())
	}
	return nil
}

// newRevocationStore returns the redis store when url is set and the
// in-memory store otherwise. The returned func releases the store.
func newRevocationStore(ctx context.Context, url string, logger *slog.Logger) (revocationStore, func(), error) {
	if url == "" {
		logger.Warn("REDIS_URL not set; token revocations are kept in memory")
		return auth.NewMemoryRevocations(), func() {}, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("redis connection established")
	return auth.NewRedisRevocations(client, logger), func() { _ = client.Close() }, nil
}
