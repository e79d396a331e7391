package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wardops/wardops/internal/config"
	"github.com/wardops/wardops/internal/domain/bed"
	"github.com/wardops/wardops/internal/domain/bedaudit"
	"github.com/wardops/wardops/internal/domain/hospitalization"
	"github.com/wardops/wardops/internal/domain/patient"
	"github.com/wardops/wardops/internal/domain/ward"
	"github.com/wardops/wardops/internal/platform/auth"
	"github.com/wardops/wardops/internal/platform/db"
	"github.com/wardops/wardops/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ward-server",
		Short: "Ward occupancy API server",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations("up")
		},
	}

	migrateStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations("status")
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	logger.Info().Str("env", cfg.Env).Msg("database connected")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "X-Request-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevMiddleware())
	} else {
		e.Use(auth.Middleware([]byte(cfg.AuthSecret)))
	}
	e.Use(middleware.Audit(logger))

	// Repositories share the pool; services share a transaction runner so
	// bed, hospitalization and audit writes commit together.
	runner := db.PoolRunner{Pool: pool}

	bedRepo := bed.NewRepo(pool)
	auditRepo := bedaudit.NewRepo(pool)
	hospRepo := hospitalization.NewRepo(pool)
	patientRepo := patient.NewRepo(pool)
	wardRepo := ward.NewRepo(pool)

	wardSvc := ward.NewService(wardRepo)
	patientSvc := patient.NewService(patientRepo)
	bedSvc := bed.NewService(bedRepo, auditRepo, wardSvc, hospRepo, runner)
	hospSvc := hospitalization.NewService(hospRepo, bedRepo, auditRepo, patientSvc, runner)
	auditSvc := bedaudit.NewService(auditRepo)

	api := e.Group("/api/v1")
	ward.NewHandler(wardSvc).RegisterRoutes(api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	bed.NewHandler(bedSvc).RegisterRoutes(api)
	bedaudit.NewHandler(auditSvc).RegisterRoutes(api)
	hospitalization.NewHandler(hospSvc).RegisterRoutes(api)

	e.GET("/health", db.HealthHandler(pool))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runMigrations(action string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, 2, 1)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	migrator := db.NewMigrator(pool, cfg.MigrationsDir)

	switch action {
	case "up":
		applied, err := migrator.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		logger.Info().Int("applied", applied).Msg("migrations complete")
	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%03d  %-40s %s\n", s.Version, s.Name, state)
		}
	}
	return nil
}