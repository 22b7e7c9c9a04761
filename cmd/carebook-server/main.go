package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carebook/carebook/internal/config"
	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/domain/records"
	"github.com/carebook/carebook/internal/domain/scheduling"
	"github.com/carebook/carebook/internal/persist"
	"github.com/carebook/carebook/internal/platform/db"
	"github.com/carebook/carebook/internal/platform/middleware"
	"github.com/carebook/carebook/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carebook-server",
		Short: "Clinical scheduling API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the seed dataset to the configured snapshot backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// newKV builds the configured snapshot backend. The returned cleanup closes
// whatever connections the backend holds; the pool is non-nil only for the
// postgres backend.
func newKV(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (persist.KV, *pgxpool.Pool, func(), error) {
	switch cfg.SnapshotBackend {
	case "fs":
		kv, err := persist.NewFileKV(cfg.SnapshotDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return kv, nil, func() {}, nil
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, nil, err
		}
		kv, err := persist.NewPostgresKV(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		logger.Info().Msg("connected to database")
		return kv, pool, pool.Close, nil
	case "redis":
		kv, err := persist.NewRedisKV(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info().Msg("connected to redis")
		return kv, nil, func() { kv.Close() }, nil
	default:
		return persist.NewMemoryKV(), nil, func() {}, nil
	}
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	kv, pool, cleanup, err := newKV(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open snapshot backend")
	}
	defer cleanup()

	// Store and persistence
	st := store.New(logger)
	adapter := persist.NewAdapter(kv, logger)
	if err := adapter.Load(ctx, st, time.Now()); err != nil {
		logger.Fatal().Err(err).Msg("failed to hydrate store")
	}
	st.AttachSnapshotter(adapter)

	// Domain services
	dirSvc := directory.NewService(st.Patients(), st.Practitioners())
	schedSvc := scheduling.NewService(st.Appointments(), st.Patients(), st.Practitioners())
	booking := scheduling.NewBookingController(schedSvc)
	recSvc := records.NewService(st.Records(), st.Patients())

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID", "X-Role"},
	}))
	e.Use(middleware.ResolveRole())

	apiV1 := e.Group("/api/v1")
	directory.NewHandler(dirSvc).RegisterRoutes(apiV1)
	scheduling.NewHandler(schedSvc, booking).RegisterRoutes(apiV1)
	records.NewHandler(recSvc).RegisterRoutes(apiV1)

	apiV1.GET("/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, st.Stats(time.Now()))
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// runSeed resets the configured backend to the seed dataset, the same state
// a fresh server starts from when no snapshots exist.
func runSeed() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	kv, _, cleanup, err := newKV(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open snapshot backend")
	}
	defer cleanup()

	st := store.New(logger)
	st.HydrateSeed(time.Now())

	adapter := persist.NewAdapter(kv, logger)
	patients, practitioners, appointments, recs := st.Dump()
	for key, items := range map[string]interface{}{
		store.KeyPatients:      patients,
		store.KeyPractitioners: practitioners,
		store.KeyAppointments:  appointments,
		store.KeyRecords:       recs,
	} {
		if err := adapter.SaveCollection(ctx, key, items); err != nil {
			logger.Fatal().Err(err).Str("collection", key).Msg("failed to write seed snapshot")
		}
	}
	logger.Info().
		Int("patients", len(patients)).
		Int("practitioners", len(practitioners)).
		Int("appointments", len(appointments)).
		Int("records", len(recs)).
		Msg("seed dataset written")
	return nil
}
