package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/app"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/clock"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/config"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/logging"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/storage/postgres"
	transporthttp "github.com/ArtDaSak/ParqueaderosMultisede/internal/transport/http"
	"github.com/ArtDaSak/ParqueaderosMultisede/migrations"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Development)

	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.StartupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal().Err(err).Msg("db ping")
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tx := postgres.NewTransactor(pool)
	parkingSvc := app.NewParkingService(
		tx,
		postgres.NewZoneRegistry(pool),
		postgres.NewSessionStore(pool),
		postgres.NewVehicleDirectory(pool),
		clock.NewSystem(),
	)
	instrumented := app.NewInstrumentedParkingService(parkingSvc, metricsRegistry)
	provisioningSvc := app.NewProvisioningService(postgres.NewProvisioningRepository(pool))

	handler := transporthttp.NewRouter(instrumented, provisioningSvc, metricsRegistry, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info().Str("port", cfg.Port).Msg("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-stopCtx.Done():
		logger.Info().Msg("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server stopped")
}
