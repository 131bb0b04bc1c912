// Package main is the entry point for the stonks analysis server.
// It exposes a REST API over the quantitative engine: on-demand batch
// analysis, cached reports and rankings from scheduled runs, and live
// market index snapshots.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/heyitsmejosh/stonks/internal/clients/yahoo"
	"github.com/heyitsmejosh/stonks/internal/config"
	"github.com/heyitsmejosh/stonks/internal/database"
	"github.com/heyitsmejosh/stonks/internal/history"
	"github.com/heyitsmejosh/stonks/internal/markets"
	"github.com/heyitsmejosh/stonks/internal/report"
	"github.com/heyitsmejosh/stonks/internal/scheduler"
	"github.com/heyitsmejosh/stonks/internal/server"
	"github.com/heyitsmejosh/stonks/pkg/logger"
)

func main() {
	cfg, err := config.Load(getEnv("STONKS_CONFIG", "config.yaml"))
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting stonks server")

	historyDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "history.db"),
		Profile: database.ProfileCache,
		Name:    "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer historyDB.Close()

	repo, err := history.NewRepository(historyDB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history repository")
	}

	yahooClient := yahoo.NewClient(log)
	source := history.NewCachingSource(yahooClient, repo, cfg.HistoryRange, log)

	analyzer := report.NewAnalyzer(report.Config{
		RiskFreeRate:       cfg.Analysis.RiskFreeRate,
		TradingDaysPerYear: cfg.Analysis.TradingDaysPerYear,
		HorizonsDays:       cfg.Analysis.HorizonsDays,
		PathCount:          cfg.Analysis.PathCount,
		OptionExpiryYears:  cfg.Analysis.OptionExpiryYears,
		Seed:               cfg.Analysis.Seed,
	}, log)
	runner := report.NewRunner(analyzer, source, cfg.Workers, log)

	refresher := scheduler.NewRefresher(runner, cfg.Watchlist, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := refresher.Register(ctx, cfg.RefreshCron); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.RefreshCron).Msg("Invalid refresh schedule")
	}
	refresher.Start()
	defer refresher.Stop()

	// Warm the caches so /api/reports has data before the first tick.
	go refresher.Refresh(ctx)

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		Runner:    runner,
		Refresher: refresher,
		Markets:   markets.NewService(yahooClient, log),
		Watchlist: cfg.Watchlist,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// getEnv retrieves an environment variable value, returning a fallback
// if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
