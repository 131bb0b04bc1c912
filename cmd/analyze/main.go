// Package main is a one-shot command line runner for the analysis engine.
// It analyzes the tickers given as arguments (falling back to the
// configured watchlist), prints a comparative summary table, and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/heyitsmejosh/stonks/internal/clients/yahoo"
	"github.com/heyitsmejosh/stonks/internal/config"
	"github.com/heyitsmejosh/stonks/internal/database"
	"github.com/heyitsmejosh/stonks/internal/history"
	"github.com/heyitsmejosh/stonks/internal/rank"
	"github.com/heyitsmejosh/stonks/internal/report"
	"github.com/heyitsmejosh/stonks/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seed := flag.Uint64("seed", 0, "simulation seed (0 seeds from entropy)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Analysis.Seed = *seed
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	tickers := flag.Args()
	if len(tickers) == 0 {
		tickers = cfg.Watchlist
	}

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
	source := history.NewCachingSource(yahoo.NewClient(log), repo, cfg.HistoryRange, log)

	analyzer := report.NewAnalyzer(report.Config{
		RiskFreeRate:       cfg.Analysis.RiskFreeRate,
		TradingDaysPerYear: cfg.Analysis.TradingDaysPerYear,
		HorizonsDays:       cfg.Analysis.HorizonsDays,
		PathCount:          cfg.Analysis.PathCount,
		OptionExpiryYears:  cfg.Analysis.OptionExpiryYears,
		Seed:               cfg.Analysis.Seed,
	}, log)
	runner := report.NewRunner(analyzer, source, cfg.Workers, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	batch := runner.Run(ctx, tickers)
	printBatch(batch)

	for _, o := range batch.Outcomes {
		if o.Report == nil {
			os.Exit(1)
		}
	}
}

// printBatch renders the comparative summary table and recommendations.
func printBatch(batch report.BatchResult) {
	reports := batch.Reports()
	rankings := rank.Build(reports)

	fmt.Printf("\nCOMPARATIVE SUMMARY (run %s, %dms)\n\n", batch.RunID, batch.ElapsedMS)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tPRICE\tSHARPE\tANN VOL\tEXP RET 1Y\tPROB PROFIT\tCALL PREMIUM")
	for _, r := range rankings.BySharpe {
		prob := 0.0
		if len(r.Horizons) > 0 {
			prob = r.Horizons[0].Simulation.ProbProfit
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.1f%%\t%+.1f%%\t%.1f%%\t%.1f%%\n",
			r.Ticker,
			r.CurrentPrice,
			r.Risk.SharpeRatio,
			r.Risk.AnnualizedVolatility*100,
			r.ExpectedReturn1Y()*100,
			prob*100,
			r.Option.ImpliedPremiumPct,
		)
	}
	w.Flush()

	if recs, ok := rankings.Top(); ok {
		fmt.Println()
		fmt.Printf("Best risk-adjusted:   %s (Sharpe %.2f)\n",
			recs.BestRiskAdjusted.Ticker, recs.BestRiskAdjusted.Risk.SharpeRatio)
		fmt.Printf("Best expected return: %s (%+.1f%% over 1y)\n",
			recs.BestExpectedReturn.Ticker, recs.BestExpectedReturn.ExpectedReturn1Y()*100)
		fmt.Printf("Most volatile:        %s (%.1f%% annualized)\n",
			recs.MostVolatile.Ticker, recs.MostVolatile.Risk.AnnualizedVolatility*100)
	}

	failed := false
	for _, o := range batch.Outcomes {
		if o.Report == nil {
			if !failed {
				fmt.Println()
				failed = true
			}
			fmt.Printf("FAILED %s: %s (%s)\n", o.Ticker, o.Error, o.ErrorKind)
		}
	}
}
