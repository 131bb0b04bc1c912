package report

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"

	"github.com/rs/zerolog"

	"github.com/heyitsmejosh/stonks/internal/analysis"
	"github.com/heyitsmejosh/stonks/internal/domain"
	"github.com/heyitsmejosh/stonks/internal/technicals"
)

// Config holds the analysis parameters. Zero values fall back to the
// defaults the original deployment shipped with.
type Config struct {
	RiskFreeRate       float64 // annual, default 0.045
	TradingDaysPerYear int     // default 252
	HorizonsDays       []int   // default 1y and 5y of trading days
	PathCount          int     // default 10000
	OptionExpiryYears  float64 // default 1.0, ATM call
	Seed               uint64  // 0 = seed from entropy
}

func (c Config) withDefaults() Config {
	if c.RiskFreeRate == 0 {
		c.RiskFreeRate = 0.045
	}
	if c.TradingDaysPerYear == 0 {
		c.TradingDaysPerYear = 252
	}
	if len(c.HorizonsDays) == 0 {
		c.HorizonsDays = []int{252, 1260}
	}
	if c.PathCount == 0 {
		c.PathCount = analysis.DefaultPathCount
	}
	if c.OptionExpiryYears == 0 {
		c.OptionExpiryYears = 1.0
	}
	return c
}

// Analyzer builds one InstrumentReport per ticker from its price history.
// Safe for concurrent use: all per-run state lives on the stack.
type Analyzer struct {
	cfg Config
	sim *analysis.Simulator
	log zerolog.Logger
}

// NewAnalyzer creates an analyzer with the given configuration.
func NewAnalyzer(cfg Config, log zerolog.Logger) *Analyzer {
	cfg = cfg.withDefaults()
	return &Analyzer{
		cfg: cfg,
		sim: analysis.NewSimulator(cfg.PathCount),
		log: log.With().Str("component", "analyzer").Logger(),
	}
}

// Config returns the effective (defaulted) configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// Analyze runs the full analysis pipeline for one instrument: return
// series, risk profile, one Monte Carlo simulation per configured horizon,
// and an at-the-money one-year call quote. Typed analysis errors propagate
// unwrapped so callers can classify them.
func (a *Analyzer) Analyze(ticker string, series domain.PriceSeries) (*InstrumentReport, error) {
	returns, err := analysis.Returns(series)
	if err != nil {
		return nil, err
	}

	risk, err := analysis.NewRiskProfile(returns, a.cfg.RiskFreeRate, a.cfg.TradingDaysPerYear)
	if err != nil {
		return nil, err
	}

	currentPrice := series.LastClose()

	horizons := make([]HorizonResult, 0, len(a.cfg.HorizonsDays))
	days := append([]int(nil), a.cfg.HorizonsDays...)
	sort.Ints(days)
	for _, h := range days {
		sim, err := a.sim.Run(currentPrice, risk.MeanDailyReturn, risk.DailyStdev, h, a.source(ticker, h))
		if err != nil {
			return nil, fmt.Errorf("simulate %d-day horizon: %w", h, err)
		}
		horizons = append(horizons, HorizonResult{
			Days:           h,
			ExpectedReturn: (sim.Median - currentPrice) / currentPrice,
			Simulation:     sim,
		})
	}

	option, err := analysis.PriceEuropeanCall(
		currentPrice, currentPrice, a.cfg.OptionExpiryYears,
		a.cfg.RiskFreeRate, risk.AnnualizedVolatility,
	)
	if err != nil {
		return nil, err
	}

	a.log.Debug().
		Str("ticker", ticker).
		Float64("price", currentPrice).
		Float64("sharpe", risk.SharpeRatio).
		Int("horizons", len(horizons)).
		Msg("Instrument analyzed")

	return &InstrumentReport{
		Ticker:       ticker,
		CurrentPrice: currentPrice,
		AsOf:         series[len(series)-1].Time,
		Risk:         risk,
		Horizons:     horizons,
		Option:       option,
		Technicals:   technicals.Compute(series),
	}, nil
}

// source derives the random source for one (ticker, horizon) simulation.
// With a configured seed the stream is partitioned deterministically per
// ticker and horizon, so results are reproducible regardless of which
// worker picks up which instrument. Without a seed, nil defers to entropy.
func (a *Analyzer) source(ticker string, horizonDays int) rand.Source {
	if a.cfg.Seed == 0 {
		return nil
	}
	h := fnv.New64a()
	h.Write([]byte(ticker))
	return rand.NewPCG(a.cfg.Seed^h.Sum64(), uint64(horizonDays))
}
