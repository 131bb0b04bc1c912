package report

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/heyitsmejosh/stonks/internal/analysis"
	"github.com/heyitsmejosh/stonks/internal/domain"
)

// Error kinds reported in batch outcomes.
const (
	ErrKindFetchFailed       = "fetch_failed"
	ErrKindInsufficientData  = "insufficient_data"
	ErrKindZeroVolatility    = "zero_volatility"
	ErrKindInvalidOption     = "invalid_option_input"
	ErrKindInvalidSimulation = "invalid_simulation_input"
	ErrKindCancelled         = "cancelled"
)

// Source supplies daily price histories for tickers. Implementations live
// at the I/O boundary (market data client, cache); the engine performs no
// network or file I/O itself.
type Source interface {
	History(ctx context.Context, ticker string) (domain.PriceSeries, error)
}

// Runner evaluates a batch of tickers concurrently. Each instrument's
// computation is independent and CPU-bound, so the pool is sized to
// available compute by default.
type Runner struct {
	analyzer *Analyzer
	source   Source
	workers  int
	log      zerolog.Logger
}

// NewRunner creates a batch runner. workers <= 0 defaults to the CPU count.
func NewRunner(analyzer *Analyzer, source Source, workers int, log zerolog.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		analyzer: analyzer,
		source:   source,
		workers:  workers,
		log:      log.With().Str("component", "runner").Logger(),
	}
}

// Run analyzes every ticker and returns per-ticker outcomes in input order.
// A failed instrument yields a typed outcome error; it never aborts the
// rest of the batch. Cancelling ctx discards in-flight reports (simulation
// runs are atomic, there is no partial result).
func (r *Runner) Run(ctx context.Context, tickers []string) BatchResult {
	started := time.Now()
	result := BatchResult{
		RunID:     uuid.New().String(),
		StartedAt: started,
		Outcomes:  make([]Outcome, len(tickers)),
	}

	jobs := make(chan int)
	done := make([]bool, len(tickers))
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result.Outcomes[i] = r.runOne(ctx, tickers[i])
				done[i] = true
			}
		}()
	}

dispatch:
	for i := range tickers {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	// Tickers never dispatched are marked cancelled; dispatch only stops
	// early on a done context, so ctx.Err is set here.
	for i := range result.Outcomes {
		if !done[i] {
			result.Outcomes[i] = Outcome{
				Ticker:    tickers[i],
				ErrorKind: ErrKindCancelled,
				Error:     ctx.Err().Error(),
			}
		}
	}

	result.ElapsedMS = time.Since(started).Milliseconds()

	succeeded := 0
	for _, o := range result.Outcomes {
		if o.Report != nil {
			succeeded++
		}
	}
	r.log.Info().
		Str("run_id", result.RunID).
		Int("tickers", len(tickers)).
		Int("succeeded", succeeded).
		Int("failed", len(tickers)-succeeded).
		Dur("elapsed", time.Since(started)).
		Msg("Batch analysis completed")

	return result
}

func (r *Runner) runOne(ctx context.Context, ticker string) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Ticker: ticker, ErrorKind: ErrKindCancelled, Error: err.Error()}
	}

	series, err := r.source.History(ctx, ticker)
	if err != nil {
		r.log.Warn().Str("ticker", ticker).Err(err).Msg("History fetch failed")
		return Outcome{Ticker: ticker, ErrorKind: ErrKindFetchFailed, Error: err.Error()}
	}

	rep, err := r.analyzer.Analyze(ticker, series)
	if err != nil {
		r.log.Warn().Str("ticker", ticker).Err(err).Msg("Analysis failed")
		return Outcome{Ticker: ticker, ErrorKind: classify(err), Error: err.Error()}
	}
	if err := ctx.Err(); err != nil {
		// The run was cancelled while this report was in flight; discard it.
		return Outcome{Ticker: ticker, ErrorKind: ErrKindCancelled, Error: err.Error()}
	}
	return Outcome{Ticker: ticker, Report: rep}
}

// classify maps a typed analysis error to its outcome kind.
func classify(err error) string {
	var insufficient *analysis.InsufficientDataError
	var zeroVol *analysis.ZeroVolatilityError
	var badOption *analysis.InvalidOptionInputError
	var badSim *analysis.InvalidSimulationInputError
	switch {
	case errors.As(err, &insufficient):
		return ErrKindInsufficientData
	case errors.As(err, &zeroVol):
		return ErrKindZeroVolatility
	case errors.As(err, &badOption):
		return ErrKindInvalidOption
	case errors.As(err, &badSim):
		return ErrKindInvalidSimulation
	default:
		return "internal"
	}
}
