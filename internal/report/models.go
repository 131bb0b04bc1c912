// Package report assembles per-instrument analysis reports and runs them in
// batches across a worker pool.
package report

import (
	"time"

	"github.com/heyitsmejosh/stonks/internal/analysis"
	"github.com/heyitsmejosh/stonks/internal/technicals"
)

// HorizonResult is one simulated forward horizon for an instrument.
// ExpectedReturn is (median terminal price − current price) / current price.
type HorizonResult struct {
	Days           int                       `json:"days"`
	ExpectedReturn float64                   `json:"expected_return"`
	Simulation     analysis.SimulationResult `json:"simulation"`
}

// InstrumentReport aggregates everything one analysis run produced for a
// single ticker. Built fresh per run and never mutated afterwards.
type InstrumentReport struct {
	Ticker       string               `json:"ticker"`
	CurrentPrice float64              `json:"current_price"`
	AsOf         time.Time            `json:"as_of"`
	Risk         analysis.RiskProfile `json:"risk"`
	Horizons     []HorizonResult      `json:"horizons"`
	Option       analysis.OptionQuote `json:"option"`
	Technicals   technicals.Summary   `json:"technicals"`
}

// ExpectedReturn1Y is the expected return at the one-year horizon (252
// trading days), falling back to the shortest configured horizon when no
// 252-day simulation was run.
func (r *InstrumentReport) ExpectedReturn1Y() float64 {
	if len(r.Horizons) == 0 {
		return 0
	}
	for _, h := range r.Horizons {
		if h.Days == 252 {
			return h.ExpectedReturn
		}
	}
	return r.Horizons[0].ExpectedReturn
}

// Outcome is the per-ticker result of a batch run: either a report or a
// typed failure. One instrument's failure never aborts the batch.
type Outcome struct {
	Ticker    string            `json:"ticker"`
	Report    *InstrumentReport `json:"report,omitempty"`
	ErrorKind string            `json:"error_kind,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// BatchResult is the output of one batch analysis run.
type BatchResult struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	ElapsedMS int64     `json:"elapsed_ms"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Reports returns the successful subset of the batch, in input order.
func (b BatchResult) Reports() []InstrumentReport {
	reports := make([]InstrumentReport, 0, len(b.Outcomes))
	for _, o := range b.Outcomes {
		if o.Report != nil {
			reports = append(reports, *o.Report)
		}
	}
	return reports
}
