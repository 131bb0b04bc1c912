// Package rank produces comparative rankings and recommendations over a set
// of instrument reports.
package rank

import (
	"sort"

	"github.com/heyitsmejosh/stonks/internal/report"
)

// Rankings holds the three comparative views over one batch of reports.
// Input reports are copied, never mutated.
type Rankings struct {
	// BySharpe is ordered by Sharpe ratio descending; ties broken by higher
	// one-year expected return, then by ticker lexicographically.
	BySharpe []report.InstrumentReport `json:"by_sharpe"`
	// ByExpectedReturn is ordered by one-year expected return descending.
	ByExpectedReturn []report.InstrumentReport `json:"by_expected_return"`
	// ByVolatility is ordered by annualized volatility descending.
	ByVolatility []report.InstrumentReport `json:"by_volatility"`
}

// Recommendations names the top instrument of each ranking.
type Recommendations struct {
	BestRiskAdjusted   *report.InstrumentReport `json:"best_risk_adjusted,omitempty"`
	BestExpectedReturn *report.InstrumentReport `json:"best_expected_return,omitempty"`
	MostVolatile       *report.InstrumentReport `json:"most_volatile,omitempty"`
}

// Build computes the three rankings. An empty input yields empty rankings.
func Build(reports []report.InstrumentReport) Rankings {
	r := Rankings{
		BySharpe:         sortedBy(reports, lessSharpe),
		ByExpectedReturn: sortedBy(reports, lessExpectedReturn),
		ByVolatility:     sortedBy(reports, lessVolatility),
	}
	return r
}

// Top returns the recommendation triple, or ok=false for empty rankings.
func (r Rankings) Top() (Recommendations, bool) {
	if len(r.BySharpe) == 0 {
		return Recommendations{}, false
	}
	return Recommendations{
		BestRiskAdjusted:   &r.BySharpe[0],
		BestExpectedReturn: &r.ByExpectedReturn[0],
		MostVolatile:       &r.ByVolatility[0],
	}, true
}

func sortedBy(reports []report.InstrumentReport, less func(a, b *report.InstrumentReport) bool) []report.InstrumentReport {
	out := make([]report.InstrumentReport, len(reports))
	copy(out, reports)
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

func lessSharpe(a, b *report.InstrumentReport) bool {
	if a.Risk.SharpeRatio != b.Risk.SharpeRatio {
		return a.Risk.SharpeRatio > b.Risk.SharpeRatio
	}
	if a.ExpectedReturn1Y() != b.ExpectedReturn1Y() {
		return a.ExpectedReturn1Y() > b.ExpectedReturn1Y()
	}
	return a.Ticker < b.Ticker
}

func lessExpectedReturn(a, b *report.InstrumentReport) bool {
	return a.ExpectedReturn1Y() > b.ExpectedReturn1Y()
}

func lessVolatility(a, b *report.InstrumentReport) bool {
	return a.Risk.AnnualizedVolatility > b.Risk.AnnualizedVolatility
}
