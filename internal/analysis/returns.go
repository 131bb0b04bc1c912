// Package analysis implements the quantitative core: return series
// derivation, risk statistics, Monte Carlo price simulation and
// Black-Scholes option pricing.
package analysis

import "github.com/heyitsmejosh/stonks/internal/domain"

// Returns derives the daily fractional return series from a price history:
// returns[i] = close[i+1]/close[i] - 1, preserving chronological order.
// The result has length len(series)-1 and is owned by the caller.
func Returns(series domain.PriceSeries) ([]float64, error) {
	if len(series) < 2 {
		return nil, &InsufficientDataError{Points: len(series)}
	}

	returns := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		returns[i-1] = series[i].Close/series[i-1].Close - 1
	}
	return returns, nil
}
