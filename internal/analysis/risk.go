package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RiskProfile holds the risk/return statistics derived from a daily return
// series. Immutable once computed.
type RiskProfile struct {
	MeanDailyReturn      float64 `json:"mean_daily_return"`
	DailyStdev           float64 `json:"daily_stdev"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
}

// NewRiskProfile computes risk statistics from a daily return series.
// riskFreeRate is annual (e.g. 0.045); tradingDays is the annualization
// factor (e.g. 252). The sample standard deviation convention is used
// throughout. A single return has zero sample deviation by definition.
//
// The per-day risk-free rate is the annual rate divided uniformly by
// tradingDays, without calendar alignment of the return series.
func NewRiskProfile(returns []float64, riskFreeRate float64, tradingDays int) (RiskProfile, error) {
	if len(returns) == 0 {
		return RiskProfile{}, &InsufficientDataError{Points: len(returns)}
	}

	mean := stat.Mean(returns, nil)
	stdev := 0.0
	if len(returns) > 1 {
		stdev = stat.StdDev(returns, nil)
	}
	if stdev == 0 {
		return RiskProfile{}, &ZeroVolatilityError{Returns: len(returns)}
	}

	annualFactor := math.Sqrt(float64(tradingDays))
	dailyRiskFree := riskFreeRate / float64(tradingDays)

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - dailyRiskFree
	}
	sharpe := annualFactor * stat.Mean(excess, nil) / stat.StdDev(excess, nil)

	return RiskProfile{
		MeanDailyReturn:      mean,
		DailyStdev:           stdev,
		AnnualizedVolatility: stdev * annualFactor,
		SharpeRatio:          sharpe,
	}, nil
}
