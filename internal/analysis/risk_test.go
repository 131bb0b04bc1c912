package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRiskProfile_HandComputed(t *testing.T) {
	returns := []float64{0.01, -0.005, 0.02, 0.0, 0.015}

	profile, err := NewRiskProfile(returns, 0.045, 252)
	require.NoError(t, err)

	// mean = 0.008, sample stdev = 0.0103682
	assert.InDelta(t, 0.008, profile.MeanDailyReturn, 1e-12)
	assert.InDelta(t, 0.0103682, profile.DailyStdev, 1e-6)
	assert.InDelta(t, 0.16459, profile.AnnualizedVolatility, 1e-4)
	assert.InDelta(t, 11.975, profile.SharpeRatio, 0.01)
}

func TestNewRiskProfile_EmptyReturns(t *testing.T) {
	_, err := NewRiskProfile(nil, 0.045, 252)

	var insufficientErr *InsufficientDataError
	require.ErrorAs(t, err, &insufficientErr)
}

func TestNewRiskProfile_ZeroVolatility(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
	}{
		{name: "constant returns", returns: []float64{0.01, 0.01, 0.01}},
		{name: "all zero", returns: []float64{0, 0, 0, 0}},
		{name: "single return", returns: []float64{0.02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRiskProfile(tt.returns, 0.045, 252)

			var zeroVolErr *ZeroVolatilityError
			require.ErrorAs(t, err, &zeroVolErr)
			assert.Equal(t, len(tt.returns), zeroVolErr.Returns)
		})
	}
}

func TestNewRiskProfile_NegativeSharpe(t *testing.T) {
	// A series losing money every day must price below the risk-free rate.
	returns := []float64{-0.01, -0.02, -0.005, -0.015}

	profile, err := NewRiskProfile(returns, 0.045, 252)
	require.NoError(t, err)
	assert.Negative(t, profile.SharpeRatio)
}
