package analysis

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Run_SeededRunsAreIdentical(t *testing.T) {
	sim := NewSimulator(2000)

	first, err := sim.Run(100, 0.0005, 0.02, 30, rand.NewPCG(42, 1))
	require.NoError(t, err)
	second, err := sim.Run(100, 0.0005, 0.02, 30, rand.NewPCG(42, 1))
	require.NoError(t, err)

	// Bit-for-bit, not approximately.
	assert.Equal(t, first, second)
}

func TestSimulator_Run_DifferentSeedsDiverge(t *testing.T) {
	sim := NewSimulator(2000)

	first, err := sim.Run(100, 0.0005, 0.02, 30, rand.NewPCG(42, 1))
	require.NoError(t, err)
	second, err := sim.Run(100, 0.0005, 0.02, 30, rand.NewPCG(43, 1))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSimulator_Run_ZeroHorizonIsDegenerate(t *testing.T) {
	sim := NewSimulator(500)

	result, err := sim.Run(100, 0.001, 0.02, 0, rand.NewPCG(1, 2))
	require.NoError(t, err)

	// Every path ends exactly at the starting price.
	assert.Equal(t, 100.0, result.Mean)
	assert.Equal(t, 100.0, result.Median)
	assert.Equal(t, 0.0, result.Stdev)
	assert.Equal(t, 100.0, result.Percentile5)
	assert.Equal(t, 100.0, result.Percentile95)
	assert.Equal(t, 0.0, result.ProbProfit)
}

func TestSimulator_Run_PercentilesAreOrdered(t *testing.T) {
	sim := NewSimulator(5000)

	result, err := sim.Run(250, 0.0002, 0.015, 60, rand.NewPCG(7, 9))
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Percentile5, result.Percentile25)
	assert.LessOrEqual(t, result.Percentile25, result.Median)
	assert.LessOrEqual(t, result.Median, result.Percentile75)
	assert.LessOrEqual(t, result.Percentile75, result.Percentile95)
	assert.GreaterOrEqual(t, result.ProbProfit, 0.0)
	assert.LessOrEqual(t, result.ProbProfit, 1.0)
}

func TestSimulator_Run_DriftMovesTheMean(t *testing.T) {
	sim := NewSimulator(5000)

	up, err := sim.Run(100, 0.005, 0.01, 60, rand.NewPCG(3, 3))
	require.NoError(t, err)
	down, err := sim.Run(100, -0.005, 0.01, 60, rand.NewPCG(3, 3))
	require.NoError(t, err)

	assert.Greater(t, up.Mean, 100.0)
	assert.Less(t, down.Mean, 100.0)
	assert.Greater(t, up.ProbProfit, 0.9)
	assert.Less(t, down.ProbProfit, 0.1)
}

func TestSimulator_Run_InvalidInputs(t *testing.T) {
	sim := NewSimulator(100)

	tests := []struct {
		name    string
		price   float64
		sigma   float64
		horizon int
		field   string
	}{
		{name: "zero price", price: 0, sigma: 0.02, horizon: 10, field: "current_price"},
		{name: "negative price", price: -5, sigma: 0.02, horizon: 10, field: "current_price"},
		{name: "zero sigma", price: 100, sigma: 0, horizon: 10, field: "sigma"},
		{name: "negative horizon", price: 100, sigma: 0.02, horizon: -1, field: "horizon_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(tt.price, 0, tt.sigma, tt.horizon, rand.NewPCG(1, 1))

			var invalidErr *InvalidSimulationInputError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, tt.field, invalidErr.Field)
		})
	}
}

func TestNewSimulator_DefaultsPathCount(t *testing.T) {
	assert.Equal(t, DefaultPathCount, NewSimulator(0).PathCount())
	assert.Equal(t, DefaultPathCount, NewSimulator(-10).PathCount())
	assert.Equal(t, 500, NewSimulator(500).PathCount())
}
