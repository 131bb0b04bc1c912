package analysis

import "fmt"

// InsufficientDataError indicates a price series too short to derive returns.
type InsufficientDataError struct {
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient price data: %d points, need at least 2", e.Points)
}

// ZeroVolatilityError indicates a return series with zero variance. Sharpe
// ratio and lognormal drift are undefined for such a series, so the failure
// is surfaced explicitly instead of propagating NaN.
type ZeroVolatilityError struct {
	Returns int
}

func (e *ZeroVolatilityError) Error() string {
	return fmt.Sprintf("return series has zero volatility over %d returns", e.Returns)
}

// InvalidOptionInputError indicates a non-positive input to the option pricer.
type InvalidOptionInputError struct {
	Field string
	Value float64
}

func (e *InvalidOptionInputError) Error() string {
	return fmt.Sprintf("invalid option input: %s = %g, must be positive", e.Field, e.Value)
}

// InvalidSimulationInputError indicates a simulation precondition violation.
type InvalidSimulationInputError struct {
	Field string
	Value float64
}

func (e *InvalidSimulationInputError) Error() string {
	return fmt.Sprintf("invalid simulation input: %s = %g", e.Field, e.Value)
}
