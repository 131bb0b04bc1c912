package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// OptionQuote is the theoretical valuation of a European call option.
// ImpliedPremiumPct expresses the price as a percentage of spot.
type OptionQuote struct {
	TheoreticalPrice  float64 `json:"theoretical_price"`
	ImpliedPremiumPct float64 `json:"implied_premium_pct"`
}

// PriceEuropeanCall prices a vanilla European call with the Black-Scholes
// formula. spot and strike are prices, timeToExpiry is in years, rate and
// volatility are annualized. Puts and Greeks are out of scope.
func PriceEuropeanCall(spot, strike, timeToExpiry, rate, volatility float64) (OptionQuote, error) {
	switch {
	case spot <= 0:
		return OptionQuote{}, &InvalidOptionInputError{Field: "spot", Value: spot}
	case strike <= 0:
		return OptionQuote{}, &InvalidOptionInputError{Field: "strike", Value: strike}
	case timeToExpiry <= 0:
		return OptionQuote{}, &InvalidOptionInputError{Field: "time_to_expiry", Value: timeToExpiry}
	case volatility <= 0:
		return OptionQuote{}, &InvalidOptionInputError{Field: "volatility", Value: volatility}
	}

	sqrtT := math.Sqrt(timeToExpiry)
	d1 := (math.Log(spot/strike) + (rate+0.5*volatility*volatility)*timeToExpiry) / (volatility * sqrtT)
	d2 := d1 - volatility*sqrtT

	price := spot*distuv.UnitNormal.CDF(d1) - strike*math.Exp(-rate*timeToExpiry)*distuv.UnitNormal.CDF(d2)

	return OptionQuote{
		TheoreticalPrice:  price,
		ImpliedPremiumPct: price / spot * 100,
	}, nil
}
