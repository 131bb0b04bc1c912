// Package technicals computes display-oriented technical indicators for an
// instrument report. These feed presentation only and never the core
// statistics.
package technicals

import (
	talib "github.com/markcheno/go-talib"

	"github.com/heyitsmejosh/stonks/internal/domain"
)

const (
	smaShortPeriod = 50
	smaLongPeriod  = 200
	rsiPeriod      = 14
)

// Summary holds indicator values for display. Moving averages and RSI are
// nil when the series is too short for their lookback window.
type Summary struct {
	SMA50      *float64 `json:"sma_50,omitempty"`
	SMA200     *float64 `json:"sma_200,omitempty"`
	RSI14      *float64 `json:"rsi_14,omitempty"`
	High52Week float64  `json:"high_52w"`
	Low52Week  float64  `json:"low_52w"`
}

// Compute derives the indicator summary from a daily price series.
func Compute(series domain.PriceSeries) Summary {
	var s Summary
	if len(series) == 0 {
		return s
	}

	closes := series.Closes()
	if v, ok := lastIndicator(talib.Sma(closes, smaShortPeriod), smaShortPeriod, len(closes)); ok {
		s.SMA50 = &v
	}
	if v, ok := lastIndicator(talib.Sma(closes, smaLongPeriod), smaLongPeriod, len(closes)); ok {
		s.SMA200 = &v
	}
	// RSI needs period+1 points to produce its first value.
	if v, ok := lastIndicator(talib.Rsi(closes, rsiPeriod), rsiPeriod+1, len(closes)); ok {
		s.RSI14 = &v
	}

	// 52-week range from the trailing year of the supplied series.
	window := series
	if len(window) > 252 {
		window = window[len(window)-252:]
	}
	s.High52Week = window[0].High
	s.Low52Week = window[0].Low
	for _, c := range window[1:] {
		if c.High > s.High52Week {
			s.High52Week = c.High
		}
		if c.Low < s.Low52Week {
			s.Low52Week = c.Low
		}
	}
	return s
}

// lastIndicator extracts the final value of a talib output slice, which pads
// the warm-up window with zeros.
func lastIndicator(values []float64, minPoints, n int) (float64, bool) {
	if n < minPoints || len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}
