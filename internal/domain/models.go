// Package domain provides the core data types shared across the analysis engine.
package domain

import (
	"fmt"
	"time"
)

// Candle is one trading day of OHLC data for an instrument.
// Open/high/low are carried for display purposes only; the analysis
// engine operates on closes.
type Candle struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// PriceSeries is a chronologically ordered daily price history for one
// instrument. The engine reads it without mutation; ownership stays with
// the caller.
type PriceSeries []Candle

// Closes returns the close prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, c := range s {
		closes[i] = c.Close
	}
	return closes
}

// LastClose returns the most recent close price, or 0 for an empty series.
func (s PriceSeries) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// Validate checks the series invariants: timestamps strictly increasing and
// all prices positive. Data providers call this at the boundary; the engine
// itself trusts the ordering it is given.
func (s PriceSeries) Validate() error {
	for i, c := range s {
		if c.Close <= 0 || c.Open <= 0 || c.High <= 0 || c.Low <= 0 {
			return fmt.Errorf("non-positive price at index %d (%s)", i, c.Time.Format("2006-01-02"))
		}
		if i > 0 && !s[i-1].Time.Before(c.Time) {
			return fmt.Errorf("timestamps not strictly increasing at index %d", i)
		}
	}
	return nil
}

// Quote is a current market snapshot for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	AsOf          time.Time `json:"as_of"`
}
