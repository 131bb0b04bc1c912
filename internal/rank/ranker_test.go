package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyitsmejosh/stonks/internal/analysis"
	"github.com/heyitsmejosh/stonks/internal/report"
)

func makeReport(ticker string, sharpe, expectedReturn1Y, annualVol float64) report.InstrumentReport {
	return report.InstrumentReport{
		Ticker: ticker,
		Risk: analysis.RiskProfile{
			SharpeRatio:          sharpe,
			AnnualizedVolatility: annualVol,
		},
		Horizons: []report.HorizonResult{
			{Days: 252, ExpectedReturn: expectedReturn1Y},
		},
	}
}

func TestBuild_Orderings(t *testing.T) {
	reports := []report.InstrumentReport{
		makeReport("AAA", 0.5, 0.30, 0.60),
		makeReport("BBB", 1.5, 0.10, 0.20),
		makeReport("CCC", 1.0, 0.20, 0.40),
	}

	rankings := Build(reports)

	assert.Equal(t, "BBB", rankings.BySharpe[0].Ticker)
	assert.Equal(t, "CCC", rankings.BySharpe[1].Ticker)
	assert.Equal(t, "AAA", rankings.BySharpe[2].Ticker)

	assert.Equal(t, "AAA", rankings.ByExpectedReturn[0].Ticker)
	assert.Equal(t, "AAA", rankings.ByVolatility[0].Ticker)
}

func TestBuild_SharpeTieBreaks(t *testing.T) {
	reports := []report.InstrumentReport{
		makeReport("ZZZ", 1.5, 0.08, 0.2),
		makeReport("AAA", 1.5, 0.10, 0.2),
		makeReport("MMM", 0.5, 0.05, 0.2),
	}

	rankings := Build(reports)

	// Equal Sharpe: higher expected return wins.
	assert.Equal(t, "AAA", rankings.BySharpe[0].Ticker)
	assert.Equal(t, "ZZZ", rankings.BySharpe[1].Ticker)
	assert.Equal(t, "MMM", rankings.BySharpe[2].Ticker)
}

func TestBuild_SharpeTickerTieBreak(t *testing.T) {
	reports := []report.InstrumentReport{
		makeReport("BBB", 1.0, 0.10, 0.2),
		makeReport("AAA", 1.0, 0.10, 0.2),
	}

	rankings := Build(reports)
	assert.Equal(t, "AAA", rankings.BySharpe[0].Ticker)
	assert.Equal(t, "BBB", rankings.BySharpe[1].Ticker)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	reports := []report.InstrumentReport{
		makeReport("AAA", 0.5, 0.30, 0.60),
		makeReport("BBB", 1.5, 0.10, 0.20),
	}

	Build(reports)

	assert.Equal(t, "AAA", reports[0].Ticker)
	assert.Equal(t, "BBB", reports[1].Ticker)
}

func TestTop_Recommendations(t *testing.T) {
	rankings := Build([]report.InstrumentReport{
		makeReport("AAA", 0.5, 0.30, 0.60),
		makeReport("BBB", 1.5, 0.10, 0.20),
	})

	recs, ok := rankings.Top()
	require.True(t, ok)
	assert.Equal(t, "BBB", recs.BestRiskAdjusted.Ticker)
	assert.Equal(t, "AAA", recs.BestExpectedReturn.Ticker)
	assert.Equal(t, "AAA", recs.MostVolatile.Ticker)
}

func TestTop_EmptyRankings(t *testing.T) {
	rankings := Build(nil)

	recs, ok := rankings.Top()
	assert.False(t, ok)
	assert.Nil(t, recs.BestRiskAdjusted)
	assert.Empty(t, rankings.BySharpe)
}
