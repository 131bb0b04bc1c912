package report

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyitsmejosh/stonks/internal/domain"
)

// fakeSource serves canned histories and errors per ticker.
type fakeSource struct {
	histories map[string]domain.PriceSeries
	errs      map[string]error
}

func (f *fakeSource) History(_ context.Context, ticker string) (domain.PriceSeries, error) {
	if err, ok := f.errs[ticker]; ok {
		return nil, err
	}
	return f.histories[ticker], nil
}

func TestRunner_Run_MixedBatch(t *testing.T) {
	source := &fakeSource{
		histories: map[string]domain.PriceSeries{
			"GOOD":  trendingSeries(300, 1),
			"SHORT": trendingSeries(1, 2),
		},
		errs: map[string]error{
			"DOWN": errors.New("yahoo: status 502"),
		},
	}
	runner := NewRunner(testAnalyzer(7), source, 2, zerolog.Nop())

	batch := runner.Run(context.Background(), []string{"GOOD", "SHORT", "DOWN"})

	require.Len(t, batch.Outcomes, 3)
	assert.NotEmpty(t, batch.RunID)

	good := batch.Outcomes[0]
	assert.Equal(t, "GOOD", good.Ticker)
	require.NotNil(t, good.Report)
	assert.Empty(t, good.ErrorKind)

	short := batch.Outcomes[1]
	assert.Nil(t, short.Report)
	assert.Equal(t, ErrKindInsufficientData, short.ErrorKind)

	down := batch.Outcomes[2]
	assert.Nil(t, down.Report)
	assert.Equal(t, ErrKindFetchFailed, down.ErrorKind)
	assert.Contains(t, down.Error, "502")

	// Only the good instrument makes it into the report set.
	reports := batch.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "GOOD", reports[0].Ticker)
}

func TestRunner_Run_OutcomesKeepInputOrder(t *testing.T) {
	tickers := []string{"AAA", "BBB", "CCC", "DDD", "EEE"}
	histories := make(map[string]domain.PriceSeries, len(tickers))
	for i, tk := range tickers {
		histories[tk] = trendingSeries(300, uint64(i+1))
	}
	runner := NewRunner(testAnalyzer(7), &fakeSource{histories: histories}, 3, zerolog.Nop())

	batch := runner.Run(context.Background(), tickers)

	require.Len(t, batch.Outcomes, len(tickers))
	for i, tk := range tickers {
		assert.Equal(t, tk, batch.Outcomes[i].Ticker)
		assert.NotNil(t, batch.Outcomes[i].Report)
	}
}

func TestRunner_Run_SeededBatchesAreIdentical(t *testing.T) {
	source := &fakeSource{histories: map[string]domain.PriceSeries{
		"AAA": trendingSeries(300, 1),
		"BBB": trendingSeries(300, 2),
	}}
	tickers := []string{"AAA", "BBB"}

	// Different worker counts interleave differently, results must not.
	first := NewRunner(testAnalyzer(42), source, 1, zerolog.Nop()).Run(context.Background(), tickers)
	second := NewRunner(testAnalyzer(42), source, 4, zerolog.Nop()).Run(context.Background(), tickers)

	require.Len(t, second.Outcomes, 2)
	for i := range first.Outcomes {
		assert.Equal(t, first.Outcomes[i].Report, second.Outcomes[i].Report)
	}
}

func TestRunner_Run_EmptyTickerString(t *testing.T) {
	// An empty ticker is just another instrument that fails to analyze;
	// it must produce a normal outcome, not abort the batch.
	source := &fakeSource{histories: map[string]domain.PriceSeries{
		"GOOD": trendingSeries(300, 1),
	}}
	runner := NewRunner(testAnalyzer(7), source, 2, zerolog.Nop())

	batch := runner.Run(context.Background(), []string{"", "GOOD"})

	require.Len(t, batch.Outcomes, 2)

	empty := batch.Outcomes[0]
	assert.Equal(t, "", empty.Ticker)
	assert.Nil(t, empty.Report)
	assert.Equal(t, ErrKindInsufficientData, empty.ErrorKind)

	good := batch.Outcomes[1]
	require.NotNil(t, good.Report)
	assert.Equal(t, "GOOD", good.Ticker)
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{histories: map[string]domain.PriceSeries{
		"AAA": trendingSeries(300, 1),
	}}
	runner := NewRunner(testAnalyzer(7), source, 2, zerolog.Nop())

	batch := runner.Run(ctx, []string{"AAA", "BBB"})

	require.Len(t, batch.Outcomes, 2)
	for _, o := range batch.Outcomes {
		assert.Nil(t, o.Report)
		assert.Equal(t, ErrKindCancelled, o.ErrorKind)
	}
}
