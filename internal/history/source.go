package history

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/heyitsmejosh/stonks/internal/domain"
)

// Fetcher fetches a price history from the upstream market-data provider.
type Fetcher interface {
	History(ctx context.Context, symbol, rng string) (domain.PriceSeries, error)
}

// CachingSource is a read-through price series source: fresh cached data is
// served from SQLite, anything stale or missing is fetched upstream and
// cached. When the upstream fetch fails but stale cached data exists, the
// cache wins over a hard failure.
type CachingSource struct {
	fetcher    Fetcher
	repo       *Repository
	rng        string        // Yahoo range to fetch, e.g. "1y"
	lookback   time.Duration // span of cached data served to the analyzer
	staleAfter time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewCachingSource creates a caching source fetching the given Yahoo range.
func NewCachingSource(fetcher Fetcher, repo *Repository, rng string, log zerolog.Logger) *CachingSource {
	return &CachingSource{
		fetcher:    fetcher,
		repo:       repo,
		rng:        rng,
		lookback:   rangeLookback(rng),
		staleAfter: 24 * time.Hour,
		now:        time.Now,
		log:        log.With().Str("component", "price_source").Logger(),
	}
}

// History implements the batch runner's price series source.
func (s *CachingSource) History(ctx context.Context, ticker string) (domain.PriceSeries, error) {
	since := s.now().Add(-s.lookback)

	last, err := s.repo.LastDay(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if !last.IsZero() && s.now().Sub(last) < s.staleAfter {
		return s.repo.LoadSeries(ctx, ticker, since)
	}

	series, err := s.fetcher.History(ctx, ticker, s.rng)
	if err != nil {
		if last.IsZero() {
			return nil, fmt.Errorf("fetch %s: %w", ticker, err)
		}
		s.log.Warn().Str("ticker", ticker).Err(err).Msg("Fetch failed, serving stale cache")
		return s.repo.LoadSeries(ctx, ticker, since)
	}

	if err := s.repo.SaveSeries(ctx, ticker, series); err != nil {
		// Caching is best effort; the fetched series is still good.
		s.log.Warn().Str("ticker", ticker).Err(err).Msg("Failed to cache series")
	}
	return series, nil
}

// rangeLookback maps a Yahoo range string to a cache lookback window.
func rangeLookback(rng string) time.Duration {
	const day = 24 * time.Hour
	switch rng {
	case "1mo":
		return 31 * day
	case "3mo":
		return 92 * day
	case "6mo":
		return 183 * day
	case "2y":
		return 2 * 366 * day
	case "5y":
		return 5 * 366 * day
	default: // "1y"
		return 366 * day
	}
}
