// Package markets produces a snapshot of the major indices, FX rates and
// commodities the dashboard displays alongside instrument reports.
package markets

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/heyitsmejosh/stonks/internal/domain"
)

// Indices maps display names to Yahoo symbols.
var Indices = map[string]string{
	"dow":       "^DJI",
	"sp500":     "^GSPC",
	"nasdaq":    "^IXIC",
	"tokyo":     "^N225",
	"hong_kong": "^HSI",
	"london":    "^FTSE",
	"ten_year":  "^TNX",
	"euro":      "EURUSD=X",
	"yen":       "JPY=X",
	"oil":       "CL=F",
	"gold":      "GC=F",
}

// QuoteFetcher fetches a current snapshot for one symbol.
type QuoteFetcher interface {
	Quote(ctx context.Context, symbol string) (domain.Quote, error)
}

// IndexQuote is one index entry of the snapshot. Error is set when the
// fetch for that symbol failed; other entries are unaffected.
type IndexQuote struct {
	Name  string        `json:"name"`
	Quote *domain.Quote `json:"quote,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Service fetches market index snapshots.
type Service struct {
	fetcher QuoteFetcher
	log     zerolog.Logger
}

// NewService creates the markets service.
func NewService(fetcher QuoteFetcher, log zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		log:     log.With().Str("component", "markets").Logger(),
	}
}

// Snapshot fetches all indices concurrently. Per-symbol failures are
// reported inline, never as a snapshot-level error.
func (s *Service) Snapshot(ctx context.Context) []IndexQuote {
	quotes := make([]IndexQuote, 0, len(Indices))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, symbol := range Indices {
		wg.Add(1)
		go func(name, symbol string) {
			defer wg.Done()
			entry := IndexQuote{Name: name}
			q, err := s.fetcher.Quote(ctx, symbol)
			if err != nil {
				s.log.Warn().Str("index", name).Err(err).Msg("Index quote failed")
				entry.Error = err.Error()
			} else {
				entry.Quote = &q
			}
			mu.Lock()
			quotes = append(quotes, entry)
			mu.Unlock()
		}(name, symbol)
	}
	wg.Wait()

	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Name < quotes[j].Name })
	return quotes
}
