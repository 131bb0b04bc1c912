// Package scheduler periodically re-runs the watchlist analysis and keeps
// the latest completed batch available to the HTTP layer. This is periodic
// batch recompute, not streaming.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/heyitsmejosh/stonks/internal/rank"
	"github.com/heyitsmejosh/stonks/internal/report"
)

// Snapshot is the latest completed watchlist run.
type Snapshot struct {
	Batch       report.BatchResult `json:"batch"`
	Rankings    rank.Rankings      `json:"rankings"`
	CompletedAt time.Time          `json:"completed_at"`
}

// BatchRunner runs one batch analysis. Implemented by report.Runner.
type BatchRunner interface {
	Run(ctx context.Context, tickers []string) report.BatchResult
}

// Refresher owns the cron schedule and the latest snapshot.
type Refresher struct {
	runner    BatchRunner
	watchlist []string
	cron      *cron.Cron
	log       zerolog.Logger

	mu     sync.RWMutex
	latest *Snapshot
}

// NewRefresher creates a refresher for the given watchlist.
func NewRefresher(runner BatchRunner, watchlist []string, log zerolog.Logger) *Refresher {
	return &Refresher{
		runner:    runner,
		watchlist: watchlist,
		cron:      cron.New(cron.WithSeconds()),
		log:       log.With().Str("component", "refresher").Logger(),
	}
}

// Register schedules the periodic refresh.
func (r *Refresher) Register(ctx context.Context, spec string) error {
	if _, err := r.cron.AddFunc(spec, func() { r.Refresh(ctx) }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (r *Refresher) Start() {
	r.cron.Start()
	r.log.Info().Int("watchlist", len(r.watchlist)).Msg("Refresher started")
}

// Stop stops the cron scheduler gracefully.
func (r *Refresher) Stop() {
	r.cron.Stop()
	r.log.Info().Msg("Refresher stopped")
}

// Refresh runs the watchlist batch now and publishes the snapshot.
func (r *Refresher) Refresh(ctx context.Context) {
	batch := r.runner.Run(ctx, r.watchlist)
	rankings := rank.Build(batch.Reports())

	r.mu.Lock()
	r.latest = &Snapshot{
		Batch:       batch,
		Rankings:    rankings,
		CompletedAt: time.Now(),
	}
	r.mu.Unlock()

	r.log.Info().Str("run_id", batch.RunID).Msg("Watchlist snapshot refreshed")
}

// Latest returns the most recent snapshot, or ok=false before the first
// completed run.
func (r *Refresher) Latest() (*Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		return nil, false
	}
	return r.latest, true
}
