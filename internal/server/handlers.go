package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/heyitsmejosh/stonks/internal/markets"
	"github.com/heyitsmejosh/stonks/internal/rank"
	"github.com/heyitsmejosh/stonks/internal/scheduler"
)

// Handlers holds the analysis API handlers.
type Handlers struct {
	runner    scheduler.BatchRunner
	refresher *scheduler.Refresher
	markets   *markets.Service
	watchlist []string
	log       zerolog.Logger
}

// NewHandlers creates the analysis API handlers.
func NewHandlers(runner scheduler.BatchRunner, refresher *scheduler.Refresher, mkts *markets.Service, watchlist []string, log zerolog.Logger) *Handlers {
	return &Handlers{
		runner:    runner,
		refresher: refresher,
		markets:   mkts,
		watchlist: watchlist,
		log:       log.With().Str("component", "handlers").Logger(),
	}
}

type analyzeRequest struct {
	Tickers []string `json:"tickers"`
}

type analyzeResponse struct {
	RunID           string                `json:"run_id"`
	StartedAt       time.Time             `json:"started_at"`
	ElapsedMS       int64                 `json:"elapsed_ms"`
	Outcomes        []outcomeView         `json:"outcomes"`
	Rankings        rank.Rankings         `json:"rankings"`
	Recommendations *rank.Recommendations `json:"recommendations,omitempty"`
}

type outcomeView struct {
	Ticker    string `json:"ticker"`
	Succeeded bool   `json:"succeeded"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleHealth reports service liveness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleAnalyze runs a batch analysis for the requested tickers and
// returns the outcome summary plus rankings over the successful subset.
// An empty or missing ticker list falls back to the configured watchlist.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	tickers := req.Tickers
	if len(tickers) == 0 {
		tickers = h.watchlist
	}
	if len(tickers) == 0 {
		writeError(w, http.StatusBadRequest, "no tickers requested and no watchlist configured")
		return
	}

	batch := h.runner.Run(r.Context(), tickers)
	rankings := rank.Build(batch.Reports())

	resp := analyzeResponse{
		RunID:     batch.RunID,
		StartedAt: batch.StartedAt,
		ElapsedMS: batch.ElapsedMS,
		Rankings:  rankings,
	}
	for _, o := range batch.Outcomes {
		resp.Outcomes = append(resp.Outcomes, outcomeView{
			Ticker:    o.Ticker,
			Succeeded: o.Report != nil,
			ErrorKind: o.ErrorKind,
			Error:     o.Error,
		})
	}
	if recs, ok := rankings.Top(); ok {
		resp.Recommendations = &recs
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleReports returns the reports from the most recent scheduled run.
func (h *Handlers) HandleReports(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.refresher.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no completed run yet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":       snap.Batch.RunID,
		"completed_at": snap.CompletedAt,
		"reports":      snap.Batch.Reports(),
	})
}

// HandleRankings returns the rankings from the most recent scheduled run.
func (h *Handlers) HandleRankings(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.refresher.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no completed run yet")
		return
	}

	resp := map[string]any{
		"completed_at": snap.CompletedAt,
		"rankings":     snap.Rankings,
	}
	if recs, ok := snap.Rankings.Top(); ok {
		resp["recommendations"] = recs
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleMarkets returns a live snapshot of the tracked market indices.
func (h *Handlers) HandleMarkets(w http.ResponseWriter, r *http.Request) {
	quotes := h.markets.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"as_of":   time.Now().UTC(),
		"indices": quotes,
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent, nothing sensible left to do.
		return
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
