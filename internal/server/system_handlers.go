package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers exposes process and host status endpoints.
type SystemHandlers struct {
	log     zerolog.Logger
	started time.Time
}

// NewSystemHandlers creates the system status handlers.
func NewSystemHandlers(log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:     log.With().Str("component", "system").Logger(),
		started: time.Now(),
	}
}

// HandleStatus returns host CPU/RAM usage and process info.
// GET /api/system/status
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, ramPct := h.systemStats()

	writeJSON(w, http.StatusOK, map[string]any{
		"cpu_percent":    cpuPct,
		"ram_percent":    ramPct,
		"goroutines":     runtime.NumGoroutine(),
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"go_version":     runtime.Version(),
	})
}

// systemStats returns CPU and RAM usage percentages. The 100ms sampling
// interval keeps the endpoint fast enough for dashboard polling.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
