package api

import (
	"net/http"
)

// StatsProvider exposes the watcher's current state counters: contest
// identity, watermark positions, snapshot size.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves watch-loop statistics.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests with the current watch state.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
