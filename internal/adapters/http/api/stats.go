// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	service "github.com/okian/zebu/internal/app"
)

// StatsProvider supplies the pipeline snapshot served on /stats.
type StatsProvider interface {
	GetStats() service.Stats
}

// StatsHandler serves the service snapshot.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates the /stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests with the typed snapshot.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(h.statsProvider.GetStats())
}
