// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/zebu/internal/adapters/repository"
)

// RankingDependencies defines the interface for ranking reads.
type RankingDependencies interface {
	Ranking(ctx context.Context, n int) ([]repository.RankedPrediction, error)
}

// RankingHandler handles quality ranking requests.
type RankingHandler struct {
	deps     RankingDependencies
	maxLimit int
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies, maxLimit int) *RankingHandler {
	return &RankingHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// rankingEntry is the compact read shape of one ranked animal.
type rankingEntry struct {
	Rank         int     `json:"rank"`
	AnimalID     string  `json:"animal_id"`
	BreedName    string  `json:"breed_name"`
	QualityScore float64 `json:"quality_score"`
	BMS          int     `json:"bms"`
	Conformation string  `json:"conformation"`
	Premium      bool    `json:"premium"`
}

// HandleGetRanking handles GET /v1/ranking?limit=N requests.
func (h *RankingHandler) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ranking"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	ranked, err := h.deps.Ranking(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	entries := make([]rankingEntry, 0, len(ranked))
	for _, p := range ranked {
		entries = append(entries, rankingEntry{
			Rank:         p.Rank,
			AnimalID:     p.AnimalID,
			BreedName:    p.BreedName,
			QualityScore: p.Quality.Score,
			BMS:          p.Carcass.BMS,
			Conformation: p.Carcass.Conformation,
			Premium:      p.Carcass.Premium,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}
