// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/zebu/internal/domain/carcass"
	"github.com/okian/zebu/internal/domain/model"
)

// CarcassDependencies defines the interface for carcass prediction.
type CarcassDependencies interface {
	PredictCarcass(ctx context.Context, animal model.AnimalState, dietEnergy, dailyGain float64, asOf time.Time) carcass.Result
}

// CarcassHandler handles carcass prediction requests.
type CarcassHandler struct {
	deps CarcassDependencies
}

// NewCarcassHandler creates a new carcass handler.
func NewCarcassHandler(deps CarcassDependencies) *CarcassHandler {
	return &CarcassHandler{deps: deps}
}

// carcassRequest mirrors the wire schema for POST /v1/carcass.
type carcassRequest struct {
	Animal     animalPayload `json:"animal"`
	DietEnergy float64       `json:"diet_energy_mcal_per_kg"`
	DailyGain  float64       `json:"daily_gain_kg"`
	AsOf       string        `json:"as_of,omitempty"`
}

func (c carcassRequest) validate() error {
	switch {
	case c.DietEnergy <= 0:
		return errors.New("missing diet_energy_mcal_per_kg")
	case c.DailyGain < 0:
		return errors.New("daily_gain_kg must not be negative")
	}
	return nil
}

// HandlePredict handles POST /v1/carcass requests.
func (h *CarcassHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_carcass"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req carcassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	animal, err := req.Animal.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	result := h.deps.PredictCarcass(r.Context(), animal, req.DietEnergy, req.DailyGain, asOf)
	writeJSON(w, http.StatusOK, result)
}
