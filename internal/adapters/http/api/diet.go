// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/zebu/internal/domain/growth"
	"github.com/okian/zebu/internal/domain/model"
	"github.com/okian/zebu/internal/domain/nutrition"
)

// DietDependencies defines the interface for diet operations.
type DietDependencies interface {
	DietRequirements(ctx context.Context, animal model.AnimalState, stage model.LifeStage, objective model.Objective, asOf time.Time) (nutrition.Requirement, nutrition.KPITargets)
	ValidateDiet(ctx context.Context, animal model.AnimalState, stage model.LifeStage, objective model.Objective, ration model.Ration, asOf time.Time) ([]nutrition.Alert, []nutrition.Synergy)
}

// DietHandler handles requirement and validation requests.
type DietHandler struct {
	deps DietDependencies
}

// NewDietHandler creates a new diet handler.
func NewDietHandler(deps DietDependencies) *DietHandler {
	return &DietHandler{deps: deps}
}

// dietRequest mirrors the wire schema shared by both diet endpoints; the
// ration list only matters for validation.
type dietRequest struct {
	Animal    animalPayload       `json:"animal"`
	Stage     string              `json:"stage"`
	Objective string              `json:"objective"`
	Ration    []rationItemPayload `json:"ration,omitempty"`
	AsOf      string              `json:"as_of,omitempty"`
}

func (d dietRequest) resolve() (model.AnimalState, model.LifeStage, model.Objective, time.Time, error) {
	animal, err := d.Animal.toModel()
	if err != nil {
		return model.AnimalState{}, "", "", time.Time{}, err
	}
	stage := model.LifeStage(d.Stage)
	if stage == "" {
		stage = model.StageRearing
	}
	if stage != model.StageRearing && stage != model.StageFinishing {
		return model.AnimalState{}, "", "", time.Time{}, errors.New("invalid stage")
	}
	objective := model.Objective(d.Objective)
	if objective == "" {
		objective = model.ObjectiveGrowth
	}
	if objective != model.ObjectiveGrowth && objective != model.ObjectiveEconomic && objective != model.ObjectiveMaintenance {
		return model.AnimalState{}, "", "", time.Time{}, errors.New("invalid objective")
	}
	asOf, err := parseAsOf(d.AsOf)
	if err != nil {
		return model.AnimalState{}, "", "", time.Time{}, err
	}
	return animal, stage, objective, asOf, nil
}

// requirementsResponse mirrors the read shape of POST /v1/diet/requirements.
type requirementsResponse struct {
	Required requirementResponse `json:"required"`
	Targets  targetsResponse     `json:"targets"`
}

// HandleRequirements handles POST /v1/diet/requirements requests.
func (h *DietHandler) HandleRequirements(w http.ResponseWriter, r *http.Request) {
	const op = "api.diet_requirements"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dietRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	animal, stage, objective, asOf, err := req.resolve()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	required, targets := h.deps.DietRequirements(r.Context(), animal, stage, objective, asOf)
	writeJSON(w, http.StatusOK, requirementsResponse{
		Required: toRequirementResponse(required),
		Targets:  toTargetsResponse(targets),
	})
}

// validateResponse mirrors the read shape of POST /v1/diet/validate.
type validateResponse struct {
	Alerts    []alertResponse   `json:"alerts"`
	Synergies []synergyResponse `json:"synergies"`
}

// HandleValidate handles POST /v1/diet/validate requests.
func (h *DietHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.diet_validate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dietRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Ration) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing ration")))
		return
	}
	animal, stage, objective, asOf, err := req.resolve()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	alerts, synergies := h.deps.ValidateDiet(r.Context(), animal, stage, objective, rationFromPayload(req.Ration), asOf)
	writeJSON(w, http.StatusOK, validateResponse{
		Alerts:    toAlertResponses(alerts),
		Synergies: toSynergyResponses(synergies),
	})
}

// GrowthDependencies defines the interface for growth simulation.
type GrowthDependencies interface {
	SimulateGrowth(ctx context.Context, animal model.AnimalState, asOf time.Time) growth.Trajectory
}

// GrowthHandler handles trajectory simulation requests.
type GrowthHandler struct {
	deps GrowthDependencies
}

// NewGrowthHandler creates a new growth handler.
func NewGrowthHandler(deps GrowthDependencies) *GrowthHandler {
	return &GrowthHandler{deps: deps}
}

// growthRequest mirrors the wire schema for POST /v1/growth/simulate.
type growthRequest struct {
	Animal animalPayload `json:"animal"`
	AsOf   string        `json:"as_of,omitempty"`
}

// HandleSimulate handles POST /v1/growth/simulate requests.
func (h *GrowthHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "api.growth_simulate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req growthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	animal, err := req.Animal.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if animal.BirthDate.IsZero() {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing birth_date")))
		return
	}
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.SimulateGrowth(r.Context(), animal, asOf))
}
