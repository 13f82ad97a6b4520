// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/zebu/internal/domain/genetics"
)

// CatalogDependencies defines the interface for breed catalog reads.
type CatalogDependencies interface {
	Breeds(ctx context.Context) []genetics.BreedProfile
	Breed(ctx context.Context, idOrName string) (genetics.BreedProfile, error)
}

// BreedsHandler handles breed catalog requests.
type BreedsHandler struct {
	deps CatalogDependencies
}

// NewBreedsHandler creates a new breed catalog handler.
func NewBreedsHandler(deps CatalogDependencies) *BreedsHandler {
	return &BreedsHandler{deps: deps}
}

// HandleList handles GET /v1/breeds requests.
func (h *BreedsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	breeds := h.deps.Breeds(r.Context())
	out := make([]breedResponse, 0, len(breeds))
	for _, b := range breeds {
		out = append(out, toBreedResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /v1/breeds/{id} requests. The id segment also
// accepts a breed name.
func (h *BreedsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_breed"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/breeds/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	breed, err := h.deps.Breed(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeJSON(w, http.StatusOK, toBreedResponse(breed))
}

// HybridDependencies defines the interface for hybrid computation.
type HybridDependencies interface {
	Hybrid(ctx context.Context, sireID, damID string) (genetics.BreedProfile, error)
}

// HybridHandler handles crossbreeding requests.
type HybridHandler struct {
	deps HybridDependencies
}

// NewHybridHandler creates a new hybrid handler.
func NewHybridHandler(deps HybridDependencies) *HybridHandler {
	return &HybridHandler{deps: deps}
}

// hybridRequest mirrors the wire schema for POST /v1/hybrid.
type hybridRequest struct {
	SireBreedID string `json:"sire_breed_id"`
	DamBreedID  string `json:"dam_breed_id"`
}

func (h hybridRequest) validate() error {
	switch {
	case strings.TrimSpace(h.SireBreedID) == "":
		return errors.New("missing sire_breed_id")
	case strings.TrimSpace(h.DamBreedID) == "":
		return errors.New("missing dam_breed_id")
	}
	return nil
}

// HandlePostHybrid handles POST /v1/hybrid requests.
func (h *HybridHandler) HandlePostHybrid(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_hybrid"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req hybridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	hybrid, err := h.deps.Hybrid(r.Context(), req.SireBreedID, req.DamBreedID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeJSON(w, http.StatusOK, toBreedResponse(hybrid))
}
