// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/zebu/internal/adapters/repository"
	"github.com/okian/zebu/internal/domain/dedupe"
	"github.com/okian/zebu/internal/domain/model"
)

// PredictionDependencies defines the interface for the async batch path.
type PredictionDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, job model.PredictionJob) bool
	Prediction(ctx context.Context, animalID string) (repository.Prediction, error)
}

// PredictionsHandler handles batch submission and result reads.
type PredictionsHandler struct {
	deps PredictionDependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// batchItemPayload is one animal entry of a batch submission.
type batchItemPayload struct {
	Animal    animalPayload       `json:"animal"`
	Stage     string              `json:"stage,omitempty"`
	Objective string              `json:"objective,omitempty"`
	Ration    []rationItemPayload `json:"ration,omitempty"`
	Obs       observationPayload  `json:"observation,omitempty"`
}

// batchRequest mirrors the wire schema for POST /v1/predictions. A
// missing request id gets a generated one, trading idempotency for
// convenience.
type batchRequest struct {
	RequestID string             `json:"request_id"`
	AsOf      string             `json:"as_of,omitempty"`
	Animals   []batchItemPayload `json:"animals"`
}

// HandlePostBatch handles POST /v1/predictions requests.
func (h *PredictionsHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_predictions"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Animals) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing animals")))
		return
	}
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	jobs := make([]model.PredictionJob, 0, len(req.Animals))
	for _, item := range req.Animals {
		animal, err := item.Animal.toModel()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		stage := model.LifeStage(item.Stage)
		if stage == "" {
			stage = model.StageRearing
		}
		if stage != model.StageRearing && stage != model.StageFinishing {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("invalid stage")))
			return
		}
		objective := model.Objective(item.Objective)
		if objective == "" {
			objective = model.ObjectiveGrowth
		}
		if objective != model.ObjectiveGrowth && objective != model.ObjectiveEconomic && objective != model.ObjectiveMaintenance {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("invalid objective")))
			return
		}
		jobs = append(jobs, model.PredictionJob{
			Animal:    animal,
			Objective: objective,
			Stage:     stage,
			Ration:    rationFromPayload(item.Ration),
			Obs:       item.Obs.toModel(),
			AsOf:      asOf,
		})
	}

	requestID := strings.TrimSpace(req.RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), requestID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", RequestID: requestID, Duplicate: true})
		return
	}

	for i := range jobs {
		jobs[i].RequestID = requestID
		if ok := h.deps.Enqueue(r.Context(), jobs[i]); !ok {
			// Rollback the "seen" status so the batch can be retried
			h.deps.Unrecord(r.Context(), requestID)
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
			return
		}
	}
	writeJSON(w, http.StatusAccepted, ackResponse{
		Status:    "accepted",
		RequestID: requestID,
		Accepted:  len(jobs),
	})
}

// predictionResponse augments a stored result with its age at read time.
type predictionResponse struct {
	repository.Prediction
	AgeSeconds float64 `json:"age_seconds"`
}

// HandleGetPrediction handles GET /v1/predictions/{animal_id} requests.
func (h *PredictionsHandler) HandleGetPrediction(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_prediction"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	animalID := strings.TrimPrefix(r.URL.Path, "/v1/predictions/")
	if animalID == "" || strings.Contains(animalID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	p, err := h.deps.Prediction(r.Context(), animalID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, predictionResponse{
		Prediction: p,
		AgeSeconds: time.Since(p.ComputedAt).Seconds(),
	})
}
