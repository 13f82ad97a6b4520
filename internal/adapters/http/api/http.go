// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/zebu/internal/adapters/repository"
	"github.com/okian/zebu/internal/domain/carcass"
	"github.com/okian/zebu/internal/domain/dedupe"
	"github.com/okian/zebu/internal/domain/genetics"
	"github.com/okian/zebu/internal/domain/growth"
	"github.com/okian/zebu/internal/domain/model"
	"github.com/okian/zebu/internal/domain/nutrition"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a job for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, job model.PredictionJob) bool

	// Catalog reads.
	Breeds(ctx context.Context) []genetics.BreedProfile
	Breed(ctx context.Context, idOrName string) (genetics.BreedProfile, error)
	Hybrid(ctx context.Context, sireID, damID string) (genetics.BreedProfile, error)

	// Synchronous engine operations.
	DietRequirements(ctx context.Context, animal model.AnimalState, stage model.LifeStage, objective model.Objective, asOf time.Time) (nutrition.Requirement, nutrition.KPITargets)
	ValidateDiet(ctx context.Context, animal model.AnimalState, stage model.LifeStage, objective model.Objective, ration model.Ration, asOf time.Time) ([]nutrition.Alert, []nutrition.Synergy)
	SimulateGrowth(ctx context.Context, animal model.AnimalState, asOf time.Time) growth.Trajectory
	PredictCarcass(ctx context.Context, animal model.AnimalState, dietEnergy, dailyGain float64, asOf time.Time) carcass.Result

	// Stored prediction reads.
	Prediction(ctx context.Context, animalID string) (repository.Prediction, error)
	Ranking(ctx context.Context, n int) ([]repository.RankedPrediction, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	breedsHandler      *BreedsHandler
	hybridHandler      *HybridHandler
	dietHandler        *DietHandler
	growthHandler      *GrowthHandler
	carcassHandler     *CarcassHandler
	predictionsHandler *PredictionsHandler
	rankingHandler     *RankingHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		breedsHandler:      NewBreedsHandler(deps),
		hybridHandler:      NewHybridHandler(deps),
		dietHandler:        NewDietHandler(deps),
		growthHandler:      NewGrowthHandler(deps),
		carcassHandler:     NewCarcassHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps),
		rankingHandler:     NewRankingHandler(deps, maxRankingLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/breeds", MetricsMiddleware(s.breedsHandler.HandleList, "breeds"))
	mux.HandleFunc("/v1/breeds/", MetricsMiddleware(s.breedsHandler.HandleGet, "breed"))
	mux.HandleFunc("/v1/hybrid", MetricsMiddleware(s.hybridHandler.HandlePostHybrid, "hybrid"))
	mux.HandleFunc("/v1/diet/requirements", MetricsMiddleware(s.dietHandler.HandleRequirements, "diet_requirements"))
	mux.HandleFunc("/v1/diet/validate", MetricsMiddleware(s.dietHandler.HandleValidate, "diet_validate"))
	mux.HandleFunc("/v1/growth/simulate", MetricsMiddleware(s.growthHandler.HandleSimulate, "growth_simulate"))
	mux.HandleFunc("/v1/carcass", MetricsMiddleware(s.carcassHandler.HandlePredict, "carcass"))
	mux.HandleFunc("/v1/predictions", MetricsMiddleware(s.predictionsHandler.HandlePostBatch, "predictions"))
	mux.HandleFunc("/v1/predictions/", MetricsMiddleware(s.predictionsHandler.HandleGetPrediction, "prediction"))
	mux.HandleFunc("/v1/ranking", MetricsMiddleware(s.rankingHandler.HandleGetRanking, "ranking"))
}

// animalPayload mirrors the wire schema of an animal snapshot.
type animalPayload struct {
	ID           string              `json:"id"`
	BirthDate    string              `json:"birth_date"`
	Sex          string              `json:"sex"`
	WeightKG     float64             `json:"weight_kg"`
	BreedID      string              `json:"breed_id"`
	SireBreedID  string              `json:"sire_breed_id"`
	DamBreedID   string              `json:"dam_breed_id"`
	System       string              `json:"system"`
	Steer        bool                `json:"steer"`
	Reproductive []reproEventPayload `json:"reproductive,omitempty"`
}

type reproEventPayload struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

func (a animalPayload) toModel() (model.AnimalState, error) {
	if strings.TrimSpace(a.ID) == "" {
		return model.AnimalState{}, errors.New("missing animal id")
	}
	sex := model.Sex(a.Sex)
	if !sex.Valid() {
		return model.AnimalState{}, fmt.Errorf("invalid sex %q", a.Sex)
	}
	system := model.ProductionSystem(a.System)
	if !system.Valid() {
		return model.AnimalState{}, fmt.Errorf("invalid production system %q", a.System)
	}
	if a.BreedID == "" && (a.SireBreedID == "") != (a.DamBreedID == "") {
		return model.AnimalState{}, errors.New("hybrid animals need both sire_breed_id and dam_breed_id")
	}

	animal := model.AnimalState{
		ID:          a.ID,
		Sex:         sex,
		WeightKG:    a.WeightKG,
		BreedID:     a.BreedID,
		SireBreedID: a.SireBreedID,
		DamBreedID:  a.DamBreedID,
		System:      system,
		Steer:       a.Steer,
	}

	if a.BirthDate != "" {
		t, err := parseDate(a.BirthDate)
		if err != nil {
			return model.AnimalState{}, fmt.Errorf("invalid birth_date: %w", err)
		}
		animal.BirthDate = t
	}

	for _, ev := range a.Reproductive {
		t, err := parseDate(ev.Date)
		if err != nil {
			return model.AnimalState{}, fmt.Errorf("invalid reproductive event date: %w", err)
		}
		kind := model.EventType(ev.Type)
		if kind != model.EventInsemination && kind != model.EventCalving {
			return model.AnimalState{}, fmt.Errorf("invalid reproductive event type %q", ev.Type)
		}
		animal.Reproductive = append(animal.Reproductive, model.ReproductiveEvent{Type: kind, Date: t})
	}

	return animal, nil
}

// feedPayload mirrors the wire schema of one feed profile.
type feedPayload struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	DryMatterPct    float64 `json:"dry_matter_pct"`
	EnergyMcalPerKG float64 `json:"energy_mcal_per_kg"`
	ProteinPct      float64 `json:"protein_pct"`
	FiberPct        float64 `json:"fiber_pct"`
	CostPerKG       float64 `json:"cost_per_kg"`
	Acorn           string  `json:"acorn,omitempty"`
	Lecithin        bool    `json:"lecithin,omitempty"`
}

type rationItemPayload struct {
	Feed    feedPayload `json:"feed"`
	FreshKG float64     `json:"fresh_kg"`
}

func rationFromPayload(items []rationItemPayload) model.Ration {
	ration := make(model.Ration, 0, len(items))
	for _, it := range items {
		ration = append(ration, model.RationItem{
			Feed: model.Feed{
				ID:              it.Feed.ID,
				Name:            it.Feed.Name,
				Category:        model.FeedCategory(it.Feed.Category),
				DryMatterPct:    it.Feed.DryMatterPct,
				EnergyMcalPerKG: it.Feed.EnergyMcalPerKG,
				ProteinPct:      it.Feed.ProteinPct,
				FiberPct:        it.Feed.FiberPct,
				CostPerKG:       it.Feed.CostPerKG,
				Acorn:           model.AcornVariety(it.Feed.Acorn),
				Lecithin:        it.Feed.Lecithin,
			},
			FreshKG: it.FreshKG,
		})
	}
	return ration
}

type observationPayload struct {
	THI           float64 `json:"thi,omitempty"`
	DaysOnFeed    float64 `json:"days_on_feed,omitempty"`
	DietStability float64 `json:"diet_stability,omitempty"`
	Health        float64 `json:"health,omitempty"`
	DailyGainKG   float64 `json:"daily_gain_kg,omitempty"`
}

func (o observationPayload) toModel() model.Observation {
	return model.Observation{
		THI:           o.THI,
		DaysOnFeed:    o.DaysOnFeed,
		DietStability: o.DietStability,
		Health:        o.Health,
		DailyGainKG:   o.DailyGainKG,
	}
}

// parseDate accepts RFC3339 or plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("must be RFC3339 or YYYY-MM-DD")
	}
	return t, nil
}

// parseAsOf resolves the optional reference time of a request; the wall
// clock stands in when the caller omits it.
func parseAsOf(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now().UTC(), nil
	}
	t, err := parseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of: %w", err)
	}
	return t, nil
}

// breedResponse mirrors the read shape of a catalog or hybrid profile.
type breedResponse struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	AdultMaleKG    float64 `json:"adult_male_kg"`
	AdultFemaleKG  float64 `json:"adult_female_kg"`
	FeedlotADG     float64 `json:"feedlot_adg"`
	GrazingADG     float64 `json:"grazing_adg"`
	FeedConversion float64 `json:"feed_conversion"`
	HeatTolerance  float64 `json:"heat_tolerance"`
	Marbling       float64 `json:"marbling"`
	CalvingEase    float64 `json:"calving_ease"`
	Milk           float64 `json:"milk"`
	Conformation   float64 `json:"conformation"`
	Yield          float64 `json:"yield"`
	Hybrid         bool    `json:"hybrid,omitempty"`
	SireName       string  `json:"sire_name,omitempty"`
	DamName        string  `json:"dam_name,omitempty"`
}

func toBreedResponse(b genetics.BreedProfile) breedResponse {
	return breedResponse{
		ID:             b.ID,
		Name:           b.Name,
		Type:           string(b.Type),
		AdultMaleKG:    b.AdultMaleKG,
		AdultFemaleKG:  b.AdultFemaleKG,
		FeedlotADG:     b.FeedlotADG,
		GrazingADG:     b.GrazingADG,
		FeedConversion: b.FeedConversion,
		HeatTolerance:  b.HeatTolerance,
		Marbling:       b.Marbling,
		CalvingEase:    b.CalvingEase,
		Milk:           b.Milk,
		Conformation:   b.Conformation,
		Yield:          b.Yield,
		Hybrid:         b.Hybrid,
		SireName:       b.SireName,
		DamName:        b.DamName,
	}
}

// alertResponse mirrors one diet validation finding.
type alertResponse struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Action   string `json:"action,omitempty"`
}

func toAlertResponses(alerts []nutrition.Alert) []alertResponse {
	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertResponse{
			Code:     string(a.Code),
			Severity: string(a.Severity),
			Message:  a.Message,
			Action:   a.Action,
		})
	}
	return out
}

// synergyResponse mirrors one feed-interaction finding.
type synergyResponse struct {
	Name        string  `json:"name"`
	Marbling    float64 `json:"marbling"`
	Yield       float64 `json:"yield"`
	Description string  `json:"description"`
	Active      bool    `json:"active"`
}

func toSynergyResponses(synergies []nutrition.Synergy) []synergyResponse {
	out := make([]synergyResponse, 0, len(synergies))
	for _, s := range synergies {
		out = append(out, synergyResponse{
			Name:        s.Name,
			Marbling:    s.Marbling,
			Yield:       s.Yield,
			Description: s.Description,
			Active:      s.Active,
		})
	}
	return out
}

// requirementResponse mirrors the computed nutrient targets.
type requirementResponse struct {
	ProteinPct      float64 `json:"protein_pct"`
	EnergyMcalPerKG float64 `json:"energy_mcal_per_kg"`
	FiberMinPct     float64 `json:"fiber_min_pct"`
	IntakeKGDM      float64 `json:"intake_kg_dm"`
}

func toRequirementResponse(r nutrition.Requirement) requirementResponse {
	return requirementResponse{
		ProteinPct:      r.ProteinPct,
		EnergyMcalPerKG: r.EnergyMcalPerKG,
		FiberMinPct:     r.FiberMinPct,
		IntakeKGDM:      r.IntakeKGDM,
	}
}

// targetsResponse mirrors the breed-specific KPI targets.
type targetsResponse struct {
	TargetADG          float64 `json:"target_adg"`
	FeedConversion     float64 `json:"feed_conversion"`
	EnergyMcalPerKG    float64 `json:"energy_mcal_per_kg"`
	ProteinPct         float64 `json:"protein_pct"`
	FiberMinPct        float64 `json:"fiber_min_pct"`
	MaxConcentrateFrac float64 `json:"max_concentrate_frac"`
}

func toTargetsResponse(t nutrition.KPITargets) targetsResponse {
	return targetsResponse{
		TargetADG:          t.TargetADG,
		FeedConversion:     t.FeedConversion,
		EnergyMcalPerKG:    t.EnergyMcalPerKG,
		ProteinPct:         t.ProteinPct,
		FiberMinPct:        t.FiberMinPct,
		MaxConcentrateFrac: t.MaxConcentrateFrac,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	Accepted  int    `json:"accepted"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, repository.ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
