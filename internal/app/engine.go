package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/zebu/internal/adapters/mq/worker"
	"github.com/okian/zebu/internal/adapters/repository"
	"github.com/okian/zebu/internal/domain/carcass"
	"github.com/okian/zebu/internal/domain/genetics"
	"github.com/okian/zebu/internal/domain/growth"
	"github.com/okian/zebu/internal/domain/model"
	"github.com/okian/zebu/internal/domain/nutrition"
	"github.com/okian/zebu/pkg/metrics"
)

// daysPerMonth matches the simulator's month length for gain arithmetic.
const daysPerMonth = 30.44

// Neutral defaults for unreported weighing observations.
const (
	defaultTHINeutral    = 68
	defaultTHISummer     = 78
	feedlotEntryAgeMo    = 12
	maxAssumedDaysOnFeed = 300
)

// lactationWindowDays bounds how long after calving a female is fed as
// lactating. Matches the postpartum window of the growth simulator.
const lactationWindowDays = 150

// engine runs the full prediction pipeline for one job. It is the
// worker pool's Predictor; all stages are pure domain calls, so the
// engine itself carries no state beyond the shared catalog.
type engine struct {
	catalog *genetics.Catalog
}

func newEngine(catalog *genetics.Catalog) *engine {
	return &engine{catalog: catalog}
}

// Predict resolves genetics, computes requirements and KPI targets,
// simulates growth, validates the ration and predicts carcass and
// quality for one animal snapshot.
func (e *engine) Predict(_ context.Context, job worker.Job) (repository.Prediction, error) {
	if job.Animal.ID == "" {
		return repository.Prediction{}, fmt.Errorf("%w: empty animal id", ErrInvalidJob)
	}
	if job.AsOf.IsZero() {
		return repository.Prediction{}, fmt.Errorf("%w: missing reference time", ErrInvalidJob)
	}

	start := time.Now()
	defer func() {
		metrics.RecordSimulationDuration(float64(time.Since(start).Milliseconds()))
	}()

	animal := job.Animal
	breed := e.catalog.Resolve(animal.BreedID, animal.SireBreedID, animal.DamBreedID)
	ageMonths := animal.AgeMonths(job.AsOf)
	weight := animal.DefaultWeight()
	sex := animal.EffectiveSex()

	targets := nutrition.KPITargetsFor(breed, job.Stage, job.Objective, animal.System)
	state := physiologicalState(animal, job.Stage, job.Objective, job.AsOf)
	required := nutrition.Requirements(weight, targets.TargetADG, ageMonths, state, sex)

	trajectory := growth.Simulate(animal, breed, animal.System, job.AsOf)

	// Without a candidate ration the diet stages are skipped and the
	// KPI target energy density feeds the carcass models instead.
	agg := job.Ration.Aggregate()
	dietEnergy := targets.EnergyMcalPerKG
	alerts := make([]nutrition.Alert, 0)
	synergies := make([]nutrition.Synergy, 0)
	if agg.TotalDryMatterKG > 0 {
		dietEnergy = agg.EnergyDensity()
		alerts = nutrition.ValidateDiet(agg, animal.System, required.ProteinPct)
		for _, a := range alerts {
			metrics.RecordDietAlert(string(a.Code), string(a.Severity))
		}
		synergies = nutrition.Synergies(agg, animal)
	}

	opts := carcass.Options{
		AcornFinished: job.Stage == model.StageFinishing && agg.HasAcorn,
		Month:         job.AsOf.Month(),
	}
	if animal.BreedID == "" && animal.SireBreedID != "" && animal.DamBreedID != "" {
		if sire, ok := e.catalog.Breed(animal.SireBreedID); ok {
			opts.Sire = &sire
		}
		if dam, ok := e.catalog.Breed(animal.DamBreedID); ok {
			opts.Dam = &dam
		}
	}
	for i := range synergies {
		if synergies[i].Active {
			opts.Synergy = &synergies[i]
			metrics.RecordSynergyDetected()
			break
		}
	}

	gain := realizedGain(job.Obs, trajectory, targets)

	carcassResult := carcass.Predict(weight, ageMonths, breed, sex, dietEnergy, gain, opts)
	quality := carcass.QualityIndex(qualityInput(job, breed, dietEnergy, gain, ageMonths, opts), ageMonths)

	return repository.Prediction{
		AnimalID:   animal.ID,
		RequestID:  job.RequestID,
		ComputedAt: job.AsOf,
		BreedName:  breed.Name,
		Projected:  trajectory,
		Required:   required,
		Targets:    targets,
		Alerts:     alerts,
		Synergies:  synergies,
		Carcass:    carcassResult,
		Quality:    quality,
	}, nil
}

// physiologicalState derives the nutrition demand class from stage,
// objective and reproductive history.
func physiologicalState(animal model.AnimalState, stage model.LifeStage, objective model.Objective, asOf time.Time) nutrition.State {
	if objective == model.ObjectiveMaintenance {
		return nutrition.StateMaintenance
	}
	if animal.Sex == model.Female && calvedWithin(animal.Reproductive, asOf, lactationWindowDays) {
		return nutrition.StateLactation
	}
	if stage == model.StageFinishing {
		return nutrition.StateFinishing
	}
	return nutrition.StateGrowing
}

func calvedWithin(events []model.ReproductiveEvent, asOf time.Time, days float64) bool {
	for _, ev := range events {
		if ev.Type != model.EventCalving || ev.Date.After(asOf) {
			continue
		}
		if asOf.Sub(ev.Date).Hours()/24 <= days {
			return true
		}
	}
	return false
}

// realizedGain picks the daily gain fed into the carcass models:
// measured gain when reported, otherwise the last simulated monthly
// step, otherwise the KPI target.
func realizedGain(obs model.Observation, trajectory growth.Trajectory, targets nutrition.KPITargets) float64 {
	if obs.DailyGainKG > 0 {
		return obs.DailyGainKG
	}
	if n := len(trajectory.Points); n >= 2 {
		delta := trajectory.Points[n-1].WeightKG - trajectory.Points[n-2].WeightKG
		if delta > 0 {
			return delta / daysPerMonth
		}
	}
	return targets.TargetADG
}

// qualityInput normalizes the optional observations: unreported values
// fall back to a neutral, season-aware baseline.
func qualityInput(job worker.Job, breed genetics.BreedProfile, dietEnergy, gain, ageMonths float64, opts carcass.Options) carcass.QualityInput {
	obs := job.Obs

	thi := obs.THI
	if thi <= 0 {
		thi = defaultTHINeutral
		if model.SeasonOf(job.AsOf.Month()) == model.Summer {
			thi = defaultTHISummer
		}
	}

	daysOnFeed := obs.DaysOnFeed
	if daysOnFeed <= 0 && ageMonths > feedlotEntryAgeMo {
		// feedlot entry assumed at yearling age when unreported
		daysOnFeed = (ageMonths - feedlotEntryAgeMo) * daysPerMonth
		if daysOnFeed > maxAssumedDaysOnFeed {
			daysOnFeed = maxAssumedDaysOnFeed
		}
	}

	stability := obs.DietStability
	if stability <= 0 {
		stability = 1
	}
	health := obs.Health
	if health <= 0 {
		health = 1
	}

	return carcass.QualityInput{
		Animal:        job.Animal,
		Breed:         breed,
		DietEnergy:    dietEnergy,
		DailyGain:     gain,
		THI:           thi,
		DaysOnFeed:    daysOnFeed,
		DietStability: stability,
		Health:        health,
		System:        job.Animal.System,
		Opts:          opts,
	}
}
