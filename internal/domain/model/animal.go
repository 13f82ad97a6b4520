// Package model contains domain models passed between layers.
package model

import "time"

// Sex is the animal's reproductive status. Castrated males grow a larger,
// later-maturing frame and deposit fat differently, so it is a first-class
// value rather than a boolean pair.
type Sex string

const (
	Male      Sex = "male"
	Female    Sex = "female"
	Castrated Sex = "castrated"
)

// Valid reports whether s is one of the known sexes.
func (s Sex) Valid() bool {
	switch s {
	case Male, Female, Castrated:
		return true
	}
	return false
}

// ProductionSystem identifies how the animal is fed and kept.
type ProductionSystem string

const (
	SystemExtensive  ProductionSystem = "extensive"
	SystemFeedlot    ProductionSystem = "feedlot"
	SystemEcological ProductionSystem = "ecological"
	// SystemMontanera is seasonal acorn foraging (Oct-Feb) with forage
	// supplementation.
	SystemMontanera ProductionSystem = "montanera"
)

// Valid reports whether p is one of the known production systems.
func (p ProductionSystem) Valid() bool {
	switch p {
	case SystemExtensive, SystemFeedlot, SystemEcological, SystemMontanera:
		return true
	}
	return false
}

// Grazing reports whether the system is pasture-based. Grazing systems get
// the stricter 28% fiber floor in diet validation.
func (p ProductionSystem) Grazing() bool {
	return p == SystemExtensive || p == SystemEcological || p == SystemMontanera
}

// LifeStage splits the productive life into rearing and finishing, which
// select different nutrition target profiles.
type LifeStage string

const (
	StageRearing   LifeStage = "rearing"
	StageFinishing LifeStage = "finishing"
)

// Objective is the caller's production goal for KPI target selection.
type Objective string

const (
	ObjectiveGrowth      Objective = "growth"
	ObjectiveEconomic    Objective = "economic"
	ObjectiveMaintenance Objective = "maintenance"
)

// EventType classifies reproductive events relevant to the simulator.
type EventType string

const (
	EventInsemination EventType = "insemination"
	EventCalving      EventType = "calving"
)

// ReproductiveEvent is one dated entry in a female's reproductive history.
type ReproductiveEvent struct {
	Type EventType
	Date time.Time
}

// AnimalState is the engine's read-only snapshot of an animal. The engine
// never mutates it; callers persist whichever outputs they choose.
type AnimalState struct {
	ID        string
	BirthDate time.Time
	Sex       Sex
	// WeightKG is the current observed live weight. Zero means unknown;
	// DefaultWeight resolves the value downstream formulas use.
	WeightKG float64

	// BreedID references a catalog breed. When empty, SireBreedID and
	// DamBreedID drive hybrid genotype resolution.
	BreedID     string
	SireBreedID string
	DamBreedID  string

	System ProductionSystem
	// Steer marks males permanently castrated and destined for the
	// steer/ox class, derived from the application's category field.
	Steer bool

	Reproductive []ReproductiveEvent
}

// fallbackWeightKG stands in when the snapshot carries no observed weight.
const fallbackWeightKG = 400

// DefaultWeight returns the observed weight, or the documented fallback when
// the snapshot has none. Negative values are treated as absent.
func (a AnimalState) DefaultWeight() float64 {
	if a.WeightKG > 0 {
		return a.WeightKG
	}
	return fallbackWeightKG
}

// AgeMonths returns the animal's age in months at the given time, never
// negative.
func (a AnimalState) AgeMonths(now time.Time) float64 {
	if a.BirthDate.IsZero() || now.Before(a.BirthDate) {
		return 0
	}
	return now.Sub(a.BirthDate).Hours() / 24 / daysPerMonth
}

// daysPerMonth is the simulator's month length. A fixed value keeps age and
// trajectory arithmetic reproducible across time zones and leap years.
const daysPerMonth = 30.44

// Effective sex for growth and carcass models: a male flagged as steer
// behaves as castrated regardless of the recorded sex.
func (a AnimalState) EffectiveSex() Sex {
	if a.Steer && a.Sex == Male {
		return Castrated
	}
	return a.Sex
}

// IsSteer reports whether the animal counts as a castrated steer for
// synergy and marbling physiology.
func (a AnimalState) IsSteer() bool {
	return a.Steer || a.Sex == Castrated
}
