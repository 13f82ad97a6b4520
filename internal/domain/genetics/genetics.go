// Package genetics holds per-breed biological parameters and computes
// crossbred offspring profiles from two parent breeds.
package genetics

import "math"

// BiologicalType groups breeds by production biology. Heterosis, growth
// rate and nutrition profiles key on this, not on individual breeds.
type BiologicalType string

const (
	British     BiologicalType = "british"
	Continental BiologicalType = "continental"
	Rustic      BiologicalType = "rustic"
	Dairy       BiologicalType = "dairy"
	Indicus     BiologicalType = "indicus"
	Composite   BiologicalType = "composite"
)

// BreedProfile is an immutable reference record for one breed. Catalog
// entries are created at process start and never mutated; hybrid profiles
// are derived on demand and never persisted.
type BreedProfile struct {
	ID   string
	Name string
	Type BiologicalType

	AdultMaleKG   float64
	AdultFemaleKG float64

	// Daily-gain potential in kg/day under each regime.
	FeedlotADG float64
	GrazingADG float64

	// FeedConversion is kg dry matter per kg gain; lower is better.
	FeedConversion float64

	HeatTolerance float64 // 1-10
	Marbling      float64 // 1-5
	CalvingEase   float64 // 1-10
	Milk          float64 // 1-5
	Conformation  float64 // 1-6
	Yield         float64 // carcass fraction, 0.45-0.70

	// Hybrid marks derived crossbred profiles; SireName and DamName are
	// retained for the carcass predictor's maternal-effect logic.
	Hybrid   bool
	SireName string
	DamName  string
}

// AdultWeight returns the sex-specific adult weight target. Castrated
// males are sized off the male frame; the growth simulator applies its
// own steer scaling on top.
func (b BreedProfile) AdultWeight(male bool) float64 {
	if male {
		return b.AdultMaleKG
	}
	return b.AdultFemaleKG
}

// Heterosis factors by genetic distance between the parents.
const (
	heterosisSameType  = 0.02
	heterosisCrossType = 0.05
	// heterosisIndicus applies when exactly one parent is Indicus, the
	// maximal hybrid-vigor cross.
	heterosisIndicus = 0.12
)

// Calving-penalty model for oversized sires.
const (
	calvingRatioThreshold = 1.10
	calvingPenaltySlope   = 20
	calvingEaseFloor      = 1
)

// Parental trait weights. Growth and frame traits lean paternal; fat
// deposition and milk are maternally programmed.
const (
	paternalLean = 0.6
	maternalLean = 0.6
)

// heterosisFactor returns the genetic-distance factor for a cross.
func heterosisFactor(sire, dam BreedProfile) float64 {
	sireIndicus := sire.Type == Indicus
	damIndicus := dam.Type == Indicus
	if sireIndicus != damIndicus {
		return heterosisIndicus
	}
	if sire.Type == dam.Type {
		return heterosisSameType
	}
	return heterosisCrossType
}

// Hybrid computes the crossbred profile of a sire and dam. The result is
// order-sensitive: swapping parents changes the maternally and paternally
// weighted traits. Pure; neither parent is modified.
func Hybrid(sire, dam BreedProfile) BreedProfile {
	h := heterosisFactor(sire, dam)

	// Dystocia risk from an oversized sire on an undersized dam.
	var sizePenalty float64
	if dam.AdultFemaleKG > 0 {
		ratio := sire.AdultMaleKG / dam.AdultFemaleKG
		if ratio > calvingRatioThreshold {
			sizePenalty = (ratio - calvingRatioThreshold) * calvingPenaltySlope
		}
	}

	milkBonus := 1.0
	switch {
	case dam.Milk >= 4:
		milkBonus = 1.05
	case dam.Milk <= 2:
		milkBonus = 0.95
	}

	adgBoost := (1 + 1.5*h) * milkBonus
	weightBoost := 1 + h

	out := BreedProfile{
		ID:   sire.ID + "x" + dam.ID,
		Name: sire.Name + " x " + dam.Name,
		Type: Composite,

		AdultMaleKG:   paternal(sire.AdultMaleKG, dam.AdultMaleKG) * weightBoost,
		AdultFemaleKG: paternal(sire.AdultFemaleKG, dam.AdultFemaleKG) * weightBoost,

		FeedlotADG: paternal(sire.FeedlotADG, dam.FeedlotADG) * adgBoost,
		GrazingADG: paternal(sire.GrazingADG, dam.GrazingADG) * adgBoost,

		FeedConversion: paternal(sire.FeedConversion, dam.FeedConversion),

		HeatTolerance: math.Max(sire.HeatTolerance, dam.HeatTolerance),
		Marbling:      maternal(sire.Marbling, dam.Marbling),
		CalvingEase:   math.Max(calvingEaseFloor, sire.CalvingEase*0.3+dam.CalvingEase*0.7-sizePenalty),
		Milk:          maternal(sire.Milk, dam.Milk),
		Conformation:  paternal(sire.Conformation, dam.Conformation),
		Yield:         paternal(sire.Yield, dam.Yield),

		Hybrid:   true,
		SireName: sire.Name,
		DamName:  dam.Name,
	}
	return out
}

// paternal weights a frame/growth trait sire-heavy.
func paternal(sire, dam float64) float64 {
	return sire*paternalLean + dam*(1-paternalLean)
}

// maternal weights a fat/milk trait dam-heavy.
func maternal(sire, dam float64) float64 {
	return sire*(1-maternalLean) + dam*maternalLean
}
