package nutrition

import (
	"math"

	"github.com/okian/zebu/internal/domain/genetics"
	"github.com/okian/zebu/internal/domain/model"
)

// Intake capacity as percent of body weight, declining stepwise with
// frame size. Heavy animals on pure maintenance eat less still.
const (
	intakePctLight       = 2.5 // under 400 kg
	intakePctMedium      = 2.2 // 400-700 kg
	intakePctHeavy       = 1.9 // above 700 kg
	intakePctMaintenance = 1.8 // heavy animals, maintenance only

	intakeBandMediumKG = 400
	intakeBandHeavyKG  = 700
)

// Energy model coefficients, Mcal ME per kg of metabolic weight.
const (
	maintenanceMcalPerMW   = 0.122
	maintenanceOnlyFactor  = 1.20
	growthMcalCoefficient  = 0.0635
	growthGainExponent     = 1.1
	sexFactorFemale        = 1.15
	sexFactorCastrated     = 1.10
	sexFactorMale          = 1.0
)

// proteinFiberRow is one entry of the protein/fiber lookup table.
type proteinFiberRow struct {
	proteinPct  float64
	fiberMinPct float64
}

// proteinFiberTargets keys on physiological state; growing animals get a
// band split at 300 kg (young stock need denser protein).
var proteinFiberTargets = map[State]proteinFiberRow{
	StateMaintenance: {proteinPct: 8.5, fiberMinPct: 30},
	StateFinishing:   {proteinPct: 12.5, fiberMinPct: 15},
	StateLactation:   {proteinPct: 15, fiberMinPct: 28},
}

const (
	growingLightBandKG     = 300
	growingLightProteinPct = 14.5
	growingHeavyProteinPct = 12.0
	growingFiberMinPct     = 18
)

// Requirements computes the diet target bundle for one animal snapshot.
// Pure; negative physical inputs are clamped to zero before use.
func Requirements(weightKG, targetGainKG, ageMonths float64, state State, sex model.Sex) Requirement {
	weightKG = math.Max(0, weightKG)
	targetGainKG = math.Max(0, targetGainKG)

	maintaining := state == StateMaintenance || targetGainKG == 0

	intakePct := intakePctLight
	switch {
	case weightKG > intakeBandHeavyKG:
		intakePct = intakePctHeavy
		if maintaining {
			intakePct = intakePctMaintenance
		}
	case weightKG >= intakeBandMediumKG:
		intakePct = intakePctMedium
	}
	intake := weightKG * intakePct / 100

	metabolicWeight := math.Pow(weightKG, 0.75)

	maintenance := maintenanceMcalPerMW * metabolicWeight
	if maintaining {
		maintenance *= maintenanceOnlyFactor
	}

	var growth float64
	if !maintaining {
		sexFactor := sexFactorMale
		switch sex {
		case model.Female:
			sexFactor = sexFactorFemale
		case model.Castrated:
			sexFactor = sexFactorCastrated
		}
		growth = growthMcalCoefficient * metabolicWeight * math.Pow(targetGainKG, growthGainExponent) * sexFactor
	}

	var density float64
	if intake > 0 {
		density = (maintenance + growth) / intake
	}

	row, ok := proteinFiberTargets[state]
	if !ok {
		row = proteinFiberRow{proteinPct: growingHeavyProteinPct, fiberMinPct: growingFiberMinPct}
		if weightKG < growingLightBandKG {
			row.proteinPct = growingLightProteinPct
		}
	}

	return Requirement{
		ProteinPct:      row.proteinPct,
		EnergyMcalPerKG: density,
		FiberMinPct:     row.fiberMinPct,
		IntakeKGDM:      intake,
	}
}

// Functional-type target profiles. The classification collapses breeds to
// the production specialization that drives feeding strategy.
var functionalProfiles = map[string]KPITargets{
	"infiltration": {TargetADG: 1.10, FeedConversion: 6.5, EnergyMcalPerKG: 2.9, ProteinPct: 12.0, FiberMinPct: 12, MaxConcentrateFrac: 0.75},
	"lean-growth":  {TargetADG: 1.50, FeedConversion: 5.8, EnergyMcalPerKG: 2.8, ProteinPct: 14.5, FiberMinPct: 15, MaxConcentrateFrac: 0.70},
	"rustic":       {TargetADG: 0.90, FeedConversion: 7.0, EnergyMcalPerKG: 2.4, ProteinPct: 12.0, FiberMinPct: 25, MaxConcentrateFrac: 0.40},
	"dairy":        {TargetADG: 1.00, FeedConversion: 7.2, EnergyMcalPerKG: 2.6, ProteinPct: 15.5, FiberMinPct: 20, MaxConcentrateFrac: 0.55},
	"baseline":     {TargetADG: 1.20, FeedConversion: 6.4, EnergyMcalPerKG: 2.7, ProteinPct: 13.0, FiberMinPct: 18, MaxConcentrateFrac: 0.60},
}

// Composite/hybrid animals get the baseline profile with a heterosis
// bump: 10% faster target gain, 5% better conversion.
const (
	hybridGainBonus       = 1.10
	hybridConversionBonus = 0.95
)

// Extensive grazing caps apply regardless of breed.
const (
	extensiveMaxConcentrate = 0.30
	extensiveMaxADG         = 0.90
)

// functionalType classifies a breed profile for target selection.
func functionalType(b genetics.BreedProfile) string {
	if b.Hybrid || b.Type == genetics.Composite {
		return "baseline"
	}
	if b.Marbling >= 4 {
		return "infiltration"
	}
	switch b.Type {
	case genetics.Continental:
		return "lean-growth"
	case genetics.Rustic, genetics.Indicus:
		return "rustic"
	case genetics.Dairy:
		return "dairy"
	}
	return "baseline"
}

// KPITargetsFor selects and adjusts the feeding-plan targets for an
// animal. Profile by functional type, then life stage, then objective
// overrides, then system-wide extensive caps.
func KPITargetsFor(breed genetics.BreedProfile, stage model.LifeStage, objective model.Objective, system model.ProductionSystem) KPITargets {
	ft := functionalType(breed)
	t := functionalProfiles[ft]

	if ft == "baseline" && (breed.Hybrid || breed.Type == genetics.Composite) {
		t.TargetADG *= hybridGainBonus
		t.FeedConversion *= hybridConversionBonus
	}

	switch stage {
	case model.StageRearing:
		// Rearing favors frame over fat: more protein, less energy.
		t.ProteinPct += 1.5
		t.EnergyMcalPerKG -= 0.2
		t.TargetADG *= 0.85
	case model.StageFinishing:
		t.ProteinPct -= 1.0
		t.EnergyMcalPerKG += 0.1
	}

	switch objective {
	case model.ObjectiveEconomic:
		t.MaxConcentrateFrac *= 0.80
		t.EnergyMcalPerKG *= 0.95
		t.TargetADG *= 0.90
	case model.ObjectiveMaintenance:
		t.TargetADG = 0
		t.EnergyMcalPerKG = 2.0
		t.ProteinPct = proteinFiberTargets[StateMaintenance].proteinPct
		t.FiberMinPct = proteinFiberTargets[StateMaintenance].fiberMinPct
		t.MaxConcentrateFrac = 0.15
	}

	if system == model.SystemExtensive || system == model.SystemEcological {
		t.MaxConcentrateFrac = math.Min(t.MaxConcentrateFrac, extensiveMaxConcentrate)
		t.TargetADG = math.Min(t.TargetADG, extensiveMaxADG)
	}

	return t
}
