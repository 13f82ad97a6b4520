// Package carcass predicts dressing yield, marbling, SEUROP conformation
// and composite quality from genetics, diet and realized growth. Both
// predictors are pure and stateless; alerting stays in the nutrition
// package.
package carcass

import (
	"math"
	"time"

	"github.com/okian/zebu/internal/domain/genetics"
	"github.com/okian/zebu/internal/domain/model"
	"github.com/okian/zebu/internal/domain/nutrition"
)

// SEUROP letter grades, worst to best. Index 1-6.
var seuropLetters = [...]string{"", "P", "O", "R", "U", "E", "S"}

// Yield fallback by biological type when a profile carries no figure.
var yieldFallback = map[genetics.BiologicalType]float64{
	genetics.British:     0.58,
	genetics.Continental: 0.62,
	genetics.Rustic:      0.55,
	genetics.Dairy:       0.50,
	genetics.Indicus:     0.57,
	genetics.Composite:   0.56,
}

// Hard output bounds; enforced regardless of input pathology.
const (
	yieldMin    = 0.45
	yieldMax    = 0.70
	marblingMin = 1
	marblingMax = 5
	bmsMin      = 1
	bmsMax      = 12
	confMin     = 1
	confMax     = 6
)

// Heat-tolerance cutoffs for the summer climate adjustments.
const (
	heatIntolerant = 4
	heatTolerant   = 7
)

// Yield model deltas.
const (
	yieldSexMale      = 0.01
	yieldSexFemale    = -0.02
	yieldSexCastrated = -0.01
	yieldDietBonusMax = 0.012 // over the [1.5, 3.0] Mcal band
	yieldAgeBonusMax  = 0.010 // over the [12, 36] month band
	yieldHybridBonus  = 0.01
)

// Marbling model deltas.
const (
	marblingDietBonusMax  = 2.0 // over the [1.6, 3.0] Mcal band
	marblingMaturityFloor = 0.5 // share expressed at 300 kg; full at 600
	marblingAcornBonus    = 0.8
	marblingHeatPenalty   = 0.5
	marblingSteerBonus    = 0.5
	marblingOldSteerBonus = 0.3
	oldSteerAgeMonths     = 36
	bmsSlope              = 2.2
)

// Conformation model deltas.
const (
	confDietBonusMax    = 1.5 // over the [1.8, 2.8] Mcal band
	confSummerTolerant  = 0.3
	confSummerIntoleran = -0.5
	confSexMale         = 0.5
	confSexFemale       = -0.5
	confImmatureRatio   = 0.75
	confOversizeRatio   = 1.15
	// confOverfinishMcal splits feedlot over-finishing (penalty) from
	// genuine extra-frame growth on forage (reward). Tuned constant;
	// keep the hard step as is.
	confOverfinishMcal    = 2.75
	confOverfinishPenalty = -1.0
	confExtraFrameBonus   = 0.5
)

// hyperMuscularBreedID exempts double-muscled females from the
// structural sex penalty.
const hyperMuscularBreedID = "BB"

// Maternal-effect adjustments for explicit sire/dam crosses.
const (
	maternalMarblingBonus = 0.5
	maternalConfBonus     = 0.3
	maternalConfPenalty   = -0.2
	damMarblingThreshold  = 4
	damMilkHighThreshold  = 4
	damMilkLowThreshold   = 1
)

// Options carries the optional context for a carcass prediction.
type Options struct {
	// Sire and Dam switch on the hybrid maternal-effect path.
	Sire *genetics.BreedProfile
	Dam  *genetics.BreedProfile

	// Synergy is the active feed-interaction bonus, if any.
	Synergy *nutrition.Synergy

	// AcornFinished marks a confirmed acorn-based finishing diet.
	AcornFinished bool

	// Month anchors the seasonal heat logic; the engine never reads the
	// wall clock.
	Month time.Month
}

// Result is the carcass prediction bundle.
type Result struct {
	YieldFraction   float64 `json:"yield_fraction"`
	YieldPct        float64 `json:"yield_pct"`
	CarcassKG       float64 `json:"carcass_kg"`
	Marbling        float64 `json:"marbling"` // internal 1-5
	BMS             int     `json:"bms"`      // standardized 1-12
	Conformation    string  `json:"conformation"`
	ConformationVal int     `json:"conformation_val"`
	Premium         bool    `json:"premium"`
	SynergyMarbling float64 `json:"synergy_marbling"`
}

// effectiveTraits resolves the genetic inputs, folding in the hybrid
// parent average and maternal effects when sire/dam are supplied.
func effectiveTraits(breed genetics.BreedProfile, opts Options) (marbling, conformation, yield float64) {
	marbling = breed.Marbling
	conformation = breed.Conformation
	yield = breed.Yield

	if opts.Sire != nil && opts.Dam != nil {
		marbling = (opts.Sire.Marbling + opts.Dam.Marbling) / 2
		conformation = (opts.Sire.Conformation + opts.Dam.Conformation) / 2
		yield = (opts.Sire.Yield + opts.Dam.Yield) / 2

		// Epigenetic fat-deposition programming from the dam.
		if opts.Dam.Marbling >= damMarblingThreshold {
			marbling += maternalMarblingBonus
		}
		switch {
		case opts.Dam.Milk >= damMilkHighThreshold:
			conformation += maternalConfBonus
		case opts.Dam.Milk <= damMilkLowThreshold:
			conformation += maternalConfPenalty
		}
		yield += yieldHybridBonus
	}

	if yield == 0 {
		yield = yieldFallback[breed.Type]
		if yield == 0 {
			yield = yieldFallback[genetics.Composite]
		}
	}
	return marbling, conformation, yield
}

// Predict computes the carcass result for one animal snapshot. Pure;
// negative physical inputs are clamped to zero and every output is
// clamped to its documented bounds.
func Predict(weightKG, ageMonths float64, breed genetics.BreedProfile, sex model.Sex, dietEnergy, dailyGain float64, opts Options) Result {
	weightKG = math.Max(0, weightKG)
	ageMonths = math.Max(0, ageMonths)
	dietEnergy = math.Max(0, dietEnergy)
	dailyGain = math.Max(0, dailyGain)

	gMarbling, gConf, gYield := effectiveTraits(breed, opts)

	var synMarbling, synYield float64
	if opts.Synergy != nil && opts.Synergy.Active {
		synMarbling = opts.Synergy.Marbling
		synYield = opts.Synergy.Yield
	}

	yield := predictYield(gYield, sex, dietEnergy, ageMonths, synYield)
	marbling := predictMarbling(gMarbling, weightKG, ageMonths, dietEnergy, sex, breed.HeatTolerance, synMarbling, opts)
	confVal := predictConformation(gConf, weightKG, dietEnergy, sex, breed, opts)

	bms := toBMS(marbling)

	return Result{
		YieldFraction:   yield,
		YieldPct:        yield * 100,
		CarcassKG:       weightKG * yield,
		Marbling:        clamp(marbling, marblingMin, marblingMax),
		BMS:             bms,
		Conformation:    seuropLetters[confVal],
		ConformationVal: confVal,
		Premium:         confVal >= 4 && bms >= 5,
		SynergyMarbling: synMarbling,
	}
}

func predictYield(base float64, sex model.Sex, dietEnergy, ageMonths, synergy float64) float64 {
	y := base
	switch sex {
	case model.Male:
		y += yieldSexMale
	case model.Female:
		y += yieldSexFemale
	case model.Castrated:
		y += yieldSexCastrated
	}
	y += normalize(dietEnergy, 1.5, 3.0) * yieldDietBonusMax
	y += normalize(ageMonths, 12, 36) * yieldAgeBonusMax
	y += synergy
	return clamp(y, yieldMin, yieldMax)
}

func predictMarbling(genetic, weightKG, ageMonths, dietEnergy float64, sex model.Sex, heatTolerance, synergy float64, opts Options) float64 {
	score := genetic + normalize(dietEnergy, 1.6, 3.0)*marblingDietBonusMax

	// Marbling is deposited late in life; light animals express only
	// part of their potential.
	maturity := marblingMaturityFloor + (1-marblingMaturityFloor)*normalize(weightKG, 300, 600)
	score *= maturity

	if opts.AcornFinished {
		score += marblingAcornBonus
	}
	score += synergy

	if model.SeasonOf(opts.Month) == model.Summer && heatTolerance <= heatIntolerant {
		score -= marblingHeatPenalty
	}

	if sex == model.Castrated {
		score += marblingSteerBonus
		if ageMonths > oldSteerAgeMonths {
			score += marblingOldSteerBonus
		}
	}

	return math.Max(marblingMin, score)
}

func predictConformation(genetic, weightKG, dietEnergy float64, sex model.Sex, breed genetics.BreedProfile, opts Options) int {
	score := genetic + normalize(dietEnergy, 1.8, 2.8)*confDietBonusMax

	if model.SeasonOf(opts.Month) == model.Summer {
		switch {
		case breed.HeatTolerance >= heatTolerant:
			score += confSummerTolerant
		case breed.HeatTolerance <= heatIntolerant:
			score += confSummerIntoleran
		}
	}

	switch sex {
	case model.Male:
		score += confSexMale
	case model.Female:
		if breed.ID != hyperMuscularBreedID {
			score += confSexFemale
		}
	}

	adult := breed.AdultWeight(sex != model.Female)
	if adult > 0 {
		ratio := weightKG / adult
		switch {
		case ratio < confImmatureRatio:
			// Immature frame; noted but not penalized further.
		case ratio > confOversizeRatio:
			if dietEnergy > confOverfinishMcal {
				// Feedlot over-finishing: patchy subcutaneous fat.
				score += confOverfinishPenalty * math.Min(1, (ratio-confOversizeRatio)/0.15)
			} else {
				// Genuine extra frame grown on forage.
				score += confExtraFrameBonus
			}
		}
	}

	v := int(math.Round(score))
	if v < confMin {
		v = confMin
	}
	if v > confMax {
		v = confMax
	}
	return v
}

// toBMS maps the internal marbling score to the 1-12 standardized scale.
func toBMS(score float64) int {
	v := int(math.Round(1 + (score-1)*bmsSlope))
	if v < bmsMin {
		v = bmsMin
	}
	if v > bmsMax {
		v = bmsMax
	}
	return v
}

// normalize maps x into [0,1] over [lo,hi]; a degenerate band yields 0 so
// sparse data degrades instead of failing.
func normalize(x, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return clamp((x-lo)/(hi-lo), 0, 1)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
