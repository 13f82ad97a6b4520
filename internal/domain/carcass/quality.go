package carcass

import (
	"math"

	"github.com/okian/zebu/internal/domain/genetics"
	"github.com/okian/zebu/internal/domain/model"
)

// Reference bands for the quality-index normalizations. Breed-specific
// figures override the gain band via the profile's feedlot ADG.
const (
	qiEnergyLoMcal = 1.8
	qiEnergyHiMcal = 3.0
	qiDaysLo       = 60
	qiDaysHi       = 300
	qiGainRatioLo  = 0.5
	qiGainRatioHi  = 1.1
	qiTHINeutral   = 68
	qiTHISevere    = 84
)

// Logistic combination weights. Positive drivers push the composite up;
// heat stress pulls it down. The intercept centers a mid-band animal
// near 50.
const (
	qiWeightEnergy    = 2.2
	qiWeightDays      = 1.6
	qiWeightGain      = 2.0
	qiWeightStability = 1.4
	qiWeightHealth    = 1.2
	qiWeightHeat      = 1.8
	qiIntercept       = -4.2
)

// Synergy scaling for old castrated males on the weighing path.
const qiOldSteerSynergyScale = 1.25

// Premium threshold on the derived marbling scale.
const qiPremiumMarbling = 4.2

// Dressing-estimate deltas around the breed/system base yield.
const (
	dressAgeSpanDelta  = 0.020
	dressDietSpanDelta = 0.024
	dressGainSpanDelta = 0.016
	dressHeatDelta     = 0.010
	dressSystemFeedlot = 0.010
	dressSystemGrazing = -0.010
	dressBreedBandHalf = 0.04
)

// QualityInput bundles the observations the weighing/event path records.
type QualityInput struct {
	Animal     model.AnimalState
	Breed      genetics.BreedProfile
	DietEnergy float64 // Mcal/kg DM
	DailyGain  float64 // observed kg/day
	// THI is the temperature-humidity index at weighing.
	THI        float64
	DaysOnFeed float64
	// DietStability in [0,1]; 1 means no recent ration changes.
	DietStability float64
	// Health in [0,1]; 1 is fully healthy.
	Health float64

	System model.ProductionSystem
	Opts   Options
}

// QualityResult is the composite score bundle.
type QualityResult struct {
	Score        float64 `json:"score"` // 0-100
	Marbling     float64 `json:"marbling"`
	BMS          int     `json:"bms"`
	Conformation string  `json:"conformation"`
	Premium      bool    `json:"premium"`
	DressingPct  float64 `json:"dressing_pct"`
}

// QualityIndex computes the 0-100 composite quality score and the
// dressing estimate for one weighing record. Pure and stateless.
func QualityIndex(in QualityInput, ageMonths float64) QualityResult {
	ageMonths = math.Max(0, ageMonths)
	gain := math.Max(0, in.DailyGain)

	expectedGain := in.Breed.FeedlotADG
	if in.System.Grazing() {
		expectedGain = in.Breed.GrazingADG
	}
	gainRatio := 0.0
	if expectedGain > 0 {
		gainRatio = gain / expectedGain
	}

	energyN := normalize(in.DietEnergy, qiEnergyLoMcal, qiEnergyHiMcal)
	daysN := normalize(in.DaysOnFeed, qiDaysLo, qiDaysHi)
	gainN := normalize(gainRatio, qiGainRatioLo, qiGainRatioHi)
	heatN := normalize(in.THI, qiTHINeutral, qiTHISevere)
	stabilityN := clamp(in.DietStability, 0, 1)
	healthN := clamp(in.Health, 0, 1)

	z := qiIntercept +
		qiWeightEnergy*energyN +
		qiWeightDays*daysN +
		qiWeightGain*gainN +
		qiWeightStability*stabilityN +
		qiWeightHealth*healthN -
		qiWeightHeat*heatN
	score := 100 / (1 + math.Exp(-z))

	// Map the composite onto the breed's own marbling ceiling.
	ceiling := in.Breed.Marbling
	if ceiling < marblingMin {
		ceiling = marblingMin
	}
	marbling := 1 + score/100*(ceiling-1)

	if in.Opts.Synergy != nil && in.Opts.Synergy.Active {
		bonus := in.Opts.Synergy.Marbling
		if in.Animal.IsSteer() && ageMonths > oldSteerAgeMonths {
			bonus *= qiOldSteerSynergyScale
		}
		marbling += bonus
	}
	marbling = clamp(marbling, marblingMin, marblingMax)
	bms := toBMS(marbling)

	confVal := int(math.Round(1 + score/100*(confMax-1)))
	if confVal < confMin {
		confVal = confMin
	}
	if confVal > confMax {
		confVal = confMax
	}

	return QualityResult{
		Score:        math.Round(score*10) / 10,
		Marbling:     marbling,
		BMS:          bms,
		Conformation: seuropLetters[confVal],
		Premium:      marbling >= qiPremiumMarbling,
		DressingPct:  estimateDressing(in, ageMonths, gainRatio, heatN) * 100,
	}
}

// estimateDressing is the additive dressing model around the breed base
// yield, bounded to the breed's realistic band.
func estimateDressing(in QualityInput, ageMonths, gainRatio, heatN float64) float64 {
	base := in.Breed.Yield
	if base == 0 {
		base = yieldFallback[in.Breed.Type]
		if base == 0 {
			base = yieldFallback[genetics.Composite]
		}
	}

	switch {
	case in.System == model.SystemFeedlot:
		base += dressSystemFeedlot
	case in.System.Grazing():
		base += dressSystemGrazing
	}

	d := base
	d += (normalize(ageMonths, 12, 36) - 0.5) * dressAgeSpanDelta
	d += (normalize(in.DietEnergy, qiEnergyLoMcal, qiEnergyHiMcal) - 0.5) * dressDietSpanDelta
	d += (normalize(gainRatio, qiGainRatioLo, qiGainRatioHi) - 0.5) * dressGainSpanDelta
	d -= heatN * dressHeatDelta

	d = clamp(d, base-dressBreedBandHalf, base+dressBreedBandHalf)
	return clamp(d, yieldMin, yieldMax)
}
