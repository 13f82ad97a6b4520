// Package growth projects an animal's weight trajectory from birth to the
// present with a capped Von Bertalanffy model modulated by diet quality
// and season. The simulation is bit-for-bit deterministic: all time is
// passed in explicitly and no randomness is ever used.
package growth

import (
	"math"
	"time"

	"github.com/okian/zebu/internal/domain/genetics"
	"github.com/okian/zebu/internal/domain/model"
)

// Maturation-rate constants per day, by biological type. Early-maturing
// British breeds approach their asymptote fastest; rustic breeds slowest.
var maturationRate = map[genetics.BiologicalType]float64{
	genetics.British:     0.0025,
	genetics.Continental: 0.0022,
	genetics.Rustic:      0.0018,
	genetics.Indicus:     0.0019,
	genetics.Dairy:       0.0021,
	genetics.Composite:   0.0021,
}

// Steer frame scaling: castrates grow a larger, later-maturing frame.
const (
	steerAsymptoteScale = 1.25
	steerRateScale      = 0.85
)

const (
	birthWeightFraction = 0.07
	floorWeightKG       = 40
	daysPerMonth        = 30.44
)

// Diet-quality factors by life phase and system. A factor of 1 expresses
// the full genetic gain potential for that month.
const (
	factorMilkPhase    = 0.95
	factorWeaningDip   = 0.55
	factorFeedlot      = 0.92
	factorMontanera    = 1.10
	milkPhaseMonths    = 6
	weaningPhaseMonths = 7
	montaneraMinAgeMo  = 12
)

// Seasonal pasture factors; summer is the dry-season trough.
var pastureFactor = map[model.Season]float64{
	model.Spring: 0.90,
	model.Autumn: 0.70,
	model.Winter: 0.55,
	model.Summer: 0.45,
}

// Below this factor a grown animal is in energy deficit and the
// multiplicative formula no longer applies; weight stalls or slips.
const (
	stagnationThreshold = 0.5
	stagnationLossKG    = -2.5
)

// Reproductive adjustments, applied once to the final projected weight.
const (
	gestationStage1Months = 6
	gestationStage2Months = 7.5
	gestationStage3Months = 8.5
	gestationStage1KG     = 15
	gestationStage2KG     = 30
	gestationStage3KG     = 45

	postpartumEarlyDays = 90
	postpartumLateDays  = 150
	postpartumEarlyKG   = -25
	postpartumLateKG    = -12
)

// Point is one monthly sample of the projected trajectory.
type Point struct {
	Date      time.Time `json:"date"`
	AgeMonths float64   `json:"age_months"`
	WeightKG  float64   `json:"weight_kg"`
}

// Trajectory is the full projection for one animal.
type Trajectory struct {
	Points []Point `json:"points"`
	// FinalWeightKG is the last projected weight including the one-shot
	// reproductive adjustment.
	FinalWeightKG float64 `json:"final_weight_kg"`
	// ReproAdjustKG is the gestation/postpartum adjustment that was
	// folded into FinalWeightKG.
	ReproAdjustKG float64 `json:"repro_adjust_kg"`
}

// Simulate projects the animal's weight from birth to now in monthly
// steps. Step order is strictly sequential: each month's gain depends on
// the previous month's weight.
func Simulate(animal model.AnimalState, breed genetics.BreedProfile, system model.ProductionSystem, now time.Time) Trajectory {
	sex := animal.EffectiveSex()

	asymptote := breed.AdultWeight(sex != model.Female)
	k := maturationRate[breed.Type]
	if k == 0 {
		k = maturationRate[genetics.Composite]
	}
	if sex == model.Castrated {
		asymptote *= steerAsymptoteScale
		k *= steerRateScale
	}

	weight := math.Max(floorWeightKG, breed.AdultFemaleKG*birthWeightFraction)
	kMonthly := k * daysPerMonth

	var points []Point
	if !animal.BirthDate.IsZero() && !now.Before(animal.BirthDate) {
		points = append(points, Point{Date: animal.BirthDate, AgeMonths: 0, WeightKG: weight})
		for step := 1; ; step++ {
			date := animal.BirthDate.AddDate(0, step, 0)
			if date.After(now) {
				break
			}
			age := float64(step)
			factor := dietFactor(age, date.Month(), system, animal.IsSteer())

			var gain float64
			if factor < stagnationThreshold && age > float64(weaningPhaseMonths) {
				gain = stagnationLossKG
			} else {
				gain = kMonthly * (asymptote - weight) * factor
			}
			weight = math.Max(floorWeightKG, weight+gain)
			points = append(points, Point{Date: date, AgeMonths: age, WeightKG: weight})
		}
	}

	adjust := 0.0
	if sex == model.Female {
		adjust = reproductiveAdjustment(animal.Reproductive, now)
	}
	final := math.Max(floorWeightKG, weight+adjust)

	// The observed current weight closes the trajectory when the caller
	// supplied one; the projection stands in otherwise.
	current := final
	if animal.WeightKG > 0 {
		current = animal.WeightKG
	}
	points = append(points, Point{Date: now, AgeMonths: animal.AgeMonths(now), WeightKG: current})

	return Trajectory{Points: points, FinalWeightKG: final, ReproAdjustKG: adjust}
}

// dietFactor returns the diet-quality multiplier for one simulated month.
func dietFactor(ageMonths float64, m time.Month, system model.ProductionSystem, steer bool) float64 {
	switch {
	case ageMonths <= milkPhaseMonths:
		return factorMilkPhase
	case ageMonths <= weaningPhaseMonths:
		return factorWeaningDip
	}
	switch system {
	case model.SystemFeedlot:
		return factorFeedlot
	case model.SystemMontanera:
		if model.AcornMonth(m) && steer && ageMonths > montaneraMinAgeMo {
			return factorMontanera
		}
	}
	return pastureFactor[model.SeasonOf(m)]
}

// reproductiveAdjustment computes the one-shot gestation or postpartum
// mass delta from the event history as of now. A pregnancy is an
// insemination with no later calving.
func reproductiveAdjustment(events []model.ReproductiveEvent, now time.Time) float64 {
	var lastInsemination, lastCalving time.Time
	for _, ev := range events {
		if ev.Date.After(now) {
			continue
		}
		switch ev.Type {
		case model.EventInsemination:
			if ev.Date.After(lastInsemination) {
				lastInsemination = ev.Date
			}
		case model.EventCalving:
			if ev.Date.After(lastCalving) {
				lastCalving = ev.Date
			}
		}
	}

	if !lastInsemination.IsZero() && lastInsemination.After(lastCalving) {
		months := now.Sub(lastInsemination).Hours() / 24 / daysPerMonth
		switch {
		case months >= gestationStage3Months:
			return gestationStage3KG
		case months >= gestationStage2Months:
			return gestationStage2KG
		case months >= gestationStage1Months:
			return gestationStage1KG
		}
		return 0
	}

	if !lastCalving.IsZero() {
		days := now.Sub(lastCalving).Hours() / 24
		switch {
		case days <= postpartumEarlyDays:
			return postpartumEarlyKG
		case days <= postpartumLateDays:
			return postpartumLateKG
		}
	}
	return 0
}
