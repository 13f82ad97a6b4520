package carcass_test

import (
	"testing"
	"time"

	carcass "github.com/okian/zebu/internal/domain/carcass"
	genetics "github.com/okian/zebu/internal/domain/genetics"
	"github.com/okian/zebu/internal/domain/model"
	"github.com/okian/zebu/internal/domain/nutrition"
	. "github.com/smartystreets/goconvey/convey"
)

func seuropRank(letter string) int {
	for i, l := range []string{"P", "O", "R", "U", "E", "S"} {
		if l == letter {
			return i + 1
		}
	}
	return 0
}

func TestPredictBounds(t *testing.T) {
	cat := genetics.NewCatalog()

	Convey("Given pathological input combinations", t, func() {
		cases := []struct {
			name               string
			weight, age        float64
			energy, gain       float64
			sex                model.Sex
			breedID            string
		}{
			{"zero everything", 0, 0, 0, 0, model.Male, "AN"},
			{"negative physicals", -500, -12, -2, -1, model.Female, "LI"},
			{"extreme feedlot", 2000, 200, 9, 5, model.Castrated, "CH"},
			{"tiny dairy cull", 90, 240, 0.5, 0, model.Female, "HO"},
			{"unknown breed synthetic", 550, 18, 2.6, 1.3, model.Male, "nope"},
		}

		for _, tc := range cases {
			tc := tc
			Convey("Then outputs stay in documented bounds for "+tc.name, func() {
				breed := cat.Resolve(tc.breedID, "", "")
				r := carcass.Predict(tc.weight, tc.age, breed, tc.sex, tc.energy, tc.gain, carcass.Options{Month: time.July})

				So(r.YieldPct, ShouldBeBetweenOrEqual, 45, 70)
				So(r.Marbling, ShouldBeBetweenOrEqual, 1, 5)
				So(r.BMS, ShouldBeBetweenOrEqual, 1, 12)
				So(r.ConformationVal, ShouldBeBetweenOrEqual, 1, 6)
				So(seuropRank(r.Conformation), ShouldEqual, r.ConformationVal)
				So(r.CarcassKG, ShouldBeGreaterThanOrEqualTo, 0)
			})
		}
	})
}

func TestPredictModel(t *testing.T) {
	cat := genetics.NewCatalog()
	an, _ := cat.Breed("AN")
	ch, _ := cat.Breed("CH")

	Convey("Given an Angus finisher", t, func() {
		base := carcass.Predict(580, 24, an, model.Castrated, 2.8, 1.4, carcass.Options{Month: time.November})

		Convey("Then the steer bonus and dense diet drive high marbling", func() {
			So(base.Marbling, ShouldBeGreaterThan, 4)
			So(base.BMS, ShouldBeGreaterThanOrEqualTo, 8)
		})

		Convey("And a lean low-energy diet scores lower on the standardized scale", func() {
			lean := carcass.Predict(580, 24, an, model.Castrated, 1.8, 0.8, carcass.Options{Month: time.November})
			So(lean.BMS, ShouldBeLessThan, base.BMS)
		})

		Convey("And a summer month costs the heat-sensitive breed marbling", func() {
			// Intact male at moderate weight and energy keeps the score
			// clear of the 1-5 clamp so the penalty is visible.
			autumn := carcass.Predict(450, 24, an, model.Male, 2.2, 1.0, carcass.Options{Month: time.November})
			summer := carcass.Predict(450, 24, an, model.Male, 2.2, 1.0, carcass.Options{Month: time.July})
			So(summer.Marbling, ShouldAlmostEqual, autumn.Marbling-0.5, 0.0001)
		})
	})

	Convey("Given the over-finishing step on an oversized Charolais", t, func() {
		over := ch.AdultMaleKG * 1.25

		Convey("When diet energy exceeds 2.75 Mcal the excess is penalized", func() {
			hot := carcass.Predict(over, 40, ch, model.Male, 2.9, 1.2, carcass.Options{Month: time.January})
			forage := carcass.Predict(over, 40, ch, model.Male, 2.6, 1.2, carcass.Options{Month: time.January})

			Convey("Then the forage-grown frame grades at least as well", func() {
				So(forage.ConformationVal, ShouldBeGreaterThanOrEqualTo, hot.ConformationVal)
			})
		})
	})

	Convey("Given the hyper-muscular breed exception", t, func() {
		bb, _ := cat.Breed("BB")
		li, _ := cat.Breed("LI")
		bbF := carcass.Predict(700, 30, bb, model.Female, 2.0, 1.2, carcass.Options{Month: time.January})
		liF := carcass.Predict(650, 30, li, model.Female, 2.0, 1.2, carcass.Options{Month: time.January})

		Convey("Then double-muscled females escape the sex penalty", func() {
			So(bbF.ConformationVal, ShouldBeGreaterThan, liF.ConformationVal)
		})
	})
}

func TestPredictHybridScenario(t *testing.T) {
	cat := genetics.NewCatalog()
	li, _ := cat.Breed("LI")
	br, _ := cat.Breed("BR")
	hybrid := genetics.Hybrid(li, br)

	synergy := &nutrition.Synergy{Name: "montanera-lecitina", Marbling: 0.5, Yield: 0.005, Active: true}

	opts := carcass.Options{
		Sire:          &li,
		Dam:           &br,
		Synergy:       synergy,
		AcornFinished: true,
		Month:         time.November,
	}

	Convey("Given a Limousin x Brahman intact male at 550 kg and 18 months", t, func() {
		r := carcass.Predict(550, 18, hybrid, model.Male, 2.6, 1.3, opts)

		Convey("Then carcass weight equals live weight times estimated yield", func() {
			So(r.CarcassKG, ShouldAlmostEqual, 550*r.YieldFraction, 0.0001)
		})

		Convey("And the acorn synergy strictly raises the standardized marbling", func() {
			noSyn := opts
			noSyn.Synergy = nil
			plain := carcass.Predict(550, 18, hybrid, model.Male, 2.6, 1.3, noSyn)
			So(r.BMS, ShouldBeGreaterThan, plain.BMS)
		})

		Convey("And heterosis never grades below the worse pure parent", func() {
			pureOpts := carcass.Options{Synergy: synergy, AcornFinished: true, Month: time.November}
			sire := carcass.Predict(550, 18, li, model.Male, 2.6, 1.3, pureOpts)
			dam := carcass.Predict(550, 18, br, model.Male, 2.6, 1.3, pureOpts)

			worse := sire.ConformationVal
			if dam.ConformationVal < worse {
				worse = dam.ConformationVal
			}
			So(r.ConformationVal, ShouldBeGreaterThanOrEqualTo, worse)
		})

		Convey("And the hybrid yield includes the flat heterosis bonus", func() {
			So(r.YieldFraction, ShouldBeGreaterThan, (li.Yield+br.Yield)/2)
		})
	})

	Convey("Given a dam with strong marbling genetics", t, func() {
		an, _ := cat.Breed("AN")
		chXan := genetics.Hybrid(cat.Resolve("CH", "", ""), an)
		withDam := carcass.Predict(550, 18, chXan, model.Male, 2.6, 1.3, carcass.Options{
			Sire: ptr(cat.Resolve("CH", "", "")), Dam: &an, Month: time.November,
		})
		noDamInfo := carcass.Predict(550, 18, chXan, model.Male, 2.6, 1.3, carcass.Options{Month: time.November})

		Convey("Then the maternal fat-programming bonus shows up", func() {
			// Parent average (2+4.5)/2 plus 0.5 beats the paternal-lean
			// blend stored on the profile.
			So(withDam.Marbling, ShouldBeGreaterThan, noDamInfo.Marbling)
		})
	})
}

func ptr(b genetics.BreedProfile) *genetics.BreedProfile { return &b }

func TestQualityIndex(t *testing.T) {
	cat := genetics.NewCatalog()
	an, _ := cat.Breed("AN")

	base := carcass.QualityInput{
		Animal:        model.AnimalState{ID: "q-1", Sex: model.Castrated, Steer: true},
		Breed:         an,
		DietEnergy:    2.8,
		DailyGain:     1.3,
		THI:           65,
		DaysOnFeed:    220,
		DietStability: 1,
		Health:        1,
		System:        model.SystemFeedlot,
	}

	Convey("Given a healthy steer deep into finishing", t, func() {
		r := carcass.QualityIndex(base, 30)

		Convey("Then the composite lands high with bounded outputs", func() {
			So(r.Score, ShouldBeBetweenOrEqual, 0, 100)
			So(r.Score, ShouldBeGreaterThan, 60)
			So(r.Marbling, ShouldBeBetweenOrEqual, 1, 5)
			So(r.BMS, ShouldBeBetweenOrEqual, 1, 12)
			So(seuropRank(r.Conformation), ShouldBeBetweenOrEqual, 1, 6)
		})

		Convey("And the dressing estimate stays inside the breed band", func() {
			So(r.DressingPct, ShouldBeBetweenOrEqual, 45, 70)
			So(r.DressingPct, ShouldBeBetweenOrEqual, (an.Yield+0.01-0.04)*100, (an.Yield+0.01+0.04)*100)
		})
	})

	Convey("Given severe heat stress on the same animal", t, func() {
		hot := base
		hot.THI = 86
		r := carcass.QualityIndex(hot, 30)
		cool := carcass.QualityIndex(base, 30)

		Convey("Then the composite and the dressing estimate both drop", func() {
			So(r.Score, ShouldBeLessThan, cool.Score)
			So(r.DressingPct, ShouldBeLessThan, cool.DressingPct)
		})
	})

	Convey("Given an unstable ration and poor health", t, func() {
		sick := base
		sick.DietStability = 0.2
		sick.Health = 0.3
		r := carcass.QualityIndex(sick, 30)
		fit := carcass.QualityIndex(base, 30)

		Convey("Then the composite penalizes both", func() {
			So(r.Score, ShouldBeLessThan, fit.Score)
		})
	})

	Convey("Given the acorn synergy on old and young steers", t, func() {
		syn := base
		syn.Opts.Synergy = &nutrition.Synergy{Marbling: 0.8, Active: true}
		old := carcass.QualityIndex(syn, 40)
		young := carcass.QualityIndex(syn, 20)

		Convey("Then the old castrate takes the larger bonus", func() {
			So(old.Marbling, ShouldBeGreaterThanOrEqualTo, young.Marbling)
		})
	})

	Convey("Given empty observations", t, func() {
		r := carcass.QualityIndex(carcass.QualityInput{Breed: an}, 0)

		Convey("Then the score degrades to baseline instead of failing", func() {
			So(r.Score, ShouldBeBetweenOrEqual, 0, 100)
			So(r.DressingPct, ShouldBeBetweenOrEqual, 45, 70)
		})
	})
}
