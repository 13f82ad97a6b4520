package growth_test

import (
	"reflect"
	"testing"
	"time"

	genetics "github.com/okian/zebu/internal/domain/genetics"
	growth "github.com/okian/zebu/internal/domain/growth"
	"github.com/okian/zebu/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func calf(birth time.Time, sex model.Sex, steer bool) model.AnimalState {
	return model.AnimalState{
		ID:        "a-1",
		BirthDate: birth,
		Sex:       sex,
		Steer:     steer,
	}
}

func TestSimulate(t *testing.T) {
	cat := genetics.NewCatalog()
	li, _ := cat.Breed("LI")
	re, _ := cat.Breed("RE")

	Convey("Given a feedlot bull calf", t, func() {
		animal := calf(now.AddDate(-2, 0, 0), model.Male, false)

		Convey("When simulating twice with identical inputs", func() {
			a := growth.Simulate(animal, li, model.SystemFeedlot, now)
			b := growth.Simulate(animal, li, model.SystemFeedlot, now)

			Convey("Then the trajectories are bit-for-bit identical", func() {
				So(reflect.DeepEqual(a, b), ShouldBeTrue)
			})
		})

		Convey("When simulating to 24 months", func() {
			tr := growth.Simulate(animal, li, model.SystemFeedlot, now)

			Convey("Then the trajectory starts near 7% of the dam-line weight", func() {
				So(tr.Points[0].WeightKG, ShouldAlmostEqual, li.AdultFemaleKG*0.07, 0.001)
			})

			Convey("And weight increases monotonically under feedlot feeding", func() {
				for i := 1; i < len(tr.Points); i++ {
					So(tr.Points[i].WeightKG, ShouldBeGreaterThanOrEqualTo, tr.Points[i-1].WeightKG)
				}
			})

			Convey("And the projection stays under the genetic asymptote", func() {
				So(tr.FinalWeightKG, ShouldBeLessThan, li.AdultMaleKG)
			})
		})
	})

	Convey("Given a steer and a bull of the same breed and age", t, func() {
		bull := growth.Simulate(calf(now.AddDate(-3, 0, 0), model.Male, false), li, model.SystemFeedlot, now)
		steer := growth.Simulate(calf(now.AddDate(-3, 0, 0), model.Male, true), li, model.SystemFeedlot, now)

		Convey("Then both produce full trajectories", func() {
			So(len(bull.Points), ShouldEqual, len(steer.Points))
		})

		Convey("And the steer's larger, slower frame is visible by 36 months", func() {
			// 25% higher asymptote outweighs the 15% slower rate well
			// before slaughter age.
			So(steer.FinalWeightKG, ShouldBeGreaterThan, bull.FinalWeightKG*0.95)
		})
	})

	Convey("Given an extensive rustic animal through dry summers", t, func() {
		tr := growth.Simulate(calf(now.AddDate(-4, 0, 0), model.Male, false), re, model.SystemExtensive, now)

		Convey("Then the weight never drops below the 40 kg floor", func() {
			for _, p := range tr.Points {
				So(p.WeightKG, ShouldBeGreaterThanOrEqualTo, 40)
			}
		})

		Convey("And summer months past weaning lose weight", func() {
			var summerDips int
			for i := 1; i < len(tr.Points); i++ {
				if model.SeasonOf(tr.Points[i].Date.Month()) == model.Summer &&
					tr.Points[i].AgeMonths > 7 &&
					tr.Points[i].WeightKG < tr.Points[i-1].WeightKG {
					summerDips++
				}
			}
			So(summerDips, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a montanera steer over 12 months old", t, func() {
		animal := calf(now.AddDate(-2, 0, 0), model.Male, true)
		withAcorn := growth.Simulate(animal, re, model.SystemMontanera, now)
		plain := growth.Simulate(animal, re, model.SystemExtensive, now)

		Convey("Then acorn-season feeding beats plain pasture", func() {
			So(withAcorn.FinalWeightKG, ShouldBeGreaterThan, plain.FinalWeightKG)
		})
	})

	Convey("Given a montanera heifer", t, func() {
		animal := calf(now.AddDate(-2, 0, 0), model.Female, false)
		montanera := growth.Simulate(animal, re, model.SystemMontanera, now)
		plain := growth.Simulate(animal, re, model.SystemExtensive, now)

		Convey("Then the acorn override never applies to non-steers", func() {
			So(montanera.FinalWeightKG, ShouldAlmostEqual, plain.FinalWeightKG, 0.0001)
		})
	})
}

func TestReproductiveAdjustment(t *testing.T) {
	cat := genetics.NewCatalog()
	re, _ := cat.Breed("RE")

	female := func(events ...model.ReproductiveEvent) model.AnimalState {
		a := calf(now.AddDate(-5, 0, 0), model.Female, false)
		a.Reproductive = events
		return a
	}

	Convey("Given pregnant females at different gestation stages", t, func() {
		at := func(months int) model.AnimalState {
			return female(model.ReproductiveEvent{Type: model.EventInsemination, Date: now.AddDate(0, -months, 0)})
		}

		sevenMo := growth.Simulate(at(7), re, model.SystemExtensive, now)
		nineMo := growth.Simulate(at(9), re, model.SystemExtensive, now)

		Convey("Then the fetal-mass bonus grows with gestation stage", func() {
			So(nineMo.ReproAdjustKG, ShouldBeGreaterThan, sevenMo.ReproAdjustKG)
			So(sevenMo.ReproAdjustKG, ShouldBeGreaterThan, 0)
		})

		Convey("And early gestation adds nothing", func() {
			early := growth.Simulate(at(4), re, model.SystemExtensive, now)
			So(early.ReproAdjustKG, ShouldEqual, 0)
		})
	})

	Convey("Given females at different postpartum stages", t, func() {
		calved := func(daysAgo int) model.AnimalState {
			return female(model.ReproductiveEvent{Type: model.EventCalving, Date: now.AddDate(0, 0, -daysAgo)})
		}

		d30 := growth.Simulate(calved(30), re, model.SystemExtensive, now)
		d95 := growth.Simulate(calved(95), re, model.SystemExtensive, now)
		d200 := growth.Simulate(calved(200), re, model.SystemExtensive, now)

		Convey("Then the penalty shrinks as days postpartum elapse", func() {
			So(d30.ReproAdjustKG, ShouldBeLessThan, 0)
			So(d95.ReproAdjustKG, ShouldBeLessThan, 0)
			So(d95.ReproAdjustKG, ShouldBeGreaterThan, d30.ReproAdjustKG)
			So(d200.ReproAdjustKG, ShouldEqual, 0)
		})
	})

	Convey("Given a calving after the last insemination", t, func() {
		a := female(
			model.ReproductiveEvent{Type: model.EventInsemination, Date: now.AddDate(0, -12, 0)},
			model.ReproductiveEvent{Type: model.EventCalving, Date: now.AddDate(0, 0, -40)},
		)
		tr := growth.Simulate(a, re, model.SystemExtensive, now)

		Convey("Then the postpartum penalty wins over the stale insemination", func() {
			So(tr.ReproAdjustKG, ShouldBeLessThan, 0)
		})
	})

	Convey("Given a male with reproductive events attached by mistake", t, func() {
		a := calf(now.AddDate(-3, 0, 0), model.Male, false)
		a.Reproductive = []model.ReproductiveEvent{{Type: model.EventCalving, Date: now.AddDate(0, 0, -30)}}
		tr := growth.Simulate(a, re, model.SystemExtensive, now)

		Convey("Then no adjustment applies", func() {
			So(tr.ReproAdjustKG, ShouldEqual, 0)
		})
	})
}
