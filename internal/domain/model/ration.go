package model

// FeedCategory tags a feed's role in the ration. Validation rules key on
// category rather than on feed identity.
type FeedCategory string

const (
	FeedForage      FeedCategory = "forage"
	FeedConcentrate FeedCategory = "concentrate"
	FeedLegume      FeedCategory = "legume"
	FeedAcorn       FeedCategory = "acorn"
	FeedSupplement  FeedCategory = "supplement"
)

// AcornVariety distinguishes the two acorn sources the synergy and
// toxicity rules care about.
type AcornVariety string

const (
	AcornNone AcornVariety = ""
	// AcornHoleoic is the sweet, high-oleic-acid variety.
	AcornHighOleic AcornVariety = "high_oleic"
	// AcornBitter is the tannin-rich variety with palatability limits.
	AcornBitter AcornVariety = "bitter"
)

// Feed is an immutable nutritional profile from the feed catalog.
// Percentages are on a dry-matter basis except DryMatterPct itself.
type Feed struct {
	ID              string
	Name            string
	Category        FeedCategory
	DryMatterPct    float64 // fraction of fresh weight that is dry matter, 0-100
	EnergyMcalPerKG float64 // metabolizable energy per kg dry matter
	ProteinPct      float64 // crude protein, % of dry matter
	FiberPct        float64 // crude fiber, % of dry matter
	CostPerKG       float64 // cost per kg fresh weight
	Acorn           AcornVariety
	// Lecithin marks soy-lecithin or soy-meal feeds that trigger the
	// acorn marbling synergy.
	Lecithin bool
}

// RationItem pairs a feed with the fresh weight offered per day.
type RationItem struct {
	Feed    Feed
	FreshKG float64
}

// DryMatterKG is the item's contribution on a dry-matter basis.
func (r RationItem) DryMatterKG() float64 {
	if r.FreshKG <= 0 || r.Feed.DryMatterPct <= 0 {
		return 0
	}
	return r.FreshKG * r.Feed.DryMatterPct / 100
}

// Ration is the full daily feed offer.
type Ration []RationItem

// RationAggregate holds the derived totals of one ration, computed in a
// single pass. All downstream rules read this value instead of re-scanning
// the item list, so the several consumers can never drift apart.
type RationAggregate struct {
	TotalDryMatterKG float64
	TotalEnergyMcal  float64
	TotalProteinKG   float64
	TotalFiberKG     float64
	TotalCost        float64

	ForageDMKG float64
	LegumeDMKG float64
	AcornDMKG  float64
	// TanninAcornDMKG is the bitter-variety share of AcornDMKG.
	TanninAcornDMKG float64

	HasAcorn     bool
	HasHighOleic bool
	HasLecithin  bool
}

// Aggregate computes the ration's totals. Pure; items with non-positive
// weight or dry matter contribute nothing.
func (r Ration) Aggregate() RationAggregate {
	var agg RationAggregate
	for _, it := range r {
		dm := it.DryMatterKG()
		if dm == 0 {
			continue
		}
		agg.TotalDryMatterKG += dm
		agg.TotalEnergyMcal += dm * it.Feed.EnergyMcalPerKG
		agg.TotalProteinKG += dm * it.Feed.ProteinPct / 100
		agg.TotalFiberKG += dm * it.Feed.FiberPct / 100
		agg.TotalCost += it.FreshKG * it.Feed.CostPerKG

		switch it.Feed.Category {
		case FeedForage:
			agg.ForageDMKG += dm
		case FeedLegume:
			agg.LegumeDMKG += dm
		case FeedAcorn:
			agg.AcornDMKG += dm
			agg.HasAcorn = true
			switch it.Feed.Acorn {
			case AcornHighOleic:
				agg.HasHighOleic = true
			case AcornBitter:
				agg.TanninAcornDMKG += dm
			}
		}
		if it.Feed.Lecithin {
			agg.HasLecithin = true
		}
	}
	return agg
}

// EnergyDensity is Mcal per kg dry matter; zero when the ration is empty.
func (a RationAggregate) EnergyDensity() float64 {
	return safeRatio(a.TotalEnergyMcal, a.TotalDryMatterKG)
}

// ProteinPct is crude protein as % of total dry matter.
func (a RationAggregate) ProteinPct() float64 {
	return safeRatio(a.TotalProteinKG, a.TotalDryMatterKG) * 100
}

// FiberPct is crude fiber as % of total dry matter.
func (a RationAggregate) FiberPct() float64 {
	return safeRatio(a.TotalFiberKG, a.TotalDryMatterKG) * 100
}

// ForageFraction is the forage share of total dry matter, 0-1.
func (a RationAggregate) ForageFraction() float64 {
	return safeRatio(a.ForageDMKG, a.TotalDryMatterKG)
}

// LegumeFraction is the legume share of total dry matter, 0-1.
func (a RationAggregate) LegumeFraction() float64 {
	return safeRatio(a.LegumeDMKG, a.TotalDryMatterKG)
}

// AcornFraction is the acorn share of total dry matter, 0-1.
func (a RationAggregate) AcornFraction() float64 {
	return safeRatio(a.AcornDMKG, a.TotalDryMatterKG)
}

// TanninFraction is the bitter-acorn share of total dry matter, 0-1.
func (a RationAggregate) TanninFraction() float64 {
	return safeRatio(a.TanninAcornDMKG, a.TotalDryMatterKG)
}

// safeRatio treats a zero denominator as a zero result so sparse rations
// degrade to baseline values instead of failing.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
