package genetics

import "strings"

// breedTable is the fixed reference catalog. Values are mid-range figures
// from breed-society and INIA performance summaries; the engine treats
// them as constants, not tunables.
var breedTable = []BreedProfile{
	{
		ID: "AN", Name: "Angus", Type: British,
		AdultMaleKG: 850, AdultFemaleKG: 550,
		FeedlotADG: 1.40, GrazingADG: 0.90, FeedConversion: 6.0,
		HeatTolerance: 4, Marbling: 4.5, CalvingEase: 8, Milk: 3, Conformation: 4, Yield: 0.58,
	},
	{
		ID: "HE", Name: "Hereford", Type: British,
		AdultMaleKG: 900, AdultFemaleKG: 600,
		FeedlotADG: 1.35, GrazingADG: 0.88, FeedConversion: 6.2,
		HeatTolerance: 5, Marbling: 3.5, CalvingEase: 8, Milk: 3, Conformation: 4, Yield: 0.57,
	},
	{
		ID: "LI", Name: "Limousin", Type: Continental,
		AdultMaleKG: 1000, AdultFemaleKG: 650,
		FeedlotADG: 1.50, GrazingADG: 0.95, FeedConversion: 5.8,
		HeatTolerance: 4, Marbling: 2, CalvingEase: 6, Milk: 2, Conformation: 5, Yield: 0.63,
	},
	{
		ID: "CH", Name: "Charolais", Type: Continental,
		AdultMaleKG: 1100, AdultFemaleKG: 750,
		FeedlotADG: 1.60, GrazingADG: 1.00, FeedConversion: 5.6,
		HeatTolerance: 3, Marbling: 2, CalvingEase: 5, Milk: 2.5, Conformation: 5, Yield: 0.62,
	},
	{
		// The hyper-muscular double-muscling breed; the carcass model
		// exempts its females from the structural sex penalty.
		ID: "BB", Name: "Azul Belga", Type: Continental,
		AdultMaleKG: 1150, AdultFemaleKG: 750,
		FeedlotADG: 1.55, GrazingADG: 0.85, FeedConversion: 5.5,
		HeatTolerance: 2, Marbling: 1.5, CalvingEase: 3, Milk: 2, Conformation: 6, Yield: 0.66,
	},
	{
		ID: "RE", Name: "Retinta", Type: Rustic,
		AdultMaleKG: 950, AdultFemaleKG: 600,
		FeedlotADG: 1.20, GrazingADG: 0.80, FeedConversion: 6.8,
		HeatTolerance: 8, Marbling: 3, CalvingEase: 8, Milk: 3, Conformation: 3, Yield: 0.55,
	},
	{
		ID: "AV", Name: "Avileña Negra Ibérica", Type: Rustic,
		AdultMaleKG: 900, AdultFemaleKG: 550,
		FeedlotADG: 1.15, GrazingADG: 0.78, FeedConversion: 7.0,
		HeatTolerance: 8, Marbling: 3, CalvingEase: 9, Milk: 3.5, Conformation: 3, Yield: 0.54,
	},
	{
		ID: "MO", Name: "Morucha", Type: Rustic,
		AdultMaleKG: 850, AdultFemaleKG: 500,
		FeedlotADG: 1.10, GrazingADG: 0.75, FeedConversion: 7.2,
		HeatTolerance: 9, Marbling: 3, CalvingEase: 9, Milk: 3, Conformation: 3, Yield: 0.53,
	},
	{
		ID: "HO", Name: "Holstein", Type: Dairy,
		AdultMaleKG: 1000, AdultFemaleKG: 680,
		FeedlotADG: 1.10, GrazingADG: 0.70, FeedConversion: 7.5,
		HeatTolerance: 3, Marbling: 2.5, CalvingEase: 7, Milk: 5, Conformation: 2, Yield: 0.50,
	},
	{
		ID: "BR", Name: "Brahman", Type: Indicus,
		AdultMaleKG: 1000, AdultFemaleKG: 600,
		FeedlotADG: 1.25, GrazingADG: 0.85, FeedConversion: 6.5,
		HeatTolerance: 10, Marbling: 1.5, CalvingEase: 8, Milk: 2.5, Conformation: 3, Yield: 0.58,
	},
	{
		ID: "NE", Name: "Nelore", Type: Indicus,
		AdultMaleKG: 950, AdultFemaleKG: 550,
		FeedlotADG: 1.20, GrazingADG: 0.82, FeedConversion: 6.6,
		HeatTolerance: 10, Marbling: 1.5, CalvingEase: 8, Milk: 2, Conformation: 3, Yield: 0.57,
	},
}

// SyntheticFallbackID identifies the balanced mid-range profile returned
// when breed resolution fails entirely. Callers degrade to it rather than
// propagating a fatal error.
const SyntheticFallbackID = "XX"

var syntheticFallback = BreedProfile{
	ID: SyntheticFallbackID, Name: "Cruce Indefinido", Type: Composite,
	AdultMaleKG: 900, AdultFemaleKG: 575,
	FeedlotADG: 1.25, GrazingADG: 0.85, FeedConversion: 6.5,
	HeatTolerance: 6, Marbling: 3, CalvingEase: 7, Milk: 3, Conformation: 3.5, Yield: 0.56,
}

// Catalog is the immutable breed reference set. It is read-only after
// construction and therefore safe to share across concurrent callers.
type Catalog struct {
	byID   map[string]BreedProfile
	byName map[string]BreedProfile
	list   []BreedProfile
}

// NewCatalog builds the catalog from the fixed breed table.
func NewCatalog() *Catalog {
	c := &Catalog{
		byID:   make(map[string]BreedProfile, len(breedTable)),
		byName: make(map[string]BreedProfile, len(breedTable)),
		list:   make([]BreedProfile, len(breedTable)),
	}
	copy(c.list, breedTable)
	for _, b := range c.list {
		c.byID[b.ID] = b
		c.byName[normalizeName(b.Name)] = b
	}
	return c
}

// Breeds returns the catalog entries in table order. The returned slice is
// a copy; mutating it does not affect the catalog.
func (c *Catalog) Breeds() []BreedProfile {
	out := make([]BreedProfile, len(c.list))
	copy(out, c.list)
	return out
}

// Breed returns the profile for an exact breed ID.
func (c *Catalog) Breed(id string) (BreedProfile, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// BreedByName performs a case- and accent-insensitive exact name match.
func (c *Catalog) BreedByName(name string) (BreedProfile, bool) {
	b, ok := c.byName[normalizeName(name)]
	return b, ok
}

// Synthetic returns the documented fallback profile.
func (c *Catalog) Synthetic() BreedProfile {
	return syntheticFallback
}

// Resolve is the single breed-resolution procedure: exact id, then
// sire/dam hybrid, then normalized name, then the synthetic fallback.
// It never fails; the fourth step always yields a usable profile.
func (c *Catalog) Resolve(breedID, sireID, damID string) BreedProfile {
	if b, ok := c.Breed(breedID); ok {
		return b
	}
	if sireID != "" && damID != "" {
		sire, okS := c.Breed(sireID)
		dam, okD := c.Breed(damID)
		if okS && okD {
			return Hybrid(sire, dam)
		}
	}
	if b, ok := c.BreedByName(breedID); ok {
		return b
	}
	return syntheticFallback
}

// accentFold maps the accented runes that appear in breed names to their
// ASCII base. Enough for catalog matching; not a general transliterator.
var accentFold = map[rune]rune{
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u',
	'à': 'a', 'è': 'e', 'ì': 'i', 'ò': 'o', 'ù': 'u',
	'ä': 'a', 'ë': 'e', 'ï': 'i', 'ö': 'o', 'ü': 'u',
	'ñ': 'n', 'ç': 'c',
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if f, ok := accentFold[r]; ok {
			return f
		}
		return r
	}, s)
}
