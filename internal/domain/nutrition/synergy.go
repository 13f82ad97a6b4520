package nutrition

import "github.com/okian/zebu/internal/domain/model"

// Acorn + soy-lecithin marbling synergy. Lecithin emulsifies the acorn's
// oleic fat, improving intramuscular deposition; steers respond better.
const (
	synergyBaseMarbling  = 0.5
	synergySteerMarbling = 0.8
	synergyHighOleic     = 0.4
	synergyYieldBonus    = 0.005
)

// Synergies detects active feed-interaction bonuses in a ration. Today
// the only known interaction is acorn + lecithin; the slice return leaves
// room for more.
func Synergies(agg model.RationAggregate, animal model.AnimalState) []Synergy {
	if !agg.HasAcorn || !agg.HasLecithin {
		return nil
	}

	marbling := synergyBaseMarbling
	if animal.IsSteer() {
		marbling = synergySteerMarbling
	}

	desc := "bellota + lecitina de soja: mejora de infiltración grasa"
	if agg.HasHighOleic {
		marbling += synergyHighOleic
		desc = "bellota dulce alta en oleico + lecitina de soja: infiltración máxima"
	} else if agg.TanninAcornDMKG > 0 {
		desc = "bellota amarga + lecitina de soja: infiltración limitada por taninos"
	}

	return []Synergy{{
		Name:        "montanera-lecitina",
		Marbling:    marbling,
		Yield:       synergyYieldBonus,
		Description: desc,
		Active:      true,
	}}
}
