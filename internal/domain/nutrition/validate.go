package nutrition

import (
	"fmt"

	"github.com/okian/zebu/internal/domain/model"
)

// Fiber floors by system class. Grazing rumens are adapted to roughage
// and destabilize sooner when fiber drops.
const (
	fiberFloorGrazingPct = 28
	fiberFloorFeedlotPct = 15
	fiberWarningBandPct  = 4
)

// Bloat thresholds on legume dry-matter share.
const (
	bloatLegumeFrac         = 0.50
	bloatLegumeComboFrac    = 0.30
	bloatComboFiberPct      = 22
)

// Montanera (acorn-season) thresholds.
const (
	montaneraMinForageFrac = 0.10
	montaneraMaxAcornFrac  = 0.60
	montaneraMinProteinPct = 10
	montaneraMaxTanninFrac = 0.50
)

// Nitrogen-balance tolerances around the required crude-protein target.
const (
	proteinDeficitPts = 2
	proteinExcessPts  = 4
)

// ValidateDiet checks one aggregated ration against the rumen-health and
// nitrogen-balance rules. Rules are evaluated independently; the result
// may carry several alerts at once. A ration that trips no rule gets the
// balanced success marker, so the slice is never empty and never an error.
// Calling twice with the same inputs yields identical output.
func ValidateDiet(agg model.RationAggregate, system model.ProductionSystem, requiredProteinPct float64) []Alert {
	alerts := make([]Alert, 0, 4)

	fiber := agg.FiberPct()
	floor := fiberFloorFeedlotPct
	if system.Grazing() {
		floor = fiberFloorGrazingPct
	}
	switch {
	case fiber < float64(floor):
		alerts = append(alerts, Alert{
			Code:     AlertAcidosis,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("fibra %.1f%% por debajo del mínimo %d%%: riesgo de acidosis ruminal", fiber, floor),
			Action:   "aumentar forraje o fibra efectiva antes de seguir subiendo concentrado",
		})
	case fiber < float64(floor)+fiberWarningBandPct:
		alerts = append(alerts, Alert{
			Code:     AlertLowFiber,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("fibra %.1f%% cerca del mínimo %d%%", fiber, floor),
			Action:   "vigilar rumia y consistencia fecal",
		})
	}

	legume := agg.LegumeFraction()
	if legume > bloatLegumeFrac || (legume > bloatLegumeComboFrac && fiber < bloatComboFiberPct) {
		alerts = append(alerts, Alert{
			Code:     AlertBloat,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("leguminosas %.0f%% de la materia seca: riesgo de timpanismo", legume*100),
			Action:   "limitar leguminosas frescas o añadir antiespumante",
		})
	}

	if system == model.SystemMontanera {
		alerts = append(alerts, validateMontanera(agg)...)
	}

	cp := agg.ProteinPct()
	switch {
	case requiredProteinPct > 0 && cp < requiredProteinPct-proteinDeficitPts:
		alerts = append(alerts, Alert{
			Code:     AlertProteinDeficit,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("proteína %.1f%% frente a objetivo %.1f%%: eficiencia de nitrógeno comprometida", cp, requiredProteinPct),
			Action:   "incorporar fuente proteica (soja, girasol, urea protegida)",
		})
	case requiredProteinPct > 0 && cp > requiredProteinPct+proteinExcessPts:
		alerts = append(alerts, Alert{
			Code:     AlertProteinExcess,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("proteína %.1f%% muy por encima del objetivo %.1f%%: exceso excretado como nitrógeno", cp, requiredProteinPct),
			Action:   "reducir corrector proteico para abaratar la ración y bajar la excreción",
		})
	}

	if len(alerts) == 0 {
		alerts = append(alerts, Alert{
			Code:     AlertBalancedRation,
			Severity: SeveritySuccess,
			Message:  "ración equilibrada: fibra, proteína y energía dentro de los márgenes",
		})
	}

	return alerts
}

// validateMontanera applies the acorn-season rules. Acorn is energy-rich
// but poor in fiber and protein, so supplementation failures show up fast.
func validateMontanera(agg model.RationAggregate) []Alert {
	var out []Alert

	if agg.HasAcorn && agg.ForageFraction() < montaneraMinForageFrac {
		out = append(out, Alert{
			Code:     AlertMontaneraFiber,
			Severity: SeverityCritical,
			Message:  "montanera sin forraje de apoyo: aporte de fibra insuficiente",
			Action:   "garantizar acceso a pasto o heno durante la montanera",
		})
	}
	if agg.AcornFraction() > montaneraMaxAcornFrac && agg.ProteinPct() < montaneraMinProteinPct {
		out = append(out, Alert{
			Code:     AlertMontaneraCP,
			Severity: SeverityWarning,
			Message:  "bellota dominante con proteína por debajo del 10%: déficit proteico",
			Action:   "suplementar con leguminosa o corrector proteico",
		})
	}
	if agg.TanninFraction() > montaneraMaxTanninFrac {
		out = append(out, Alert{
			Code:     AlertTannin,
			Severity: SeverityWarning,
			Message:  "predominio de bellota amarga: taninos altos, palatabilidad y consumo en riesgo",
			Action:   "mezclar con bellota dulce o limitar el tiempo de montanera",
		})
	}
	return out
}
