// Package nutrition computes energy/protein/fiber targets for an animal
// and validates candidate rations against them. All functions are pure;
// targets are recomputed per call and never cached.
package nutrition

// State is the animal's physiological demand class used by the
// requirement tables.
type State string

const (
	StateMaintenance State = "maintenance"
	StateGrowing     State = "growing"
	StateFinishing   State = "finishing"
	StateLactation   State = "lactation"
)

// Requirement is the computed target bundle for one animal and goal.
type Requirement struct {
	ProteinPct      float64 // crude protein, % of dry matter
	EnergyMcalPerKG float64 // required ration energy density
	FiberMinPct     float64 // minimum crude fiber, % of dry matter
	IntakeKGDM      float64 // dry-matter intake capacity, kg/day
}

// Severity grades an alert.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeveritySuccess  Severity = "success"
)

// AlertCode is the closed set of diet findings.
type AlertCode string

const (
	AlertAcidosis        AlertCode = "ACIDOSIS"
	AlertLowFiber        AlertCode = "LOW_FIBER"
	AlertBloat           AlertCode = "BLOAT"
	AlertMontaneraFiber  AlertCode = "MONTANERA_FIBER"
	AlertMontaneraCP     AlertCode = "MONTANERA_PROTEIN"
	AlertTannin          AlertCode = "MONTANERA_TANNIN"
	AlertProteinDeficit  AlertCode = "LOW_NITROGEN_EFFICIENCY"
	AlertProteinExcess   AlertCode = "HIGH_POLLUTION"
	AlertBalancedRation  AlertCode = "BALANCED"
)

// Alert is one stateless finding from a single validation call.
type Alert struct {
	Code     AlertCode
	Severity Severity
	Message  string
	Action   string
}

// Synergy describes an active feed-interaction bonus.
type Synergy struct {
	Name        string
	Marbling    float64
	Yield       float64
	Description string
	Active      bool
}

// KPITargets is the feeding-plan target bundle selected per functional
// type, life stage and objective.
type KPITargets struct {
	TargetADG          float64 // kg/day
	FeedConversion     float64 // kg DM per kg gain
	EnergyMcalPerKG    float64
	ProteinPct         float64
	FiberMinPct        float64
	MaxConcentrateFrac float64 // 0-1 share of dry matter
}
