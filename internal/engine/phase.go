package engine

// Phase is the closed set of mineral phases the allocation model can form.
// The declaration order is load-bearing: it is both the allocation priority
// and the tie-break order for dominant-phase classification.
type Phase int

const (
	Hydrotalcite Phase = iota
	Ettringite
	Calcite
	CSH
	SilicaGel
	numPhases
)

var phaseNames = [numPhases]string{
	Hydrotalcite: "Hydrotalcite",
	Ettringite:   "Ettringite",
	Calcite:      "Calcite",
	CSH:          "C-S-H",
	SilicaGel:    "Silica_gel",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases returns all phases in priority order.
func Phases() []Phase {
	return []Phase{Hydrotalcite, Ettringite, Calcite, CSH, SilicaGel}
}

// Formula returns the stoichiometric element coefficients of a phase. The
// engine draws these coefficients from the element pool for every mole of
// phase formed; they are the single source of the model's stoichiometry.
func (p Phase) Formula() map[string]float64 {
	switch p {
	case Hydrotalcite: // Mg4Al2(OH)14 backbone, Mg and Al limiting
		return map[string]float64{"Mg": 4, "Al": 2}
	case Ettringite: // Ca6Al2(SO4)3(OH)12·26H2O
		return map[string]float64{"Ca": 6, "Al": 2, "S": 3}
	case Calcite: // CaCO3
		return map[string]float64{"Ca": 1, "C": 1, "O": 3}
	case CSH: // tobermorite-like gel at Ca/Si = 1
		return map[string]float64{"Ca": 1, "Si": 1}
	case SilicaGel: // amorphous SiO2
		return map[string]float64{"Si": 1, "O": 2}
	}
	return nil
}

// MolarMassKg returns the molar mass in kg/mol used to convert phase moles to
// mass for dominance ranking. Values follow the calibrated model constants.
func (p Phase) MolarMassKg() float64 {
	switch p {
	case Hydrotalcite:
		return 0.443
	case Ettringite:
		return 1.255
	case Calcite:
		return 0.10009
	case CSH:
		return 0.170
	case SilicaGel:
		return 0.06008
	}
	return 0
}

// Assemblage is the computed phase amounts for one case, in moles, plus the
// pH estimate. Amounts are fixed fields mirroring the Phase enumeration.
type Assemblage struct {
	Hydrotalcite float64 `json:"hydrotalcite_mol"`
	Ettringite   float64 `json:"ettringite_mol"`
	Calcite      float64 `json:"calcite_mol"`
	CSH          float64 `json:"csh_mol"`
	SilicaGel    float64 `json:"silica_gel_mol"`

	PH        float64 `json:"pH"`
	Converged bool    `json:"converged"`
}

// Amount returns the mole amount of the given phase.
func (a Assemblage) Amount(p Phase) float64 {
	switch p {
	case Hydrotalcite:
		return a.Hydrotalcite
	case Ettringite:
		return a.Ettringite
	case Calcite:
		return a.Calcite
	case CSH:
		return a.CSH
	case SilicaGel:
		return a.SilicaGel
	}
	return 0
}

// MassKg returns the mass of the given phase in kilograms.
func (a Assemblage) MassKg(p Phase) float64 {
	return a.Amount(p) * p.MolarMassKg()
}

func (a *Assemblage) setAmount(p Phase, v float64) {
	switch p {
	case Hydrotalcite:
		a.Hydrotalcite = v
	case Ettringite:
		a.Ettringite = v
	case Calcite:
		a.Calcite = v
	case CSH:
		a.CSH = v
	case SilicaGel:
		a.SilicaGel = v
	}
}
