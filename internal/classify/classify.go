// Package classify derives categorical labels from a computed phase
// assemblage. Every label function is pure and total over well-formed engine
// output; classification can never fail for a converged case.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"carbmix/internal/engine"
)

// presenceEpsilon is the mole threshold below which a phase is absent from
// the assemblage signature.
const presenceEpsilon = 1e-10

// CarbonationState buckets a case by its calcite content.
type CarbonationState string

const (
	Uncarbonated        CarbonationState = "Uncarbonated"
	PartiallyCarbonated CarbonationState = "PartiallyCarbonated"
	FullyCarbonated     CarbonationState = "FullyCarbonated"
)

// PHRegime buckets a case by its pH estimate.
type PHRegime string

const (
	HighlyAlkaline     PHRegime = "HighlyAlkaline"
	ModeratelyAlkaline PHRegime = "ModeratelyAlkaline"
	MildlyAlkaline     PHRegime = "MildlyAlkaline"
	Neutral            PHRegime = "Neutral"
)

// Ternary holds the normalized CaO/SiO2/Al2O3 fractions of a case. They are
// supplied by the composition provider, never recomputed here.
type Ternary struct {
	CaO   float64 `json:"CaO"`
	SiO2  float64 `json:"SiO2"`
	Al2O3 float64 `json:"Al2O3"`
}

// Labels is the full classification of one case.
type Labels struct {
	DominantPhase string           `json:"dominant_phase"`
	Signature     string           `json:"assemblage_signature"`
	Carbonation   CarbonationState `json:"carbonation_state"`
	PHRegime      PHRegime         `json:"ph_regime"`
	Region        string           `json:"composition_region"`
}

// Classify derives all labels for one assemblage.
func Classify(a engine.Assemblage, t Ternary) Labels {
	dominant := DominantPhase(a).String()
	return Labels{
		DominantPhase: dominant,
		Signature:     Signature(a),
		Carbonation:   CarbonationOf(a),
		PHRegime:      PHRegimeOf(a.PH),
		Region:        fmt.Sprintf("%s/%s", RegionOf(t), dominant),
	}
}

// DominantPhase returns the phase with the largest mass. Exact ties break to
// the phase earliest in the enumeration order, which keeps the label
// deterministic across platforms.
func DominantPhase(a engine.Assemblage) engine.Phase {
	best := engine.Hydrotalcite
	bestMass := a.MassKg(best)
	for _, p := range engine.Phases()[1:] {
		if m := a.MassKg(p); m > bestMass {
			best, bestMass = p, m
		}
	}
	return best
}

// Signature joins the sorted names of phases present above presenceEpsilon.
// Two assemblages with the same present-phase set always share a signature,
// whatever the amount magnitudes.
func Signature(a engine.Assemblage) string {
	var present []string
	for _, p := range engine.Phases() {
		if a.Amount(p) > presenceEpsilon {
			present = append(present, p.String())
		}
	}
	if len(present) == 0 {
		return "none"
	}
	sort.Strings(present)
	return strings.Join(present, " + ")
}

// CarbonationOf buckets the calcite amount.
func CarbonationOf(a engine.Assemblage) CarbonationState {
	switch {
	case a.Calcite < 1e-6:
		return Uncarbonated
	case a.Calcite < 0.01:
		return PartiallyCarbonated
	default:
		return FullyCarbonated
	}
}

// PHRegimeOf buckets a pH value.
func PHRegimeOf(pH float64) PHRegime {
	switch {
	case pH > 10.0:
		return HighlyAlkaline
	case pH > 9.0:
		return ModeratelyAlkaline
	case pH > 8.0:
		return MildlyAlkaline
	default:
		return Neutral
	}
}

// RegionOf maps ternary oxide fractions to a composition region with fixed
// thresholds, checked in this order.
func RegionOf(t Ternary) string {
	switch {
	case t.CaO > 0.35:
		return "Ca-rich"
	case t.SiO2 > 0.65:
		return "Si-rich"
	case t.Al2O3 > 0.15:
		return "Al-rich"
	default:
		return "Intermediate"
	}
}
