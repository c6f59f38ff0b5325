// Package engine computes the mineral phase assemblage of a carbonated
// cementitious mix with a fixed-priority sequential allocation model.
//
// This is not an equilibrium solve: each phase, in a hard-coded priority
// order, consumes the minimum of its limiting reagents from the remaining
// element pool before the next phase is considered. The calibration constants
// (the 0.3 ettringite formation factor and the 0.15 calcite cap on original
// Ca) are fitted values and must not be re-derived.
package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidComposition reports a negative mole amount or a CO2 partial
	// pressure outside [0, max].
	ErrInvalidComposition = errors.New("invalid composition")

	// ErrDegenerateStoichiometry is reserved for division-by-zero guards.
	// All current stoichiometric divisors are literal nonzero coefficients,
	// so it is never returned today.
	ErrDegenerateStoichiometry = errors.New("degenerate stoichiometry")
)

// ettringiteFactor is the empirical partial-formation scale applied to the
// ettringite limiting-reagent amount.
const ettringiteFactor = 0.3

// calciteCaCap caps carbonation at this fraction of the original Ca pool.
const calciteCaCap = 0.15

// pool tracks element moles during allocation. original is frozen at entry;
// remaining is drawn down by each rule in turn.
type pool struct {
	original  Composition
	remaining Composition
	pCO2      float64
	maxPCO2   float64
}

// consume draws amount x coefficient of each formula element from the
// remaining pool. Each element appears at most once per formula, so the map
// iteration order cannot affect the result.
func (p *pool) consume(ph Phase, amount float64) {
	for sym, coeff := range ph.Formula() {
		p.remaining.sub(sym, coeff*amount)
	}
}

// rule computes the amount of one phase from the current pool. Element
// consumption is not the rule's job: the engine draws amount x Formula()
// from the pool after each rule, so the stoichiometric coefficients live in
// exactly one place.
type rule struct {
	phase  Phase
	amount func(*pool) float64
}

// allocationOrder is the declared phase priority. The order is part of the
// model contract, not an implementation detail; tests pin it.
var allocationOrder = []rule{
	{Hydrotalcite, formHydrotalcite},
	{Ettringite, formEttringite},
	{Calcite, formCalcite},
	{CSH, formCSH},
	{SilicaGel, formSilicaGel},
}

func formHydrotalcite(p *pool) float64 {
	amount := min(p.remaining.Mg/4, p.remaining.Al/2)
	if amount <= 0 {
		return 0
	}
	return amount
}

func formEttringite(p *pool) float64 {
	limit := min(p.remaining.Ca/6, p.remaining.Al/2, p.remaining.S/3)
	if limit <= 0 {
		return 0
	}
	return ettringiteFactor * limit
}

func formCalcite(p *pool) float64 {
	if p.maxPCO2 <= 0 {
		return 0 // no carbonation headroom
	}
	amount := min(calciteCaCap*p.original.Ca, p.remaining.Ca) * (p.pCO2 / p.maxPCO2)
	if amount <= 0 {
		return 0
	}
	return amount
}

func formCSH(p *pool) float64 {
	amount := min(p.remaining.Ca, p.original.Si)
	if amount <= 0 {
		return 0
	}
	return amount
}

func formSilicaGel(p *pool) float64 {
	// Whatever Si the C-S-H step left behind ends up as amorphous silica.
	gel := p.remaining.Si
	if gel <= 0 {
		return 0
	}
	return gel
}

// Evaluate runs the allocation model for one composition at the given CO2
// partial pressure (bar). maxPCO2 is the carbonation-scale ceiling; pCO2 must
// lie in [0, maxPCO2].
//
// Evaluate is pure: identical inputs always yield identical outputs, with no
// dependence on call order or shared state.
func Evaluate(comp Composition, pCO2, maxPCO2 float64) (Assemblage, error) {
	if err := comp.Validate(); err != nil {
		return Assemblage{}, err
	}
	if pCO2 < 0 || pCO2 > maxPCO2 {
		return Assemblage{}, fmt.Errorf("%w: pCO2 = %g bar outside [0, %g]",
			ErrInvalidComposition, pCO2, maxPCO2)
	}

	p := &pool{original: comp, remaining: comp, pCO2: pCO2, maxPCO2: maxPCO2}

	var out Assemblage
	for _, r := range allocationOrder {
		amount := r.amount(p)
		if amount > 0 {
			p.consume(r.phase, amount)
		}
		out.setAmount(r.phase, amount)
	}

	out.PH = estimatePH(pCO2)
	// The allocation model has no iterative solve that could diverge; the
	// flag exists for downstream uniformity and future equilibrium backends.
	out.Converged = true
	return out, nil
}

// estimatePH is the fixed empirical linear pH model, clamped to [7, 14].
func estimatePH(pCO2 float64) float64 {
	pH := 10.5 - 5.0*pCO2
	if pH < 7.0 {
		return 7.0
	}
	if pH > 14.0 {
		return 14.0
	}
	return pH
}
