package engine

import "fmt"

// Composition holds the bulk elemental composition of one mix in moles.
// The eleven fields are the closed element set of the Ca-Si-Al-Fe-Mg-K-Na-S-O-H-C
// system; there is deliberately no map form so a missing element is a compile
// error, not a zero-value surprise at run time.
type Composition struct {
	Ca float64 `json:"Ca"`
	Si float64 `json:"Si"`
	Al float64 `json:"Al"`
	Fe float64 `json:"Fe"`
	Mg float64 `json:"Mg"`
	K  float64 `json:"K"`
	Na float64 `json:"Na"`
	S  float64 `json:"S"`
	O  float64 `json:"O"`
	H  float64 `json:"H"`
	C  float64 `json:"C"`
}

// Elements is the canonical element order of the system.
var Elements = []string{"Ca", "Si", "Al", "Fe", "Mg", "K", "Na", "S", "O", "H", "C"}

// Get returns the mole amount for an element symbol. Unknown symbols return 0.
func (c Composition) Get(symbol string) float64 {
	switch symbol {
	case "Ca":
		return c.Ca
	case "Si":
		return c.Si
	case "Al":
		return c.Al
	case "Fe":
		return c.Fe
	case "Mg":
		return c.Mg
	case "K":
		return c.K
	case "Na":
		return c.Na
	case "S":
		return c.S
	case "O":
		return c.O
	case "H":
		return c.H
	case "C":
		return c.C
	}
	return 0
}

// sub subtracts v moles of an element. Unknown symbols are ignored.
func (c *Composition) sub(symbol string, v float64) {
	switch symbol {
	case "Ca":
		c.Ca -= v
	case "Si":
		c.Si -= v
	case "Al":
		c.Al -= v
	case "Fe":
		c.Fe -= v
	case "Mg":
		c.Mg -= v
	case "K":
		c.K -= v
	case "Na":
		c.Na -= v
	case "S":
		c.S -= v
	case "O":
		c.O -= v
	case "H":
		c.H -= v
	case "C":
		c.C -= v
	}
}

// Validate rejects compositions with any negative mole amount.
func (c Composition) Validate() error {
	for _, sym := range Elements {
		if v := c.Get(sym); v < 0 {
			return fmt.Errorf("%w: %s = %g mol", ErrInvalidComposition, sym, v)
		}
	}
	return nil
}
