package mixdesign

import "fmt"

// waterFractionInSilicate is the H2O weight fraction of commercial sodium
// silicate solution (water glass).
const waterFractionInSilicate = 0.416

// Mix is one point of the factorial sweep: the five design-variable levels
// and the raw material masses they imply.
type Mix struct {
	ID string `json:"mix_id"`

	BinderAggregateRatio float64 `json:"R"`
	FlyAshReplacement    float64 `json:"f_FA"`
	CO2Fraction          float64 `json:"yCO2"`
	SodiumSilicateDosage float64 `json:"w_SS"`
	WaterBinderRatio     float64 `json:"w_b"`

	CementMassG         float64 `json:"cement_mass_g"`
	FlyAshMassG         float64 `json:"flyash_mass_g"`
	GangueMassG         float64 `json:"gangue_mass_g"`
	WaterMassG          float64 `json:"water_mass_g"`
	SodiumSilicateMassG float64 `json:"sodium_silicate_mass_g"`
	TotalMassG          float64 `json:"total_mass_g"`
}

// Enumerate generates every combination of the design in declared level
// order, with sequential mix IDs. The ordering is deterministic so a case ID
// refers to the same mix in every run of the same design.
func (d Design) Enumerate() []Mix {
	mixes := make([]Mix, 0, d.Count())
	n := 0
	for _, r := range d.BinderAggregateRatios {
		for _, fa := range d.FlyAshReplacements {
			for _, y := range d.CO2Fractions {
				for _, wss := range d.SodiumSilicateDosages {
					for _, wb := range d.WaterBinderRatios {
						n++
						m := d.masses(r, fa, wss, wb)
						m.ID = fmt.Sprintf("mix_%04d", n)
						m.CO2Fraction = y
						mixes = append(mixes, m)
					}
				}
			}
		}
	}
	return mixes
}

// masses computes raw material masses for one combination. The sodium
// silicate dosage is defined against the total slurry mass, which includes
// the silicate itself, so it is solved in closed form:
//
//	m_SS = w_SS * (m_dry + m_water) / (1 - w_SS)
//
// Free water is then reduced by the water the silicate solution carries.
func (d Design) masses(r, fa, wss, wb float64) Mix {
	gangue := d.ReferenceGangueMassG
	binder := r * gangue
	flyash := fa * binder
	cement := (1 - fa) * binder
	waterFromWB := wb * binder

	dry := cement + flyash + gangue
	silicate := wss * (dry + waterFromWB) / (1 - wss)

	water := waterFromWB - silicate*waterFractionInSilicate
	if water < 0 {
		water = 0
	}

	total := cement + flyash + gangue + water + silicate
	return Mix{
		BinderAggregateRatio: r,
		FlyAshReplacement:    fa,
		SodiumSilicateDosage: wss,
		WaterBinderRatio:     wb,
		CementMassG:          cement,
		FlyAshMassG:          flyash,
		GangueMassG:          gangue,
		WaterMassG:           water,
		SodiumSilicateMassG:  silicate,
		TotalMassG:           total,
	}
}
