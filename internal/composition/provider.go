// Package composition converts raw-material masses and bulk XRF oxide data
// into the elemental mole vector each case feeds to the allocation engine.
// Pure lookup arithmetic; all decision logic lives elsewhere.
package composition

import (
	"fmt"

	"carbmix/internal/classify"
	"carbmix/internal/config"
	"carbmix/internal/engine"
	"carbmix/internal/mixdesign"
)

// Thermodynamic reference state and gas-charge assumptions.
const (
	TemperatureK     = 298.15
	TotalPressureBar = 1.01325
	totalPressureAtm = 1.0
	gasConstantLAtm  = 0.08206 // L·atm/(mol·K)

	// The CO2 charge assumes a closed vessel with ~10x the slurry volume of
	// gas headspace and a slurry density of 2 g/cm3. A crude estimate, kept
	// for continuity with the published dataset.
	gasToSlurryVolumeRatio = 10.0
	slurryDensityGPerCm3   = 2.0
)

// Provider turns mix designs into case compositions using an explicit,
// immutable material table. It holds no global state.
type Provider struct {
	mats Materials
}

// NewProvider validates the material tables and returns a Provider.
func NewProvider(mats Materials) (*Provider, error) {
	for name, tbl := range map[string]OxideWt{
		"cement": mats.Cement, "fly_ash": mats.FlyAsh,
		"coal_gangue": mats.CoalGangue, "sodium_silicate": mats.SodiumSilicate,
	} {
		if len(tbl) == 0 {
			return nil, fmt.Errorf("material %s has no oxide composition", name)
		}
		for oxide, wt := range tbl {
			if _, ok := oxideMolarMass[oxide]; !ok {
				return nil, fmt.Errorf("material %s: unknown oxide %q", name, oxide)
			}
			if wt < 0 {
				return nil, fmt.Errorf("material %s: negative wt%% for %s", name, oxide)
			}
		}
	}
	return &Provider{mats: mats}, nil
}

// LoadMaterials reads material XRF tables from a YAML or JSON file; absent
// materials keep the defaults.
func LoadMaterials(path string) (Materials, error) {
	m := DefaultMaterials()
	if err := config.LoadFile(path, &m); err != nil {
		return Materials{}, fmt.Errorf("load materials: %w", err)
	}
	return m, nil
}

// PCO2Bar converts a CO2 gas-phase volume fraction to partial pressure.
func PCO2Bar(co2Fraction float64) float64 {
	return co2Fraction * TotalPressureBar
}

// Compose builds the elemental composition and ternary oxide fractions for
// one mix. The returned Composition is a value; callers own their copy and
// concurrent evaluations cannot alias it.
func (p *Provider) Compose(mix mixdesign.Mix) (engine.Composition, classify.Ternary, error) {
	oxideMassG := map[string]float64{}
	addMaterial := func(massG float64, tbl OxideWt) {
		for oxide, wt := range tbl {
			oxideMassG[oxide] += massG * wt / 100.0
		}
	}
	addMaterial(mix.GangueMassG, p.mats.CoalGangue)
	addMaterial(mix.CementMassG, p.mats.Cement)
	addMaterial(mix.FlyAshMassG, p.mats.FlyAsh)
	addMaterial(mix.SodiumSilicateMassG, p.mats.SodiumSilicate)
	oxideMassG["H2O"] += mix.WaterMassG
	oxideMassG["CO2"] += co2MassG(mix.CO2Fraction, mix.TotalMassG)

	// Accumulate in the canonical oxide/element order so the float sums are
	// reproducible bit-for-bit; map iteration order must not leak into case
	// compositions.
	elementMassG := map[string]float64{}
	for _, oxide := range oxideOrder {
		massG := oxideMassG[oxide]
		if massG == 0 {
			continue
		}
		for _, element := range engine.Elements {
			if f := elementFactor(oxide, element); f > 0 {
				elementMassG[element] += massG * f
			}
		}
	}

	var comp engine.Composition
	for _, element := range engine.Elements {
		moles := elementMassG[element] / elementAtomicMass[element]
		switch element {
		case "Ca":
			comp.Ca = moles
		case "Si":
			comp.Si = moles
		case "Al":
			comp.Al = moles
		case "Fe":
			comp.Fe = moles
		case "Mg":
			comp.Mg = moles
		case "K":
			comp.K = moles
		case "Na":
			comp.Na = moles
		case "S":
			comp.S = moles
		case "O":
			comp.O = moles
		case "H":
			comp.H = moles
		case "C":
			comp.C = moles
		}
	}

	ternary := ternaryOf(oxideMassG)
	if err := comp.Validate(); err != nil {
		return engine.Composition{}, classify.Ternary{}, err
	}
	return comp, ternary, nil
}

// co2MassG estimates the CO2 mass charged into the system from the gas phase
// via the ideal gas law over the assumed headspace volume.
func co2MassG(co2Fraction, totalMassG float64) float64 {
	slurryVolumeCm3 := totalMassG / slurryDensityGPerCm3
	gasVolumeL := gasToSlurryVolumeRatio * slurryVolumeCm3 / 1000.0
	totalMoles := totalPressureAtm * gasVolumeL / (gasConstantLAtm * TemperatureK)
	return co2Fraction * totalMoles * oxideMolarMass["CO2"]
}

// ternaryOf normalizes the CaO/SiO2/Al2O3 oxide masses of a case.
func ternaryOf(oxideMassG map[string]float64) classify.Ternary {
	cao := oxideMassG["CaO"]
	sio2 := oxideMassG["SiO2"]
	al2o3 := oxideMassG["Al2O3"]
	sum := cao + sio2 + al2o3
	if sum <= 0 {
		return classify.Ternary{}
	}
	return classify.Ternary{CaO: cao / sum, SiO2: sio2 / sum, Al2O3: al2o3 / sum}
}
