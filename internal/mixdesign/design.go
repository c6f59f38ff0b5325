// Package mixdesign enumerates the full factorial sweep of mix designs and
// computes the raw material masses for each combination.
package mixdesign

import (
	"fmt"

	"carbmix/internal/config"
)

// Design holds the level lists of the five independent variables plus the
// reference gangue mass everything is scaled against. A Design is immutable
// once constructed; components receive it by value at construction time.
type Design struct {
	// BinderAggregateRatios is R = (cement + fly ash) / coal gangue.
	BinderAggregateRatios []float64 `yaml:"binder_aggregate_ratios" json:"binder_aggregate_ratios"`
	// FlyAshReplacements is f_FA = fly ash / (cement + fly ash).
	FlyAshReplacements []float64 `yaml:"fly_ash_replacements" json:"fly_ash_replacements"`
	// CO2Fractions is the CO2 volume fraction in the gas phase.
	CO2Fractions []float64 `yaml:"co2_fractions" json:"co2_fractions"`
	// SodiumSilicateDosages is w_SS = sodium silicate / total slurry mass.
	SodiumSilicateDosages []float64 `yaml:"sodium_silicate_dosages" json:"sodium_silicate_dosages"`
	// WaterBinderRatios is w/b = water / (cement + fly ash).
	WaterBinderRatios []float64 `yaml:"water_binder_ratios" json:"water_binder_ratios"`

	// ReferenceGangueMassG anchors the absolute masses, grams.
	ReferenceGangueMassG float64 `yaml:"reference_gangue_mass_g" json:"reference_gangue_mass_g"`
}

// DefaultDesign returns the published factorial design: 4 x 11 x 7 x 4 x 4 =
// 4,928 combinations around 100 g of coal gangue.
func DefaultDesign() Design {
	return Design{
		BinderAggregateRatios: []float64{0.3, 0.6, 0.9, 1.2},
		FlyAshReplacements:    []float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		CO2Fractions:          []float64{0.00, 0.15, 0.20, 0.25, 0.30, 0.35, 0.40},
		SodiumSilicateDosages: []float64{0.02, 0.03, 0.04, 0.05},
		WaterBinderRatios:     []float64{1.1, 1.4, 1.7, 2.0},
		ReferenceGangueMassG:  100.0,
	}
}

// Load reads a design from a YAML or JSON file. Absent level lists fall back
// to the defaults so a file can override just one axis of the sweep.
func Load(path string) (Design, error) {
	d := DefaultDesign()
	if err := config.LoadFile(path, &d); err != nil {
		return Design{}, fmt.Errorf("load design: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Design{}, err
	}
	return d, nil
}

// Validate rejects designs with empty axes or out-of-range dosages.
func (d Design) Validate() error {
	axes := []struct {
		name   string
		levels []float64
	}{
		{"binder_aggregate_ratios", d.BinderAggregateRatios},
		{"fly_ash_replacements", d.FlyAshReplacements},
		{"co2_fractions", d.CO2Fractions},
		{"sodium_silicate_dosages", d.SodiumSilicateDosages},
		{"water_binder_ratios", d.WaterBinderRatios},
	}
	for _, ax := range axes {
		if len(ax.levels) == 0 {
			return fmt.Errorf("design axis %s has no levels", ax.name)
		}
	}
	for _, w := range d.SodiumSilicateDosages {
		if w < 0 || w >= 1 {
			return fmt.Errorf("sodium silicate dosage %g outside [0, 1)", w)
		}
	}
	if d.ReferenceGangueMassG <= 0 {
		return fmt.Errorf("reference gangue mass must be positive, got %g", d.ReferenceGangueMassG)
	}
	return nil
}

// Count returns the number of combinations the design enumerates.
func (d Design) Count() int {
	return len(d.BinderAggregateRatios) * len(d.FlyAshReplacements) *
		len(d.CO2Fractions) * len(d.SodiumSilicateDosages) * len(d.WaterBinderRatios)
}
