package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"carbmix/internal/engine"
)

func TestDominantPhase_ByMassNotMoles(t *testing.T) {
	// Ettringite is heavy (1.255 kg/mol); a small mole amount can outweigh a
	// larger C-S-H amount.
	a := engine.Assemblage{CSH: 0.5, Ettringite: 0.1}
	if got := DominantPhase(a); got != engine.Ettringite {
		t.Errorf("DominantPhase = %s, want Ettringite", got)
	}
}

func TestDominantPhase_TieBreaksToEnumerationOrder(t *testing.T) {
	// Swapping the molar masses as mole amounts gives bit-identical masses
	// (float multiplication commutes); hydrotalcite precedes calcite in the
	// enumeration and must win the tie.
	a := engine.Assemblage{
		Hydrotalcite: engine.Calcite.MolarMassKg(),
		Calcite:      engine.Hydrotalcite.MolarMassKg(),
	}
	if a.MassKg(engine.Hydrotalcite) != a.MassKg(engine.Calcite) {
		t.Fatalf("test setup: masses differ: %g vs %g",
			a.MassKg(engine.Hydrotalcite), a.MassKg(engine.Calcite))
	}
	if got := DominantPhase(a); got != engine.Hydrotalcite {
		t.Errorf("DominantPhase = %s, want Hydrotalcite on exact tie", got)
	}
}

func TestSignature(t *testing.T) {
	cases := []struct {
		name string
		a    engine.Assemblage
		want string
	}{
		{"empty", engine.Assemblage{}, "none"},
		{"below epsilon", engine.Assemblage{Calcite: 1e-11}, "none"},
		{
			"typical",
			engine.Assemblage{CSH: 0.4, SilicaGel: 1.1, Hydrotalcite: 0.02},
			"C-S-H + Hydrotalcite + Silica_gel",
		},
		{
			"amount independent",
			engine.Assemblage{CSH: 7.0, SilicaGel: 0.001, Hydrotalcite: 2.5},
			"C-S-H + Hydrotalcite + Silica_gel",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Signature(tc.a); got != tc.want {
				t.Errorf("Signature = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCarbonationOf_Boundaries(t *testing.T) {
	cases := []struct {
		calcite float64
		want    CarbonationState
	}{
		{0, Uncarbonated},
		{9.9e-7, Uncarbonated},
		{1e-6, PartiallyCarbonated},
		{0.0099, PartiallyCarbonated},
		{0.01, FullyCarbonated},
		{0.2, FullyCarbonated},
	}
	for _, tc := range cases {
		got := CarbonationOf(engine.Assemblage{Calcite: tc.calcite})
		if got != tc.want {
			t.Errorf("CarbonationOf(calcite=%g) = %s, want %s", tc.calcite, got, tc.want)
		}
	}
}

func TestPHRegimeOf_Boundaries(t *testing.T) {
	cases := []struct {
		pH   float64
		want PHRegime
	}{
		{10.5, HighlyAlkaline},
		{10.0, ModeratelyAlkaline},
		{9.5, ModeratelyAlkaline},
		{9.0, MildlyAlkaline},
		{8.5, MildlyAlkaline},
		{8.0, Neutral},
		{7.0, Neutral},
	}
	for _, tc := range cases {
		if got := PHRegimeOf(tc.pH); got != tc.want {
			t.Errorf("PHRegimeOf(%g) = %s, want %s", tc.pH, got, tc.want)
		}
	}
}

func TestRegionOf(t *testing.T) {
	cases := []struct {
		t    Ternary
		want string
	}{
		{Ternary{CaO: 0.40, SiO2: 0.45, Al2O3: 0.15}, "Ca-rich"},
		{Ternary{CaO: 0.20, SiO2: 0.70, Al2O3: 0.10}, "Si-rich"},
		{Ternary{CaO: 0.30, SiO2: 0.50, Al2O3: 0.20}, "Al-rich"},
		{Ternary{CaO: 0.30, SiO2: 0.60, Al2O3: 0.10}, "Intermediate"},
		// Ca threshold wins over the others when several exceed.
		{Ternary{CaO: 0.36, SiO2: 0.66, Al2O3: 0.16}, "Ca-rich"},
	}
	for _, tc := range cases {
		if got := RegionOf(tc.t); got != tc.want {
			t.Errorf("RegionOf(%+v) = %q, want %q", tc.t, got, tc.want)
		}
	}
}

func TestClassify_EngineOutputTotality(t *testing.T) {
	comp := engine.Composition{
		Ca: 0.4310, Si: 1.4640, Al: 0.5810, Fe: 0.0950, Mg: 0.0970,
		S: 0.0640, K: 0.0700, Na: 0.1000, H: 12.9, O: 11.2,
	}
	ternary := Ternary{CaO: 0.18, SiO2: 0.63, Al2O3: 0.19}
	for i := 0; i <= 20; i++ {
		pCO2 := 0.405 * (float64(i) / 20)
		a, err := engine.Evaluate(comp, pCO2, 0.405)
		if err != nil {
			t.Fatalf("Evaluate(pCO2=%g): %v", pCO2, err)
		}
		labels := Classify(a, ternary)
		if labels.DominantPhase == "" || labels.Signature == "" ||
			labels.Carbonation == "" || labels.PHRegime == "" || labels.Region == "" {
			t.Errorf("pCO2=%g: incomplete labels %+v", pCO2, labels)
		}
	}
}

func TestClassify_FullLabels(t *testing.T) {
	a := engine.Assemblage{CSH: 0.39, SilicaGel: 1.07, Hydrotalcite: 0.024, Calcite: 0.065, PH: 8.475}
	got := Classify(a, Ternary{CaO: 0.18, SiO2: 0.63, Al2O3: 0.19})
	want := Labels{
		DominantPhase: "C-S-H",
		Signature:     "C-S-H + Calcite + Hydrotalcite + Silica_gel",
		Carbonation:   FullyCarbonated,
		PHRegime:      MildlyAlkaline,
		Region:        "Al-rich/C-S-H",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
}
