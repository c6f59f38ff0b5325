package composition

// Fixed lookup tables for oxide and element arithmetic. All masses in g/mol,
// all compositions in wt%.

// oxideMolarMass is the molar mass of each oxide the XRF tables may report.
var oxideMolarMass = map[string]float64{
	"CaO":   56.0774,
	"SiO2":  60.0843,
	"Al2O3": 101.9613,
	"Fe2O3": 159.6882,
	"MgO":   40.3044,
	"K2O":   94.1960,
	"Na2O":  61.9789,
	"SO3":   80.0632,
	"H2O":   18.01528,
	"CO2":   44.0095,
}

// elementAtomicMass is the atomic mass of each system element.
var elementAtomicMass = map[string]float64{
	"Ca": 40.078,
	"Si": 28.0855,
	"Al": 26.9815,
	"Fe": 55.845,
	"Mg": 24.305,
	"K":  39.0983,
	"Na": 22.9898,
	"S":  32.065,
	"O":  15.9994,
	"H":  1.00794,
	"C":  12.0107,
}

// oxideElements maps each oxide to its element stoichiometry, from which the
// oxide-mass to element-mass factors are derived.
var oxideElements = map[string]map[string]float64{
	"CaO":   {"Ca": 1, "O": 1},
	"SiO2":  {"Si": 1, "O": 2},
	"Al2O3": {"Al": 2, "O": 3},
	"Fe2O3": {"Fe": 2, "O": 3},
	"MgO":   {"Mg": 1, "O": 1},
	"K2O":   {"K": 2, "O": 1},
	"Na2O":  {"Na": 2, "O": 1},
	"SO3":   {"S": 1, "O": 3},
	"H2O":   {"H": 2, "O": 1},
	"CO2":   {"C": 1, "O": 2},
}

// oxideOrder fixes the accumulation order so float sums are reproducible
// bit-for-bit across runs regardless of map iteration order.
var oxideOrder = []string{"CaO", "SiO2", "Al2O3", "Fe2O3", "MgO", "K2O", "Na2O", "SO3", "H2O", "CO2"}

// elementFactor converts an oxide mass to the mass of one of its elements.
func elementFactor(oxide, element string) float64 {
	coeff, ok := oxideElements[oxide][element]
	if !ok {
		return 0
	}
	return coeff * elementAtomicMass[element] / oxideMolarMass[oxide]
}

// OxideWt is an XRF composition: oxide symbol to weight percent.
type OxideWt map[string]float64

// Materials bundles the XRF compositions of the four raw materials. The zero
// value is unusable; construct with DefaultMaterials or LoadMaterials.
type Materials struct {
	Cement         OxideWt `yaml:"cement" json:"cement"`
	FlyAsh         OxideWt `yaml:"fly_ash" json:"fly_ash"`
	CoalGangue     OxideWt `yaml:"coal_gangue" json:"coal_gangue"`
	SodiumSilicate OxideWt `yaml:"sodium_silicate" json:"sodium_silicate"`
}

// DefaultMaterials returns the measured XRF compositions of the reference raw
// materials (wt%).
func DefaultMaterials() Materials {
	return Materials{
		Cement: OxideWt{
			"SiO2": 19.76, "Al2O3": 11.47, "Fe2O3": 0.50,
			"CaO": 45.63, "MgO": 6.27, "SO3": 13.68,
		},
		FlyAsh: OxideWt{
			"SiO2": 52.61, "Al2O3": 12.60, "Fe2O3": 8.24,
			"CaO": 18.23, "MgO": 1.47, "K2O": 1.44,
		},
		CoalGangue: OxideWt{
			"SiO2": 57.74, "Al2O3": 20.58, "Fe2O3": 4.31,
			"CaO": 0.20, "MgO": 1.00, "K2O": 2.76,
		},
		SodiumSilicate: OxideWt{
			"Na2O": 29.2, "SiO2": 29.2, "H2O": 41.6,
		},
	}
}
