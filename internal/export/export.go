// Package export flattens persisted case results into the master CSV
// dataset consumed by downstream analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"carbmix/internal/engine"
	"carbmix/internal/store"
)

// Header returns the CSV column names: case identity, design levels, element
// moles, per-phase amounts and masses, pH and labels. Column order is fixed
// so datasets from different runs line up.
func Header() []string {
	cols := []string{
		"case_id", "state",
		"binder_aggregate_ratio", "fly_ash_replacement", "co2_fraction",
		"sodium_silicate_dosage", "water_binder_ratio",
	}
	for _, el := range engine.Elements {
		cols = append(cols, el+"_mol")
	}
	for _, p := range engine.Phases() {
		cols = append(cols, columnName(p)+"_mol", columnName(p)+"_kg")
	}
	cols = append(cols,
		"ph", "converged",
		"dominant_phase", "assemblage_signature", "carbonation_state",
		"ph_regime", "composition_region", "error_kind",
	)
	return cols
}

// columnName lowercases a phase name into a CSV-safe column stem.
func columnName(p engine.Phase) string {
	switch p {
	case engine.Hydrotalcite:
		return "hydrotalcite"
	case engine.Ettringite:
		return "ettringite"
	case engine.Calcite:
		return "calcite"
	case engine.CSH:
		return "csh"
	case engine.SilicaGel:
		return "silica_gel"
	}
	return "unknown"
}

// Run writes the full dataset for runID to w. Failed and timed-out cases
// appear with their design levels and error kind; their numeric columns are
// left empty.
func Run(st store.Store, runID string, w io.Writer) error {
	run, err := st.GetRun(runID)
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}
	results, err := st.ListCaseResults(runID)
	if err != nil {
		return fmt.Errorf("load case results: %w", err)
	}
	return Write(w, results)
}

// Write renders results as CSV, header first. Results are written in the
// order given; the store lists them by case ID.
func Write(w io.Writer, results []*store.CaseResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, res := range results {
		row, err := caseRow(res)
		if err != nil {
			return fmt.Errorf("case %s: %w", res.CaseID, err)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write case %s: %w", res.CaseID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func caseRow(res *store.CaseResult) ([]string, error) {
	cols := []string{
		res.CaseID, res.State,
		num(res.BinderAggregateRatio), num(res.FlyAshReplacement), num(res.CO2Fraction),
		num(res.SodiumSilicateDosage), num(res.WaterBinderRatio),
	}

	if res.State != store.CaseConverged {
		blank := len(engine.Elements) + 2*len(engine.Phases()) + 2
		for i := 0; i < blank; i++ {
			cols = append(cols, "")
		}
		return append(cols,
			res.DominantPhase, res.Signature, res.Carbonation,
			res.PHRegime, res.Region, res.ErrorKind,
		), nil
	}

	var comp engine.Composition
	if err := json.Unmarshal(res.CompositionJSON, &comp); err != nil {
		return nil, fmt.Errorf("decode composition: %w", err)
	}
	var asm engine.Assemblage
	if err := json.Unmarshal(res.PhasesJSON, &asm); err != nil {
		return nil, fmt.Errorf("decode phases: %w", err)
	}

	for _, el := range engine.Elements {
		cols = append(cols, num(comp.Get(el)))
	}
	for _, p := range engine.Phases() {
		cols = append(cols, num(asm.Amount(p)), num(asm.MassKg(p)))
	}
	cols = append(cols, num(res.PH), strconv.FormatBool(res.Converged))
	return append(cols,
		res.DominantPhase, res.Signature, res.Carbonation,
		res.PHRegime, res.Region, res.ErrorKind,
	), nil
}

// num formats floats the way strconv does by default, shortest round-trip
// representation, so the CSV stays bit-faithful to the stored values.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
