package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"carbmix/internal/engine"
	"carbmix/internal/store"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	st := store.NewMemStore()
	if err := st.CreateRun(&store.Run{ID: "run-1", TotalCases: 2}); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	comp := engine.Composition{Ca: 0.4310, Si: 1.4640, Al: 0.5810, S: 0.0640, Mg: 0.0970}
	asm, err := engine.Evaluate(comp, 0.2, 0.405)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	compJSON, _ := json.Marshal(comp)
	asmJSON, _ := json.Marshal(asm)

	ok := &store.CaseResult{
		RunID: "run-1", CaseID: "mix_0001", State: store.CaseConverged,
		BinderAggregateRatio: 0.9, FlyAshReplacement: 0.4, CO2Fraction: 0.2,
		SodiumSilicateDosage: 0.03, WaterBinderRatio: 1.4,
		CompositionJSON: compJSON, PhasesJSON: asmJSON,
		PH: asm.PH, Converged: true,
		DominantPhase: "Silica_gel", Signature: "C-S-H + Silica_gel",
		Carbonation: "FullyCarbonated", PHRegime: "ModeratelyAlkaline",
		Region: "Intermediate/Silica_gel",
	}
	bad := &store.CaseResult{
		RunID: "run-1", CaseID: "mix_0002", State: store.CaseFailed,
		BinderAggregateRatio: 0.3, ErrorKind: "invalid_composition",
	}
	for _, res := range []*store.CaseResult{ok, bad} {
		if err := st.SaveCaseResult(res); err != nil {
			t.Fatalf("SaveCaseResult: %v", err)
		}
	}
	return st
}

func TestRun_WritesDataset(t *testing.T) {
	st := seedStore(t)

	var buf bytes.Buffer
	if err := Run(st, "run-1", &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count: %d", len(rows))
	}
	if diff := cmp.Diff(Header(), rows[0]); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	for i, row := range rows[1:] {
		if len(row) != len(Header()) {
			t.Fatalf("row %d has %d columns, header has %d", i+1, len(row), len(Header()))
		}
	}

	col := func(name string) int {
		for i, h := range rows[0] {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %s", name)
		return -1
	}

	okRow, badRow := rows[1], rows[2]
	if okRow[col("case_id")] != "mix_0001" || okRow[col("state")] != "converged" {
		t.Fatalf("converged row: %v", okRow)
	}
	if okRow[col("Ca_mol")] != "0.431" || okRow[col("converged")] != "true" {
		t.Fatalf("converged row values: Ca=%s converged=%s",
			okRow[col("Ca_mol")], okRow[col("converged")])
	}
	if okRow[col("dominant_phase")] != "Silica_gel" {
		t.Fatalf("dominant phase column: %s", okRow[col("dominant_phase")])
	}
	// Calcite mass column must agree with the stored assemblage.
	if !strings.HasPrefix(okRow[col("calcite_kg")], "0.0") {
		t.Fatalf("calcite_kg column: %s", okRow[col("calcite_kg")])
	}

	if badRow[col("case_id")] != "mix_0002" || badRow[col("state")] != "failed" {
		t.Fatalf("failed row: %v", badRow)
	}
	if badRow[col("ph")] != "" || badRow[col("Ca_mol")] != "" {
		t.Fatalf("failed row should leave numeric columns empty: %v", badRow)
	}
	if badRow[col("error_kind")] != "invalid_composition" {
		t.Fatalf("error kind column: %s", badRow[col("error_kind")])
	}
}

func TestRun_UnknownRun(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(store.NewMemStore(), "nope", &buf); err == nil {
		t.Fatal("unknown run exported")
	}
}
