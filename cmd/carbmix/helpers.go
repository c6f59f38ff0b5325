package main

import (
	"fmt"
	"io"

	"carbmix/internal/batch"
	"carbmix/internal/composition"
	"carbmix/internal/format"
	"carbmix/internal/mixdesign"
	"carbmix/internal/store"
)

// openStore opens the configured result store. The literal path "mem" gives
// a throwaway in-memory store.
func openStore() (store.Store, error) {
	if rootFlags.storePath == "mem" {
		return store.NewMemStore(), nil
	}
	return store.Open(rootFlags.storePath)
}

func loadDesign(path string) (mixdesign.Design, error) {
	if path == "" {
		return mixdesign.DefaultDesign(), nil
	}
	return mixdesign.Load(path)
}

func loadMaterials(path string) (composition.Materials, error) {
	if path == "" {
		return composition.DefaultMaterials(), nil
	}
	return composition.LoadMaterials(path)
}

// buildCases turns a design and material tables into engine-ready case
// inputs, in the design's deterministic enumeration order.
func buildCases(designPath, materialsPath string) ([]batch.CaseInput, mixdesign.Design, error) {
	design, err := loadDesign(designPath)
	if err != nil {
		return nil, mixdesign.Design{}, err
	}
	mats, err := loadMaterials(materialsPath)
	if err != nil {
		return nil, mixdesign.Design{}, err
	}
	provider, err := composition.NewProvider(mats)
	if err != nil {
		return nil, mixdesign.Design{}, err
	}
	maxY := 0.0
	for _, y := range design.CO2Fractions {
		if y > maxY {
			maxY = y
		}
	}
	cases, err := batch.CasesFromMixes(provider, design.Enumerate(), maxY)
	if err != nil {
		return nil, mixdesign.Design{}, err
	}
	return cases, design, nil
}

func printSummary(w io.Writer, sum *batch.Summary) {
	fmt.Fprintf(w, "Run:        %s (%s)\n", sum.RunID, sum.Status)
	fmt.Fprintf(w, "Cases:      %d/%d completed\n", sum.Completed, sum.Total)
	fmt.Fprintf(w, "Succeeded:  %d (%s)\n", sum.Succeeded, format.FmtPercent(sum.SuccessRate))
	fmt.Fprintf(w, "Converged:  %d (%s)\n", sum.Converged, format.FmtPercent(sum.ConvergenceRate))
	fmt.Fprintf(w, "Failed:     %d\n", sum.Failed)
	for _, f := range sum.FailedCases {
		fmt.Fprintf(w, "  %s: %s\n", f.CaseID, f.Kind)
	}
	fmt.Fprintf(w, "Elapsed:    %s\n", format.FmtDuration(sum.EndedAt.Sub(sum.StartedAt)))
}
