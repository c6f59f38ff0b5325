// Package batch runs the phase-assemblage engine over a set of mix cases
// with a bounded worker pool, persisting every result and checkpointing
// progress so an interrupted run can resume without recomputation.
package batch

import (
	"runtime"
	"time"

	"carbmix/internal/classify"
	"carbmix/internal/composition"
	"carbmix/internal/engine"
	"carbmix/internal/mixdesign"
)

// CaseInput is one unit of work: a prepared bulk composition plus the design
// levels it came from. Inputs are immutable once built.
type CaseInput struct {
	ID string

	BinderAggregateRatio float64
	FlyAshReplacement    float64
	CO2Fraction          float64
	SodiumSilicateDosage float64
	WaterBinderRatio     float64

	Composition engine.Composition
	Ternary     classify.Ternary
	PCO2Bar     float64
	MaxPCO2Bar  float64
}

// CasesFromMixes converts enumerated mixes into engine-ready case inputs.
// maxCO2Fraction is the highest CO2 level of the design; it fixes the pCO2
// ceiling shared by every case so carbonation fractions are comparable
// across the sweep.
func CasesFromMixes(p *composition.Provider, mixes []mixdesign.Mix, maxCO2Fraction float64) ([]CaseInput, error) {
	maxP := composition.PCO2Bar(maxCO2Fraction)
	cases := make([]CaseInput, 0, len(mixes))
	for _, m := range mixes {
		comp, ternary, err := p.Compose(m)
		if err != nil {
			return nil, err
		}
		cases = append(cases, CaseInput{
			ID:                   m.ID,
			BinderAggregateRatio: m.BinderAggregateRatio,
			FlyAshReplacement:    m.FlyAshReplacement,
			CO2Fraction:          m.CO2Fraction,
			SodiumSilicateDosage: m.SodiumSilicateDosage,
			WaterBinderRatio:     m.WaterBinderRatio,
			Composition:          comp,
			Ternary:              ternary,
			PCO2Bar:              composition.PCO2Bar(m.CO2Fraction),
			MaxPCO2Bar:           maxP,
		})
	}
	return cases, nil
}

// Options tunes one batch run. Zero values fall back to defaults.
type Options struct {
	// RunID identifies the run in the store; empty means generate one.
	RunID string

	// Workers bounds concurrent case evaluations. 1 gives a strictly
	// sequential run with identical per-case outputs.
	Workers int

	// CheckpointInterval is the number of completed cases between durable
	// run-counter checkpoints.
	CheckpointInterval int

	// CaseTimeout bounds a single evaluation; a case over budget is
	// recorded as timed out and the run continues.
	CaseTimeout time.Duration

	// MaxPersistAttempts and PersistBackoff bound the retry policy for
	// store writes. Exhausting the attempts aborts the run.
	MaxPersistAttempts int
	PersistBackoff     time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.CheckpointInterval <= 0 {
		o.CheckpointInterval = 25
	}
	if o.CaseTimeout <= 0 {
		o.CaseTimeout = 30 * time.Second
	}
	if o.MaxPersistAttempts <= 0 {
		o.MaxPersistAttempts = 5
	}
	if o.PersistBackoff <= 0 {
		o.PersistBackoff = 100 * time.Millisecond
	}
	return o
}

// CaseFailure names one case that did not converge.
type CaseFailure struct {
	CaseID string
	Kind   string
}

// Summary aggregates a run. Counts are commutative over completion order, so
// parallel and sequential runs of the same cases summarize identically.
type Summary struct {
	RunID  string
	Status string

	Total     int
	Completed int
	Succeeded int
	Failed    int
	Converged int

	SuccessRate     float64
	ConvergenceRate float64

	// FailedCases lists every failure of the run, sorted by case ID,
	// including failures persisted by an earlier interrupted session.
	FailedCases []CaseFailure

	StartedAt time.Time
	EndedAt   time.Time
}
