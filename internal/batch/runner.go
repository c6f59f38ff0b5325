package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"carbmix/internal/classify"
	"carbmix/internal/engine"
	"carbmix/internal/logging"
	"carbmix/internal/store"
)

// Error kinds recorded on failed cases.
const (
	ErrKindInvalidComposition = "invalid_composition"
	ErrKindCaseTimeout        = "case_timeout"
	ErrKindEngine             = "engine_error"
)

// evalFunc computes one assemblage. It matches engine.Evaluate; tests swap
// in slow or failing evaluators to exercise the case state machine.
type evalFunc func(comp engine.Composition, pCO2, maxPCO2 float64) (engine.Assemblage, error)

// Runner executes batch runs against a store.
type Runner struct {
	store  store.Store
	logger *slog.Logger
	eval   evalFunc
}

// NewRunner returns a Runner persisting to st, evaluating cases with the
// allocation engine.
func NewRunner(st store.Store) *Runner {
	return &Runner{store: st, logger: logging.New("batch"), eval: engine.Evaluate}
}

// Run evaluates all cases as a new run. Every terminal case outcome is
// persisted before the run finishes; a canceled context leaves the run in
// the interrupted state with the completed prefix durable.
func (r *Runner) Run(ctx context.Context, cases []CaseInput, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	run := &store.Run{
		ID:         opts.RunID,
		Workers:    opts.Workers,
		TotalCases: len(cases),
	}
	if err := r.store.CreateRun(run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return r.execute(ctx, run, cases, opts, &store.Progress{Done: map[string]struct{}{}})
}

// Resume continues an interrupted run: cases already holding a terminal
// result are skipped, counters are seeded from the store. Failed and
// timed-out cases count as done; the engine is deterministic, so retrying
// them cannot change the outcome.
func (r *Runner) Resume(ctx context.Context, runID string, cases []CaseInput, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	opts.RunID = runID
	run, err := r.store.GetRun(runID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if run.Status == store.RunCompleted {
		return nil, fmt.Errorf("run %s already completed", runID)
	}
	progress, err := r.store.RunProgress(runID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if len(cases) != run.TotalCases {
		return nil, fmt.Errorf("case set has %d cases, run %s was created with %d",
			len(cases), runID, run.TotalCases)
	}
	// Same count is not same sweep: every already-completed case must exist
	// in the supplied set, or the run was started from a different design.
	ids := make(map[string]struct{}, len(cases))
	for _, in := range cases {
		ids[in.ID] = struct{}{}
	}
	for done := range progress.Done {
		if _, ok := ids[done]; !ok {
			return nil, fmt.Errorf("run %s has a result for case %s, which is not in the supplied case set",
				runID, done)
		}
	}
	r.logger.Info("resuming run", "run_id", runID,
		"done", len(progress.Done), "remaining", run.TotalCases-len(progress.Done))
	return r.execute(ctx, run, cases, opts, progress)
}

func (r *Runner) execute(ctx context.Context, run *store.Run, cases []CaseInput, opts Options, seed *store.Progress) (*Summary, error) {
	started := time.Now().UTC()

	pending := make([]CaseInput, 0, len(cases))
	for _, in := range cases {
		if _, done := seed.Done[in.ID]; !done {
			pending = append(pending, in)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	outcomes := make(chan *store.CaseResult)

	go func() {
		defer close(outcomes)
		for _, in := range pending {
			in := in
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				rec := r.evaluateCase(gctx, run.ID, in, opts.CaseTimeout)
				if rec == nil { // interrupted mid-case, nothing to record
					return nil
				}
				select {
				case outcomes <- rec:
				case <-gctx.Done():
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	sum := &Summary{
		RunID:     run.ID,
		Total:     len(cases),
		Completed: len(seed.Done),
		Succeeded: seed.Succeeded,
		Failed:    seed.Failed,
		Converged: seed.Converged,
		StartedAt: started,
	}
	for _, f := range seed.Failures {
		sum.FailedCases = append(sum.FailedCases, CaseFailure{CaseID: f.CaseID, Kind: f.Kind})
	}
	sinceCheckpoint := 0
	var fatal error

	for rec := range outcomes {
		if fatal != nil {
			continue // drain until workers notice cancellation
		}
		if err := r.persistWithRetry(ctx, opts, func() error {
			return r.store.SaveCaseResult(rec)
		}); err != nil {
			fatal = fmt.Errorf("persist case %s: %w", rec.CaseID, err)
			cancel()
			continue
		}
		sum.Completed++
		if rec.State == store.CaseConverged {
			sum.Succeeded++
		} else {
			sum.Failed++
			sum.FailedCases = append(sum.FailedCases, CaseFailure{CaseID: rec.CaseID, Kind: rec.ErrorKind})
		}
		if rec.Converged {
			sum.Converged++
		}
		sinceCheckpoint++
		if sinceCheckpoint >= opts.CheckpointInterval {
			sinceCheckpoint = 0
			if err := r.persistWithRetry(ctx, opts, func() error {
				return r.store.UpdateRunCheckpoint(run.ID, sum.Succeeded, sum.Failed, sum.Converged, sum.Completed)
			}); err != nil {
				fatal = fmt.Errorf("checkpoint: %w", err)
				cancel()
			}
		}
	}

	status := store.RunCompleted
	switch {
	case fatal != nil:
		status = store.RunInterrupted
	case ctx.Err() != nil:
		status = store.RunInterrupted
	case sum.Completed < sum.Total:
		status = store.RunInterrupted
	}
	if err := r.store.FinishRun(run.ID, status, sum.Succeeded, sum.Failed, sum.Converged); err != nil {
		r.logger.Error("finish run", "run_id", run.ID, "error", err)
		if fatal == nil {
			fatal = fmt.Errorf("finish run: %w", err)
		}
	}

	sum.Status = status
	sum.EndedAt = time.Now().UTC()
	if sum.Completed > 0 {
		sum.SuccessRate = float64(sum.Succeeded) / float64(sum.Completed)
		sum.ConvergenceRate = float64(sum.Converged) / float64(sum.Completed)
	}
	// Workers complete in scheduler order; sort so the summary is stable.
	sort.Slice(sum.FailedCases, func(i, j int) bool { return sum.FailedCases[i].CaseID < sum.FailedCases[j].CaseID })

	r.logger.Info("run finished", "run_id", run.ID, "status", status,
		"completed", sum.Completed, "succeeded", sum.Succeeded, "failed", sum.Failed)
	if fatal != nil {
		return sum, fatal
	}
	return sum, nil
}

// evaluateCase runs one case under its timeout and builds the persistable
// record. Returns nil when the surrounding run was canceled before the case
// reached a terminal state.
func (r *Runner) evaluateCase(ctx context.Context, runID string, in CaseInput, timeout time.Duration) *store.CaseResult {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type evalResult struct {
		asm engine.Assemblage
		err error
	}
	ch := make(chan evalResult, 1)
	go func() {
		asm, err := r.eval(in.Composition, in.PCO2Bar, in.MaxPCO2Bar)
		ch <- evalResult{asm, err}
	}()

	rec := &store.CaseResult{
		RunID:                runID,
		CaseID:               in.ID,
		BinderAggregateRatio: in.BinderAggregateRatio,
		FlyAshReplacement:    in.FlyAshReplacement,
		CO2Fraction:          in.CO2Fraction,
		SodiumSilicateDosage: in.SodiumSilicateDosage,
		WaterBinderRatio:     in.WaterBinderRatio,
	}

	select {
	case <-cctx.Done():
		if ctx.Err() != nil {
			return nil
		}
		rec.State = store.CaseTimedOut
		rec.ErrorKind = ErrKindCaseTimeout
		r.logger.Warn("case timed out", "case_id", in.ID, "timeout", timeout)
		return rec
	case res := <-ch:
		if res.err != nil {
			rec.State = store.CaseFailed
			rec.ErrorKind = ErrKindEngine
			if errors.Is(res.err, engine.ErrInvalidComposition) {
				rec.ErrorKind = ErrKindInvalidComposition
			}
			r.logger.Warn("case failed", "case_id", in.ID, "kind", rec.ErrorKind, "error", res.err)
			return rec
		}
		labels := classify.Classify(res.asm, in.Ternary)
		rec.State = store.CaseConverged
		rec.PH = res.asm.PH
		rec.Converged = res.asm.Converged
		rec.DominantPhase = labels.DominantPhase
		rec.Signature = labels.Signature
		rec.Carbonation = string(labels.Carbonation)
		rec.PHRegime = string(labels.PHRegime)
		rec.Region = labels.Region
		rec.CompositionJSON, _ = json.Marshal(in.Composition)
		rec.PhasesJSON, _ = json.Marshal(res.asm)
		return rec
	}
}

// persistWithRetry runs fn with bounded exponential backoff. The context
// gates only the backoff sleeps, so an in-flight write is always attempted
// at least once.
func (r *Runner) persistWithRetry(ctx context.Context, opts Options, fn func() error) error {
	delay := opts.PersistBackoff
	var err error
	for attempt := 1; attempt <= opts.MaxPersistAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		r.logger.Warn("store write failed", "attempt", attempt, "error", err)
		if attempt == opts.MaxPersistAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("store write after %d attempts: %w", attempt, err)
		}
		delay *= 2
	}
	return fmt.Errorf("store write after %d attempts: %w", opts.MaxPersistAttempts, err)
}
