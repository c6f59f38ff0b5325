package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"carbmix/internal/batch"
)

var runFlags struct {
	design             string
	materials          string
	runID              string
	workers            int
	checkpointInterval int
	caseTimeout        time.Duration
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the full mix-design sweep as a new run",
	Long: `Run enumerates the factorial mix design, evaluates every mix with the
phase-assemblage engine and persists classified results. Ctrl-C leaves the
run interrupted; completed cases stay in the store and "carbmix resume"
picks up where the run stopped.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.design, "design", "", "Design YAML overriding the default factorial levels")
	f.StringVar(&runFlags.materials, "materials", "", "Materials YAML overriding the default XRF tables")
	f.StringVar(&runFlags.runID, "run-id", "", "Run ID (default: generated UUID)")
	f.IntVar(&runFlags.workers, "workers", 0, "Concurrent workers (default: number of CPUs; 1 = sequential)")
	f.IntVar(&runFlags.checkpointInterval, "checkpoint-interval", 25, "Cases between durable progress checkpoints")
	f.DurationVar(&runFlags.caseTimeout, "case-timeout", 30*time.Second, "Per-case evaluation timeout")
}

func runRun(cmd *cobra.Command, args []string) error {
	cases, _, err := buildCases(runFlags.design, runFlags.materials)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := batch.NewRunner(st).Run(ctx, cases, batch.Options{
		RunID:              runFlags.runID,
		Workers:            runFlags.workers,
		CheckpointInterval: runFlags.checkpointInterval,
		CaseTimeout:        runFlags.caseTimeout,
	})
	if sum != nil {
		printSummary(cmd.OutOrStdout(), sum)
	}
	return err
}
