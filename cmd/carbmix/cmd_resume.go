package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"carbmix/internal/batch"
)

var resumeFlags struct {
	design             string
	materials          string
	workers            int
	checkpointInterval int
	caseTimeout        time.Duration
}

var resumeCmd = &cobra.Command{
	Use:   "resume <run-id>",
	Short: "Continue an interrupted run",
	Long: `Resume re-enumerates the sweep with the same design and materials the run
was started with and evaluates only the cases that have no persisted result
yet. Failed and timed-out cases are not retried.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	f := resumeCmd.Flags()
	f.StringVar(&resumeFlags.design, "design", "", "Design YAML the run was started with")
	f.StringVar(&resumeFlags.materials, "materials", "", "Materials YAML the run was started with")
	f.IntVar(&resumeFlags.workers, "workers", 0, "Concurrent workers (default: number of CPUs)")
	f.IntVar(&resumeFlags.checkpointInterval, "checkpoint-interval", 25, "Cases between durable progress checkpoints")
	f.DurationVar(&resumeFlags.caseTimeout, "case-timeout", 30*time.Second, "Per-case evaluation timeout")
}

func runResume(cmd *cobra.Command, args []string) error {
	cases, _, err := buildCases(resumeFlags.design, resumeFlags.materials)
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

	sum, err := batch.NewRunner(st).Resume(ctx, args[0], cases, batch.Options{
		Workers:            resumeFlags.workers,
		CheckpointInterval: resumeFlags.checkpointInterval,
		CaseTimeout:        resumeFlags.caseTimeout,
	})
	if sum != nil {
		printSummary(cmd.OutOrStdout(), sum)
	}
	return err
}
