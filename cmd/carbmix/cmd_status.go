package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carbmix/internal/format"
)

var statusCmd = &cobra.Command{
	Use:   "status [run-id]",
	Short: "List runs, or show one run's progress",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		runs, err := st.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "no runs")
			return nil
		}
		tb := format.NewTable(format.ASCII)
		tb.Header("RUN", "STATUS", "DONE", "TOTAL", "SUCCEEDED", "FAILED", "STARTED")
		tb.RightAlign(3, 4, 5, 6)
		for _, r := range runs {
			tb.Row(r.ID, r.Status, r.Succeeded+r.Failed, r.TotalCases, r.Succeeded, r.Failed, r.StartedAt)
		}
		fmt.Fprintln(out, tb.String())
		return nil
	}

	run, err := st.GetRun(args[0])
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", args[0])
	}
	// Progress comes from the case table, not the advisory run counters.
	p, err := st.RunProgress(run.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Run:        %s\n", run.ID)
	fmt.Fprintf(out, "Status:     %s\n", run.Status)
	fmt.Fprintf(out, "Workers:    %d\n", run.Workers)
	fmt.Fprintf(out, "Progress:   %d/%d\n", len(p.Done), run.TotalCases)
	fmt.Fprintf(out, "Succeeded:  %d\n", p.Succeeded)
	fmt.Fprintf(out, "Failed:     %d\n", p.Failed)
	fmt.Fprintf(out, "Converged:  %d\n", p.Converged)
	fmt.Fprintf(out, "Started:    %s\n", run.StartedAt)
	if run.EndedAt != "" {
		fmt.Fprintf(out, "Ended:      %s\n", run.EndedAt)
	}
	return nil
}
