package main

import (
	"os"

	"github.com/spf13/cobra"

	"carbmix/internal/export"
)

var exportFlags struct {
	out string
}

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Write a run's classified results as the master CSV dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "-", "Output file (\"-\" for stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	w := cmd.OutOrStdout()
	if exportFlags.out != "-" {
		f, err := os.Create(exportFlags.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return export.Run(st, args[0], w)
}
