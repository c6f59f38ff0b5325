package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"carbmix/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
	storePath string
}

var rootCmd = &cobra.Command{
	Use:   "carbmix",
	Short: "Phase-assemblage sweeps for CO2-cured cementitious mixtures",
	Long: "Carbmix enumerates factorial mix designs of cement, fly ash and coal gangue,\n" +
		"evaluates each mix against a stoichiometric phase-assemblage model under a\n" +
		"CO2 atmosphere, and persists the classified results for export.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(rootFlags.logLevel, rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")
	pf.StringVar(&rootFlags.storePath, "store", "carbmix.db", "SQLite store path, or \"mem\" for in-memory")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(enumerateCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
