package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"carbmix/internal/mixdesign"
)

var enumerateFlags struct {
	design string
	out    string
	asJSON bool
}

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "Print the mix-design table without evaluating it",
	Args:  cobra.NoArgs,
	RunE:  runEnumerate,
}

func init() {
	f := enumerateCmd.Flags()
	f.StringVar(&enumerateFlags.design, "design", "", "Design YAML overriding the default factorial levels")
	f.StringVarP(&enumerateFlags.out, "out", "o", "-", "Output file (\"-\" for stdout)")
	f.BoolVar(&enumerateFlags.asJSON, "json", false, "Emit JSON lines instead of CSV")
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	design, err := loadDesign(enumerateFlags.design)
	if err != nil {
		return err
	}
	mixes := design.Enumerate()

	w := cmd.OutOrStdout()
	if enumerateFlags.out != "-" {
		f, err := os.Create(enumerateFlags.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if enumerateFlags.asJSON {
		enc := json.NewEncoder(w)
		for _, m := range mixes {
			if err := enc.Encode(m); err != nil {
				return err
			}
		}
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"mix_id", "binder_aggregate_ratio", "fly_ash_replacement", "co2_fraction",
		"sodium_silicate_dosage", "water_binder_ratio",
		"cement_g", "flyash_g", "gangue_g", "water_g", "sodium_silicate_g", "total_g",
	}); err != nil {
		return err
	}
	for _, m := range mixes {
		if err := cw.Write(mixRow(m)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func mixRow(m mixdesign.Mix) []string {
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		m.ID, g(m.BinderAggregateRatio), g(m.FlyAshReplacement), g(m.CO2Fraction),
		g(m.SodiumSilicateDosage), g(m.WaterBinderRatio),
		g(m.CementMassG), g(m.FlyAshMassG), g(m.GangueMassG),
		g(m.WaterMassG), g(m.SodiumSilicateMassG), g(m.TotalMassG),
	}
}
