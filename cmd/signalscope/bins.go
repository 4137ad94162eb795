package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raykavin/signalscope/pkg/binning"
)

// Bins command flags
var (
	binsTarget string
	binsMethod string
	binsWidth  float64
	binsCount  int
	binsPlot   int
	binsJSON   bool
)

func buildBinsCmd() *cobra.Command {
	binsCmd := &cobra.Command{
		Use:   "bins",
		Short: "Histogram of a target's return distribution",
		RunE:  runBins,
	}

	binsCmd.Flags().StringVarP(&binsTarget, "target", "t", "", "Target ID (default the first target)")
	binsCmd.Flags().StringVarP(&binsMethod, "method", "m", "", "Binning method, one of sturges, scott, freedman-diaconis, sqrt, fixed-width, fixed-count")
	binsCmd.Flags().Float64Var(&binsWidth, "width", 0, "Bin width for fixed-width")
	binsCmd.Flags().IntVar(&binsCount, "count", 0, "Bin count for fixed-count")
	binsCmd.Flags().IntVar(&binsPlot, "plot-width", 40, "Width of the text histogram")
	binsCmd.Flags().BoolVar(&binsJSON, "json", false, "Print the bins as JSON")

	return binsCmd
}

func runBins(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	method, params := cfg.BinParams()
	if binsMethod != "" {
		if method, err = binning.ParseMethod(binsMethod); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("width") {
		params.Width = binsWidth
	}
	if cmd.Flags().Changed("count") {
		params.Count = binsCount
	}

	result, err := loadResult(cmd, cfg, log)
	if err != nil {
		return err
	}
	target, err := selectTarget(result, binsTarget)
	if err != nil {
		return err
	}

	bins, err := binning.Compute(target.Distribution, method, params)
	if err != nil {
		return fmt.Errorf("target %s: %w", target.TargetID, err)
	}

	if binsJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(bins)
	}

	fmt.Printf("%s, %d values, %s\n\n", target.TargetID, len(target.Distribution), method)
	if err := binning.Fprint(os.Stdout, bins, binsPlot); err != nil {
		return err
	}
	fmt.Println()
	binning.Table(os.Stdout, bins)
	return nil
}
