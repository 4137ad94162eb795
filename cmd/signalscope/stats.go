package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/raykavin/signalscope/pkg/analysis"
	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/metric"
)

// Stats command flags
var (
	statsTarget     string
	statsMode       string
	statsSamples    int
	statsConfidence float64
)

func buildStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summary, confidence intervals and calendar hit rates of a target",
		RunE:  runStats,
	}

	statsCmd.Flags().StringVarP(&statsTarget, "target", "t", "", "Target ID (default the first target)")
	statsCmd.Flags().StringVar(&statsMode, "mode", "final", "Hit flag counted by the calendar, final or anytime")
	statsCmd.Flags().IntVar(&statsSamples, "samples", 1000, "Bootstrap resamples")
	statsCmd.Flags().Float64Var(&statsConfidence, "confidence", 0.95, "Bootstrap confidence level")

	return statsCmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	mode, err := analysis.ParseHitMode(statsMode)
	if err != nil {
		return err
	}

	result, err := loadResult(cmd, cfg, log)
	if err != nil {
		return err
	}
	target, err := selectTarget(result, statsTarget)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s, %d signals\n\n", result.ScenarioID, target.TargetID, len(result.Signals))

	summary := analysis.Summarize(target.Distribution)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Count", "Mean", "Median", "Std Dev", "Min", "P5", "P25", "P75", "P95", "Max"})
	table.Append(append([]string{fmt.Sprint(summary.Count)}, lo.Map([]float64{
		summary.Mean, summary.Median, summary.StdDev, summary.Min,
		summary.P5, summary.P25, summary.P75, summary.P95, summary.Max,
	}, func(v float64, _ int) string { return fmt.Sprintf("%.2f%%", v) })...))
	table.Render()

	hits := lo.FilterMap(result.Signals, func(s core.Signal, _ int) (*bool, bool) {
		outcome, ok := s.Outcome(target.TargetID)
		return outcome.Hit, ok
	})
	returns := metric.Bootstrap(target.Distribution, metric.Mean, statsSamples, statsConfidence)
	hitRate := metric.Bootstrap(metric.HitFlags(hits), metric.HitRate, statsSamples, statsConfidence)

	fmt.Println()
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Measure", "Mean", "Lower", "Upper", "Std Dev"})
	for _, row := range []struct {
		name     string
		interval metric.BootstrapInterval
	}{
		{"Return %", returns},
		{"Hit rate %", hitRate},
	} {
		table.Append([]string{
			row.name,
			fmt.Sprintf("%.2f", row.interval.Mean),
			fmt.Sprintf("%.2f", row.interval.Lower),
			fmt.Sprintf("%.2f", row.interval.Upper),
			fmt.Sprintf("%.2f", row.interval.StdDev),
		})
	}
	table.SetCaption(true, fmt.Sprintf("%.0f%% bootstrap interval, %d resamples", statsConfidence*100, statsSamples))
	table.Render()

	calendar, err := analysis.Calendar(result.Signals, target.TargetID, mode)
	if err != nil {
		log.WithError(err).Warn("some signals were skipped")
	}
	fmt.Println()
	calendar.Fprint(os.Stdout)
	return nil
}
