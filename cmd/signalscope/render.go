package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/raykavin/signalscope/pkg/annotate"
	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/plot"
)

// Render command flags
var (
	renderOutput string
	renderTarget string
)

func buildRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Write the annotated chart of every signal as JSON",
		RunE:  runRender,
	}

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output directory (e.g. ./charts)")
	renderCmd.Flags().StringVarP(&renderTarget, "target", "t", "", "Target ID (default the first outcome of each signal)")
	renderCmd.MarkFlagRequired("output")

	return renderCmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	focuser, err := cfg.Focuser()
	if err != nil {
		return err
	}

	source, closeSource, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	server, err := plot.NewServer(source, log,
		plot.WithTicker(cfg.Data.Ticker),
		plot.WithScenario(cfg.Data.Scenario),
		plot.WithIndicators(cfg.Data.Indicators...),
		plot.WithPalette(cfg.Palette()),
		plot.WithSurface(cfg.SurfaceOptions()),
		plot.WithChartOptions(chart.WithFocuser(focuser)),
	)
	if err != nil {
		return err
	}
	defer server.Close()

	if err := server.Load(cmd.Context()); err != nil {
		return err
	}

	if err := os.MkdirAll(renderOutput, 0o755); err != nil {
		return err
	}

	signals := server.View().Signals
	if len(signals) == 0 {
		log.Warn("no signals to render")
		return nil
	}

	progressBar := progressbar.Default(int64(len(signals)))
	for _, date := range signals {
		selection := annotate.Selection{SignalDate: date, TargetID: renderTarget}
		if err := server.Select(cmd.Context(), selection); err != nil {
			return fmt.Errorf("signal %s: %w", date, err)
		}

		if err := writeJSON(filepath.Join(renderOutput, date+".json"), server.View()); err != nil {
			return err
		}
		if err := progressBar.Add(1); err != nil {
			log.Warnf("update progressbar fail: %v", err)
		}
	}

	log.Infof("%d charts written to %s", len(signals), renderOutput)
	return nil
}

func writeJSON(path string, value any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
