package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/plot"
)

// Serve command flags
var servePort int

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the annotated chart over HTTP and websocket",
		RunE:  runServe,
	}

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port, overrides server.port")

	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
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
		plot.WithPort(cfg.Server.Port),
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx)
}
