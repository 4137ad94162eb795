package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raykavin/signalscope/internal/config"
	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/feed"
	"github.com/raykavin/signalscope/pkg/logger"
	"github.com/raykavin/signalscope/pkg/logger/zerolog"
	"github.com/raykavin/signalscope/pkg/storage"
)

// Global flags
var (
	configPath string
	logLevel   string
	barsPath   string
	resultPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "signalscope",
		Short:        "Chart and inspect backtest signals",
		Version:      "1.0.0",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (e.g. ./signalscope.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level, overrides the config")
	rootCmd.PersistentFlags().StringVar(&barsPath, "bars", "", "OHLCV CSV file, overrides data.bars")
	rootCmd.PersistentFlags().StringVarP(&resultPath, "result", "r", "", "Analysis result JSON file, overrides data.result")

	rootCmd.AddCommand(
		buildBinsCmd(),
		buildFocusCmd(),
		buildStatsCmd(),
		buildRenderCmd(),
		buildServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration, applies the global flags and creates the logger
func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if barsPath != "" {
		cfg.Data.Bars = barsPath
	}
	if resultPath != "" {
		cfg.Data.Result = resultPath
	}

	log, err := zerolog.New(cfg.LoggerOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}

// openSource returns the backend client when a URL is configured and the
// local files otherwise, both behind the cache. The returned func closes
// the cache.
func openSource(cfg *config.Config, log logger.Logger) (core.DataSource, func(), error) {
	var source core.DataSource
	if cfg.Backend.URL != "" {
		source = feed.NewClient(cfg.Backend.URL, log,
			feed.WithRetries(cfg.Backend.Retries),
			feed.WithDataSource(cfg.Backend.Source),
			feed.WithTimeout(cfg.BackendTimeout()),
		)
	} else {
		if cfg.Data.Bars == "" {
			return nil, nil, fmt.Errorf("either backend.url or data.bars must be set")
		}
		source = feed.NewLocal(cfg.Data.Bars, cfg.Data.Result, log)
	}

	cache, err := storage.NewCache(cfg.Storage.Path, cfg.StorageTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	closeCache := func() {
		if err := cache.Close(); err != nil {
			log.WithError(err).Warn("closing cache")
		}
	}
	return feed.NewCached(source, cache, log), closeCache, nil
}

// loadResult reads the result file when one is given and asks the source
// for the scenario's last result otherwise
func loadResult(cmd *cobra.Command, cfg *config.Config, log logger.Logger) (core.AnalysisResult, error) {
	if cfg.Data.Result != "" {
		return feed.LoadResult(cfg.Data.Result)
	}

	source, closeSource, err := openSource(cfg, log)
	if err != nil {
		return core.AnalysisResult{}, err
	}
	defer closeSource()

	result, err := source.LastResult(cmd.Context(), cfg.Data.Scenario)
	if err != nil {
		return core.AnalysisResult{}, err
	}
	if result == nil {
		return core.AnalysisResult{}, fmt.Errorf("scenario %q has no result yet", cfg.Data.Scenario)
	}
	return *result, nil
}

// selectTarget returns the named target, or the first one when name is empty
func selectTarget(result core.AnalysisResult, name string) (core.TargetStats, error) {
	if name == "" {
		if len(result.TargetStats) == 0 {
			return core.TargetStats{}, fmt.Errorf("result has no targets")
		}
		return result.TargetStats[0], nil
	}

	target, ok := result.Target(name)
	if !ok {
		return core.TargetStats{}, fmt.Errorf("%w: %s", core.ErrUnknownTarget, name)
	}
	return target, nil
}
