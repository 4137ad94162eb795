// Package config loads the signalscope configuration from an optional YAML
// file, a .env file and SIGNALSCOPE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"

	"github.com/raykavin/signalscope/pkg/binning"
	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/logger/zerolog"
	"github.com/raykavin/signalscope/pkg/viewport"
)

// EnvPrefix prefixes every environment variable, e.g. SIGNALSCOPE_SERVER_PORT
const EnvPrefix = "SIGNALSCOPE"

// Config holds the application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Focus   FocusConfig   `mapstructure:"focus"`
	Bins    BinsConfig    `mapstructure:"bins"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Backend BackendConfig `mapstructure:"backend"`
	Data    DataConfig    `mapstructure:"data"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	Colored    bool   `mapstructure:"colored"`
	TimeLayout string `mapstructure:"time_layout"`
}

type ChartConfig struct {
	Width   int      `mapstructure:"width"`
	Height  int      `mapstructure:"height"`
	Palette []string `mapstructure:"palette"`
}

// FocusConfig holds the viewport paddings as durations like "30d"
type FocusConfig struct {
	Before            string  `mapstructure:"before"`
	MinAfter          string  `mapstructure:"min_after"`
	HorizonMultiplier float64 `mapstructure:"horizon_multiplier"`
}

type BinsConfig struct {
	Method string  `mapstructure:"method"`
	Count  int     `mapstructure:"count"`
	Width  float64 `mapstructure:"width"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// StorageConfig selects the buntdb file; ":memory:" keeps the cache in memory
type StorageConfig struct {
	Path string `mapstructure:"path"`
	TTL  string `mapstructure:"ttl"`
}

// BackendConfig points at the backtest backend. An empty URL reads local files.
type BackendConfig struct {
	URL     string `mapstructure:"url"`
	Source  string `mapstructure:"source"`
	Retries int    `mapstructure:"retries"`
	Timeout string `mapstructure:"timeout"`
}

type DataConfig struct {
	Ticker     string   `mapstructure:"ticker"`
	Scenario   string   `mapstructure:"scenario"`
	Bars       string   `mapstructure:"bars"`
	Result     string   `mapstructure:"result"`
	Indicators []string `mapstructure:"indicators"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.colored", true)
	v.SetDefault("log.time_layout", "2006-01-02 15:04:05")

	surface := chart.DefaultSurfaceOptions()
	v.SetDefault("chart.width", surface.Width)
	v.SetDefault("chart.height", surface.Height)
	v.SetDefault("chart.palette", []string(chart.DefaultPalette))

	v.SetDefault("focus.before", "30d")
	v.SetDefault("focus.min_after", "30d")
	v.SetDefault("focus.horizon_multiplier", viewport.DefaultHorizonMultiplier)

	v.SetDefault("bins.method", string(binning.MethodSturges))
	v.SetDefault("bins.count", binning.DefaultBinCount)
	v.SetDefault("bins.width", 0.0)

	v.SetDefault("server.port", 8080)

	v.SetDefault("storage.path", ":memory:")
	v.SetDefault("storage.ttl", "24h")

	v.SetDefault("backend.url", "")
	v.SetDefault("backend.source", "")
	v.SetDefault("backend.retries", 3)
	v.SetDefault("backend.timeout", "30s")

	v.SetDefault("data.ticker", "SPY")
	v.SetDefault("data.scenario", "")
	v.SetDefault("data.bars", "")
	v.SetDefault("data.result", "")
	v.SetDefault("data.indicators", []string{})
}

// Load reads the configuration. The file at path is optional when path is
// empty; a missing .env file is ignored.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that can only be verified after decoding
func (c *Config) Validate() error {
	if _, err := c.Focuser(); err != nil {
		return err
	}
	if _, err := binning.ParseMethod(c.Bins.Method); err != nil {
		return fmt.Errorf("bins.method: %w", err)
	}
	if _, err := parseDuration("storage.ttl", c.Storage.TTL); err != nil {
		return err
	}
	if _, err := parseDuration("backend.timeout", c.Backend.Timeout); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart size %dx%d must be positive", c.Chart.Width, c.Chart.Height)
	}
	return nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Focuser returns the viewport paddings
func (c *Config) Focuser() (viewport.Focuser, error) {
	before, err := viewport.ParsePadding(c.Focus.Before)
	if err != nil {
		return viewport.Focuser{}, fmt.Errorf("focus.before: %w", err)
	}
	after, err := viewport.ParsePadding(c.Focus.MinAfter)
	if err != nil {
		return viewport.Focuser{}, fmt.Errorf("focus.min_after: %w", err)
	}
	if c.Focus.HorizonMultiplier <= 0 {
		return viewport.Focuser{}, fmt.Errorf("focus.horizon_multiplier must be positive")
	}

	return viewport.Focuser{
		PaddingBefore:     before,
		MinPaddingAfter:   after,
		HorizonMultiplier: c.Focus.HorizonMultiplier,
	}, nil
}

// SurfaceOptions returns the chart appearance with the configured size
func (c *Config) SurfaceOptions() chart.SurfaceOptions {
	options := chart.DefaultSurfaceOptions()
	options.Width, options.Height = c.Chart.Width, c.Chart.Height
	return options
}

// Palette returns the indicator colors
func (c *Config) Palette() chart.Palette {
	return chart.Palette(c.Chart.Palette)
}

// BinParams returns the configured binning method and its parameters
func (c *Config) BinParams() (binning.Method, binning.Params) {
	method, _ := binning.ParseMethod(c.Bins.Method)
	return method, binning.Params{Width: c.Bins.Width, Count: c.Bins.Count}
}

// StorageTTL returns the cache entry lifetime
func (c *Config) StorageTTL() time.Duration {
	ttl, _ := parseDuration("storage.ttl", c.Storage.TTL)
	return ttl
}

// BackendTimeout returns the HTTP timeout of backend requests
func (c *Config) BackendTimeout() time.Duration {
	timeout, _ := parseDuration("backend.timeout", c.Backend.Timeout)
	return timeout
}

// LoggerOptions returns the zerolog adapter options
func (c *Config) LoggerOptions() zerolog.Options {
	return zerolog.Options{
		Level:      c.Log.Level,
		TimeLayout: c.Log.TimeLayout,
		Colored:    c.Log.Colored,
		JSON:       c.Log.JSON,
	}
}
