package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/signalscope/pkg/binning"
	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/viewport"
)

func TestLoad_Defaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "info", config.Log.Level)
	require.True(t, config.Log.Colored)
	require.False(t, config.Log.JSON)
	require.Equal(t, 8080, config.Server.Port)
	require.Equal(t, ":memory:", config.Storage.Path)
	require.Equal(t, 24*time.Hour, config.StorageTTL())
	require.Equal(t, 30*time.Second, config.BackendTimeout())
	require.Empty(t, config.Backend.URL)
	require.Equal(t, 3, config.Backend.Retries)

	options := config.SurfaceOptions()
	require.Equal(t, 1200, options.Width)
	require.Equal(t, 600, options.Height)
	require.Equal(t, chart.DefaultPalette, config.Palette())

	focuser, err := config.Focuser()
	require.NoError(t, err)
	require.Equal(t, viewport.DefaultFocuser(), focuser)

	method, params := config.BinParams()
	require.Equal(t, binning.MethodSturges, method)
	require.Equal(t, binning.Params{Count: 20}, params)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signalscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  json: true
focus:
  before: 2w
  min_after: 10d
  horizon_multiplier: 2
bins:
  method: fixed-width
  width: 0.5
data:
  ticker: QQQ
  indicators: [SMA_20, RSI_14]
`), 0o600))

	t.Setenv("SIGNALSCOPE_SERVER_PORT", "9090")
	t.Setenv("SIGNALSCOPE_BACKEND_URL", "http://localhost:8000")

	config, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", config.Log.Level)
	require.True(t, config.LoggerOptions().JSON)
	require.Equal(t, 9090, config.Server.Port)
	require.Equal(t, "http://localhost:8000", config.Backend.URL)
	require.Equal(t, "QQQ", config.Data.Ticker)
	require.Equal(t, []string{"SMA_20", "RSI_14"}, config.Data.Indicators)

	focuser, err := config.Focuser()
	require.NoError(t, err)
	require.Equal(t, 14*viewport.Day, focuser.PaddingBefore)
	require.Equal(t, 10*viewport.Day, focuser.MinPaddingAfter)
	require.Equal(t, 2.0, focuser.HorizonMultiplier)

	method, params := config.BinParams()
	require.Equal(t, binning.MethodFixedWidth, method)
	require.Equal(t, 0.5, params.Width)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
		msg  string
	}{
		{"method", "SIGNALSCOPE_BINS_METHOD", "median", "bins.method"},
		{"padding", "SIGNALSCOPE_FOCUS_BEFORE", "soon", "focus.before"},
		{"ttl", "SIGNALSCOPE_STORAGE_TTL", "forever", "storage.ttl"},
		{"port", "SIGNALSCOPE_SERVER_PORT", "70000", "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			_, err := Load("")
			require.ErrorContains(t, err, tt.msg)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
