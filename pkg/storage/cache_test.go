package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/signalscope/pkg/core"
)

func TestCache(t *testing.T) {
	cache, err := FromMemory(time.Hour)
	require.NoError(t, err)
	defer cache.Close()

	bars := []core.RawBar{
		{Date: "2024-01-02", Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Date: "2024-01-03", Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 120},
	}
	require.NoError(t, cache.Put(BarsKey("spy"), bars))

	var got []core.RawBar
	found, err := cache.Get(BarsKey("SPY"), &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, bars, got)

	found, err = cache.Get(BarsKey("QQQ"), &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, cache.Delete(BarsKey("SPY")))
	require.NoError(t, cache.Delete(BarsKey("SPY")))
	found, err = cache.Get(BarsKey("SPY"), &got)
	require.NoError(t, err)
	require.False(t, found)
}

func TestCache_Keys(t *testing.T) {
	cache, err := FromMemory(0)
	require.NoError(t, err)
	defer cache.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for _, key := range []string{ResultKey("b"), BarsKey("spy"), ResultKey("a")} {
		now = now.Add(time.Minute)
		require.NoError(t, cache.Put(key, map[string]string{"key": key}))
	}

	keys, err := cache.Keys("result:")
	require.NoError(t, err)
	require.Equal(t, []string{"result:b", "result:a"}, keys)
}

func TestCache_Persistence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.db")

	cache, err := FromFile(file, time.Hour)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ResultKey("rsi"), core.AnalysisResult{ScenarioID: "rsi", TotalSignals: 3}))
	require.NoError(t, cache.Close())

	cache, err = FromFile(file, time.Hour)
	require.NoError(t, err)
	defer cache.Close()

	var result core.AnalysisResult
	found, err := cache.Get(ResultKey("rsi"), &result)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 3, result.TotalSignals)
}

func TestKeys(t *testing.T) {
	require.Equal(t, IndicatorsKey("spy", []string{"SMA_20", "rsi_14"}), IndicatorsKey("SPY", []string{"RSI_14", "SMA_20"}))
}
