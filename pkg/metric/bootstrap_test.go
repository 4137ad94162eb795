package metric

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	t.Run("constant sample", func(t *testing.T) {
		interval := Bootstrap([]float64{2, 2, 2, 2}, Mean, 200, 0.95)
		require.Equal(t, 2.0, interval.Lower)
		require.Equal(t, 2.0, interval.Upper)
		require.Equal(t, 2.0, interval.Mean)
		require.Zero(t, interval.StdDev)
		require.Equal(t, 0.95, interval.Confidence)
	})

	t.Run("interval contains the sample mean", func(t *testing.T) {
		values := []float64{-4, -1, 0, 2, 3, 5, 7, 8, 10, 12}
		interval := Bootstrap(values, Mean, 2000, 0.9)
		require.LessOrEqual(t, interval.Lower, interval.Upper)
		require.GreaterOrEqual(t, interval.Lower, -4.0)
		require.LessOrEqual(t, interval.Upper, 12.0)
		require.InDelta(t, Mean(values), interval.Mean, 1.0)
	})

	t.Run("empty", func(t *testing.T) {
		require.Equal(t, BootstrapInterval{Confidence: 0.95}, Bootstrap(nil, Mean, 100, 0.95))
		require.Equal(t, BootstrapInterval{Confidence: 0.95}, Bootstrap([]float64{1}, Mean, 0, 0.95))
	})
}

func TestHitRate(t *testing.T) {
	require.Zero(t, HitRate(nil))
	require.Equal(t, 50.0, HitRate([]float64{1, 0, 1, 0}))

	flags := HitFlags([]*bool{lo.ToPtr(true), nil, lo.ToPtr(false), lo.ToPtr(true)})
	require.Equal(t, []float64{1, 0, 1}, flags)

	interval := Bootstrap([]float64{1, 1, 1}, HitRate, 50, 0.95)
	require.Equal(t, 100.0, interval.Upper)
}
