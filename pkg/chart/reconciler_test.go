package chart_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/chart/headless"
	"github.com/raykavin/signalscope/pkg/core"
)

func lineSeries(id, color string, times ...int64) core.IndicatorSeries {
	points := make([]core.Point, len(times))
	for i, t := range times {
		points[i] = core.Point{Time: t, Value: float64(i)}
	}
	return core.IndicatorSeries{ID: id, Kind: core.KindLine, Color: color, Points: points}
}

func TestReconcile(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		surface := headless.NewSurface(chart.DefaultSurfaceOptions())
		desired := []core.IndicatorSeries{
			lineSeries("SMA_20", "#3b82f6", 1, 2, 3),
			lineSeries("RSI_14", "#ef4444", 1, 2, 3),
		}

		rendered, err := chart.Reconcile(surface, desired, nil)
		require.NoError(t, err)
		require.Len(t, rendered, 2)
		first := rendered["SMA_20"]

		rendered, err = chart.Reconcile(surface, desired, rendered)
		require.NoError(t, err)
		require.Len(t, rendered, 2)
		require.Same(t, first, rendered["SMA_20"])

		created, removed := surface.Counts()
		require.Equal(t, 2, created)
		require.Equal(t, 0, removed)
		require.Equal(t, 2, rendered["SMA_20"].(*headless.Series).Writes())
	})

	t.Run("removes absent series", func(t *testing.T) {
		surface := headless.NewSurface(chart.DefaultSurfaceOptions())
		rendered, err := chart.Reconcile(surface, []core.IndicatorSeries{
			lineSeries("a", "#3b82f6", 1),
			lineSeries("b", "#ef4444", 1),
		}, nil)
		require.NoError(t, err)

		rendered, err = chart.Reconcile(surface, []core.IndicatorSeries{lineSeries("a", "#3b82f6", 1, 2)}, rendered)
		require.NoError(t, err)
		require.Contains(t, rendered, "a")
		require.NotContains(t, rendered, "b")

		_, removed := surface.Counts()
		require.Equal(t, 1, removed)

		rendered, err = chart.Reconcile(surface, nil, rendered)
		require.NoError(t, err)
		require.Empty(t, rendered)
		require.Empty(t, surface.Snapshot().Series)
	})

	t.Run("duplicate ids keep the first", func(t *testing.T) {
		surface := headless.NewSurface(chart.DefaultSurfaceOptions())
		rendered, err := chart.Reconcile(surface, []core.IndicatorSeries{
			lineSeries("a", "#3b82f6", 1, 2),
			lineSeries("a", "#ef4444", 1, 2, 3),
		}, nil)
		require.NoError(t, err)
		require.Len(t, rendered, 1)
		require.Equal(t, "#3b82f6", rendered["a"].Options().Color)
		require.Len(t, rendered["a"].(*headless.Series).Points(), 2)
	})

	t.Run("unordered series is skipped", func(t *testing.T) {
		surface := headless.NewSurface(chart.DefaultSurfaceOptions())
		rendered, err := chart.Reconcile(surface, []core.IndicatorSeries{
			lineSeries("bad", "#3b82f6", 2, 1),
			lineSeries("good", "#ef4444", 1, 2),
		}, nil)
		require.ErrorIs(t, err, core.ErrUnorderedSeries)
		require.Len(t, multierr.Errors(err), 1)

		var seriesErr *chart.SeriesError
		require.True(t, errors.As(err, &seriesErr))
		require.Equal(t, "bad", seriesErr.ID)

		require.NotContains(t, rendered, "bad")
		require.Contains(t, rendered, "good")
	})

	t.Run("options are fixed after creation", func(t *testing.T) {
		surface := headless.NewSurface(chart.DefaultSurfaceOptions())
		rendered, err := chart.Reconcile(surface, []core.IndicatorSeries{lineSeries("a", "#3b82f6", 1)}, nil)
		require.NoError(t, err)

		rendered, err = chart.Reconcile(surface, []core.IndicatorSeries{lineSeries("a", "#ef4444", 1, 2)}, rendered)
		require.ErrorIs(t, err, chart.ErrSeriesOptionsChanged)
		require.Equal(t, "#3b82f6", rendered["a"].Options().Color)
		require.Len(t, rendered["a"].(*headless.Series).Points(), 2)
	})
}
