package chart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/chart/headless"
	"github.com/raykavin/signalscope/pkg/core"
)

func newScaledSurface(t *testing.T) (*headless.Surface, *headless.TimeScale) {
	t.Helper()

	opts := chart.DefaultSurfaceOptions()
	opts.Width = 1000
	surface := headless.NewSurface(opts)
	scale := surface.TimeScale().(*headless.TimeScale)
	require.NoError(t, scale.SetVisibleRange(core.Viewport{From: 0, To: 1000}))
	return surface, scale
}

func TestPositioner(t *testing.T) {
	t.Run("hidden outside the visible range", func(t *testing.T) {
		surface, scale := newScaledSurface(t)
		positioner := chart.NewPositioner(surface.Overlay(), scale)

		handles, err := positioner.Mount([]core.VerticalLine{
			{Time: 500, Color: "#6b7280", Label: "Entry"},
			{Time: 2000, Color: "#22c55e", Label: "Exit"},
		})
		require.NoError(t, err)
		require.Len(t, handles, 2)

		positioner.Reposition(handles, scale.TimeToCoordinate)

		x, visible := handles[0].X()
		require.True(t, visible)
		require.Equal(t, 500.0, x)

		_, visible = handles[1].X()
		require.False(t, visible)

		overlays := surface.Snapshot().Overlays
		require.Len(t, overlays, 2)
		require.Equal(t, chart.ZBelowSeries, overlays[0].Z)
		require.Equal(t, "Entry", overlays[0].Label)
		require.True(t, overlays[0].Visible)
		require.False(t, overlays[1].Visible)
	})

	t.Run("follows pans", func(t *testing.T) {
		surface, scale := newScaledSurface(t)
		positioner := chart.NewPositioner(surface.Overlay(), scale)

		handles, err := positioner.Mount([]core.VerticalLine{{Time: 500}, {Time: 2000}})
		require.NoError(t, err)
		positioner.Refresh()

		scale.Pan(100)
		x, visible := handles[0].X()
		require.True(t, visible)
		require.Equal(t, 400.0, x)

		scale.Pan(1500)
		_, visible = handles[0].X()
		require.False(t, visible)
		x, visible = handles[1].X()
		require.True(t, visible)
		require.Equal(t, 400.0, x)
	})

	t.Run("unmount releases elements and subscription", func(t *testing.T) {
		surface, scale := newScaledSurface(t)
		positioner := chart.NewPositioner(surface.Overlay(), scale)

		_, err := positioner.Mount([]core.VerticalLine{{Time: 10}})
		require.NoError(t, err)
		require.Equal(t, 1, scale.Subscriptions())

		_, err = positioner.Mount([]core.VerticalLine{{Time: 20}, {Time: 30}})
		require.NoError(t, err)
		require.Equal(t, 1, scale.Subscriptions())
		require.Len(t, surface.Snapshot().Overlays, 2)

		positioner.Unmount()
		require.Equal(t, 0, scale.Subscriptions())
		require.Empty(t, surface.Snapshot().Overlays)
		require.Empty(t, positioner.Handles())
	})

	t.Run("closed positioner", func(t *testing.T) {
		surface, scale := newScaledSurface(t)
		positioner := chart.NewPositioner(surface.Overlay(), scale)

		handles, err := positioner.Mount([]core.VerticalLine{{Time: 100}})
		require.NoError(t, err)
		positioner.Close()

		positioner.Reposition(handles, func(int64) (float64, bool) { return 1, true })
		_, visible := handles[0].X()
		require.False(t, visible)

		handles, err = positioner.Mount([]core.VerticalLine{{Time: 100}})
		require.NoError(t, err)
		require.Empty(t, handles)
		require.Empty(t, surface.Snapshot().Overlays)
	})
}
