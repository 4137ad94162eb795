package annotate

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/timekey"
)

func fixture() core.AnalysisResult {
	return core.AnalysisResult{
		ScenarioID: "rsi-oversold",
		Underlying: "SPY",
		Signals: []core.Signal{
			{
				Date:  "2024-01-10",
				Price: 100,
				Outcomes: []core.SignalOutcome{
					{
						TargetID:     "up5_20d",
						DaysForward:  20,
						ThresholdPct: 5,
						Direction:    core.DirectionAbove,
						FutureDate:   lo.ToPtr("2024-02-09"),
						Hit:          lo.ToPtr(true),
					},
					{
						TargetID:     "down3_10d",
						DaysForward:  10,
						ThresholdPct: 3,
						Direction:    core.DirectionBelow,
						FutureDate:   lo.ToPtr("2024-01-24"),
						Hit:          lo.ToPtr(false),
					},
				},
			},
			{
				Date:  "2024-03-04",
				Price: 120,
				Outcomes: []core.SignalOutcome{
					{TargetID: "up5_20d", DaysForward: 20, ThresholdPct: 5, Direction: core.DirectionAbove},
				},
			},
		},
	}
}

func TestMarkers(t *testing.T) {
	markers, err := Markers(fixture(), "2024-03-04")
	require.NoError(t, err)
	require.Len(t, markers, 2)

	require.Equal(t, SignalColor, markers[0].Color)
	require.Empty(t, markers[0].Label)
	require.Equal(t, core.SideAbove, markers[0].Side)

	require.Equal(t, SelectedColor, markers[1].Color)
	require.Equal(t, SelectedLabel, markers[1].Label)
	require.Equal(t, timekey.MustParse("2024-03-04"), markers[1].Time)

	result := fixture()
	result.Signals[0].Date = "bad"
	markers, err = Markers(result, "")
	require.ErrorIs(t, err, core.ErrInvalidTime)
	require.Len(t, markers, 1)
}

func TestPriceLines(t *testing.T) {
	signal := fixture().Signals[0]

	lines := PriceLines(signal, signal.Outcomes[0])
	require.Len(t, lines, 2)
	require.Equal(t, 100.0, lines[0].Price)
	require.Equal(t, core.LineDotted, lines[0].Style)
	require.Equal(t, EntryLabel, lines[0].Title)
	require.InDelta(t, 105.0, lines[1].Price, 1e-9)
	require.Equal(t, core.LineDashed, lines[1].Style)
	require.Equal(t, "+5% target", lines[1].Title)

	lines = PriceLines(signal, signal.Outcomes[1])
	require.InDelta(t, 97.0, lines[1].Price, 1e-9)
	require.Equal(t, "-3% target", lines[1].Title)

	require.Equal(t, "+2.5% target", TargetTitle(core.SignalOutcome{ThresholdPct: 2.5}))
}

func TestVerticalLines(t *testing.T) {
	result := fixture()

	lines, err := VerticalLines(result.Signals[0], result.Signals[0].Outcomes[0])
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, timekey.MustParse("2024-01-10"), lines[0].Time)
	require.Equal(t, EntryColor, lines[0].Color)
	require.Equal(t, timekey.MustParse("2024-02-09"), lines[1].Time)
	require.Equal(t, HitColor, lines[1].Color)

	lines, err = VerticalLines(result.Signals[0], result.Signals[0].Outcomes[1])
	require.NoError(t, err)
	require.Equal(t, MissColor, lines[1].Color)

	lines, err = VerticalLines(result.Signals[1], result.Signals[1].Outcomes[0])
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestBuild(t *testing.T) {
	result := fixture()

	t.Run("no selection", func(t *testing.T) {
		annotations, err := Build(result, Selection{})
		require.NoError(t, err)
		require.Len(t, annotations.Markers, 2)
		require.Empty(t, annotations.PriceLines)
		require.Empty(t, annotations.VerticalLines)
		require.Nil(t, annotations.Focus)
	})

	t.Run("selected signal and target", func(t *testing.T) {
		annotations, err := Build(result, Selection{SignalDate: "2024-01-10", TargetID: "down3_10d"})
		require.NoError(t, err)
		require.Len(t, annotations.PriceLines, 2)
		require.Len(t, annotations.VerticalLines, 2)
		require.NotNil(t, annotations.Focus)
		require.Equal(t, timekey.MustParse("2024-01-10"), annotations.Focus.Anchor)
		require.Equal(t, 10, annotations.Focus.HorizonDays)

		frame := annotations.Frame(nil, nil)
		require.Equal(t, annotations.Focus, frame.Focus)
		require.Len(t, frame.Markers, 2)
	})

	t.Run("empty target uses the first outcome", func(t *testing.T) {
		annotations, err := Build(result, Selection{SignalDate: "2024-01-10"})
		require.NoError(t, err)
		require.Equal(t, 20, annotations.Focus.HorizonDays)
	})

	t.Run("unknown signal", func(t *testing.T) {
		annotations, err := Build(result, Selection{SignalDate: "2020-01-01"})
		require.ErrorIs(t, err, core.ErrUnknownSignal)
		require.Len(t, annotations.Markers, 2)
		require.Nil(t, annotations.Focus)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := Build(result, Selection{SignalDate: "2024-01-10", TargetID: "nope"})
		require.ErrorIs(t, err, core.ErrUnknownTarget)
	})
}

func TestNavigator(t *testing.T) {
	navigator := NewNavigator(fixture())
	require.Equal(t, 2, navigator.Len())
	require.Equal(t, 1, navigator.Index("2024-03-04"))
	require.Equal(t, -1, navigator.Index("2020-01-01"))

	next, ok := navigator.Next("2024-01-10")
	require.True(t, ok)
	require.Equal(t, "2024-03-04", next)

	_, ok = navigator.Next("2024-03-04")
	require.False(t, ok)

	prev, ok := navigator.Prev("2024-03-04")
	require.True(t, ok)
	require.Equal(t, "2024-01-10", prev)

	_, ok = navigator.Prev("2024-01-10")
	require.False(t, ok)

	first, ok := navigator.Next("")
	require.True(t, ok)
	require.Equal(t, "2024-01-10", first)
}
