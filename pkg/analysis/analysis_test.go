package analysis

import (
	"bytes"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/timekey"
)

func outcome(hit, anytime bool, final, maxPct float64) core.SignalOutcome {
	return core.SignalOutcome{
		TargetID:        "up5",
		DaysForward:     20,
		ThresholdPct:    5,
		Direction:       core.DirectionAbove,
		Hit:             lo.ToPtr(hit),
		AnytimeHit:      lo.ToPtr(anytime),
		ActualChangePct: lo.ToPtr(final),
		MaxChangePct:    lo.ToPtr(maxPct),
	}
}

func signals() []core.Signal {
	return []core.Signal{
		{Date: "2024-02-05", Price: 10, Outcomes: []core.SignalOutcome{outcome(false, true, -1, 6)}},
		{Date: "2023-12-01", Price: 11, Outcomes: []core.SignalOutcome{outcome(true, true, 7, 9)}},
		{Date: "2024-02-20", Price: 12, Outcomes: []core.SignalOutcome{outcome(true, true, 5.5, 8)}},
		{Date: "2024-03-01", Price: 13, Outcomes: []core.SignalOutcome{outcome(false, false, -3, 1)}},
		{Date: "2024-03-02", Price: 13, Outcomes: []core.SignalOutcome{{TargetID: "other"}}},
	}
}

func TestCalendar(t *testing.T) {
	stats, err := Calendar(signals(), "up5", HitFinal)
	require.NoError(t, err)

	require.Equal(t, []string{"Dec 2023", "Feb 2024", "Mar 2024"}, lo.Map(stats.Monthly, func(r Row, _ int) string { return r.Label }))
	require.Equal(t, Row{Label: "Feb 2024", Count: 2, Hits: 1, RatePct: 50}, stats.Monthly[1])

	require.Len(t, stats.Yearly, 2)
	require.Equal(t, "2023", stats.Yearly[0].Label)
	require.Equal(t, 3, stats.Yearly[1].Count)

	require.Equal(t, 4, stats.Total.Count)
	require.Equal(t, 2, stats.Total.Hits)
	require.Equal(t, 50.0, stats.Total.RatePct)

	anytime, err := Calendar(signals(), "up5", HitAnytime)
	require.NoError(t, err)
	require.Equal(t, 3, anytime.Total.Hits)
	require.Equal(t, 75.0, anytime.Total.RatePct)

	empty, err := Calendar(signals(), "missing", HitFinal)
	require.NoError(t, err)
	require.Empty(t, empty.Monthly)
	require.Zero(t, empty.Total.RatePct)

	var out bytes.Buffer
	stats.Fprint(&out)
	require.Contains(t, out.String(), "Feb 2024")
	require.Contains(t, out.String(), "50.0%")
}

func TestParseModes(t *testing.T) {
	mode, err := ParseHitMode("Anytime")
	require.NoError(t, err)
	require.Equal(t, HitAnytime, mode)

	_, err = ParseHitMode("sometimes")
	require.Error(t, err)

	y, err := ParseYMode("")
	require.NoError(t, err)
	require.Equal(t, YFinal, y)
}

func TestResolution(t *testing.T) {
	target := core.TargetStats{TargetID: "up5", DaysForward: 20, ThresholdPct: 5, Direction: core.DirectionAbove}

	view, err := Resolution(signals(), target, YFinal)
	require.NoError(t, err)
	require.Len(t, view.Points, 4)
	require.Equal(t, timekey.MustParse("2024-02-05"), view.Points[0].Time)
	require.Equal(t, -1.0, view.Points[0].Y)
	require.Equal(t, 5.0, view.Threshold)
	require.Equal(t, "Final Return (%)", view.YLabel)

	view, err = Resolution(signals(), target, YMax)
	require.NoError(t, err)
	require.Equal(t, 6.0, view.Points[0].Y)
	require.Equal(t, "Max High %", view.YLabel)

	below := core.TargetStats{ThresholdPct: 3, Direction: core.DirectionBelow}
	require.Equal(t, -3.0, Threshold(below, YFinal))
	require.Equal(t, -3.0, Threshold(below, YMax))
	require.Equal(t, "Max Low %", YLabel(below, YMax))

	horizons := Horizons([]core.TargetStats{
		{TargetID: "a", DaysForward: 20},
		{TargetID: "b", DaysForward: 5},
		{TargetID: "c", DaysForward: 20},
	})
	require.Equal(t, []string{"b", "a"}, lo.Map(horizons, func(t core.TargetStats, _ int) string { return t.TargetID }))
}

func TestSummarize(t *testing.T) {
	require.Equal(t, Summary{}, Summarize(nil))

	summary := Summarize([]float64{4, 1, 3, 2, 5})
	require.Equal(t, 5, summary.Count)
	require.Equal(t, 3.0, summary.Mean)
	require.Equal(t, 3.0, summary.Median)
	require.Equal(t, 1.0, summary.Min)
	require.Equal(t, 5.0, summary.Max)
	require.InDelta(t, 1.5811388, summary.StdDev, 1e-6)
	require.InDelta(t, 1.2, summary.P5, 1e-9)
	require.InDelta(t, 2.0, summary.P25, 1e-9)
	require.InDelta(t, 4.0, summary.P75, 1e-9)
	require.InDelta(t, 4.8, summary.P95, 1e-9)

	single := Summarize([]float64{7})
	require.Zero(t, single.StdDev)
	require.Equal(t, 7.0, single.P95)
}

func TestAggregate(t *testing.T) {
	stats := Aggregate(signals(), "up5")
	require.Equal(t, 4, stats.TotalEvaluable)
	require.Equal(t, 2, stats.HitCount)
	require.Equal(t, 2, stats.MissCount)
	require.Equal(t, 50.0, stats.HitRatePct)
	require.Equal(t, 20, stats.DaysForward)
	require.InDelta(t, 2.125, stats.AvgChangePct, 1e-9)
	require.Equal(t, 7.0, stats.MaxChangePct)
	require.Equal(t, -3.0, stats.MinChangePct)

	none := Aggregate(signals(), "missing")
	require.Zero(t, none.TotalEvaluable)
	require.Empty(t, none.Distribution)
}
