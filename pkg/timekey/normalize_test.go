package timekey

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParse(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Unix()

	cases := map[string]int64{
		"2024-01-02":                day,
		" 2024-01-02 ":              day,
		"2024-01-02T00:00:00Z":      day,
		"2024-01-02T03:00:00+03:00": day,
		"2024-01-02 00:00:00":       day,
		"2024-01-02T00:00:00":       day,
		"1704153600":                day,
		"20240102":                  day,
	}

	for input, expected := range cases {
		got, err := Parse(input)
		require.NoError(t, err, input)
		require.Equal(t, expected, got, input)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2024-13-01", "01/02/2024", "20241301", "12345678"} {
		_, err := Parse(input)
		require.Error(t, err, input)
		require.True(t, errors.Is(err, core.ErrInvalidTime), input)
	}
}

func TestBars_DuplicatesKeepFirst(t *testing.T) {
	bars, err := Bars([]core.RawBar{
		{Date: "2024-01-01", Close: 1},
		{Date: "2024-01-01", Close: 2},
		{Date: "2024-01-02", Close: 3},
	})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.Equal(t, MustParse("2024-01-01"), bars[0].Time)
	require.Equal(t, 1.0, bars[0].Close)
	require.Equal(t, 3.0, bars[1].Close)
}

func TestBars_Unordered(t *testing.T) {
	bars, err := Bars([]core.RawBar{
		{Date: "2024-01-03", Close: 3},
		{Date: "2024-01-01", Close: 1},
		{Date: "2024-01-02", Close: 2},
		{Date: "2024-01-01", Close: 9},
	})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, []float64{bars[0].Close, bars[1].Close, bars[2].Close})
}

func TestPoints_DropsInvalid(t *testing.T) {
	points, err := Points([]core.RawPoint{
		{Time: "2024-01-02", Value: 2},
		{Time: "garbage", Value: 0},
		{Time: "2024-01-01", Value: 1},
		{Time: "", Value: 0},
	})
	require.Len(t, points, 2)
	require.Equal(t, 1.0, points[0].Value)

	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)

	var invalid *core.InvalidTimeError
	require.True(t, errors.As(errs[0], &invalid))
	require.Equal(t, 1, invalid.Index)
	require.Equal(t, "garbage", invalid.Value)
}

func TestSeries_KeepsIdentity(t *testing.T) {
	series, err := Series(core.RawSeries{
		ID:    "SMA_20",
		Kind:  core.KindLine,
		Color: "#3b82f6",
		Points: []core.RawPoint{
			{Time: "2024-01-02", Value: 2},
			{Time: "2024-01-01", Value: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "SMA_20", series.ID)
	require.Equal(t, core.KindLine, series.Kind)
	require.True(t, series.Times().StrictlyIncreasing())
}

func TestNormalize_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	for round := 0; round < 50; round++ {
		size := rng.Intn(60)
		raw := make([]core.RawBar, size)
		for i := range raw {
			raw[i] = core.RawBar{Date: start.AddDate(0, 0, rng.Intn(20)).Format(DateLayout)}
		}

		bars, err := Bars(raw)
		require.NoError(t, err)
		require.LessOrEqual(t, len(bars), len(raw))

		for i := 1; i < len(bars); i++ {
			require.Greater(t, bars[i].Time, bars[i-1].Time)
		}
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "2024-06-15", Format(MustParse("2024-06-15")))
}
