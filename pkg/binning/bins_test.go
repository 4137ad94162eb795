package binning

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/stretchr/testify/require"
)

func sumCounts(bins []core.Bin) int {
	total := 0
	for _, bin := range bins {
		total += bin.Count
	}
	return total
}

func TestCompute_Empty(t *testing.T) {
	for _, method := range Methods {
		bins, err := Compute(nil, method, Params{Count: 10, Width: 1})
		require.NoError(t, err)
		require.NotNil(t, bins)
		require.Empty(t, bins)
	}
}

func TestCompute_ZeroRange(t *testing.T) {
	for _, method := range Methods {
		bins, err := Compute([]float64{3, 3, 3}, method, Params{Count: 10, Width: 1})
		require.NoError(t, err)
		require.Len(t, bins, 1, method)
		require.Equal(t, 2.5, bins[0].Start)
		require.Equal(t, 3.5, bins[0].End)
		require.Equal(t, 3, bins[0].Count)
		require.Equal(t, 100.0, bins[0].PercentOfTotal)
	}
}

func TestCompute_FixedCountExample(t *testing.T) {
	bins, err := Compute([]float64{1, 1, 1, 1, 5}, MethodFixedCount, Params{Count: 4})
	require.NoError(t, err)
	require.Len(t, bins, 4)

	for i, bin := range bins {
		require.InDelta(t, 1.0, bin.End-bin.Start, 1e-9)
		require.InDelta(t, float64(1+i), bin.Start, 1e-9)
	}
	require.Equal(t, 5.0, bins[3].End)
	require.Equal(t, 4, bins[0].Count)
	require.Equal(t, 1, bins[3].Count)
	require.InDelta(t, 80.0, bins[0].PercentOfTotal, 1e-9)
	require.InDelta(t, 20.0, bins[3].PercentOfTotal, 1e-9)
}

func TestCompute_SumEqualsSampleSize(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sample := make([]float64, 257)
	for i := range sample {
		sample[i] = rng.NormFloat64() * 4
	}

	for _, method := range Methods {
		bins, err := Compute(sample, method, Params{Count: 33, Width: 0.75})
		require.NoError(t, err)
		require.Equal(t, len(sample), sumCounts(bins), method)

		percent := 0.0
		for _, bin := range bins {
			percent += bin.PercentOfTotal
		}
		require.InDelta(t, 100.0, percent, 1e-6, method)
	}
}

func TestBinCount(t *testing.T) {
	sample := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

	cases := []struct {
		method   Method
		params   Params
		expected int
	}{
		{MethodSturges, Params{}, 5},
		{MethodSqrt, Params{}, 4},
		{MethodFixedWidth, Params{Width: 4}, 4},
		{MethodFixedWidth, Params{Width: 0}, DefaultBinCount},
		{MethodFixedWidth, Params{Width: -3}, DefaultBinCount},
		{MethodFixedCount, Params{Count: 0}, 1},
		{MethodFixedCount, Params{Count: 1000}, MaxBins},
		{MethodFixedCount, Params{Count: 12}, 12},
	}

	for _, c := range cases {
		count, err := BinCount(sample, c.method, c.params)
		require.NoError(t, err)
		require.Equal(t, c.expected, count, "%s %+v", c.method, c.params)
	}
}

func TestBinCount_Scott(t *testing.T) {
	sample := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	sd := stdDev(sample)
	expected := int(math.Ceil(7 / (3.5 * sd * math.Pow(8, -1.0/3.0))))

	count, err := BinCount(sample, MethodScott, Params{})
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

func TestBinCount_FreedmanDiaconisFallsBackToSturges(t *testing.T) {
	// Most values equal, so the interquartile range collapses
	sample := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 100}

	fd, err := BinCount(sample, MethodFreedmanDiaconis, Params{})
	require.NoError(t, err)

	st, err := BinCount(sample, MethodSturges, Params{})
	require.NoError(t, err)
	require.Equal(t, st, fd)
}

func TestCompute_UnknownMethod(t *testing.T) {
	_, err := Compute([]float64{1, 2}, Method(""), Params{})
	require.True(t, errors.Is(err, core.ErrUnknownMethod))

	_, err = ParseMethod("bogus")
	var unknown *core.UnknownMethodError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "bogus", unknown.Method)

	method, err := ParseMethod(" Freedman-Diaconis ")
	require.NoError(t, err)
	require.Equal(t, MethodFreedmanDiaconis, method)
}

func TestCompute_NonFinite(t *testing.T) {
	_, err := Compute([]float64{1, math.NaN()}, MethodSturges, Params{})
	require.True(t, errors.Is(err, core.ErrInvalidSample))

	_, err = Compute([]float64{math.Inf(1)}, MethodSturges, Params{})
	require.True(t, errors.Is(err, core.ErrInvalidSample))
}

func TestParseSample(t *testing.T) {
	sample, err := ParseSample([]any{1.5, 2, json.Number("3.25"), " -4 "})
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2, 3.25, -4}, sample)

	_, err = ParseSample([]any{1.0, "abc"})
	var invalid *core.InvalidSampleError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, 1, invalid.Index)

	_, err = ParseSample([]any{nil})
	require.True(t, errors.Is(err, core.ErrInvalidSample))
}

func TestCalculator_RecomputesOnChange(t *testing.T) {
	calc := NewCalculator()
	sample := []float64{1, 2, 3, 4, 5}

	_, err := calc.Bins(sample, MethodSturges, Params{})
	require.NoError(t, err)
	_, err = calc.Bins(sample, MethodSturges, Params{})
	require.NoError(t, err)
	require.Equal(t, 1, calc.Runs())

	_, _ = calc.Bins(sample, MethodFixedCount, Params{Count: 2})
	require.Equal(t, 2, calc.Runs())

	_, _ = calc.Bins(sample, MethodFixedCount, Params{Count: 3})
	require.Equal(t, 3, calc.Runs())

	// Mutating the caller's slice must not go unnoticed
	sample[0] = 0
	_, _ = calc.Bins(sample, MethodFixedCount, Params{Count: 3})
	require.Equal(t, 4, calc.Runs())
}

func TestCalculator_ReturnsCopies(t *testing.T) {
	calc := NewCalculator()
	sample := []float64{1, 2, 3, 4, 5}

	first, err := calc.Bins(sample, MethodFixedCount, Params{Count: 2})
	require.NoError(t, err)
	want := first[0].PercentOfTotal
	first[0].PercentOfTotal = 100
	first[0].Count = 0

	again, err := calc.Bins(sample, MethodFixedCount, Params{Count: 2})
	require.NoError(t, err)
	require.Equal(t, 1, calc.Runs())
	require.Equal(t, want, again[0].PercentOfTotal)
	require.NotZero(t, again[0].Count)
}

func TestRender(t *testing.T) {
	bins, err := Compute([]float64{-2, -1, 0, 1, 1, 2, 3}, MethodFixedCount, Params{Count: 3})
	require.NoError(t, err)

	var hist bytes.Buffer
	require.NoError(t, Fprint(&hist, bins, 20))
	require.NotEmpty(t, hist.String())

	var table bytes.Buffer
	Table(&table, bins)
	require.Contains(t, table.String(), "TOTAL")
	require.Contains(t, table.String(), "7")
}
