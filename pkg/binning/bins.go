package binning

import (
	"math"

	"github.com/raykavin/signalscope/pkg/core"
)

// BinCount returns the number of bins the method derives for the sample.
// An empty sample yields zero bins.
func BinCount(sample []float64, method Method, params Params) (int, error) {
	if !method.Valid() {
		return 0, &core.UnknownMethodError{Method: string(method)}
	}
	if err := validate(sample); err != nil {
		return 0, err
	}
	if len(sample) == 0 {
		return 0, nil
	}

	lo, hi := core.Series[float64](sample).Bounds()
	if lo == hi {
		return 1, nil
	}

	return binCount(sample, hi-lo, method, params), nil
}

// Compute splits the sample into bins. Bins are contiguous, of equal width,
// and the last one is closed on the sample maximum.
func Compute(sample []float64, method Method, params Params) ([]core.Bin, error) {
	if !method.Valid() {
		return nil, &core.UnknownMethodError{Method: string(method)}
	}
	if err := validate(sample); err != nil {
		return nil, err
	}
	if len(sample) == 0 {
		return []core.Bin{}, nil
	}

	total := float64(len(sample))
	lo, hi := core.Series[float64](sample).Bounds()

	// A zero range would divide by zero; report one unit-wide bin instead
	if lo == hi {
		return []core.Bin{{
			Start:          lo - 0.5,
			End:            lo + 0.5,
			Count:          len(sample),
			PercentOfTotal: 100,
		}}, nil
	}

	count := binCount(sample, hi-lo, method, params)
	width := (hi - lo) / float64(count)

	bins := make([]core.Bin, count)
	for i := range bins {
		bins[i].Start = lo + float64(i)*width
		bins[i].End = lo + float64(i+1)*width
	}
	bins[count-1].End = hi

	for _, v := range sample {
		index := int(math.Floor((v - lo) / width))
		if index >= count {
			index = count - 1
		}
		if index < 0 {
			index = 0
		}
		bins[index].Count++
	}

	for i := range bins {
		bins[i].PercentOfTotal = float64(bins[i].Count) / total * 100
	}

	return bins, nil
}

func binCount(sample []float64, valueRange float64, method Method, params Params) int {
	n := float64(len(sample))

	var count float64
	switch method {
	case MethodSturges:
		count = sturges(n)
	case MethodScott:
		sd := stdDev(sample)
		if sd == 0 {
			return 1
		}
		count = math.Ceil(valueRange / (3.5 * sd * math.Pow(n, -1.0/3.0)))
	case MethodFreedmanDiaconis:
		spread := iqr(sorted(sample))
		if spread == 0 {
			count = sturges(n)
			break
		}
		count = math.Ceil(valueRange / (2 * spread * math.Pow(n, -1.0/3.0)))
	case MethodSqrt:
		count = math.Ceil(math.Sqrt(n))
	case MethodFixedWidth:
		if params.Width <= 0 {
			return DefaultBinCount
		}
		count = math.Ceil(valueRange / params.Width)
	case MethodFixedCount:
		return clamp(params.Count, 1, MaxBins)
	}

	if math.IsNaN(count) || count < 1 {
		return 1
	}
	if count > MaxComputedBins {
		return MaxComputedBins
	}
	return int(count)
}

func sturges(n float64) float64 {
	return math.Max(math.Ceil(math.Log2(n)+1), 1)
}

func clamp(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

func validate(sample []float64) error {
	for i, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &core.InvalidSampleError{Index: i, Value: v}
		}
	}
	return nil
}
