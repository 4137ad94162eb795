package metric

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Measure reduces a resampled set to a single statistic
type Measure func([]float64) float64

// Mean is the arithmetic mean
func Mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// HitRate is the percentage of strictly positive values. Outcomes encoded
// as 1 for a hit and 0 for a miss yield the hit rate.
func HitRate(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(lo.CountBy(values, func(v float64) bool { return v > 0 })) / float64(len(values)) * 100
}

// BootstrapInterval is a confidence interval estimated by resampling
type BootstrapInterval struct {
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	StdDev     float64 `json:"std_dev"`
	Mean       float64 `json:"mean"`
	Confidence float64 `json:"confidence"`
}

// Bootstrap resamples values with replacement samples times, applies
// measure to every resample and returns the central confidence interval
// of the results, e.g. confidence 0.95 for the 2.5 and 97.5 percentiles.
func Bootstrap(values []float64, measure Measure, samples int, confidence float64) BootstrapInterval {
	if len(values) == 0 || samples <= 0 {
		return BootstrapInterval{Confidence: confidence}
	}

	data := resample(values, measure, samples)
	sort.Float64s(data)

	tail := 1 - confidence
	mean, stdDev := stat.MeanStdDev(data, nil)

	return BootstrapInterval{
		Lower:      stat.Quantile(tail/2, stat.LinInterp, data, nil),
		Upper:      stat.Quantile(1-tail/2, stat.LinInterp, data, nil),
		StdDev:     stdDev,
		Mean:       mean,
		Confidence: confidence,
	}
}

func resample(values []float64, measure Measure, samples int) []float64 {
	data := make([]float64, 0, samples)
	sample := make([]float64, len(values))

	for i := 0; i < samples; i++ {
		for j := range sample {
			sample[j] = lo.Sample(values)
		}
		data = append(data, measure(sample))
	}

	return data
}

// HitFlags encodes hit outcomes as 1 and misses as 0, skipping unknowns
func HitFlags(hits []*bool) []float64 {
	flags := make([]float64, 0, len(hits))
	for _, hit := range hits {
		if hit == nil {
			continue
		}
		flags = append(flags, lo.Ternary(*hit, 1.0, 0.0))
	}
	return flags
}
