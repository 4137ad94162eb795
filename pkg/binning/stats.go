package binning

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// sorted returns an ascending copy of the sample
func sorted(sample []float64) []float64 {
	values := make([]float64, len(sample))
	copy(values, sample)
	sort.Float64s(values)
	return values
}

// stdDev is the sample standard deviation; zero when it is undefined
func stdDev(sample []float64) float64 {
	if len(sample) < 2 {
		return 0
	}

	sd := stat.StdDev(sample, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

// iqr is the interquartile range of an ascending sample
func iqr(ascending []float64) float64 {
	if len(ascending) < 2 {
		return 0
	}

	q1 := stat.Quantile(0.25, stat.LinInterp, ascending, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, ascending, nil)
	return q3 - q1
}
