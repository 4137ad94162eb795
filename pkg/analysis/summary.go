package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/raykavin/signalscope/pkg/core"
)

// Summary describes a return distribution
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P5     float64 `json:"p5"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
}

// Summarize computes the summary of distribution. StdDev is the sample
// deviation and is zero below two values.
func Summarize(distribution []float64) Summary {
	if len(distribution) == 0 {
		return Summary{}
	}

	sorted := append([]float64(nil), distribution...)
	sort.Float64s(sorted)

	summary := Summary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: Percentile(sorted, 50),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		P5:     Percentile(sorted, 5),
		P25:    Percentile(sorted, 25),
		P75:    Percentile(sorted, 75),
		P95:    Percentile(sorted, 95),
	}
	if len(sorted) > 1 {
		summary.StdDev = stat.StdDev(sorted, nil)
	}
	return summary
}

// Percentile interpolates linearly between the closest ranks of a sorted
// sample, the way the backtest engine reports its percentiles
func Percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	rank := pct / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower < 0 {
		return sorted[0]
	}
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lower] + (sorted[upper]-sorted[lower])*(rank-float64(lower))
}

// Aggregate recomputes the statistics of a target from its signals. Only
// outcomes with a final hit flag are evaluable.
func Aggregate(signals []core.Signal, targetID string) core.TargetStats {
	stats := core.TargetStats{TargetID: targetID, Distribution: []float64{}}

	for _, signal := range signals {
		outcome, ok := signal.Outcome(targetID)
		if !ok {
			continue
		}
		stats.DaysForward = outcome.DaysForward
		stats.ThresholdPct = outcome.ThresholdPct
		stats.Direction = outcome.Direction

		if outcome.Hit == nil || outcome.ActualChangePct == nil {
			continue
		}
		stats.Distribution = append(stats.Distribution, *outcome.ActualChangePct)
		if *outcome.Hit {
			stats.HitCount++
		} else {
			stats.MissCount++
		}
	}

	stats.TotalEvaluable = len(stats.Distribution)
	if stats.TotalEvaluable == 0 {
		return stats
	}

	summary := Summarize(stats.Distribution)
	stats.HitRatePct = float64(stats.HitCount) / float64(stats.TotalEvaluable) * 100
	stats.AvgChangePct = summary.Mean
	stats.MedianChangePct = summary.Median
	stats.MaxChangePct = summary.Max
	stats.MinChangePct = summary.Min
	stats.StdDev = summary.StdDev
	stats.Percentile5 = summary.P5
	stats.Percentile25 = summary.P25
	stats.Percentile75 = summary.P75
	stats.Percentile95 = summary.P95
	return stats
}
