package analysis

import (
	"cmp"
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/timekey"
)

// YMode selects the value plotted for each signal
type YMode string

const (
	YFinal YMode = "final"
	YMax   YMode = "max"
)

// ParseYMode accepts "final" or "max"
func ParseYMode(value string) (YMode, error) {
	switch mode := YMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case YFinal, YMax:
		return mode, nil
	case "":
		return YFinal, nil
	default:
		return "", fmt.Errorf("unknown y mode %q", value)
	}
}

// ResolutionPoint is one signal in the time resolution scatter
type ResolutionPoint struct {
	Time     int64    `json:"time"`
	Date     string   `json:"date"`
	Price    float64  `json:"price"`
	Y        float64  `json:"y"`
	FinalPct *float64 `json:"final_pct,omitempty"`
	MaxPct   *float64 `json:"max_pct,omitempty"`
	Hit      *bool    `json:"hit,omitempty"`
}

// ResolutionView is the scatter of per-signal returns for one target
type ResolutionView struct {
	TargetID    string            `json:"target_id"`
	DaysForward int               `json:"days_forward"`
	Mode        YMode             `json:"mode"`
	Points      []ResolutionPoint `json:"points"`
	Threshold   float64           `json:"threshold"`
	YLabel      string            `json:"y_label"`
}

// Resolution builds the scatter for target. A missing value plots as zero.
func Resolution(signals []core.Signal, target core.TargetStats, mode YMode) (ResolutionView, error) {
	var errs error
	view := ResolutionView{
		TargetID:    target.TargetID,
		DaysForward: target.DaysForward,
		Mode:        mode,
		Points:      make([]ResolutionPoint, 0, len(signals)),
		Threshold:   Threshold(target, mode),
		YLabel:      YLabel(target, mode),
	}

	for i, signal := range signals {
		outcome, ok := signal.Outcome(target.TargetID)
		if !ok {
			continue
		}

		t, err := timekey.Parse(signal.Date)
		if err != nil {
			errs = multierr.Append(errs, &core.InvalidTimeError{Index: i, Value: signal.Date})
			continue
		}

		y := outcome.ActualChangePct
		if mode == YMax {
			y = outcome.MaxChangePct
		}

		view.Points = append(view.Points, ResolutionPoint{
			Time:     t,
			Date:     signal.Date,
			Price:    signal.Price,
			Y:        lo.FromPtr(y),
			FinalPct: outcome.ActualChangePct,
			MaxPct:   outcome.MaxChangePct,
			Hit:      outcome.Hit,
		})
	}

	return view, errs
}

// Threshold returns the reference line of target. BELOW targets are
// negated, and in max mode a BELOW threshold is always negative.
func Threshold(target core.TargetStats, mode YMode) float64 {
	threshold := target.ThresholdPct
	if target.Direction == core.DirectionBelow {
		threshold = -threshold
		if mode == YMax {
			threshold = -math.Abs(threshold)
		}
	}
	return threshold
}

// YLabel names the plotted value
func YLabel(target core.TargetStats, mode YMode) string {
	if mode != YMax {
		return "Final Return (%)"
	}
	if target.Direction == core.DirectionBelow {
		return "Max Low %"
	}
	return "Max High %"
}

// Horizons returns one target per distinct horizon, shortest first
func Horizons(targets []core.TargetStats) []core.TargetStats {
	unique := lo.UniqBy(targets, func(t core.TargetStats) int { return t.DaysForward })
	slices.SortStableFunc(unique, func(a, b core.TargetStats) int {
		return cmp.Compare(a.DaysForward, b.DaysForward)
	})
	return unique
}
