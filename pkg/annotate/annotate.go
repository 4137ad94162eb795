// Package annotate turns an analysis result and a selected signal into the
// markers, price lines, vertical lines and focus drawn on the price chart.
package annotate

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/timekey"
)

const (
	SelectedColor = "#eab308"
	SignalColor   = "#3b82f6"
	EntryColor    = "#6b7280"
	TargetColor   = "#3b82f6"
	HitColor      = "#22c55e"
	MissColor     = "#ef4444"

	SelectedLabel = "SELECTED"
	EntryLabel    = "Entry"
	ExitLabel     = "Exit"
)

// Selection picks a signal and the target whose outcome is shown
type Selection struct {
	SignalDate string `json:"signal"`
	TargetID   string `json:"target"`
}

// Annotations is everything drawn on top of the bars for one selection
type Annotations struct {
	Markers       []core.Marker       `json:"markers"`
	PriceLines    []core.PriceLine    `json:"price_lines"`
	VerticalLines []core.VerticalLine `json:"vertical_lines"`
	Focus         *chart.Focus        `json:"focus,omitempty"`
}

// Frame combines the annotations with bars and indicator series
func (a Annotations) Frame(bars []core.RawBar, indicators []core.RawSeries) chart.Frame {
	return chart.Frame{
		Bars:          bars,
		Indicators:    indicators,
		Markers:       a.Markers,
		PriceLines:    a.PriceLines,
		VerticalLines: a.VerticalLines,
		Focus:         a.Focus,
	}
}

// Markers emits one marker above the bar of every signal. Signals with an
// unparseable date are skipped and reported.
func Markers(result core.AnalysisResult, selectedDate string) ([]core.Marker, error) {
	var errs error
	markers := make([]core.Marker, 0, len(result.Signals))

	for i, signal := range result.Signals {
		t, err := timekey.Parse(signal.Date)
		if err != nil {
			errs = multierr.Append(errs, &core.InvalidTimeError{Index: i, Value: signal.Date})
			continue
		}

		marker := core.Marker{Time: t, Side: core.SideAbove, Color: SignalColor}
		if signal.Date == selectedDate {
			marker.Color = SelectedColor
			marker.Label = SelectedLabel
		}
		markers = append(markers, marker)
	}

	return markers, errs
}

// TargetPrice returns the price at which the outcome's threshold is reached
func TargetPrice(price float64, outcome core.SignalOutcome) float64 {
	if outcome.Direction == core.DirectionBelow {
		return price * (1 - outcome.ThresholdPct/100)
	}
	return price * (1 + outcome.ThresholdPct/100)
}

// TargetTitle labels a target line, e.g. "+5% target"
func TargetTitle(outcome core.SignalOutcome) string {
	sign := "+"
	if outcome.Direction == core.DirectionBelow {
		sign = "-"
	}
	return fmt.Sprintf("%s%s%% target", sign, strconv.FormatFloat(outcome.ThresholdPct, 'f', -1, 64))
}

// PriceLines emits the entry line and the target threshold line
func PriceLines(signal core.Signal, outcome core.SignalOutcome) []core.PriceLine {
	return []core.PriceLine{
		{
			Price: signal.Price,
			Color: EntryColor,
			Width: 1,
			Style: core.LineDotted,
			Title: EntryLabel,
		},
		{
			Price: TargetPrice(signal.Price, outcome),
			Color: TargetColor,
			Width: 1,
			Style: core.LineDashed,
			Title: TargetTitle(outcome),
		},
	}
}

// ExitColor colors the exit line by the outcome: green on hit, red on miss
// and gray when the outcome is not evaluable yet
func ExitColor(outcome core.SignalOutcome) string {
	switch {
	case outcome.Hit == nil:
		return EntryColor
	case *outcome.Hit:
		return HitColor
	default:
		return MissColor
	}
}

// VerticalLines emits the entry line at the signal date and, when the
// outcome has a future date, the exit line
func VerticalLines(signal core.Signal, outcome core.SignalOutcome) ([]core.VerticalLine, error) {
	entry, err := timekey.Parse(signal.Date)
	if err != nil {
		return nil, fmt.Errorf("signal date: %w", err)
	}

	lines := []core.VerticalLine{{Time: entry, Color: EntryColor, Label: EntryLabel}}
	if outcome.FutureDate == nil {
		return lines, nil
	}

	exit, err := timekey.Parse(*outcome.FutureDate)
	if err != nil {
		return lines, fmt.Errorf("future date: %w", err)
	}
	return append(lines, core.VerticalLine{Time: exit, Color: ExitColor(outcome), Label: ExitLabel}), nil
}

// Build assembles the annotations for a selection. Without a selected
// signal only the markers are returned. An empty target selects the first
// outcome of the signal.
func Build(result core.AnalysisResult, selection Selection) (Annotations, error) {
	markers, err := Markers(result, selection.SignalDate)
	annotations := Annotations{Markers: markers}
	if selection.SignalDate == "" {
		return annotations, err
	}

	signal, ok := result.Signal(selection.SignalDate)
	if !ok {
		return annotations, multierr.Append(err, fmt.Errorf("%w: %s", core.ErrUnknownSignal, selection.SignalDate))
	}

	outcome, ok := signal.Outcome(selection.TargetID)
	if selection.TargetID == "" && len(signal.Outcomes) > 0 {
		outcome, ok = signal.Outcomes[0], true
	}
	if !ok {
		return annotations, multierr.Append(err, fmt.Errorf("%w: %s", core.ErrUnknownTarget, selection.TargetID))
	}

	lines, lineErr := VerticalLines(signal, outcome)
	err = multierr.Append(err, lineErr)
	if len(lines) == 0 {
		return annotations, err
	}

	annotations.PriceLines = PriceLines(signal, outcome)
	annotations.VerticalLines = lines
	annotations.Focus = &chart.Focus{Anchor: lines[0].Time, HorizonDays: outcome.DaysForward}
	return annotations, err
}

// Dates returns the signal dates of result in order
func Dates(result core.AnalysisResult) []string {
	return lo.Map(result.Signals, func(s core.Signal, _ int) string { return s.Date })
}
