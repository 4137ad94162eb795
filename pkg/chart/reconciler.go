package chart

import (
	"errors"
	"fmt"

	"github.com/StudioSol/set"
	"go.uber.org/multierr"

	"github.com/raykavin/signalscope/pkg/core"
)

// ErrSeriesOptionsChanged reports a desired kind or color that differs from
// the rendered series. The rendered options are kept and only data is updated.
var ErrSeriesOptionsChanged = errors.New("series options changed after creation")

// SeriesError ties a failure to the indicator series that caused it
type SeriesError struct {
	ID  string
	Err error
}

func (e *SeriesError) Error() string {
	return fmt.Sprintf("series %s: %v", e.ID, e.Err)
}

func (e *SeriesError) Unwrap() error {
	return e.Err
}

// Reconcile makes the rendered indicator series match desired. Series whose id
// is absent from desired are removed, new ids are created and every kept
// series has its data replaced. Duplicate ids in desired keep the first entry.
//
// Per-series failures do not abort the pass; they are returned combined as
// *SeriesError values and the failing series keep their previous state.
func Reconcile(surface SeriesFactory, desired []core.IndicatorSeries,
	rendered map[string]SeriesHandle) (map[string]SeriesHandle, error) {

	if rendered == nil {
		rendered = make(map[string]SeriesHandle, len(desired))
	}

	ids := set.NewLinkedHashSetString()
	byID := make(map[string]core.IndicatorSeries, len(desired))
	for _, series := range desired {
		if _, ok := byID[series.ID]; ok {
			continue
		}
		byID[series.ID] = series
		ids.Add(series.ID)
	}

	var errs error
	for id, handle := range rendered {
		if _, ok := byID[id]; ok {
			continue
		}
		if err := surface.RemoveSeries(handle); err != nil {
			errs = multierr.Append(errs, &SeriesError{ID: id, Err: err})
		}
		delete(rendered, id)
	}

	for id := range ids.Iter() {
		if err := reconcileSeries(surface, byID[id], rendered); err != nil {
			errs = multierr.Append(errs, &SeriesError{ID: id, Err: err})
		}
	}

	return rendered, errs
}

func reconcileSeries(surface SeriesFactory, series core.IndicatorSeries, rendered map[string]SeriesHandle) error {
	if !series.Kind.Valid() {
		return fmt.Errorf("invalid series kind %q", series.Kind)
	}
	if !series.Times().StrictlyIncreasing() {
		return core.ErrUnorderedSeries
	}

	handle, ok := rendered[series.ID]
	if !ok {
		created, err := surface.AddSeries(SeriesOptions{
			Title:        series.ID,
			Kind:         series.Kind,
			Color:        series.Color,
			LineWidth:    2,
			PriceScaleID: "right",
		})
		if err != nil {
			return fmt.Errorf("create: %w", err)
		}
		rendered[series.ID] = created
		handle = created
	}

	if err := handle.SetData(series.Points); err != nil {
		return fmt.Errorf("set data: %w", err)
	}

	if opts := handle.Options(); ok && (opts.Kind != series.Kind || opts.Color != series.Color) {
		return fmt.Errorf("%w: rendered %s/%s, desired %s/%s", ErrSeriesOptionsChanged,
			opts.Kind, opts.Color, series.Kind, series.Color)
	}

	return nil
}
