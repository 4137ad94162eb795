package timekey

import (
	"cmp"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
)

// Keyed pairs an item with its parsed time key
type Keyed[T any] struct {
	Time int64
	Item T
}

// Normalize parses the time of every item, sorts ascending and collapses
// equal times keeping the first occurrence. Items whose time cannot be parsed
// are left out of the result; the returned error then combines one
// *core.InvalidTimeError per dropped item and the caller decides whether the
// partial output is usable.
func Normalize[T any](items []T, timeOf func(T) string) ([]Keyed[T], error) {
	var errs error
	keyed := make([]Keyed[T], 0, len(items))

	for i, item := range items {
		raw := timeOf(item)
		t, err := Parse(raw)
		if err != nil {
			errs = multierr.Append(errs, &core.InvalidTimeError{Index: i, Value: raw})
			continue
		}
		keyed = append(keyed, Keyed[T]{Time: t, Item: item})
	}

	// Stable sort keeps the encounter order of equal times, so UniqBy keeps
	// the first one
	slices.SortStableFunc(keyed, func(a, b Keyed[T]) int {
		return cmp.Compare(a.Time, b.Time)
	})

	return lo.UniqBy(keyed, func(k Keyed[T]) int64 { return k.Time }), errs
}

// Bars normalizes a raw OHLCV sequence
func Bars(raw []core.RawBar) ([]core.Bar, error) {
	keyed, err := Normalize(raw, func(b core.RawBar) string { return b.Date })

	return lo.Map(keyed, func(k Keyed[core.RawBar], _ int) core.Bar {
		return core.Bar{
			Time:   k.Time,
			Open:   k.Item.Open,
			High:   k.Item.High,
			Low:    k.Item.Low,
			Close:  k.Item.Close,
			Volume: k.Item.Volume,
		}
	}), err
}

// Points normalizes a raw indicator value sequence
func Points(raw []core.RawPoint) ([]core.Point, error) {
	keyed, err := Normalize(raw, func(p core.RawPoint) string { return p.Time })

	return lo.Map(keyed, func(k Keyed[core.RawPoint], _ int) core.Point {
		return core.Point{Time: k.Time, Value: k.Item.Value}
	}), err
}

// Series normalizes the points of an indicator series, keeping its identity
func Series(raw core.RawSeries) (core.IndicatorSeries, error) {
	points, err := Points(raw.Points)

	return core.IndicatorSeries{
		ID:     raw.ID,
		Kind:   raw.Kind,
		Color:  raw.Color,
		Points: points,
	}, err
}
