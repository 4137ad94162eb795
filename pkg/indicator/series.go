package indicator

import (
	"strings"

	"github.com/samber/lo"

	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/core"
)

// Kind returns Histogram for histogram-like columns and Line otherwise
func Kind(name string) core.SeriesKind {
	upper := strings.ToUpper(name)
	if strings.Contains(upper, "HIST") || strings.Contains(upper, "VOLUME") {
		return core.KindHistogram
	}
	return core.KindLine
}

// ToSeries converts indicator columns into chart series. Null values are
// dropped and each column is colored by its position.
func ToSeries(data core.IndicatorData, palette chart.Palette) []core.RawSeries {
	series := make([]core.RawSeries, 0, len(data.Columns))

	for i, column := range data.Columns {
		points := lo.FilterMap(column.Values, func(v *float64, j int) (core.RawPoint, bool) {
			if v == nil || j >= len(data.Dates) {
				return core.RawPoint{}, false
			}
			return core.RawPoint{Time: data.Dates[j], Value: *v}, true
		})

		series = append(series, core.RawSeries{
			ID:     column.Name,
			Kind:   Kind(column.Name),
			Color:  palette.Color(i),
			Points: points,
		})
	}

	return series
}
