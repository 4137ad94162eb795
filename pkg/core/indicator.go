package core

// SeriesKind identifies how an indicator series is drawn
type SeriesKind string

const (
	KindLine      SeriesKind = "Line"
	KindHistogram SeriesKind = "Histogram"
)

// Valid reports whether the kind is one the surface knows how to draw
func (k SeriesKind) Valid() bool {
	return k == KindLine || k == KindHistogram
}

// RawPoint is a single indicator value with an unparsed time
type RawPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Point is a time-normalized value ready to be handed to a series.
// Color is optional and only honored by histogram series.
type Point struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// RawSeries is an indicator series as produced by a data source
type RawSeries struct {
	ID     string     `json:"id"`
	Kind   SeriesKind `json:"type"`
	Color  string     `json:"color"`
	Points []RawPoint `json:"data"`
}

// IndicatorSeries is a normalized indicator series. The ID is stable across
// data refreshes; Kind and Color are fixed for the lifetime of the ID.
type IndicatorSeries struct {
	ID     string     `json:"id"`
	Kind   SeriesKind `json:"type"`
	Color  string     `json:"color"`
	Points []Point    `json:"data"`
}

// Times returns the time keys of the series points
func (s IndicatorSeries) Times() Series[int64] {
	times := make(Series[int64], len(s.Points))
	for i, p := range s.Points {
		times[i] = p.Time
	}
	return times
}

// IndicatorColumn holds the values of one computed indicator aligned with
// IndicatorData.Dates. A nil entry is a missing value.
type IndicatorColumn struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// IndicatorData is the transport shape of computed indicators: parallel
// arrays of dates and values per indicator, in request order
type IndicatorData struct {
	Dates   []string          `json:"dates"`
	Columns []IndicatorColumn `json:"indicators"`
}
