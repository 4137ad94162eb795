package headless

import (
	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/core"
)

// SeriesSnapshot is a rendered series
type SeriesSnapshot struct {
	Title  string          `json:"title"`
	Kind   core.SeriesKind `json:"kind"`
	Color  string          `json:"color"`
	Points []core.Point    `json:"points"`
}

// ElementSnapshot is an overlay element
type ElementSnapshot struct {
	Z       chart.ZOrder `json:"z"`
	Color   string       `json:"color"`
	Label   string       `json:"label,omitempty"`
	X       float64      `json:"x"`
	Visible bool         `json:"visible"`
}

// Snapshot is the full drawn state of a surface
type Snapshot struct {
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Bars       []core.Bar        `json:"bars"`
	Series     []SeriesSnapshot  `json:"series"`
	Markers    []core.Marker     `json:"markers"`
	PriceLines []core.PriceLine  `json:"price_lines"`
	Overlays   []ElementSnapshot `json:"overlays"`
	Viewport   *core.Viewport    `json:"viewport,omitempty"`
	Empty      bool              `json:"empty"`
}

// SeriesByTitle returns the series with the given title
func (s Snapshot) SeriesByTitle(title string) (SeriesSnapshot, bool) {
	for _, series := range s.Series {
		if series.Title == title {
			return series, true
		}
	}
	return SeriesSnapshot{}, false
}

// Snapshot copies the drawn state
func (s *Surface) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot{
		Width:      s.options.Width,
		Height:     s.options.Height,
		Bars:       []core.Bar{},
		Series:     make([]SeriesSnapshot, 0, len(s.order)),
		Markers:    []core.Marker{},
		PriceLines: []core.PriceLine{},
		Overlays:   make([]ElementSnapshot, 0, len(s.elements)),
	}

	if s.candles != nil {
		snapshot.Bars = append(snapshot.Bars, s.candles.bars...)
		snapshot.Markers = append(snapshot.Markers, s.candles.markers...)
		for _, line := range s.candles.priceLines {
			snapshot.PriceLines = append(snapshot.PriceLines, line.line)
		}
	}
	snapshot.Empty = len(snapshot.Bars) == 0

	for _, id := range s.order {
		series := s.series[id]
		snapshot.Series = append(snapshot.Series, SeriesSnapshot{
			Title:  series.options.Title,
			Kind:   series.options.Kind,
			Color:  series.options.Color,
			Points: append([]core.Point{}, series.points...),
		})
	}

	for _, element := range s.elements {
		snapshot.Overlays = append(snapshot.Overlays, ElementSnapshot{
			Z:       element.z,
			Color:   element.color,
			Label:   element.label,
			X:       element.x,
			Visible: element.visible,
		})
	}

	if s.scale.hasVisible && !s.scale.closed {
		view := s.scale.visible
		snapshot.Viewport = &view
	}

	return snapshot
}
