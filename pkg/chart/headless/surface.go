package headless

import (
	"errors"
	"fmt"
	"sync"

	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/core"
)

// ErrRemoved is returned by operations on a removed surface or series
var ErrRemoved = errors.New("surface removed")

// Surface is an in-memory chart.Surface
type Surface struct {
	mu sync.Mutex

	options  chart.SurfaceOptions
	removed  bool
	nextID   int
	candles  *Candles
	series   map[int]*Series
	order    []int
	elements []*Element
	scale    *TimeScale

	created int
	deleted int
}

// NewSurface creates an empty surface
func NewSurface(opts chart.SurfaceOptions) *Surface {
	s := &Surface{
		options: opts,
		series:  make(map[int]*Series),
	}
	s.scale = &TimeScale{surface: s, handlers: make(map[int]func(core.Viewport))}
	return s
}

// AddCandleSeries implements chart.Surface
func (s *Surface) AddCandleSeries(opts chart.CandleOptions) (chart.CandleHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removed {
		return nil, ErrRemoved
	}
	s.candles = &Candles{surface: s, options: opts}
	return s.candles, nil
}

// AddSeries implements chart.SeriesFactory
func (s *Surface) AddSeries(opts chart.SeriesOptions) (chart.SeriesHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removed {
		return nil, ErrRemoved
	}
	if !opts.Kind.Valid() {
		return nil, fmt.Errorf("invalid series kind %q", opts.Kind)
	}

	series := &Series{surface: s, id: s.nextID, options: opts}
	s.series[series.id] = series
	s.order = append(s.order, series.id)
	s.nextID++
	s.created++
	return series, nil
}

// RemoveSeries implements chart.SeriesFactory
func (s *Surface) RemoveSeries(handle chart.SeriesHandle) error {
	series, ok := handle.(*Series)
	if !ok {
		return fmt.Errorf("foreign series handle %T", handle)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removed {
		return ErrRemoved
	}
	if _, ok := s.series[series.id]; !ok {
		return fmt.Errorf("series %d: %w", series.id, ErrRemoved)
	}

	delete(s.series, series.id)
	for i, id := range s.order {
		if id == series.id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	series.removed = true
	s.deleted++
	return nil
}

// TimeScale implements chart.Surface
func (s *Surface) TimeScale() chart.TimeScale {
	return s.scale
}

// Overlay implements chart.Surface
func (s *Surface) Overlay() chart.OverlayLayer {
	return overlay{surface: s}
}

// Resize implements chart.Surface
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options.Width = width
	s.options.Height = height
}

// Remove implements chart.Surface
func (s *Surface) Remove() {
	s.mu.Lock()
	s.removed = true
	s.elements = nil
	s.mu.Unlock()

	s.scale.close()
}

// Removed reports whether the surface was removed
func (s *Surface) Removed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

// Counts returns how many series were created and removed
func (s *Surface) Counts() (created, removed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created, s.deleted
}

// Options returns the current surface options
func (s *Surface) Options() chart.SurfaceOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// Series is a line or histogram series
type Series struct {
	surface *Surface
	id      int
	options chart.SeriesOptions
	points  []core.Point
	removed bool
	writes  int
}

// Options implements chart.SeriesHandle
func (r *Series) Options() chart.SeriesOptions {
	return r.options
}

// SetData implements chart.SeriesHandle
func (r *Series) SetData(points []core.Point) error {
	r.surface.mu.Lock()
	defer r.surface.mu.Unlock()

	if r.removed || r.surface.removed {
		return ErrRemoved
	}
	for i := 1; i < len(points); i++ {
		if points[i].Time <= points[i-1].Time {
			return fmt.Errorf("point %d: %w", i, core.ErrUnorderedSeries)
		}
	}

	r.points = append([]core.Point(nil), points...)
	r.writes++
	return nil
}

// Points returns a copy of the series data
func (r *Series) Points() []core.Point {
	r.surface.mu.Lock()
	defer r.surface.mu.Unlock()
	return append([]core.Point(nil), r.points...)
}

// Writes returns how many times SetData succeeded
func (r *Series) Writes() int {
	r.surface.mu.Lock()
	defer r.surface.mu.Unlock()
	return r.writes
}

// Candles is the price series
type Candles struct {
	surface    *Surface
	options    chart.CandleOptions
	bars       []core.Bar
	markers    []core.Marker
	priceLines []*PriceLine
}

// SetBars implements chart.CandleHandle
func (c *Candles) SetBars(bars []core.Bar) error {
	c.surface.mu.Lock()
	defer c.surface.mu.Unlock()

	if c.surface.removed {
		return ErrRemoved
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Time <= bars[i-1].Time {
			return fmt.Errorf("bar %d: %w", i, core.ErrUnorderedSeries)
		}
	}
	c.bars = append([]core.Bar(nil), bars...)
	return nil
}

// SetMarkers implements chart.CandleHandle
func (c *Candles) SetMarkers(markers []core.Marker) error {
	c.surface.mu.Lock()
	defer c.surface.mu.Unlock()

	if c.surface.removed {
		return ErrRemoved
	}
	for i := 1; i < len(markers); i++ {
		if markers[i].Time < markers[i-1].Time {
			return errors.New("markers must be sorted by time")
		}
	}
	c.markers = append([]core.Marker(nil), markers...)
	return nil
}

// CreatePriceLine implements chart.CandleHandle
func (c *Candles) CreatePriceLine(line core.PriceLine) (chart.PriceLineHandle, error) {
	c.surface.mu.Lock()
	defer c.surface.mu.Unlock()

	if c.surface.removed {
		return nil, ErrRemoved
	}
	handle := &PriceLine{line: line}
	c.priceLines = append(c.priceLines, handle)
	return handle, nil
}

// RemovePriceLine implements chart.CandleHandle
func (c *Candles) RemovePriceLine(handle chart.PriceLineHandle) error {
	c.surface.mu.Lock()
	defer c.surface.mu.Unlock()

	for i, line := range c.priceLines {
		if line == handle {
			c.priceLines = append(c.priceLines[:i], c.priceLines[i+1:]...)
			return nil
		}
	}
	return errors.New("unknown price line")
}

// PriceLine is a horizontal line on the price series
type PriceLine struct {
	line core.PriceLine
}

// Line implements chart.PriceLineHandle
func (p *PriceLine) Line() core.PriceLine {
	return p.line
}
