// Package chart keeps a host chart surface in sync with bars, indicator
// series and annotations, and owns the lifecycle of everything it creates on
// that surface.
package chart

import "github.com/raykavin/signalscope/pkg/core"

// Host is the mount point a surface is created in
type Host interface {
	Width() int
	CreateSurface(opts SurfaceOptions) (Surface, error)
	SubscribeResize(fn func(width int)) (unsubscribe func())
}

// SurfaceOptions configures a new surface
type SurfaceOptions struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Background  string `json:"background"`
	TextColor   string `json:"text_color"`
	GridColor   string `json:"grid_color"`
	BorderColor string `json:"border_color"`
}

// DefaultSurfaceOptions returns the standard dark chart appearance
func DefaultSurfaceOptions() SurfaceOptions {
	return SurfaceOptions{
		Width:       1200,
		Height:      600,
		Background:  "transparent",
		TextColor:   "#a1a1aa",
		GridColor:   "rgba(42, 46, 57, 0.2)",
		BorderColor: "rgba(42, 46, 57, 0.6)",
	}
}

// SeriesOptions describes a line or histogram series
type SeriesOptions struct {
	Title     string          `json:"title"`
	Kind      core.SeriesKind `json:"kind"`
	Color     string          `json:"color"`
	LineWidth int             `json:"line_width,omitempty"`
	// PriceScaleID empty places the series on an overlay scale
	PriceScaleID   string  `json:"price_scale_id"`
	ScaleMarginTop float64 `json:"scale_margin_top,omitempty"`
}

// CandleOptions describes the price series
type CandleOptions struct {
	UpColor   string `json:"up_color"`
	DownColor string `json:"down_color"`
}

// SeriesFactory creates and removes line and histogram series
type SeriesFactory interface {
	AddSeries(opts SeriesOptions) (SeriesHandle, error)
	RemoveSeries(handle SeriesHandle) error
}

// Surface is the host charting surface. It draws; this package decides what.
type Surface interface {
	SeriesFactory
	AddCandleSeries(opts CandleOptions) (CandleHandle, error)
	TimeScale() TimeScale
	Overlay() OverlayLayer
	Resize(width, height int)
	Remove()
}

// SeriesHandle is a rendered line or histogram series
type SeriesHandle interface {
	Options() SeriesOptions
	// SetData replaces the series data. Points must be strictly increasing in time.
	SetData(points []core.Point) error
}

// CandleHandle is the rendered price series
type CandleHandle interface {
	SetBars(bars []core.Bar) error
	SetMarkers(markers []core.Marker) error
	CreatePriceLine(line core.PriceLine) (PriceLineHandle, error)
	RemovePriceLine(handle PriceLineHandle) error
}

// PriceLineHandle is a rendered horizontal price line
type PriceLineHandle interface {
	Line() core.PriceLine
}

// TimeScale exposes the host's time to pixel mapping
type TimeScale interface {
	// TimeToCoordinate returns false when t is outside the visible range
	TimeToCoordinate(t int64) (float64, bool)
	VisibleRange() (core.Viewport, bool)
	SetVisibleRange(view core.Viewport) error
	FitContent()
	SubscribeVisibleRangeChange(fn func(core.Viewport)) (unsubscribe func())
}

// ZOrder is the render order of an overlay element
type ZOrder int

const (
	ZBackground ZOrder = iota
	// ZBelowSeries is under candles and series but above the background
	ZBelowSeries
	ZAboveSeries
)

// OverlayLayer is a layer drawn independently of the host's own primitives
type OverlayLayer interface {
	Insert(z ZOrder) (OverlayElement, error)
}

// OverlayElement is an absolutely positioned element of the overlay layer
type OverlayElement interface {
	SetStyle(color, label string)
	MoveTo(x float64)
	SetVisible(visible bool)
	Remove()
}
