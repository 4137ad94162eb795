package chart

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/exp/slices"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/logger"
	"github.com/raykavin/signalscope/pkg/timekey"
	"github.com/raykavin/signalscope/pkg/viewport"
)

const (
	upVolumeColor   = "rgba(34, 197, 94, 0.3)"
	downVolumeColor = "rgba(239, 68, 68, 0.3)"
	upCandleColor   = "#22c55e"
	downCandleColor = "#ef4444"

	// VolumeSeriesTitle is the title of the volume histogram
	VolumeSeriesTitle = "volume"
)

// State is the controller lifecycle state
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "uninitialized"
	}
}

// Focus centers the viewport on an anchor time with a forward horizon
type Focus struct {
	Anchor      int64 `json:"anchor"`
	HorizonDays int   `json:"horizon_days"`
}

// Frame is everything one update draws
type Frame struct {
	Bars          []core.RawBar       `json:"bars"`
	Indicators    []core.RawSeries    `json:"indicators"`
	Markers       []core.Marker       `json:"markers"`
	PriceLines    []core.PriceLine    `json:"price_lines"`
	VerticalLines []core.VerticalLine `json:"vertical_lines"`
	Focus         *Focus              `json:"focus,omitempty"`
}

// Loader fetches a frame asynchronously
type Loader func(ctx context.Context) (Frame, error)

// Controller owns one chart surface and everything drawn on it
type Controller struct {
	sync.Mutex

	log     logger.Logger
	options SurfaceOptions
	focuser viewport.Focuser
	tracker Tracker

	state             State
	surface           Surface
	candles           CandleHandle
	volume            SeriesHandle
	indicators        map[string]SeriesHandle
	priceLines        []PriceLineHandle
	positioner        *Positioner
	unsubscribeResize func()
	empty             bool
}

// Option configures a Controller
type Option func(*Controller)

// WithSurfaceOptions sets the options used to create the surface
func WithSurfaceOptions(options SurfaceOptions) Option {
	return func(c *Controller) {
		c.options = options
	}
}

// WithFocuser sets the viewport padding rules
func WithFocuser(focuser viewport.Focuser) Option {
	return func(c *Controller) {
		c.focuser = focuser
	}
}

// NewController creates an uninitialized controller
func NewController(log logger.Logger, options ...Option) *Controller {
	c := &Controller{
		log:     log,
		options: DefaultSurfaceOptions(),
		focuser: viewport.DefaultFocuser(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Mount creates the surface on host. A controller that is already mounted
// is disposed first.
func (c *Controller) Mount(host Host) error {
	c.Lock()
	defer c.Unlock()

	if c.state == StateReady {
		c.dispose()
	}

	opts := c.options
	if width := host.Width(); width > 0 {
		opts.Width = width
	}

	surface, err := host.CreateSurface(opts)
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}

	candles, err := surface.AddCandleSeries(CandleOptions{UpColor: upCandleColor, DownColor: downCandleColor})
	if err != nil {
		surface.Remove()
		return fmt.Errorf("add candle series: %w", err)
	}

	volume, err := surface.AddSeries(SeriesOptions{
		Title:          VolumeSeriesTitle,
		Kind:           core.KindHistogram,
		Color:          "#26a69a",
		ScaleMarginTop: 0.8,
	})
	if err != nil {
		surface.Remove()
		return fmt.Errorf("add volume series: %w", err)
	}

	c.options = opts
	c.surface = surface
	c.candles = candles
	c.volume = volume
	c.indicators = make(map[string]SeriesHandle)
	c.positioner = NewPositioner(surface.Overlay(), surface.TimeScale())
	c.unsubscribeResize = host.SubscribeResize(c.resize)
	c.empty = true
	c.state = StateReady

	c.log.Debugf("chart mounted (%dx%d)", opts.Width, opts.Height)
	return nil
}

func (c *Controller) resize(width int) {
	c.Lock()
	defer c.Unlock()

	if c.state != StateReady {
		return
	}
	c.options.Width = width
	c.surface.Resize(width, c.options.Height)
}

// Update draws frame. Failures of individual series are logged and returned
// combined; everything else in the frame is still applied.
func (c *Controller) Update(frame Frame) error {
	c.Lock()
	defer c.Unlock()
	return c.update(frame)
}

func (c *Controller) update(frame Frame) error {
	if c.state != StateReady {
		return core.ErrNotReady
	}

	var errs error

	bars, err := timekey.Bars(frame.Bars)
	if err != nil {
		c.log.WithError(err).Warnf("dropped %d invalid bars", len(multierr.Errors(err)))
		errs = multierr.Append(errs, err)
	}

	indicators := make([]core.IndicatorSeries, 0, len(frame.Indicators))
	for _, raw := range frame.Indicators {
		series, err := timekey.Series(raw)
		if err != nil {
			c.log.WithField("series", raw.ID).WithError(err).Warn("dropped invalid points")
			errs = multierr.Append(errs, &SeriesError{ID: raw.ID, Err: err})
		}
		indicators = append(indicators, series)
	}

	if err := c.candles.SetBars(bars); err != nil {
		return multierr.Append(errs, fmt.Errorf("set bars: %w", err))
	}
	if err := c.volume.SetData(volumePoints(bars)); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("set volume: %w", err))
	}

	c.empty = len(bars) == 0
	if c.empty {
		if err := c.candles.SetMarkers(nil); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("clear markers: %w", err))
		}
		updatesMetrics.Inc()
		return errs
	}

	markers := slices.Clone(frame.Markers)
	slices.SortStableFunc(markers, func(a, b core.Marker) int {
		return cmp.Compare(a.Time, b.Time)
	})
	if err := c.candles.SetMarkers(markers); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("set markers: %w", err))
	}

	c.indicators, err = Reconcile(c.surface, indicators, c.indicators)
	for _, seriesErr := range multierr.Errors(err) {
		c.reportSeriesError(seriesErr)
	}
	errs = multierr.Append(errs, err)
	renderedSeriesMetrics.Set(float64(len(c.indicators)))

	c.positioner.Unmount()
	handles, err := c.positioner.Mount(frame.VerticalLines)
	if err != nil {
		c.log.WithError(err).Warn("mount vertical lines")
		errs = multierr.Append(errs, err)
	}
	scale := c.surface.TimeScale()
	c.positioner.Reposition(handles, scale.TimeToCoordinate)

	errs = multierr.Append(errs, c.retractPriceLines())
	for _, line := range frame.PriceLines {
		handle, err := c.candles.CreatePriceLine(line)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("price line %s: %w", line.Title, err))
			continue
		}
		c.priceLines = append(c.priceLines, handle)
	}

	if frame.Focus != nil {
		view := c.focuser.Range(frame.Focus.Anchor, frame.Focus.HorizonDays)
		if err := scale.SetVisibleRange(view); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("set visible range: %w", err))
		}
	} else {
		scale.FitContent()
	}

	updatesMetrics.Inc()
	return errs
}

func (c *Controller) reportSeriesError(err error) {
	var seriesErr *SeriesError
	if !errors.As(err, &seriesErr) {
		c.log.WithError(err).Warn("series update failed")
		return
	}

	log := c.log.WithField("series", seriesErr.ID).WithError(seriesErr.Err)
	if errors.Is(err, ErrSeriesOptionsChanged) {
		log.Warn("series options are fixed after creation")
		return
	}
	seriesErrorsMetrics.WithLabelValues(seriesErr.ID).Inc()
	log.Error("series update failed")
}

func (c *Controller) retractPriceLines() error {
	var errs error
	for _, handle := range c.priceLines {
		errs = multierr.Append(errs, c.candles.RemovePriceLine(handle))
	}
	c.priceLines = nil
	return errs
}

func volumePoints(bars []core.Bar) []core.Point {
	points := make([]core.Point, len(bars))
	for i, bar := range bars {
		color := downVolumeColor
		if bar.IsUp() {
			color = upVolumeColor
		}
		points[i] = core.Point{Time: bar.Time, Value: bar.Volume, Color: color}
	}
	return points
}

// Fetch runs load and applies the resulting frame only if anchor is still
// the latest requested one. Superseded responses return core.ErrStaleResponse.
func (c *Controller) Fetch(ctx context.Context, anchor string, load Loader) error {
	ticket := c.tracker.Issue(anchor)

	frame, err := load(ctx)
	if !c.tracker.Current(ticket) {
		staleResponsesMetrics.Inc()
		c.log.Debugf("discarding stale response for %s", anchor)
		return core.ErrStaleResponse
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", anchor, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.Lock()
	defer c.Unlock()

	// re-checked under the lock: a newer fetch may have applied meanwhile
	if !c.tracker.Current(ticket) {
		staleResponsesMetrics.Inc()
		c.log.Debugf("discarding stale response for %s", anchor)
		return core.ErrStaleResponse
	}
	c.tracker.Applied(ticket)
	return c.update(frame)
}

// Dispose releases everything created on the surface. It is safe to call
// more than once.
func (c *Controller) Dispose() {
	c.Lock()
	defer c.Unlock()
	c.dispose()
}

func (c *Controller) dispose() {
	if c.state != StateReady {
		return
	}

	if c.unsubscribeResize != nil {
		c.unsubscribeResize()
		c.unsubscribeResize = nil
	}
	c.positioner.Close()
	if err := c.retractPriceLines(); err != nil {
		c.log.WithError(err).Warn("retract price lines")
	}
	c.surface.Remove()

	c.surface = nil
	c.candles = nil
	c.volume = nil
	c.indicators = nil
	c.positioner = nil
	c.empty = false
	c.state = StateDisposed
	renderedSeriesMetrics.Set(0)

	c.log.Debug("chart disposed")
}

// State returns the lifecycle state
func (c *Controller) State() State {
	c.Lock()
	defer c.Unlock()
	return c.state
}

// Empty reports whether the last update had no bars
func (c *Controller) Empty() bool {
	c.Lock()
	defer c.Unlock()
	return c.empty
}

// SeriesIDs returns the ids of the rendered indicator series, sorted
func (c *Controller) SeriesIDs() []string {
	c.Lock()
	defer c.Unlock()

	ids := make([]string, 0, len(c.indicators))
	for id := range c.indicators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Overlays returns the mounted vertical line handles
func (c *Controller) Overlays() []*OverlayHandle {
	c.Lock()
	defer c.Unlock()

	if c.positioner == nil {
		return nil
	}
	return c.positioner.Handles()
}

// PriceLines returns the price lines currently drawn
func (c *Controller) PriceLines() []core.PriceLine {
	c.Lock()
	defer c.Unlock()

	lines := make([]core.PriceLine, len(c.priceLines))
	for i, handle := range c.priceLines {
		lines[i] = handle.Line()
	}
	return lines
}

// Viewport returns the visible range of the mounted surface
func (c *Controller) Viewport() (core.Viewport, bool) {
	c.Lock()
	defer c.Unlock()

	if c.state != StateReady {
		return core.Viewport{}, false
	}
	return c.surface.TimeScale().VisibleRange()
}
