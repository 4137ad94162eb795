// Package plot serves the state of a headless chart over HTTP and pushes
// every redraw to websocket clients.
package plot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raykavin/signalscope/pkg/annotate"
	"github.com/raykavin/signalscope/pkg/binning"
	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/chart/headless"
	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/indicator"
	"github.com/raykavin/signalscope/pkg/logger"
)

// ErrNotLoaded is returned by operations that need data before Load ran
var ErrNotLoaded = errors.New("no data loaded")

// Server renders one ticker and one analysis result on a headless chart
type Server struct {
	sync.Mutex
	port       int
	ticker     string
	scenarioID string
	specs      []string
	palette    chart.Palette
	surface    chart.SurfaceOptions
	controller []chart.Option

	log        logger.Logger
	source     core.DataSource
	host       *headless.Host
	chart      *chart.Controller
	calculator *binning.Calculator
	wsManager  *WebSocketManager

	bars       []core.RawBar
	series     []core.RawSeries
	result     *core.AnalysisResult
	selection  annotate.Selection
	lastUpdate time.Time
}

// Option configures a Server
type Option func(*Server)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithTicker sets the ticker whose bars are drawn
func WithTicker(ticker string) Option {
	return func(s *Server) {
		s.ticker = ticker
	}
}

// WithScenario sets the scenario whose last result is annotated
func WithScenario(scenarioID string) Option {
	return func(s *Server) {
		s.scenarioID = scenarioID
	}
}

// WithIndicators sets the indicator columns drawn as series
func WithIndicators(specs ...string) Option {
	return func(s *Server) {
		s.specs = specs
	}
}

// WithPalette sets the colors assigned to indicator series
func WithPalette(palette chart.Palette) Option {
	return func(s *Server) {
		s.palette = palette
	}
}

// WithSurface sets the size and appearance of the chart
func WithSurface(options chart.SurfaceOptions) Option {
	return func(s *Server) {
		s.surface = options
	}
}

// WithChartOptions passes options to the chart controller
func WithChartOptions(options ...chart.Option) Option {
	return func(s *Server) {
		s.controller = append(s.controller, options...)
	}
}

// NewServer creates a server and mounts its chart. Nothing is drawn until Load.
func NewServer(source core.DataSource, log logger.Logger, options ...Option) (*Server, error) {
	server := &Server{
		port:       8080,
		palette:    chart.DefaultPalette,
		surface:    chart.DefaultSurfaceOptions(),
		log:        log,
		source:     source,
		calculator: binning.NewCalculator(),
	}
	for _, option := range options {
		option(server)
	}

	chartOptions := append([]chart.Option{chart.WithSurfaceOptions(server.surface)}, server.controller...)
	server.chart = chart.NewController(log, chartOptions...)
	server.host = headless.NewHost(server.surface.Width)
	if err := server.chart.Mount(server.host); err != nil {
		return nil, fmt.Errorf("mount chart: %w", err)
	}
	server.wsManager = NewWebSocketManager(log, server.View)

	return server, nil
}

// Load fetches bars, indicators and the last result from the source and
// draws them. The current selection is kept when the new result still has it.
func (s *Server) Load(ctx context.Context) error {
	bars, err := s.source.Bars(ctx, s.ticker)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	var series []core.RawSeries
	if len(s.specs) > 0 {
		data, err := s.source.Indicators(ctx, s.ticker, s.specs)
		if err != nil {
			if len(data.Columns) == 0 {
				return fmt.Errorf("load indicators: %w", err)
			}
			s.log.WithError(err).Warn("some indicators could not be loaded")
		}
		series = indicator.ToSeries(data, s.palette)
	}

	result, err := s.source.LastResult(ctx, s.scenarioID)
	if err != nil {
		return fmt.Errorf("load result: %w", err)
	}

	s.Lock()
	s.bars, s.series, s.result = bars, series, result
	selection := s.selection
	if result == nil {
		selection = annotate.Selection{}
	} else if _, ok := result.Signal(selection.SignalDate); !ok {
		selection = annotate.Selection{}
	}
	s.lastUpdate = time.Now()
	s.Unlock()

	s.log.WithFields(map[string]any{
		"ticker": s.ticker,
		"bars":   len(bars),
		"series": len(series),
	}).Info("data loaded")

	return s.Select(ctx, selection)
}

// Select annotates the chart for a signal and target, redraws it and
// broadcasts the new view. An empty signal date clears the selection.
func (s *Server) Select(ctx context.Context, selection annotate.Selection) error {
	s.Lock()
	if s.lastUpdate.IsZero() {
		s.Unlock()
		return ErrNotLoaded
	}
	bars, series, result := s.bars, s.series, s.result
	s.Unlock()

	annotations := annotate.Annotations{}
	if result != nil {
		var err error
		annotations, err = annotate.Build(*result, selection)
		if errors.Is(err, core.ErrUnknownSignal) || errors.Is(err, core.ErrUnknownTarget) {
			return err
		}
		if err != nil {
			s.log.WithError(err).Warn("some annotations were skipped")
		}
	}

	err := s.chart.Fetch(ctx, selection.SignalDate, func(context.Context) (chart.Frame, error) {
		return annotations.Frame(bars, series), nil
	})
	if errors.Is(err, core.ErrStaleResponse) || errors.Is(err, core.ErrNotReady) || errors.Is(err, core.ErrDisposed) {
		return err
	}
	if err != nil {
		s.log.WithError(err).Warn("chart partially updated")
	}

	s.Lock()
	s.selection = selection
	s.Unlock()

	s.wsManager.Broadcast(Message{Type: "view", Payload: s.View()})
	return nil
}

// View is the drawn chart together with what can be selected on it
type View struct {
	headless.Snapshot
	Selection annotate.Selection `json:"selection"`
	Signals   []string           `json:"signals"`
	Targets   []string           `json:"targets"`
}

// View returns the current state of the chart
func (s *Server) View() View {
	s.Lock()
	defer s.Unlock()

	view := View{
		Selection: s.selection,
		Signals:   []string{},
		Targets:   []string{},
	}
	if surface := s.host.Current(); surface != nil {
		view.Snapshot = surface.Snapshot()
	}
	if s.result != nil {
		view.Signals = annotate.Dates(*s.result)
		for _, target := range s.result.TargetStats {
			view.Targets = append(view.Targets, target.TargetID)
		}
	}
	return view
}

// Navigate moves the selection to the next or previous signal, keeping the
// selected target
func (s *Server) Navigate(ctx context.Context, forward bool) error {
	s.Lock()
	result, selection := s.result, s.selection
	s.Unlock()
	if result == nil {
		return ErrNotLoaded
	}

	navigator := annotate.NewNavigator(*result)
	step := navigator.Prev
	if forward {
		step = navigator.Next
	}
	date, ok := step(selection.SignalDate)
	if !ok {
		return nil
	}
	selection.SignalDate = date
	return s.Select(ctx, selection)
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/data", s.handleData)
	mux.HandleFunc("/select", s.handleSelect)
	mux.HandleFunc("/navigate", s.handleNavigate)
	mux.HandleFunc("/bins", s.handleBins)
	mux.HandleFunc("/ws", s.wsManager.HandleWebSocket)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start loads the data and serves until ctx is done
func (s *Server) Start(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdown)
	}()

	s.log.Infof("chart available at http://localhost:%d", s.port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close disconnects websocket clients and disposes the chart
func (s *Server) Close() {
	s.wsManager.Close()
	s.chart.Dispose()
}
