package headless

import (
	"fmt"

	"github.com/raykavin/signalscope/pkg/core"
)

// TimeScale maps time linearly onto the surface width over the visible range
type TimeScale struct {
	surface    *Surface
	visible    core.Viewport
	hasVisible bool
	closed     bool
	nextID     int
	handlers   map[int]func(core.Viewport)
}

// TimeToCoordinate implements chart.TimeScale
func (t *TimeScale) TimeToCoordinate(ts int64) (float64, bool) {
	t.surface.mu.Lock()
	defer t.surface.mu.Unlock()

	if t.closed || !t.hasVisible || !t.visible.Contains(ts) {
		return 0, false
	}

	span := t.visible.Span()
	if span == 0 {
		return 0, true
	}
	return float64(ts-t.visible.From) / float64(span) * float64(t.surface.options.Width), true
}

// VisibleRange implements chart.TimeScale
func (t *TimeScale) VisibleRange() (core.Viewport, bool) {
	t.surface.mu.Lock()
	defer t.surface.mu.Unlock()
	return t.visible, t.hasVisible && !t.closed
}

// SetVisibleRange implements chart.TimeScale
func (t *TimeScale) SetVisibleRange(view core.Viewport) error {
	if view.To <= view.From {
		return fmt.Errorf("invalid visible range %d..%d", view.From, view.To)
	}

	t.surface.mu.Lock()
	if t.closed {
		t.surface.mu.Unlock()
		return ErrRemoved
	}
	t.visible, t.hasVisible = view, true
	handlers := t.subscribers()
	t.surface.mu.Unlock()

	notify(handlers, view)
	return nil
}

// FitContent implements chart.TimeScale
func (t *TimeScale) FitContent() {
	t.surface.mu.Lock()
	if t.closed {
		t.surface.mu.Unlock()
		return
	}

	var bars []core.Bar
	if t.surface.candles != nil {
		bars = t.surface.candles.bars
	}
	if len(bars) == 0 {
		t.visible, t.hasVisible = core.Viewport{}, false
		t.surface.mu.Unlock()
		return
	}

	view := core.Viewport{From: bars[0].Time, To: bars[len(bars)-1].Time}
	t.visible, t.hasVisible = view, true
	handlers := t.subscribers()
	t.surface.mu.Unlock()

	notify(handlers, view)
}

// Pan shifts the visible range by seconds, as a user drag would
func (t *TimeScale) Pan(seconds int64) {
	t.surface.mu.Lock()
	if t.closed || !t.hasVisible {
		t.surface.mu.Unlock()
		return
	}
	t.visible.From += seconds
	t.visible.To += seconds
	view := t.visible
	handlers := t.subscribers()
	t.surface.mu.Unlock()

	notify(handlers, view)
}

// SubscribeVisibleRangeChange implements chart.TimeScale
func (t *TimeScale) SubscribeVisibleRangeChange(fn func(core.Viewport)) func() {
	t.surface.mu.Lock()
	defer t.surface.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.handlers[id] = fn

	return func() {
		t.surface.mu.Lock()
		defer t.surface.mu.Unlock()
		delete(t.handlers, id)
	}
}

// Subscriptions returns the number of visible range subscribers
func (t *TimeScale) Subscriptions() int {
	t.surface.mu.Lock()
	defer t.surface.mu.Unlock()
	return len(t.handlers)
}

func (t *TimeScale) close() {
	t.surface.mu.Lock()
	defer t.surface.mu.Unlock()
	t.closed = true
	t.handlers = make(map[int]func(core.Viewport))
}

// subscribers must be called with the surface lock held
func (t *TimeScale) subscribers() []func(core.Viewport) {
	handlers := make([]func(core.Viewport), 0, len(t.handlers))
	for _, fn := range t.handlers {
		handlers = append(handlers, fn)
	}
	return handlers
}

func notify(handlers []func(core.Viewport), view core.Viewport) {
	for _, fn := range handlers {
		fn(view)
	}
}
