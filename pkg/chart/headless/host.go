// Package headless is an in-memory chart surface. It records what is drawn
// so the result can be served as JSON or inspected in tests.
package headless

import (
	"sync"

	"github.com/raykavin/signalscope/pkg/chart"
)

// Host creates headless surfaces and dispatches resize events
type Host struct {
	sync.Mutex
	width    int
	nextID   int
	handlers map[int]func(width int)
	surfaces []*Surface
}

// NewHost creates a host with the given initial width
func NewHost(width int) *Host {
	return &Host{
		width:    width,
		handlers: make(map[int]func(width int)),
	}
}

// Width implements chart.Host
func (h *Host) Width() int {
	h.Lock()
	defer h.Unlock()
	return h.width
}

// CreateSurface implements chart.Host
func (h *Host) CreateSurface(opts chart.SurfaceOptions) (chart.Surface, error) {
	surface := NewSurface(opts)

	h.Lock()
	h.surfaces = append(h.surfaces, surface)
	h.Unlock()

	return surface, nil
}

// SubscribeResize implements chart.Host
func (h *Host) SubscribeResize(fn func(width int)) func() {
	h.Lock()
	defer h.Unlock()

	id := h.nextID
	h.nextID++
	h.handlers[id] = fn

	return func() {
		h.Lock()
		defer h.Unlock()
		delete(h.handlers, id)
	}
}

// Resize changes the host width and notifies subscribers
func (h *Host) Resize(width int) {
	h.Lock()
	h.width = width
	handlers := make([]func(int), 0, len(h.handlers))
	for _, fn := range h.handlers {
		handlers = append(handlers, fn)
	}
	h.Unlock()

	for _, fn := range handlers {
		fn(width)
	}
}

// Subscriptions returns the number of live resize subscriptions
func (h *Host) Subscriptions() int {
	h.Lock()
	defer h.Unlock()
	return len(h.handlers)
}

// Surfaces returns every surface created by this host, in creation order
func (h *Host) Surfaces() []*Surface {
	h.Lock()
	defer h.Unlock()
	return append([]*Surface(nil), h.surfaces...)
}

// Current returns the most recently created surface, or nil
func (h *Host) Current() *Surface {
	h.Lock()
	defer h.Unlock()
	if len(h.surfaces) == 0 {
		return nil
	}
	return h.surfaces[len(h.surfaces)-1]
}
