package chart

import (
	"fmt"
	"sync"

	"github.com/raykavin/signalscope/pkg/core"
)

// OverlayHandle is a mounted vertical line
type OverlayHandle struct {
	Line    core.VerticalLine
	element OverlayElement
	x       float64
	visible bool
}

// X returns the last applied position and whether the line is shown
func (h *OverlayHandle) X() (float64, bool) {
	return h.x, h.visible
}

// Positioner draws vertical lines on the overlay layer and keeps them aligned
// with the time scale as the visible range changes.
type Positioner struct {
	sync.Mutex
	layer       OverlayLayer
	scale       TimeScale
	handles     []*OverlayHandle
	unsubscribe func()
	closed      bool
}

// NewPositioner creates a positioner bound to a surface's overlay layer and time scale
func NewPositioner(layer OverlayLayer, scale TimeScale) *Positioner {
	return &Positioner{layer: layer, scale: scale}
}

// Mount creates one element per line and starts following the visible range.
// Lines already mounted are unmounted first. After Close it mounts nothing.
func (p *Positioner) Mount(lines []core.VerticalLine) ([]*OverlayHandle, error) {
	p.Lock()
	defer p.Unlock()

	if p.closed {
		return nil, nil
	}
	p.unmount()

	handles := make([]*OverlayHandle, 0, len(lines))
	for _, line := range lines {
		element, err := p.layer.Insert(ZBelowSeries)
		if err != nil {
			for _, h := range handles {
				h.element.Remove()
			}
			return nil, fmt.Errorf("insert overlay at %d: %w", line.Time, err)
		}
		element.SetStyle(line.Color, line.Label)
		element.SetVisible(false)
		handles = append(handles, &OverlayHandle{Line: line, element: element})
	}

	p.handles = handles
	if len(handles) > 0 {
		p.unsubscribe = p.scale.SubscribeVisibleRangeChange(func(core.Viewport) {
			p.Refresh()
		})
	}

	return handles, nil
}

// Reposition moves every handle to the coordinate of its time. Handles whose
// time maps to no coordinate are hidden.
func (p *Positioner) Reposition(handles []*OverlayHandle, timeToX func(int64) (float64, bool)) {
	p.Lock()
	defer p.Unlock()
	p.reposition(handles, timeToX)
}

func (p *Positioner) reposition(handles []*OverlayHandle, timeToX func(int64) (float64, bool)) {
	if p.closed {
		return
	}

	for _, h := range handles {
		x, ok := timeToX(h.Line.Time)
		if !ok {
			h.visible = false
			h.element.SetVisible(false)
			continue
		}
		h.x, h.visible = x, true
		h.element.MoveTo(x)
		h.element.SetVisible(true)
	}
}

// Refresh repositions the mounted handles against the current time scale
func (p *Positioner) Refresh() {
	p.Lock()
	defer p.Unlock()
	p.reposition(p.handles, p.scale.TimeToCoordinate)
}

// Handles returns the mounted handles
func (p *Positioner) Handles() []*OverlayHandle {
	p.Lock()
	defer p.Unlock()
	return append([]*OverlayHandle(nil), p.handles...)
}

// Unmount removes every element and stops following the visible range
func (p *Positioner) Unmount() {
	p.Lock()
	defer p.Unlock()
	p.unmount()
}

func (p *Positioner) unmount() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	for _, h := range p.handles {
		h.element.Remove()
	}
	p.handles = nil
}

// Close unmounts and makes every later call a no-op
func (p *Positioner) Close() {
	p.Lock()
	defer p.Unlock()
	p.unmount()
	p.closed = true
}
