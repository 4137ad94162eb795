package headless

import "github.com/raykavin/signalscope/pkg/chart"

type overlay struct {
	surface *Surface
}

func (o overlay) Insert(z chart.ZOrder) (chart.OverlayElement, error) {
	o.surface.mu.Lock()
	defer o.surface.mu.Unlock()

	if o.surface.removed {
		return nil, ErrRemoved
	}
	element := &Element{surface: o.surface, z: z}
	o.surface.elements = append(o.surface.elements, element)
	return element, nil
}

// Element is an overlay element
type Element struct {
	surface *Surface
	z       chart.ZOrder
	color   string
	label   string
	x       float64
	visible bool
}

// SetStyle implements chart.OverlayElement
func (e *Element) SetStyle(color, label string) {
	e.surface.mu.Lock()
	defer e.surface.mu.Unlock()
	e.color, e.label = color, label
}

// MoveTo implements chart.OverlayElement
func (e *Element) MoveTo(x float64) {
	e.surface.mu.Lock()
	defer e.surface.mu.Unlock()
	e.x = x
}

// SetVisible implements chart.OverlayElement
func (e *Element) SetVisible(visible bool) {
	e.surface.mu.Lock()
	defer e.surface.mu.Unlock()
	e.visible = visible
}

// Remove implements chart.OverlayElement
func (e *Element) Remove() {
	e.surface.mu.Lock()
	defer e.surface.mu.Unlock()

	elements := e.surface.elements
	for i, element := range elements {
		if element == e {
			e.surface.elements = append(elements[:i], elements[i+1:]...)
			return
		}
	}
}
