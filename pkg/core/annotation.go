package core

// MarkerSide is the side of the bar a marker is drawn on
type MarkerSide string

const (
	SideAbove MarkerSide = "above"
	SideBelow MarkerSide = "below"
)

// LineStyle is the dash pattern of a price line
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDotted LineStyle = "dotted"
	LineDashed LineStyle = "dashed"
)

// Marker is a discrete event drawn on the price series. Markers carry no
// identity and are replaced as a whole on every update.
type Marker struct {
	Time  int64      `json:"time"`
	Side  MarkerSide `json:"side"`
	Color string     `json:"color"`
	Label string     `json:"label"`
}

// PriceLine is a horizontal annotation at a fixed price
type PriceLine struct {
	Price float64   `json:"price"`
	Color string    `json:"color"`
	Width int       `json:"width"`
	Style LineStyle `json:"style"`
	Title string    `json:"title"`
}

// VerticalLine is a time-anchored guide drawn on the overlay layer
type VerticalLine struct {
	Time  int64  `json:"time"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// Viewport is the visible time window of the chart, in epoch seconds
type Viewport struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// Contains reports whether t lies inside the viewport, bounds included
func (v Viewport) Contains(t int64) bool {
	return t >= v.From && t <= v.To
}

// Span returns the width of the viewport in seconds
func (v Viewport) Span() int64 {
	return v.To - v.From
}

// Bin is a contiguous sub-range of a histogram value axis
type Bin struct {
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Count          int     `json:"count"`
	PercentOfTotal float64 `json:"percent_of_total"`
}
