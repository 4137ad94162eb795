package chart

// Palette is an ordered set of colors assigned to series by index
type Palette []string

// DefaultPalette is the palette used for indicator series
var DefaultPalette = Palette{
	"#3b82f6",
	"#ef4444",
	"#22c55e",
	"#eab308",
	"#a855f7",
	"#ec4899",
	"#06b6d4",
}

// Color returns the color for the i-th series, cycling through the palette
func (p Palette) Color(i int) string {
	if len(p) == 0 {
		p = DefaultPalette
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

// Assign maps every id to a color by position. The same ids in the same
// order always receive the same colors.
func (p Palette) Assign(ids []string) map[string]string {
	colors := make(map[string]string, len(ids))
	for i, id := range ids {
		if _, ok := colors[id]; ok {
			continue
		}
		colors[id] = p.Color(i)
	}
	return colors
}
