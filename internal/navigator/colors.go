package navigator

// DefaultPalette is the fixed set of path colors, in allocation order
var DefaultPalette = []string{"#5050ff", "#ff5050", "#50ff50"}

// ColorAllocator hands out palette colors round-robin. Colors are never
// reclaimed, so region i and region i+len(palette) share a color.
type ColorAllocator struct {
	palette []string
	cursor  int
}

// NewColorAllocator copies palette; an empty palette falls back to DefaultPalette
func NewColorAllocator(palette []string) *ColorAllocator {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &ColorAllocator{palette: append([]string(nil), palette...)}
}

// Allocate returns the next color
func (c *ColorAllocator) Allocate() string {
	color := c.palette[c.cursor]
	c.cursor = (c.cursor + 1) % len(c.palette)
	return color
}

// Size is the palette length
func (c *ColorAllocator) Size() int {
	return len(c.palette)
}
