package core

// Grid stores a 2D grid of cell values in row-major order.
type Grid struct {
	W, H int
	data []float32
}

// NewGrid allocates a zeroed grid with the given dimensions.
func NewGrid(size Size) *Grid {
	w, h := size.W, size.H
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, data: make([]float32, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []float32 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// At returns the value at (x, y) after wrapping.
func (g *Grid) At(x, y int) float32 {
	x, y = g.Wrap(x, y)
	return g.data[g.Index(x, y)]
}

// Set stores v at (x, y) after wrapping.
func (g *Grid) Set(x, y int, v float32) {
	x, y = g.Wrap(x, y)
	g.data[g.Index(x, y)] = v
}

// Fill sets every cell to v.
func (g *Grid) Fill(v float32) {
	for i := range g.data {
		g.data[i] = v
	}
}
