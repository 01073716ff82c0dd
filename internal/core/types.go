package core

// Size describes the dimensions of a grid or viewport.
type Size struct {
	W int
	H int
}

// Cells returns W*H.
func (s Size) Cells() int { return s.W * s.H }

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Div divides both dimensions by n using integer division.
func (s Size) Div(n int) Size {
	if n <= 0 {
		return Size{}
	}
	return Size{W: s.W / n, H: s.H / n}
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }
