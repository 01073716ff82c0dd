package rule

import "image"

// Samples is the number of neighbours read per cell: a 5x5 block minus the centre.
const Samples = 24

// Pair is a compare-exchange step: after it runs, the value at Lo is the
// smaller of the two and the value at Hi the larger.
type Pair struct {
	Lo, Hi int
}

// Network is an ordered list of compare-exchange steps over Samples values.
type Network []Pair

// sortingNetwork fully sorts 24 values ascending.
var sortingNetwork = Network{
	{0, 16}, {1, 17}, {2, 18}, {3, 19}, {4, 20}, {5, 21}, {6, 22}, {7, 23},
	{0, 8}, {1, 9}, {2, 10}, {3, 11}, {4, 12}, {5, 13}, {6, 14}, {7, 15},
	{8, 16}, {9, 17}, {10, 18}, {11, 19}, {12, 20}, {13, 21}, {14, 22}, {15, 23},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
	{8, 12}, {9, 13}, {10, 14}, {11, 15}, {16, 20}, {17, 21}, {18, 22}, {19, 23},
	{0, 2}, {1, 3},
	{4, 16}, {5, 17}, {6, 18}, {7, 19}, {20, 22}, {21, 23}, {0, 1},
	{4, 8}, {5, 9}, {6, 10}, {7, 11}, {12, 16}, {13, 17}, {14, 18}, {15, 19}, {22, 23},
	{4, 6}, {5, 7}, {8, 10}, {9, 11}, {12, 14}, {13, 15}, {16, 18}, {17, 19},
	{2, 16}, {3, 17}, {6, 20}, {7, 21},
	{2, 8}, {3, 9}, {6, 12}, {7, 13}, {10, 16}, {11, 17}, {14, 20}, {15, 21},
	{2, 4}, {3, 5}, {6, 8}, {7, 9}, {10, 12}, {11, 13}, {14, 16}, {15, 17}, {18, 20}, {19, 21},
	{2, 3}, {4, 5}, {6, 7}, {8, 9}, {10, 11}, {12, 13}, {14, 15}, {16, 17}, {18, 19}, {20, 21},
	{1, 16}, {3, 18}, {5, 20}, {7, 22},
	{1, 8}, {3, 10}, {5, 12}, {7, 14}, {9, 16}, {11, 18}, {13, 20}, {15, 22},
	{1, 4}, {3, 6}, {5, 8}, {7, 10}, {9, 12}, {11, 14}, {13, 16}, {15, 18}, {17, 20}, {19, 22},
	{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}, {11, 12}, {13, 14}, {15, 16}, {17, 18}, {19, 20}, {21, 22},
}

// SortingNetwork returns a copy of the compiled-in 24-input sorting network.
func SortingNetwork() Network {
	return append(Network(nil), sortingNetwork...)
}

// Apply runs every compare-exchange in order over v.
func (n Network) Apply(v *[Samples]float32) {
	for _, p := range n {
		a, b := v[p.Lo], v[p.Hi]
		if b < a {
			v[p.Lo], v[p.Hi] = b, a
		}
	}
}

// Offsets are the neighbour positions relative to the destination cell, in
// sample order: dx from -2 to 2 in the outer loop, dy in the inner loop.
var Offsets = buildOffsets()

func buildOffsets() [Samples]image.Point {
	var out [Samples]image.Point
	c := 0
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out[c] = image.Pt(dx, dy)
			c++
		}
	}
	return out
}
