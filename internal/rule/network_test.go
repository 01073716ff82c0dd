package rule

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkShape(t *testing.T) {
	net := SortingNetwork()
	require.Len(t, net, 127)
	for i, p := range net {
		assert.True(t, p.Lo >= 0 && p.Lo < p.Hi && p.Hi < Samples, "step %d: %v", i, p)
	}

	net[0] = Pair{5, 6}
	assert.Equal(t, Pair{0, 16}, SortingNetwork()[0], "SortingNetwork must return a copy")
}

func TestNetworkSortsRandomInputs(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	net := SortingNetwork()
	for trial := 0; trial < 5000; trial++ {
		var v [Samples]float32
		for i := range v {
			v[i] = rng.Float32()
		}
		want := v
		slices.Sort(want[:])
		net.Apply(&v)
		require.Equal(t, want, v, "trial %d", trial)
	}
}

func TestNetworkSortsAdversarialInputs(t *testing.T) {
	net := SortingNetwork()

	var equal [Samples]float32
	for i := range equal {
		equal[i] = 0.5
	}
	got := equal
	net.Apply(&got)
	assert.Equal(t, equal, got)

	var reversed [Samples]float32
	for i := range reversed {
		reversed[i] = float32(Samples-i) / Samples
	}
	net.Apply(&reversed)
	assert.True(t, slices.IsSorted(reversed[:]), "reverse input not sorted: %v", reversed)

	var sorted [Samples]float32
	for i := range sorted {
		sorted[i] = float32(i)
	}
	want := sorted
	net.Apply(&sorted)
	assert.Equal(t, want, sorted)
}

// TestNetworkZeroOne checks every 0/1 input. By the zero-one principle this
// proves the network sorts arbitrary inputs. Each wire holds one bit per
// input pattern so a compare-exchange is an AND/OR over the whole set.
func TestNetworkZeroOne(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive check skipped in short mode")
	}
	const patterns = 1 << Samples
	const words = patterns / 64
	var wires [Samples][]uint64
	for i := range wires {
		var low uint64
		for b := 0; b < 64; b++ {
			if (b>>i)&1 == 1 {
				low |= 1 << b
			}
		}
		w := make([]uint64, words)
		for word := range w {
			switch {
			case i < 6:
				w[word] = low
			case (word>>(i-6))&1 == 1:
				w[word] = ^uint64(0)
			}
		}
		wires[i] = w
	}
	for _, p := range SortingNetwork() {
		lo, hi := wires[p.Lo], wires[p.Hi]
		for k := range lo {
			lo[k], hi[k] = lo[k]&hi[k], lo[k]|hi[k]
		}
	}
	for j := 0; j < Samples-1; j++ {
		a, b := wires[j], wires[j+1]
		for k := range a {
			if a[k]&^b[k] != 0 {
				t.Fatalf("wire %d holds a 1 above a 0 on wire %d (word %d)", j, j+1, k)
			}
		}
	}
}

func TestOffsetsExcludeCentre(t *testing.T) {
	seen := map[[2]int]bool{}
	for _, off := range Offsets {
		assert.False(t, off.X == 0 && off.Y == 0)
		assert.True(t, off.X >= -2 && off.X <= 2 && off.Y >= -2 && off.Y <= 2)
		seen[[2]int{off.X, off.Y}] = true
	}
	assert.Len(t, seen, Samples)
	assert.Equal(t, [2]int{-2, -2}, [2]int{Offsets[0].X, Offsets[0].Y})
	assert.Equal(t, [2]int{-2, -1}, [2]int{Offsets[1].X, Offsets[1].Y})
}
