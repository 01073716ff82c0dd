package rule

import "math"

// Op identifies how a Term contributes to the result.
type Op uint8

const (
	// Linear contributes Coeff * v[Index].
	Linear Op = iota
	// Sqrt contributes Coeff * sqrt(v[Index]).
	Sqrt
)

// Term is one summand of a Formula over the sorted samples.
type Term struct {
	Op    Op
	Index int
	Coeff float32
}

// Formula is a sum of terms with no bias. Order statistics that no term
// references contribute nothing.
type Formula []Term

// Eval computes the formula over ascending-sorted samples without clamping.
func (f Formula) Eval(sorted *[Samples]float32) float32 {
	var res float32
	for _, t := range f {
		v := sorted[t.Index]
		if t.Op == Sqrt {
			v = float32(math.Sqrt(float64(v)))
		}
		res += t.Coeff * v
	}
	return res
}

// Program is the intermediate form of a step program: the sorting network
// that orders the neighbour samples and the formula reading the result.
type Program struct {
	Variant Variant
	Network Network
	Formula Formula
	// Clamp limits the written value to [0,1] instead of relying on the
	// render target's write behaviour.
	Clamp bool
}

var formulas = map[Variant]Formula{
	VariantA: {
		{Linear, 2, -0.205},
		{Linear, 12, 1.275},
		{Linear, 23, -0.09},
	},
	VariantB: {
		{Linear, 4, -0.9},
		{Linear, 5, -0.9},
		{Linear, 7, 1.1},
		{Linear, 8, 1.3},
		{Linear, 9, 0.25},
		{Linear, 20, -0.05},
		{Linear, 22, 0.16},
	},
	VariantD: {
		{Linear, 0, -0.4},
		{Linear, 1, -0.4},
		{Linear, 2, -0.4},
		{Linear, 3, -0.4},
		{Linear, 11, -0.3},
		{Linear, 12, 2},
	},
	VariantSqrt: {
		{Sqrt, 23, -0.038},
		{Linear, 20, 0.045},
		{Linear, 10, 0.84},
		{Linear, 7, 0.9},
		{Linear, 6, -0.8},
	},
}

// Compile builds the step program for v. Unknown variants compile to
// DefaultVariant; compilation itself cannot fail.
func Compile(v Variant) Program {
	if !v.Known() {
		v = DefaultVariant
	}
	return Program{
		Variant: v,
		Network: SortingNetwork(),
		Formula: append(Formula(nil), formulas[v]...),
		Clamp:   true,
	}
}

// Eval applies the formula to already sorted samples.
func (p Program) Eval(sorted *[Samples]float32) float32 {
	return p.Formula.Eval(sorted)
}

// Next computes a cell's next state from its 24 neighbour samples, given in
// Offsets order. The input array is not modified.
func (p Program) Next(neighbours [Samples]float32) float32 {
	p.Network.Apply(&neighbours)
	res := p.Formula.Eval(&neighbours)
	if p.Clamp {
		res = min(max(res, 0), 1)
	}
	return res
}
