package rule

import (
	"strconv"
	"strings"
)

// Variant selects which order-statistic formula a compiled step program uses.
type Variant uint8

const (
	// VariantA weights order statistics 2, 12 and 23.
	VariantA Variant = iota
	// VariantB weights seven order statistics between 4 and 22.
	VariantB
	// VariantD penalises the four smallest samples and boosts the median.
	VariantD
	// VariantSqrt mixes the square root of the maximum with four order statistics.
	VariantSqrt
)

// DefaultVariant is used for any selector the compiler does not recognise.
const DefaultVariant = VariantD

var variantNames = [...]string{
	VariantA:    "a",
	VariantB:    "b",
	VariantD:    "d",
	VariantSqrt: "sqrt",
}

// Variants lists every shipped variant in selector order.
func Variants() []Variant {
	return []Variant{VariantA, VariantB, VariantD, VariantSqrt}
}

// String returns the short name accepted by ParseVariant.
func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "variant(" + strconv.Itoa(int(v)) + ")"
}

// Known reports whether v is one of the shipped variants.
func (v Variant) Known() bool { return int(v) < len(variantNames) }

// ParseVariant resolves a name ("a", "b", "d", "sqrt") or a numeric selector
// ("0".."3"). Unknown input yields DefaultVariant and ok=false.
func ParseVariant(s string) (Variant, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range variantNames {
		if s == name {
			return Variant(i), true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(variantNames) {
		return Variant(n), true
	}
	return DefaultVariant, false
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names fall back
// to DefaultVariant rather than failing, matching the compiler's behaviour.
func (v *Variant) UnmarshalText(b []byte) error {
	*v, _ = ParseVariant(string(b))
	return nil
}
