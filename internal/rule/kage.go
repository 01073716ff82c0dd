package rule

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kage emits the program as an ebiten Kage fragment shader. Image slot 0 is
// the source grid and the Scale uniform holds the grid size in cells; reads
// wrap around the grid edges.
func (p Program) Kage() []byte {
	var b bytes.Buffer
	b.WriteString("//kage:unit pixels\n\npackage main\n\n")
	b.WriteString("var Scale vec2\n\n")
	b.WriteString("func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {\n")
	b.WriteString("\torigin := imageSrc0Origin()\n")
	b.WriteString("\tpos := srcPos - origin\n")
	for i, off := range Offsets {
		fmt.Fprintf(&b, "\tv%d := imageSrc0At(origin + mod(pos+vec2(%d.0, %d.0), Scale)).x\n", i, off.X, off.Y)
	}
	b.WriteString("\tvar tmp float\n")
	for _, s := range p.Network {
		fmt.Fprintf(&b, "\ttmp = v%d\n\tv%d = min(v%d, v%d)\n\tv%d = max(tmp, v%d)\n", s.Lo, s.Lo, s.Lo, s.Hi, s.Hi, s.Hi)
	}
	b.WriteString("\tres := 0.0")
	writeTerms(&b, p.Formula)
	b.WriteString("\n")
	if p.Clamp {
		b.WriteString("\tres = clamp(res, 0.0, 1.0)\n")
	}
	b.WriteString("\treturn vec4(res, res, res, 0.0)\n}\n")
	return b.Bytes()
}

func writeTerms(b *bytes.Buffer, f Formula) {
	for _, t := range f {
		if t.Coeff == 0 {
			continue
		}
		sample := "v" + strconv.Itoa(t.Index)
		if t.Op == Sqrt {
			sample = "sqrt(" + sample + ")"
		}
		fmt.Fprintf(b, " + (%s*%s)", formatCoeff(t.Coeff), sample)
	}
}

func formatCoeff(c float32) string {
	return strconv.FormatFloat(float64(c), 'f', 5, 32)
}
