package rule

import (
	"bytes"
	"fmt"
)

// VertexGLSL passes the full-screen quad through to clip space unchanged.
const VertexGLSL = `precision mediump float;
attribute vec2 quad;
void main() {
    gl_Position = vec4(quad, 0, 1.0);
}
`

// GLSL emits the program as a GLSL ES fragment shader taking the `state`
// sampler and the `scale` grid size. Wrapping comes from the texture's
// repeat addressing.
func (p Program) GLSL() string {
	var b bytes.Buffer
	b.WriteString("precision mediump float;\n")
	b.WriteString("uniform sampler2D state;\n")
	b.WriteString("uniform vec2 scale;\n")
	b.WriteString("void main() {\n")
	b.WriteString("vec2 pos = gl_FragCoord.xy/scale, step = vec2(1.0, 1.0)/scale;\n")
	b.WriteString("float ")
	for i := 0; i < Samples; i++ {
		if i != 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "v%d", i)
	}
	b.WriteString(";\n")
	for i, off := range Offsets {
		fmt.Fprintf(&b, "v%d = texture2D(state, vec2(pos.x+(%d.0*step.x), pos.y+(%d.0*step.y))).x;\n", i, off.X, off.Y)
	}
	b.WriteString("float tmp;\n")
	for _, s := range p.Network {
		fmt.Fprintf(&b, "tmp = v%d;\nv%d=min(v%d, v%d);\nv%d=max(tmp, v%d);\n", s.Lo, s.Lo, s.Lo, s.Hi, s.Hi, s.Hi)
	}
	b.WriteString("float res = 0.0")
	writeTerms(&b, p.Formula)
	b.WriteString(";\n")
	if p.Clamp {
		b.WriteString("res = clamp(res, 0.0, 1.0);\n")
	}
	b.WriteString("gl_FragColor = vec4(res, res, res, 0);\n}\n")
	return b.String()
}
