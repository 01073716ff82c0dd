package gpu

// Uniforms maps uniform names to values. Supported value types are float32,
// float64, int, bool and [2]float32.
type Uniforms map[string]any

// Float returns a scalar uniform, converting ints and bools.
func (u Uniforms) Float(name string) float32 {
	switch v := u[name].(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// Vec2 returns a 2-component uniform or the zero vector.
func (u Uniforms) Vec2(name string) [2]float32 {
	v, _ := u[name].([2]float32)
	return v
}

// Bool returns a boolean uniform; non-zero scalars count as true.
func (u Uniforms) Bool(name string) bool {
	if v, ok := u[name].(bool); ok {
		return v
	}
	return u.Float(name) != 0
}
