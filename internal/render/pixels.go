package render

// EncodeRGBA converts cell values in [0,1] into opaque grey RGBA pixels in
// buf. Out-of-range values are clamped; buf must hold 4 bytes per cell.
func EncodeRGBA(buf []byte, cells []float32) {
	for i, c := range cells {
		v := toByte(c)
		base := i * 4
		buf[base+0] = v
		buf[base+1] = v
		buf[base+2] = v
		buf[base+3] = 255
	}
}

// DecodeRGBA reads the first channel of each RGBA pixel in buf into cells,
// normalised to [0,1].
func DecodeRGBA(cells []float32, buf []byte) {
	for i := range cells {
		cells[i] = float32(buf[i*4]) / 255
	}
}

func toByte(c float32) uint8 {
	if c != c || c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(c*255 + 0.5)
}
