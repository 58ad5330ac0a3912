package view

import "math"

var (
	traceColor = [4]byte{240, 240, 240, 255}
	axisColor  = [4]byte{30, 40, 80, 255}
	clipColor  = [4]byte{255, 0, 0, 255}
)

// columnSample returns the sample of largest magnitude among the lattice
// points mapped to column x, keeping its sign.
func columnSample(field []float64, x, width int) float64 {
	n := len(field)
	lo := x * n / width
	hi := (x + 1) * n / width
	if hi <= lo {
		hi = lo + 1
	}
	if hi > n {
		hi = n
	}
	best := 0.0
	for j := lo; j < hi; j++ {
		if v := field[j]; math.Abs(v) > math.Abs(best) || math.IsNaN(v) {
			best = v
		}
	}
	return best
}

// plotField rasterizes field into dst, an RGBA image of width*height pixels.
// Each column draws a bar from the zero line to the column sample; scale is
// the amplitude mapped to half the height. Out-of-range and non-finite
// samples are drawn clipped in red.
func plotField(dst []byte, width, height int, field []float64, scale float64) {
	clear(dst)
	for i := 3; i < len(dst); i += 4 {
		dst[i] = 255
	}
	if width <= 0 || height <= 0 || len(field) == 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	mid := height / 2
	for x := 0; x < width; x++ {
		setPixel(dst, width, x, mid, axisColor)
	}
	half := float64(height/2 - 1)
	for x := 0; x < width; x++ {
		v := columnSample(field, x, width)
		c := traceColor
		offset := v / scale * half
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(offset) > half {
			c = clipColor
			switch {
			case math.IsNaN(v), v > 0:
				offset = half
			default:
				offset = -half
			}
		}
		top := mid - int(math.Round(offset))
		y0, y1 := mid, top
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		for y := y0; y <= y1; y++ {
			setPixel(dst, width, x, y, c)
		}
	}
}

func setPixel(dst []byte, width, x, y int, c [4]byte) {
	base := (y*width + x) * 4
	if base < 0 || base+3 >= len(dst) {
		return
	}
	copy(dst[base:base+4], c[:])
}
