package video

// Luminance returns the Rec. 601 luma of an RGB pixel as an 8-bit value.
// This is the same weighting used by common grayscale conversions, so
// gradient lookups indexed by luminance match what a camera preview shows.
func Luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

// RGBToHSV converts an RGB pixel to HSV with hue scaled to 0-179 and
// saturation/value to 0-255. The halved hue keeps circular hue distance
// (used by motion detection) within byte range.
func RGBToHSV(r, g, b uint8) (h, s, v uint8) {
	rf := int(r)
	gf := int(g)
	bf := int(b)

	max := rf
	if gf > max {
		max = gf
	}
	if bf > max {
		max = bf
	}
	min := rf
	if gf < min {
		min = gf
	}
	if bf < min {
		min = bf
	}

	v = uint8(max)
	delta := max - min
	if max == 0 || delta == 0 {
		return 0, 0, v
	}
	s = uint8(255 * delta / max)

	var hue int
	switch max {
	case rf:
		hue = (60 * (gf - bf)) / delta
	case gf:
		hue = 120 + (60*(bf-rf))/delta
	default:
		hue = 240 + (60*(rf-gf))/delta
	}
	if hue < 0 {
		hue += 360
	}
	h = uint8(hue / 2)
	return h, s, v
}

// HueDistance returns the circular distance between two hues on the 0-179
// scale, in 0-90.
func HueDistance(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	if d > 90 {
		d = 180 - d
	}
	return d
}

// ClampU8 clamps an integer to the 0-255 range.
func ClampU8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
