package capture

import "github.com/opd-ai/vjkit/video"

// YUYVToRGB converts a packed YUYV 4:2:2 buffer into dst's RGB pixels
// using the BT.601 integer conversion. dst must already have the frame
// geometry; src must hold at least Width*Height*2 bytes. Extra trailing
// bytes are ignored.
func YUYVToRGB(src []byte, dst *video.Frame) {
	pixels := dst.Width * dst.Height
	si := 0
	di := 0
	for p := 0; p < pixels; p += 2 {
		y0 := int(src[si])
		u := int(src[si+1])
		y1 := int(src[si+2])
		v := int(src[si+3])
		si += 4

		d := u - 128
		e := v - 128
		di = writeYUV(dst.Pix, di, y0, d, e)
		di = writeYUV(dst.Pix, di, y1, d, e)
	}
}

// writeYUV expands one luma sample against shared chroma offsets and
// writes the RGB triple at pix[i:], returning the next index.
func writeYUV(pix []uint8, i, y, d, e int) int {
	c := 298 * (y - 16)
	pix[i] = video.ClampU8((c + 409*e + 128) >> 8)
	pix[i+1] = video.ClampU8((c - 100*d - 208*e + 128) >> 8)
	pix[i+2] = video.ClampU8((c + 516*d + 128) >> 8)
	return i + video.Channels
}
