package capture

import "github.com/opd-ai/vjkit/video"

// patternPalette holds the bar colors, brightest to darkest.
var patternPalette = [8][3]uint8{
	{235, 235, 235}, // white
	{235, 235, 16},  // yellow
	{16, 235, 235},  // cyan
	{16, 235, 16},   // green
	{235, 16, 235},  // magenta
	{235, 16, 16},   // red
	{16, 16, 235},   // blue
	{16, 16, 16},    // black
}

// patternScroll is how many pixels the bars move per frame.
const patternScroll = 2

// PatternSource is a synthetic camera producing scrolling color bars
// with a sweeping highlight line. Output is deterministic: the Nth frame
// is identical across runs, which makes it the camera of choice for
// tests, examples, and hardware-free demos.
type PatternSource struct {
	width  int
	height int
	tick   int
	frame  *video.Frame
}

// NewPatternSource creates a pattern camera with the given geometry.
func NewPatternSource(width, height int) *PatternSource {
	return &PatternSource{
		width:  width,
		height: height,
		frame:  video.NewFrame(width, height),
	}
}

// ReadFrame renders the next pattern frame. The returned frame is
// reused by the next call.
func (p *PatternSource) ReadFrame() (*video.Frame, error) {
	barWidth := p.width / len(patternPalette)
	if barWidth < 1 {
		barWidth = 1
	}
	offset := p.tick * patternScroll
	sweep := p.tick % p.height

	for y := 0; y < p.height; y++ {
		row := y * p.width * video.Channels
		boost := 0
		if y == sweep {
			boost = 64
		}
		for x := 0; x < p.width; x++ {
			c := patternPalette[((x+offset)/barWidth)%len(patternPalette)]
			i := row + x*video.Channels
			p.frame.Pix[i] = video.ClampU8(int(c[0]) + boost)
			p.frame.Pix[i+1] = video.ClampU8(int(c[1]) + boost)
			p.frame.Pix[i+2] = video.ClampU8(int(c[2]) + boost)
		}
	}

	p.frame.Mirrored = false
	p.tick++
	return p.frame, nil
}

// Close is a no-op; the pattern source holds no resources.
func (p *PatternSource) Close() error {
	return nil
}
