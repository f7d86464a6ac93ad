package effects

import (
	"fmt"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/video"
)

// Diamond controls.
const (
	// ControlDiamondGrow enlarges the tile.
	ControlDiamondGrow Control = "diamond.grow"

	// ControlDiamondShrink reduces the tile.
	ControlDiamondShrink Control = "diamond.shrink"
)

// Diamond inverts pixels selected by a tessellated diamond mask. The
// pattern is periodic with period tile+1 along both axes; rows mirror
// around the tile midline, leaving diamond-shaped windows of untouched
// pixels in an inverted field. The mask is cached per frame geometry
// and tile size.
type Diamond struct {
	id   string
	tile int

	mask []bool
	w, h int
}

// NewDiamond creates a diamond tessellation with the default 63 tile.
func NewDiamond() *Diamond {
	return &Diamond{
		id:   newEffectID("diamond"),
		tile: 63,
	}
}

// Name returns the effect description.
func (d *Diamond) Name() string {
	return fmt.Sprintf("Diamond(%d)", d.tile)
}

// ID returns the instance identifier.
func (d *Diamond) ID() string { return d.id }

// Process inverts the masked pixels in place.
func (d *Diamond) Process(frame *video.Frame, _ *audio.AudioFeatureSnapshot) *video.Frame {
	if d.mask == nil || frame.Width != d.w || frame.Height != d.h {
		d.buildMask(frame.Width, frame.Height)
	}

	pix := frame.Pix
	for p, inverted := range d.mask {
		if !inverted {
			continue
		}
		i := p * video.Channels
		pix[i] = 255 - pix[i]
		pix[i+1] = 255 - pix[i+1]
		pix[i+2] = 255 - pix[i+2]
	}
	return frame
}

// buildMask computes the per-pixel inversion pattern for the geometry.
func (d *Diamond) buildMask(w, h int) {
	d.w, d.h = w, h
	if len(d.mask) != w*h {
		d.mask = make([]bool, w*h)
	}

	n := d.tile
	cycle := n + 1
	for y := 0; y < h; y++ {
		row := y % cycle
		if row > n/2 {
			row = n - 1 - row
		}
		numZeros := n - 2*row
		base := y * w
		for x := 0; x < w; x++ {
			ax := (x - row) % cycle
			if ax < 0 {
				ax += cycle
			}
			d.mask[base+x] = ax >= numZeros
		}
	}
}

// Params describes the tile size.
func (d *Diamond) Params() []ParamSpec {
	return []ParamSpec{
		{Name: "tile", Kind: KindInt, Min: 9, Max: 81, Step: 9, Default: 63},
	}
}

// Get returns the current value of a parameter.
func (d *Diamond) Get(name string) (float64, bool) {
	if name == "tile" {
		return float64(d.tile), true
	}
	return 0, false
}

// Set assigns a parameter value. Tile sizes are multiples of 9.
func (d *Diamond) Set(name string, v float64) bool {
	spec, ok := specByName(d.Params(), name)
	if !ok || !spec.Accepts(v) {
		return false
	}
	d.tile = int(v)
	d.mask = nil
	return true
}

// HandleControl handles the diamond.* tokens.
func (d *Diamond) HandleControl(c Control) bool {
	spec := d.Params()[0]
	switch c {
	case ControlDiamondGrow:
		d.tile = int(spec.Clamp(float64(d.tile) + spec.Step))
	case ControlDiamondShrink:
		d.tile = int(spec.Clamp(float64(d.tile) - spec.Step))
	default:
		return false
	}
	d.mask = nil
	return true
}

// Reset restores the default tile.
func (d *Diamond) Reset() {
	d.tile = 63
	d.mask = nil
}
