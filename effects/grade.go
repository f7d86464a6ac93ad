package effects

import (
	"fmt"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/gradient"
	"github.com/opd-ai/vjkit/video"
)

// Grade controls.
const (
	// ControlGradeNext selects the next gradient in the library.
	ControlGradeNext Control = "grade.next"

	// ControlGradePrev selects the previous gradient.
	ControlGradePrev Control = "grade.prev"

	// ControlGradeOpacityUp raises the blend opacity.
	ControlGradeOpacityUp Control = "grade.opacity+"

	// ControlGradeOpacityDown lowers the blend opacity.
	ControlGradeOpacityDown Control = "grade.opacity-"
)

// Grade maps each pixel's luminance through a gradient lookup table and
// blends the mapped color over the original by opacity. Opacity 0 is a
// passthrough, 1 replaces the frame with the tone-mapped image.
type Grade struct {
	id      string
	lib     *gradient.Library
	opacity float64
	index   int

	lut      *gradient.LUT
	lutIndex int
}

// NewGrade creates a color grade over the given library at half opacity
// using the library's first gradient.
func NewGrade(lib *gradient.Library) *Grade {
	if lib == nil {
		lib = gradient.NewLibrary("")
	}
	return &Grade{
		id:       newEffectID("grade"),
		lib:      lib,
		opacity:  0.5,
		lutIndex: -1,
	}
}

// Name returns the effect description with the current gradient.
func (g *Grade) Name() string {
	return fmt.Sprintf("Grade(%s %.0f%%)", g.lib.Get(g.index).Name, g.opacity*100)
}

// ID returns the instance identifier.
func (g *Grade) ID() string { return g.id }

// Process tone-maps the frame through the gradient.
func (g *Grade) Process(frame *video.Frame, _ *audio.AudioFeatureSnapshot) *video.Frame {
	if g.opacity == 0 {
		return frame
	}
	if g.lut == nil || g.lutIndex != g.index {
		g.lut = g.lib.Get(g.index).LUT()
		g.lutIndex = g.index
	}

	w := uint32(g.opacity*256 + 0.5)
	if w > 256 {
		w = 256
	}
	inv := 256 - w
	pix := frame.Pix
	for i := 0; i+2 < len(pix); i += video.Channels {
		l := video.Luminance(pix[i], pix[i+1], pix[i+2])
		r, gr, b := g.lut.At(l)
		pix[i] = uint8((uint32(pix[i])*inv + uint32(r)*w) >> 8)
		pix[i+1] = uint8((uint32(pix[i+1])*inv + uint32(gr)*w) >> 8)
		pix[i+2] = uint8((uint32(pix[i+2])*inv + uint32(b)*w) >> 8)
	}
	return frame
}

// Params describes opacity and the gradient index.
func (g *Grade) Params() []ParamSpec {
	return []ParamSpec{
		{Name: "opacity", Kind: KindFloat, Min: 0, Max: 1, Step: 0.1, Default: 0.5},
		{Name: "gradient", Kind: KindIndex, Min: 0, Max: float64(g.lib.Len() - 1), Step: 1, Default: 0},
	}
}

// Get returns the current value of a parameter.
func (g *Grade) Get(name string) (float64, bool) {
	switch name {
	case "opacity":
		return g.opacity, true
	case "gradient":
		return float64(g.index), true
	}
	return 0, false
}

// Set assigns a parameter value.
func (g *Grade) Set(name string, v float64) bool {
	spec, ok := specByName(g.Params(), name)
	if !ok || !spec.Accepts(v) {
		return false
	}
	switch name {
	case "opacity":
		g.opacity = v
	case "gradient":
		g.index = int(v)
	}
	return true
}

// HandleControl handles the grade.* tokens.
func (g *Grade) HandleControl(c Control) bool {
	switch c {
	case ControlGradeNext:
		g.index = (g.index + 1) % g.lib.Len()
	case ControlGradePrev:
		g.index = (g.index - 1 + g.lib.Len()) % g.lib.Len()
	case ControlGradeOpacityUp:
		g.opacity += 0.1
		if g.opacity > 1 {
			g.opacity = 1
		}
	case ControlGradeOpacityDown:
		g.opacity -= 0.1
		if g.opacity < 0 {
			g.opacity = 0
		}
	default:
		return false
	}
	return true
}

// Reset restores defaults. The gradient library itself is untouched.
func (g *Grade) Reset() {
	g.opacity = 0.5
	g.index = 0
	g.lut = nil
	g.lutIndex = -1
}
