package effects

import (
	"fmt"
	"math"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/gradient"
	"github.com/opd-ai/vjkit/video"
)

// Reveal controls.
const (
	// ControlRevealNext selects the next gradient in the library.
	ControlRevealNext Control = "reveal.next"

	// ControlRevealPrev selects the previous gradient.
	ControlRevealPrev Control = "reveal.prev"
)

const (
	// revealDecay is the per-frame retention of accumulated velocity.
	revealDecay = 0.92

	// revealAccumulation scales new motion energy into the integrator.
	revealAccumulation = 0.7
)

// Reveal paints motion. Each pixel runs a leaky integrator over the
// HSV difference between consecutive frames; the integrated velocity
// maps through tanh to a depth that indexes the gradient. The output is
// entirely gradient colors, a blend of the base color and the depth
// color: the camera image drives the motion field but never shows
// through. A static scene decays back to the base color.
type Reveal struct {
	id          string
	lib         *gradient.Library
	sensitivity float64
	threshold   float64
	index       int

	lut      *gradient.LUT
	lutIndex int

	velocity []float32
	prevHSV  []uint8
	havePrev bool
	w, h     int
}

// NewReveal creates a motion reveal over the given library.
func NewReveal(lib *gradient.Library) *Reveal {
	if lib == nil {
		lib = gradient.NewLibrary("")
	}
	return &Reveal{
		id:          newEffectID("reveal"),
		lib:         lib,
		sensitivity: 120,
		threshold:   15,
		lutIndex:    -1,
	}
}

// Name returns the effect description with the current gradient.
func (r *Reveal) Name() string {
	return fmt.Sprintf("Reveal(%s)", r.lib.Get(r.index).Name)
}

// ID returns the instance identifier.
func (r *Reveal) ID() string { return r.id }

// Process integrates motion and rewrites the frame in gradient colors.
func (r *Reveal) Process(frame *video.Frame, _ *audio.AudioFeatureSnapshot) *video.Frame {
	if frame.Width != r.w || frame.Height != r.h {
		r.w, r.h = frame.Width, frame.Height
		n := r.w * r.h
		r.velocity = make([]float32, n)
		r.prevHSV = make([]uint8, n*video.Channels)
		r.havePrev = false
	}
	if r.lut == nil || r.lutIndex != r.index {
		r.lut = r.lib.Get(r.index).LUT()
		r.lutIndex = r.index
	}

	baseR, baseG, baseB := r.lut.At(0)
	pix := frame.Pix
	for p := 0; p < r.w*r.h; p++ {
		i := p * video.Channels
		hue, sat, val := video.RGBToHSV(pix[i], pix[i+1], pix[i+2])

		var energy float64
		if r.havePrev {
			dh := float64(video.HueDistance(hue, r.prevHSV[i])) / 180
			ds := (float64(sat) - float64(r.prevHSV[i+1])) / 255
			dv := (float64(val) - float64(r.prevHSV[i+2])) / 255
			sig := math.Sqrt(dh*dh+ds*ds+dv*dv) * 255
			energy = sig * sig / 255
			if energy < r.threshold {
				energy = 0
			}
		}
		r.prevHSV[i] = hue
		r.prevHSV[i+1] = sat
		r.prevHSV[i+2] = val

		vel := float64(r.velocity[p])*revealDecay + energy*revealAccumulation
		r.velocity[p] = float32(vel)

		depth := math.Tanh(vel / r.sensitivity)
		deepR, deepG, deepB := r.lut.At(uint8(depth*255 + 0.5))
		pix[i] = uint8((1-depth)*float64(baseR) + depth*float64(deepR) + 0.5)
		pix[i+1] = uint8((1-depth)*float64(baseG) + depth*float64(deepG) + 0.5)
		pix[i+2] = uint8((1-depth)*float64(baseB) + depth*float64(deepB) + 0.5)
	}
	r.havePrev = true
	return frame
}

// Params describes sensitivity, threshold, and the gradient index.
func (r *Reveal) Params() []ParamSpec {
	return []ParamSpec{
		{Name: "sensitivity", Kind: KindFloat, Min: 30, Max: 300, Step: 10, Default: 120},
		{Name: "threshold", Kind: KindFloat, Min: 5, Max: 50, Step: 1, Default: 15},
		{Name: "gradient", Kind: KindIndex, Min: 0, Max: float64(r.lib.Len() - 1), Step: 1, Default: 0},
	}
}

// Get returns the current value of a parameter.
func (r *Reveal) Get(name string) (float64, bool) {
	switch name {
	case "sensitivity":
		return r.sensitivity, true
	case "threshold":
		return r.threshold, true
	case "gradient":
		return float64(r.index), true
	}
	return 0, false
}

// Set assigns a parameter value.
func (r *Reveal) Set(name string, v float64) bool {
	spec, ok := specByName(r.Params(), name)
	if !ok || !spec.Accepts(v) {
		return false
	}
	switch name {
	case "sensitivity":
		r.sensitivity = v
	case "threshold":
		r.threshold = v
	case "gradient":
		r.index = int(v)
	}
	return true
}

// HandleControl handles the reveal.* tokens.
func (r *Reveal) HandleControl(c Control) bool {
	switch c {
	case ControlRevealNext:
		r.index = (r.index + 1) % r.lib.Len()
	case ControlRevealPrev:
		r.index = (r.index - 1 + r.lib.Len()) % r.lib.Len()
	default:
		return false
	}
	return true
}

// Reset restores defaults and zeroes the motion field.
func (r *Reveal) Reset() {
	r.sensitivity = 120
	r.threshold = 15
	r.index = 0
	r.lut = nil
	r.lutIndex = -1
	for i := range r.velocity {
		r.velocity[i] = 0
	}
	r.havePrev = false
}
