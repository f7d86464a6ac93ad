package effects

import (
	"math"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/video"
)

const (
	// spotlightSmoothing weights the previous box when a new detection
	// arrives, suppressing jitter.
	spotlightSmoothing = 0.7

	// spotlightPadding grows the detected box in pixels before masking.
	spotlightPadding = 30

	// spotlightFade is how many frames the mask takes to dissolve after
	// the grace period expires.
	spotlightFade = 15

	// spotlightFalloff is the soft edge width as a fraction of the
	// ellipse radius.
	spotlightFalloff = 0.5
)

// Spotlight isolates the most prominent face: everything outside a soft
// elliptical window around it fades to black. Detection runs every few
// frames over a grayscale view and the box is exponentially smoothed.
// When the face is lost the last window holds for a grace period and
// then dissolves to an unmasked frame, so a few missed detections never
// cause flicker. Without a detector the effect is a passthrough.
type Spotlight struct {
	id          string
	detector    FaceDetector
	detectEvery int
	grace       int

	bx, by, bw, bh float64
	haveBox        bool
	frames         int
	sinceSeen      int
	gray           []uint8
	w, h           int
}

// NewSpotlight creates a spotlight using the given detector, which may
// be nil.
func NewSpotlight(detector FaceDetector) *Spotlight {
	return &Spotlight{
		id:          newEffectID("spotlight"),
		detector:    detector,
		detectEvery: 2,
		grace:       30,
	}
}

// Name returns the effect description.
func (s *Spotlight) Name() string { return "Spotlight" }

// ID returns the instance identifier.
func (s *Spotlight) ID() string { return s.id }

// Process masks the frame around the tracked face.
func (s *Spotlight) Process(frame *video.Frame, _ *audio.AudioFeatureSnapshot) *video.Frame {
	if s.detector == nil {
		return frame
	}
	if frame.Width != s.w || frame.Height != s.h {
		s.w, s.h = frame.Width, frame.Height
		s.gray = make([]uint8, s.w*s.h)
		s.haveBox = false
	}

	s.sinceSeen++
	if s.frames%s.detectEvery == 0 {
		s.detect(frame)
	}
	s.frames++

	if !s.haveBox {
		return frame
	}

	alpha := 1.0
	if s.sinceSeen > s.grace {
		over := s.sinceSeen - s.grace
		if over >= spotlightFade {
			s.haveBox = false
			return frame
		}
		alpha = 1 - float64(over)/spotlightFade
	}

	s.applyMask(frame, alpha)
	return frame
}

// detect runs the detector and folds the result into the smoothed box.
func (s *Spotlight) detect(frame *video.Frame) {
	pix := frame.Pix
	for p := range s.gray {
		i := p * video.Channels
		s.gray[p] = video.Luminance(pix[i], pix[i+1], pix[i+2])
	}

	box, ok := s.detector.Detect(s.gray, s.w, s.h)
	if !ok {
		return
	}

	if s.haveBox {
		const k = spotlightSmoothing
		s.bx = k*s.bx + (1-k)*float64(box.X)
		s.by = k*s.by + (1-k)*float64(box.Y)
		s.bw = k*s.bw + (1-k)*float64(box.W)
		s.bh = k*s.bh + (1-k)*float64(box.H)
	} else {
		s.bx, s.by = float64(box.X), float64(box.Y)
		s.bw, s.bh = float64(box.W), float64(box.H)
		s.haveBox = true
	}
	s.sinceSeen = 0
}

// applyMask darkens everything outside the face ellipse. alpha scales
// the mask itself: at 0 the frame passes through untouched.
func (s *Spotlight) applyMask(frame *video.Frame, alpha float64) {
	cx := s.bx + s.bw/2
	cy := s.by + s.bh/2
	rx := s.bw/2 + spotlightPadding
	ry := s.bh/2 + spotlightPadding
	if rx <= 0 || ry <= 0 {
		return
	}

	const outer2 = (1 + spotlightFalloff) * (1 + spotlightFalloff)
	pix := frame.Pix
	for y := 0; y < s.h; y++ {
		ny := (float64(y) - cy) / ry
		ny2 := ny * ny
		base := y * s.w
		for x := 0; x < s.w; x++ {
			nx := (float64(x) - cx) / rx
			d2 := nx*nx + ny2

			var m float64
			switch {
			case d2 <= 1:
				m = 1
			case d2 >= outer2:
				m = 0
			default:
				m = 1 - (math.Sqrt(d2)-1)/spotlightFalloff
			}

			scale := m*alpha + (1 - alpha)
			if scale >= 1 {
				continue
			}
			w := uint32(scale * 256)
			i := (base + x) * video.Channels
			pix[i] = uint8(uint32(pix[i]) * w >> 8)
			pix[i+1] = uint8(uint32(pix[i+1]) * w >> 8)
			pix[i+2] = uint8(uint32(pix[i+2]) * w >> 8)
		}
	}
}

// Params describes the detection cadence and grace period.
func (s *Spotlight) Params() []ParamSpec {
	return []ParamSpec{
		{Name: "detect_every", Kind: KindInt, Min: 1, Max: 10, Step: 1, Default: 2},
		{Name: "grace", Kind: KindInt, Min: 0, Max: 120, Step: 1, Default: 30},
	}
}

// Get returns the current value of a parameter.
func (s *Spotlight) Get(name string) (float64, bool) {
	switch name {
	case "detect_every":
		return float64(s.detectEvery), true
	case "grace":
		return float64(s.grace), true
	}
	return 0, false
}

// Set assigns a parameter value.
func (s *Spotlight) Set(name string, v float64) bool {
	spec, ok := specByName(s.Params(), name)
	if !ok || !spec.Accepts(v) {
		return false
	}
	switch name {
	case "detect_every":
		s.detectEvery = int(v)
	case "grace":
		s.grace = int(v)
	}
	return true
}

// HandleControl recognizes no tokens.
func (s *Spotlight) HandleControl(Control) bool { return false }

// Reset restores defaults and forgets the tracked face.
func (s *Spotlight) Reset() {
	s.detectEvery = 2
	s.grace = 30
	s.haveBox = false
	s.frames = 0
	s.sinceSeen = 0
}
