package effects

import (
	"fmt"
	"math"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/video"
)

// Trail controls.
const (
	// ControlTrailMore adds an echo.
	ControlTrailMore Control = "trail.more"

	// ControlTrailFewer removes an echo.
	ControlTrailFewer Control = "trail.fewer"

	// ControlTrailOpacityUp raises the echo opacity.
	ControlTrailOpacityUp Control = "trail.opacity+"

	// ControlTrailOpacityDown lowers the echo opacity.
	ControlTrailOpacityDown Control = "trail.opacity-"
)

const trailOpacityStep = 0.05

// Trail composites the current frame with echoes of earlier frames.
// Echo i is the frame from i*gap ticks ago, blended at opacity^i, so
// older echoes are progressively fainter. The ring of retained frames
// is sized to exactly what the current settings need; shrinking the
// settings drops the oldest frames first.
type Trail struct {
	id      string
	frames  int
	gap     int
	opacity float64

	ring  []*video.Frame
	head  int
	count int
	w, h  int
}

// NewTrail creates a trail with 3 echoes, gap 4, opacity 0.5.
func NewTrail() *Trail {
	t := &Trail{
		id:      newEffectID("trail"),
		frames:  3,
		gap:     4,
		opacity: 0.5,
	}
	t.resize()
	return t
}

// Name returns the effect description.
func (t *Trail) Name() string {
	return fmt.Sprintf("Trail(%d)", t.frames)
}

// ID returns the instance identifier.
func (t *Trail) ID() string { return t.id }

// Process stores the incoming frame and blends the echoes into it.
func (t *Trail) Process(frame *video.Frame, _ *audio.AudioFeatureSnapshot) *video.Frame {
	if frame.Width != t.w || frame.Height != t.h {
		t.clear()
		t.w, t.h = frame.Width, frame.Height
	}

	t.ring[t.head] = frame.Clone()
	t.head = (t.head + 1) % len(t.ring)
	if t.count < len(t.ring) {
		t.count++
	}

	for i := 1; i < t.frames; i++ {
		back := i * t.gap
		if t.count <= back {
			break
		}
		idx := (t.head - 1 - back) % len(t.ring)
		if idx < 0 {
			idx += len(t.ring)
		}
		old := t.ring[idx]
		if !old.SameGeometry(frame) {
			break
		}
		w := uint32(math.Pow(t.opacity, float64(i))*256 + 0.5)
		inv := 256 - w
		for p, v := range frame.Pix {
			frame.Pix[p] = uint8((uint32(v)*inv + uint32(old.Pix[p])*w) >> 8)
		}
	}
	return frame
}

// Params describes frames, gap, and opacity.
func (t *Trail) Params() []ParamSpec {
	return []ParamSpec{
		{Name: "frames", Kind: KindInt, Min: 1, Max: 9, Step: 1, Default: 3},
		{Name: "gap", Kind: KindInt, Min: 1, Max: 8, Step: 1, Default: 4},
		{Name: "opacity", Kind: KindFloat, Min: 0, Max: 0.9, Step: trailOpacityStep, Default: 0.5},
	}
}

// Get returns the current value of a parameter.
func (t *Trail) Get(name string) (float64, bool) {
	switch name {
	case "frames":
		return float64(t.frames), true
	case "gap":
		return float64(t.gap), true
	case "opacity":
		return t.opacity, true
	}
	return 0, false
}

// Set assigns a parameter value, resizing the frame ring as needed.
func (t *Trail) Set(name string, v float64) bool {
	spec, ok := specByName(t.Params(), name)
	if !ok || !spec.Accepts(v) {
		return false
	}
	switch name {
	case "frames":
		t.frames = int(v)
		t.resize()
	case "gap":
		t.gap = int(v)
		t.resize()
	case "opacity":
		t.opacity = v
	}
	return true
}

// HandleControl handles the trail.* tokens.
func (t *Trail) HandleControl(c Control) bool {
	switch c {
	case ControlTrailMore:
		if t.frames < 9 {
			t.frames++
			t.resize()
		}
	case ControlTrailFewer:
		if t.frames > 1 {
			t.frames--
			t.resize()
		}
	case ControlTrailOpacityUp:
		t.opacity += trailOpacityStep
		if t.opacity > 0.9 {
			t.opacity = 0.9
		}
	case ControlTrailOpacityDown:
		t.opacity -= trailOpacityStep
		if t.opacity < 0 {
			t.opacity = 0
		}
	default:
		return false
	}
	return true
}

// Reset restores defaults and drops all retained frames.
func (t *Trail) Reset() {
	t.frames = 3
	t.gap = 4
	t.opacity = 0.5
	t.resize()
	t.clear()
}

// resize rebuilds the ring for the current settings, keeping the newest
// retained frames.
func (t *Trail) resize() {
	need := (t.frames-1)*t.gap + 1
	if need == len(t.ring) {
		return
	}

	n := t.count
	if n > need {
		n = need
	}
	fresh := make([]*video.Frame, need)
	for i := 0; i < n; i++ {
		idx := (t.head - 1 - i) % len(t.ring)
		if idx < 0 {
			idx += len(t.ring)
		}
		fresh[n-1-i] = t.ring[idx]
	}

	t.ring = fresh
	t.count = n
	t.head = n % need
}

// clear drops retained frames without resizing.
func (t *Trail) clear() {
	for i := range t.ring {
		t.ring[i] = nil
	}
	t.head = 0
	t.count = 0
}
