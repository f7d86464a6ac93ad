package effects

import (
	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/video"
)

// solidFrame builds a test frame filled with one color.
func solidFrame(w, h int, r, g, b uint8) *video.Frame {
	f := video.NewFrame(w, h)
	f.Fill(r, g, b)
	return f
}

// stubEffect is a minimal Effect for chain tests. It appends its tag to
// a shared order slice on every Process call and can consume a chosen
// control token.
type stubEffect struct {
	id       string
	tag      string
	consumes Control

	order    *[]string
	lastFeat *audio.AudioFeatureSnapshot
	resets   int
	handled  []Control
}

func newStubEffect(tag string, order *[]string) *stubEffect {
	return &stubEffect{id: newEffectID("stub-" + tag), tag: tag, order: order}
}

func (s *stubEffect) Name() string { return "Stub(" + s.tag + ")" }
func (s *stubEffect) ID() string   { return s.id }

func (s *stubEffect) Process(frame *video.Frame, feat *audio.AudioFeatureSnapshot) *video.Frame {
	if s.order != nil {
		*s.order = append(*s.order, s.tag)
	}
	s.lastFeat = feat
	return frame
}

func (s *stubEffect) Params() []ParamSpec        { return nil }
func (s *stubEffect) Get(string) (float64, bool) { return 0, false }
func (s *stubEffect) Set(string, float64) bool   { return false }
func (s *stubEffect) Reset()                     { s.resets++ }

func (s *stubEffect) HandleControl(c Control) bool {
	s.handled = append(s.handled, c)
	return c == s.consumes && c != ""
}

// stubDetector returns a scripted sequence of detection results.
type stubDetector struct {
	boxes []Box
	found []bool
	calls int
}

func (d *stubDetector) Detect(_ []uint8, _, _ int) (Box, bool) {
	i := d.calls
	d.calls++
	if i >= len(d.found) {
		return Box{}, false
	}
	return d.boxes[i], d.found[i]
}
