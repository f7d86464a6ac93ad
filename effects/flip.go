package effects

import (
	"fmt"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/video"
)

// Flip controls.
const (
	// ControlFlipToggleSync switches between frame counting and beat
	// sync.
	ControlFlipToggleSync Control = "flip.toggle-sync"

	// ControlFlipFaster shortens the flip interval.
	ControlFlipFaster Control = "flip.faster"

	// ControlFlipSlower lengthens the flip interval.
	ControlFlipSlower Control = "flip.slower"
)

const flipIntervalStep = 5

// Flip toggles the frame's mirror orientation on a schedule: every
// interval frames, or once per beat when beat sync is on. Pixels are
// untouched; only the frame's Mirrored flag is stamped, and the display
// boundary applies the actual reflection.
type Flip struct {
	id       string
	interval int
	beatSync bool

	mirrored    bool
	counter     int
	lastBeatGen uint64
}

// NewFlip creates a flip effect with the default 120-frame interval and
// beat sync off.
func NewFlip() *Flip {
	return &Flip{
		id:       newEffectID("flip"),
		interval: 120,
	}
}

// Name returns the effect description.
func (f *Flip) Name() string {
	if f.beatSync {
		return "Flip(beat)"
	}
	return fmt.Sprintf("Flip(%d)", f.interval)
}

// ID returns the instance identifier.
func (f *Flip) ID() string { return f.id }

// Process advances the flip schedule and stamps the mirror flag.
func (f *Flip) Process(frame *video.Frame, feat *audio.AudioFeatureSnapshot) *video.Frame {
	if f.beatSync {
		// One flip per distinct beat. The same snapshot can be read on
		// several consecutive ticks, so dedup by generation.
		if feat != nil && feat.Beat && feat.Generation != f.lastBeatGen {
			f.lastBeatGen = feat.Generation
			f.mirrored = !f.mirrored
		}
	} else {
		f.counter++
		if f.counter >= f.interval {
			f.mirrored = !f.mirrored
			f.counter = 0
		}
	}
	frame.Mirrored = f.mirrored
	return frame
}

// Params describes interval and beat_sync.
func (f *Flip) Params() []ParamSpec {
	return []ParamSpec{
		{Name: "interval", Kind: KindInt, Min: 1, Max: 120, Step: 1, Default: 120},
		{Name: "beat_sync", Kind: KindBool, Min: 0, Max: 1, Step: 1, Default: 0},
	}
}

// Get returns the current value of a parameter.
func (f *Flip) Get(name string) (float64, bool) {
	switch name {
	case "interval":
		return float64(f.interval), true
	case "beat_sync":
		if f.beatSync {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Set assigns a parameter value. The in-flight frame count survives a
// beat_sync change, so switching modes neither loses nor double-counts
// progress toward the next flip.
func (f *Flip) Set(name string, v float64) bool {
	spec, ok := specByName(f.Params(), name)
	if !ok || !spec.Accepts(v) {
		return false
	}
	switch name {
	case "interval":
		f.interval = int(v)
	case "beat_sync":
		f.beatSync = v == 1
	}
	return true
}

// HandleControl handles the flip.* tokens.
func (f *Flip) HandleControl(c Control) bool {
	switch c {
	case ControlFlipToggleSync:
		f.beatSync = !f.beatSync
	case ControlFlipFaster:
		f.interval -= flipIntervalStep
		if f.interval < 1 {
			f.interval = 1
		}
	case ControlFlipSlower:
		f.interval += flipIntervalStep
		if f.interval > 120 {
			f.interval = 120
		}
	default:
		return false
	}
	return true
}

// Reset restores defaults and clears the counter and orientation.
func (f *Flip) Reset() {
	f.interval = 120
	f.beatSync = false
	f.mirrored = false
	f.counter = 0
	f.lastBeatGen = 0
}
