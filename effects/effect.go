package effects

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/video"
)

// Control is a one-shot action token routed through the chain, such as
// "flip.toggle-sync" or "grade.next". Effects ignore tokens they do not
// recognize.
type Control string

// Effect is one stage of the video chain.
//
// Process transforms a frame using the current feature snapshot and the
// effect's internal state. It never fails: given a valid frame it
// returns a valid frame of the same dimensions, mutated in place or
// freshly allocated. Set rejects unknown parameter names and invalid
// values by returning false with state unchanged. Reset restores
// default parameters and clears accumulated history.
type Effect interface {
	// Name returns a human-readable description including key settings.
	Name() string

	// ID returns the unique instance identifier, stable for the
	// effect's lifetime.
	ID() string

	// Process applies the effect to frame.
	Process(frame *video.Frame, feat *audio.AudioFeatureSnapshot) *video.Frame

	// Params describes the effect's tunable parameters.
	Params() []ParamSpec

	// Get returns the current value of a parameter.
	Get(name string) (float64, bool)

	// Set assigns a parameter value, reporting whether it was accepted.
	Set(name string, v float64) bool

	// HandleControl reports whether the effect consumed the token.
	HandleControl(c Control) bool

	// Reset restores defaults and clears history.
	Reset()
}

// newEffectID builds an instance ID like "trail-9f1c2a7d".
func newEffectID(kind string) string {
	return fmt.Sprintf("%s-%.8s", kind, uuid.NewString())
}
