package audio

import "sync/atomic"

// FeatureBuffer is the single hand-off point between the audio context
// and the video context. It holds exactly one snapshot, replaced
// atomically on publish. There is no queue: a reader that ticks faster
// than the writer re-reads the same snapshot. Neither side ever blocks,
// and a reader can never observe a partially written snapshot.
type FeatureBuffer struct {
	slot   atomic.Pointer[AudioFeatureSnapshot]
	silent *AudioFeatureSnapshot
}

// NewFeatureBuffer creates a buffer whose pre-publish reads return the
// given silent snapshot.
func NewFeatureBuffer(silent *AudioFeatureSnapshot) *FeatureBuffer {
	return &FeatureBuffer{silent: silent}
}

// Publish replaces the held snapshot. The snapshot must not be mutated
// after this call.
func (b *FeatureBuffer) Publish(s *AudioFeatureSnapshot) {
	b.slot.Store(s)
}

// Latest returns the most recently published snapshot, or the silent
// default before the first publish. Never nil, never blocks.
func (b *FeatureBuffer) Latest() *AudioFeatureSnapshot {
	if s := b.slot.Load(); s != nil {
		return s
	}
	return b.silent
}
