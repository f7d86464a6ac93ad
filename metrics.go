package vjkit

import (
	"sync/atomic"
	"time"

	"github.com/opd-ai/vjkit/audio"
)

// metricsEMAWeight is the weight of a new observation in the smoothed
// effect-time and tick-interval values.
const metricsEMAWeight = 0.1

// Metrics counts pipeline activity. The video counters are written only
// by the tick goroutine and the audio counters only by the capture
// goroutine; every field is atomic so Snapshot can be read from
// anywhere without stalling either side.
type Metrics struct {
	frames    atomic.Uint64
	overruns  atomic.Uint64
	dropped   atomic.Uint64
	blocks    atomic.Uint64
	snapshots atomic.Uint64
	onsets    atomic.Uint64
	beats     atomic.Uint64

	effectNanos atomic.Int64
	tickNanos   atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the pipeline counters.
type MetricsSnapshot struct {
	// FramesProcessed counts completed ticks: frames captured, run
	// through the chain, and displayed.
	FramesProcessed uint64

	// TicksOverrun counts ticks whose processing exceeded the frame
	// interval. Overruns skip the pacing sleep, never double-process.
	TicksOverrun uint64

	// FramesDropped counts camera reads that failed.
	FramesDropped uint64

	// AudioBlocks counts capture callbacks delivered to the extractor.
	AudioBlocks uint64

	// FeatureSnapshots counts published analysis results.
	FeatureSnapshots uint64

	// Onsets and Beats count snapshots with the respective flag set.
	Onsets uint64
	Beats  uint64

	// EffectTime is the smoothed cost of one chain pass.
	EffectTime time.Duration

	// ActualFPS is derived from the smoothed tick interval; 0 until two
	// frames have been processed.
	ActualFPS float64
}

func (m *Metrics) observeFrame()   { m.frames.Add(1) }
func (m *Metrics) observeOverrun() { m.overruns.Add(1) }
func (m *Metrics) observeDrop()    { m.dropped.Add(1) }
func (m *Metrics) observeBlock()   { m.blocks.Add(1) }

// observeSnapshot tallies one published feature snapshot. Registered as
// the extractor's snapshot hook, so it runs on the audio goroutine.
func (m *Metrics) observeSnapshot(s *audio.AudioFeatureSnapshot) {
	m.snapshots.Add(1)
	if s.Onset {
		m.onsets.Add(1)
	}
	if s.Beat {
		m.beats.Add(1)
	}
}

// observeEffectTime folds one chain-pass duration into the smoothed
// cost. Called only from the tick goroutine.
func (m *Metrics) observeEffectTime(d time.Duration) {
	m.effectNanos.Store(emaNanos(m.effectNanos.Load(), d))
}

// observeTick folds one frame-to-frame interval into the smoothed tick
// time. Called only from the tick goroutine.
func (m *Metrics) observeTick(d time.Duration) {
	m.tickNanos.Store(emaNanos(m.tickNanos.Load(), d))
}

func emaNanos(prev int64, d time.Duration) int64 {
	if prev == 0 {
		return int64(d)
	}
	return prev + int64(metricsEMAWeight*float64(int64(d)-prev))
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		FramesProcessed:  m.frames.Load(),
		TicksOverrun:     m.overruns.Load(),
		FramesDropped:    m.dropped.Load(),
		AudioBlocks:      m.blocks.Load(),
		FeatureSnapshots: m.snapshots.Load(),
		Onsets:           m.onsets.Load(),
		Beats:            m.beats.Load(),
		EffectTime:       time.Duration(m.effectNanos.Load()),
	}
	if tick := m.tickNanos.Load(); tick > 0 {
		s.ActualFPS = float64(time.Second) / float64(tick)
	}
	return s
}
