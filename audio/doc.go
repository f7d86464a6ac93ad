// Package audio turns raw microphone blocks into the feature snapshots
// that drive audio-reactive visual effects.
//
// The Extractor consumes mono samples at a fixed rate, runs a windowed
// FFT every hop, and publishes one immutable AudioFeatureSnapshot per
// analysis pass to a FeatureBuffer:
//
//	ex, err := audio.NewExtractor(44100, 1024)
//	if err != nil {
//	    return err
//	}
//	// audio capture goroutine:
//	ex.Process(samples)
//	// video goroutine:
//	snap := ex.Buffer().Latest()
//
// # Features
//
// Each snapshot carries the magnitude spectrum with its frequency bins,
// RMS loudness, normalized energies for seven named frequency bands
// (sub-bass through brilliance), an onset flag from spectral flux against
// an adaptive threshold, and a tempo/beat estimate derived from
// inter-onset intervals. Tempo 0 means "no rhythm detected" and is a
// steady state, not an error: silence and arrhythmic input keep tempo at
// 0 with the beat flag never firing.
//
// # Hand-off
//
// FeatureBuffer is a single-slot atomic publish/read cell: one writer
// (the audio goroutine), one reader (the video goroutine), no locks, no
// queue. A reader that outpaces the writer re-reads the same snapshot;
// best-effort temporal association is the intended coupling, not
// frame-accurate alignment.
//
// # Thread Safety
//
// Extractor methods must be called from a single goroutine. FeatureBuffer
// is safe for one concurrent writer and any number of readers. Snapshots
// are immutable after publication.
package audio
