package audio

import (
	"time"
)

// Band identifies one of the fixed frequency bands.
type Band int

// The seven analysis bands, in ascending frequency order.
const (
	BandSubBass Band = iota
	BandBass
	BandLowMid
	BandMid
	BandHighMid
	BandPresence
	BandBrilliance

	NumBands = 7
)

// bandEdges holds the [low, high) frequency range of each band in Hz.
var bandEdges = [NumBands][2]float64{
	BandSubBass:    {20, 60},
	BandBass:       {60, 250},
	BandLowMid:     {250, 500},
	BandMid:        {500, 2000},
	BandHighMid:    {2000, 4000},
	BandPresence:   {4000, 6000},
	BandBrilliance: {6000, 20000},
}

var bandNames = [NumBands]string{
	"sub-bass", "bass", "low-mid", "mid", "high-mid", "presence", "brilliance",
}

// String returns the band's display name.
func (b Band) String() string {
	if b < 0 || b >= NumBands {
		return "unknown"
	}
	return bandNames[b]
}

// Range returns the band's [low, high) frequency boundaries in Hz.
func (b Band) Range() (low, high float64) {
	return bandEdges[b][0], bandEdges[b][1]
}

// AudioFeatureSnapshot is one immutable analysis result. A new snapshot
// supersedes the previous one; none is ever mutated after publication.
//
// Spectrum and Freqs always have the same length, constant for the life
// of the extractor that produced them. Spectrum magnitudes are normalized
// so a full-scale sine lands near 1.0 at its bin.
type AudioFeatureSnapshot struct {
	// Timestamp is the wall-clock completion time of the analysis pass.
	Timestamp time.Time

	// Generation increments by one per published snapshot, starting at 1.
	// The zero value marks the pre-analysis silent snapshot.
	Generation uint64

	// Spectrum holds normalized magnitude per FFT bin.
	Spectrum []float64

	// Freqs holds the center frequency of each bin in Hz. The slice is
	// shared across snapshots from one extractor; treat it as read-only.
	Freqs []float64

	// RMS is root-mean-square loudness of the analysis window, in [0, 1]
	// for full-scale input.
	RMS float64

	// TempoBPM is the current tempo estimate in beats per minute.
	// 0 means no rhythm detected.
	TempoBPM float64

	// Beat is true only on the analysis pass judged to contain a beat.
	Beat bool

	// BeatStrength is 1 on a beat and 0 otherwise.
	BeatStrength float64

	// Onset is true when any percussive transient was detected,
	// beat or not.
	Onset bool

	// Bands holds the normalized [0, 1] energy of each named band.
	Bands [NumBands]float64
}

// SilentSnapshot returns the snapshot readers observe before the first
// analysis pass: zero spectrum of the correct geometry, zero features.
func SilentSnapshot(freqs []float64) *AudioFeatureSnapshot {
	return &AudioFeatureSnapshot{
		Spectrum: make([]float64, len(freqs)),
		Freqs:    freqs,
	}
}

// SpectralCentroid returns the magnitude-weighted mean frequency in Hz,
// or 0 for an empty spectrum.
func (s *AudioFeatureSnapshot) SpectralCentroid() float64 {
	var num, den float64
	for i, m := range s.Spectrum {
		num += s.Freqs[i] * m
		den += m
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// DominantFrequency returns the frequency of the strongest bin, or 0 when
// the spectrum is silent.
func (s *AudioFeatureSnapshot) DominantFrequency() float64 {
	best := -1
	var bestMag float64
	for i, m := range s.Spectrum {
		if m > bestMag {
			bestMag = m
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return s.Freqs[best]
}

// SpectralRolloff returns the frequency below which frac of the total
// spectral energy lies. frac is clamped to (0, 1]. Returns 0 for silence.
func (s *AudioFeatureSnapshot) SpectralRolloff(frac float64) float64 {
	if frac <= 0 || frac > 1 {
		frac = 0.85
	}
	var total float64
	for _, m := range s.Spectrum {
		total += m * m
	}
	if total == 0 {
		return 0
	}
	target := frac * total
	var cum float64
	for i, m := range s.Spectrum {
		cum += m * m
		if cum >= target {
			return s.Freqs[i]
		}
	}
	return s.Freqs[len(s.Freqs)-1]
}
