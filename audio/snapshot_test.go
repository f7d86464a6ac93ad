package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandStringAndRange(t *testing.T) {
	tests := []struct {
		band Band
		name string
		low  float64
		high float64
	}{
		{BandSubBass, "sub-bass", 20, 60},
		{BandBass, "bass", 60, 250},
		{BandLowMid, "low-mid", 250, 500},
		{BandMid, "mid", 500, 2000},
		{BandHighMid, "high-mid", 2000, 4000},
		{BandPresence, "presence", 4000, 6000},
		{BandBrilliance, "brilliance", 6000, 20000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.band.String())
			low, high := tt.band.Range()
			assert.Equal(t, tt.low, low)
			assert.Equal(t, tt.high, high)
		})
	}

	assert.Equal(t, "unknown", Band(-1).String())
	assert.Equal(t, "unknown", Band(NumBands).String())
}

func TestBandEdgesContiguous(t *testing.T) {
	for b := Band(1); b < NumBands; b++ {
		_, prevHigh := (b - 1).Range()
		low, _ := b.Range()
		assert.Equal(t, prevHigh, low, "gap between %s and %s", b-1, b)
	}
}

func TestSilentSnapshot(t *testing.T) {
	freqs := []float64{0, 100, 200}
	s := SilentSnapshot(freqs)

	assert.Equal(t, uint64(0), s.Generation)
	assert.Len(t, s.Spectrum, 3)
	assert.Equal(t, 0.0, s.RMS)
	assert.Equal(t, 0.0, s.TempoBPM)
	assert.False(t, s.Beat)
	assert.False(t, s.Onset)
	for b := 0; b < NumBands; b++ {
		assert.Equal(t, 0.0, s.Bands[b])
	}

	assert.Equal(t, 0.0, s.SpectralCentroid())
	assert.Equal(t, 0.0, s.DominantFrequency())
	assert.Equal(t, 0.0, s.SpectralRolloff(0.85))
}

func TestSnapshotDerivedFeatures(t *testing.T) {
	s := &AudioFeatureSnapshot{
		Freqs:    []float64{0, 100, 200, 300, 400},
		Spectrum: []float64{0, 0, 1.0, 0.5, 0},
	}

	assert.InDelta(t, 233.33, s.SpectralCentroid(), 0.01)
	assert.Equal(t, 200.0, s.DominantFrequency())

	// Energies are 1.0 at 200 Hz and 0.25 at 300 Hz.
	assert.Equal(t, 200.0, s.SpectralRolloff(0.5))
	assert.Equal(t, 300.0, s.SpectralRolloff(0.85))

	// Out-of-range fractions fall back to 0.85.
	assert.Equal(t, 300.0, s.SpectralRolloff(-1))
	assert.Equal(t, 300.0, s.SpectralRolloff(2))
}
