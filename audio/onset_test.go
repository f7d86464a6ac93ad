package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatSpectrum(bins int, level float64) []float64 {
	s := make([]float64, bins)
	for i := range s {
		s[i] = level
	}
	return s
}

func TestOnsetDetectorSteadySignalNeverFires(t *testing.T) {
	d := newOnsetDetector(8)
	loud := flatSpectrum(8, 0.5)

	for i := 0; i < 100; i++ {
		onset, _ := d.process(loud, float64(i)*0.01)
		assert.False(t, onset, "pass %d", i)
	}
}

func TestOnsetDetectorFiresOnTransient(t *testing.T) {
	d := newOnsetDetector(8)
	quiet := flatSpectrum(8, 0.001)
	loud := flatSpectrum(8, 0.5)

	for i := 0; i < 20; i++ {
		onset, _ := d.process(quiet, float64(i)*0.01)
		assert.False(t, onset)
	}

	onset, strength := d.process(loud, 0.20)
	assert.True(t, onset)
	assert.Greater(t, strength, 0.0)
	assert.LessOrEqual(t, strength, 1.0)
}

func TestOnsetDetectorWarmup(t *testing.T) {
	d := newOnsetDetector(8)
	quiet := flatSpectrum(8, 0.001)
	loud := flatSpectrum(8, 0.5)

	// A transient before the history has filled is ignored.
	d.process(quiet, 0.00)
	d.process(quiet, 0.01)
	onset, _ := d.process(loud, 0.02)
	assert.False(t, onset)
}

func TestOnsetDetectorRefractory(t *testing.T) {
	d := newOnsetDetector(8)
	quiet := flatSpectrum(8, 0.001)

	for i := 0; i < 20; i++ {
		d.process(quiet, float64(i)*0.01)
	}

	onset, _ := d.process(flatSpectrum(8, 0.5), 0.20)
	assert.True(t, onset)

	// A still bigger rise inside the refractory window stays silent.
	onset, _ = d.process(flatSpectrum(8, 0.9), 0.21)
	assert.False(t, onset)

	// Well past the refractory window it may fire again.
	for i := 0; i < 30; i++ {
		d.process(quiet, 0.22+float64(i)*0.01)
	}
	onset, _ = d.process(flatSpectrum(8, 0.5), 0.60)
	assert.True(t, onset)
}

func TestOnsetDetectorNearSilenceStaysQuiet(t *testing.T) {
	d := newOnsetDetector(8)

	// Tiny fluctuations under the absolute floor never register.
	for i := 0; i < 100; i++ {
		level := 0.0001
		if i%7 == 0 {
			level = 0.0008
		}
		onset, _ := d.process(flatSpectrum(8, level), float64(i)*0.01)
		assert.False(t, onset, "pass %d", i)
	}
}

func TestOnsetDetectorReset(t *testing.T) {
	d := newOnsetDetector(8)
	quiet := flatSpectrum(8, 0.001)

	for i := 0; i < 20; i++ {
		d.process(quiet, float64(i)*0.01)
	}
	onset, _ := d.process(flatSpectrum(8, 0.5), 0.20)
	assert.True(t, onset)

	d.reset()

	// History is gone, so warmup applies again.
	onset, _ = d.process(flatSpectrum(8, 0.7), 0.30)
	assert.False(t, onset)
}
