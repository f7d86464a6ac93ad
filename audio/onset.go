package audio

import (
	"gonum.org/v1/gonum/stat"
)

const (
	// fluxHistorySize is the number of recent flux values the adaptive
	// threshold is computed over, roughly 0.37 s at the default hop rate.
	fluxHistorySize = 64

	// fluxWarmup is the minimum history fill before onsets may fire.
	fluxWarmup = 8

	// fluxThresholdK scales the standard deviation added to the rolling
	// mean. Sustained loud passages have low flux variance and stay
	// under threshold; percussive transients spike well over it.
	fluxThresholdK = 1.5

	// fluxFloor is the absolute minimum flux for an onset, rejecting
	// numerical noise on near-silent input.
	fluxFloor = 0.01

	// onsetRefractory is the minimum spacing between onsets in seconds.
	onsetRefractory = 0.1
)

// onsetDetector flags percussive transients from half-wave rectified
// spectral flux measured against an adaptive rolling threshold.
type onsetDetector struct {
	prev     []float64
	havePrev bool

	history [fluxHistorySize]float64
	histPos int
	histLen int
	scratch []float64

	lastOnset float64
}

func newOnsetDetector(bins int) *onsetDetector {
	return &onsetDetector{
		prev:      make([]float64, bins),
		scratch:   make([]float64, 0, fluxHistorySize),
		lastOnset: -onsetRefractory,
	}
}

// process consumes one normalized spectrum at time t (seconds) and
// reports whether it contains an onset, with a 0-1 strength.
func (d *onsetDetector) process(spectrum []float64, t float64) (onset bool, strength float64) {
	var flux float64
	if d.havePrev {
		for i, m := range spectrum {
			if rise := m - d.prev[i]; rise > 0 {
				flux += rise
			}
		}
	}
	copy(d.prev, spectrum)
	d.havePrev = true

	warm := d.histLen >= fluxWarmup
	threshold := d.threshold()

	d.history[d.histPos] = flux
	d.histPos = (d.histPos + 1) % fluxHistorySize
	if d.histLen < fluxHistorySize {
		d.histLen++
	}

	if !warm || flux < fluxFloor || flux <= threshold {
		return false, 0
	}
	if t-d.lastOnset < onsetRefractory {
		return false, 0
	}

	d.lastOnset = t
	strength = (flux - threshold) / (threshold + 1e-9)
	if strength > 1 {
		strength = 1
	}
	return true, strength
}

// threshold returns mean + k*stddev over the current flux history.
func (d *onsetDetector) threshold() float64 {
	if d.histLen < 2 {
		return fluxFloor
	}
	d.scratch = d.scratch[:0]
	for i := 0; i < d.histLen; i++ {
		d.scratch = append(d.scratch, d.history[i])
	}
	mean := stat.Mean(d.scratch, nil)
	sd := stat.StdDev(d.scratch, nil)
	return mean + fluxThresholdK*sd
}

func (d *onsetDetector) reset() {
	for i := range d.prev {
		d.prev[i] = 0
	}
	d.havePrev = false
	d.histPos = 0
	d.histLen = 0
	d.lastOnset = -onsetRefractory
}
