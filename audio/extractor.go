package audio

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analysis configuration bounds.
const (
	MinFFTSize    = 256
	MaxFFTSize    = 16384
	MinSampleRate = 8000.0
	MaxSampleRate = 192000.0
)

var (
	// ErrInvalidFFTSize indicates an FFT size outside the supported
	// range or not a power of two.
	ErrInvalidFFTSize = errors.New("audio: invalid fft size")

	// ErrInvalidSampleRate indicates a sample rate outside the
	// supported range.
	ErrInvalidSampleRate = errors.New("audio: invalid sample rate")
)

// bandGain scales root-mean-square band magnitudes onto the 0..1 range
// so that typical music program material peaks near full scale.
const bandGain = 3.0

// Extractor converts raw mono PCM into AudioFeatureSnapshot values and
// publishes them to an internal FeatureBuffer.
//
// Samples are analyzed in Hann-windowed frames of fftSize samples with
// 75% overlap. Each completed frame yields one snapshot: magnitude
// spectrum, RMS level, per-band energies, spectral-flux onset flag, and
// the tempo tracker's beat state. Analysis time is derived from the
// count of consumed samples, not the wall clock, so identical input
// produces identical feature sequences.
//
// Extractor is not safe for concurrent use; feed it from a single
// goroutine (typically the capture callback). Consumers read snapshots
// through Buffer, which is safe for one concurrent reader.
type Extractor struct {
	sampleRate float64
	fftSize    int
	hopSize    int

	window    []float64
	windowSum float64
	fft       *fourier.FFT
	freqs     []float64
	binBand   []int
	bandBins  [NumBands]int

	pending  []float64
	frame    []float64
	coeffs   []complex128
	spectrum []float64

	onset *onsetDetector
	tempo *tempoTracker

	buffer     *FeatureBuffer
	onSnapshot func(*AudioFeatureSnapshot)

	absStart   uint64
	generation uint64
}

// NewExtractor creates a feature extractor for mono input.
//
// Parameters:
//   - sampleRate: input sample rate in Hz, 8000 to 192000
//   - fftSize: analysis window length in samples, a power of two
//     between 256 and 16384
//
// Returns:
//   - *Extractor: ready to accept samples via Process
//   - error: ErrInvalidFFTSize or ErrInvalidSampleRate on bad settings
func NewExtractor(sampleRate float64, fftSize int) (*Extractor, error) {
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return nil, fmt.Errorf("%w: %v Hz", ErrInvalidSampleRate, sampleRate)
	}
	if fftSize < MinFFTSize || fftSize > MaxFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	e := &Extractor{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		hopSize:    fftSize / 4,
		window:     make([]float64, fftSize),
		fft:        fourier.NewFFT(fftSize),
		pending:    make([]float64, 0, 2*fftSize),
		frame:      make([]float64, fftSize),
	}

	for i := range e.window {
		e.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
		e.windowSum += e.window[i]
	}

	bins := fftSize/2 + 1
	e.freqs = make([]float64, bins)
	e.binBand = make([]int, bins)
	e.coeffs = make([]complex128, bins)
	e.spectrum = make([]float64, bins)
	for i := 0; i < bins; i++ {
		e.freqs[i] = e.fft.Freq(i) * sampleRate
		e.binBand[i] = -1
		for b := 0; b < NumBands; b++ {
			if e.freqs[i] >= bandEdges[b][0] && e.freqs[i] < bandEdges[b][1] {
				e.binBand[i] = b
				e.bandBins[b]++
				break
			}
		}
	}

	e.onset = newOnsetDetector(bins)
	e.tempo = newTempoTracker()
	e.buffer = NewFeatureBuffer(SilentSnapshot(e.freqs))
	return e, nil
}

// Buffer returns the snapshot hand-off slot fed by this extractor.
func (e *Extractor) Buffer() *FeatureBuffer {
	return e.buffer
}

// SetSnapshotFunc registers a function called once per published
// snapshot, after the publish, on the goroutine feeding Process. It is
// the tap for consumers that must see every snapshot rather than the
// latest one; it must return quickly. Set it before the first Process
// call.
func (e *Extractor) SetSnapshotFunc(fn func(*AudioFeatureSnapshot)) {
	e.onSnapshot = fn
}

// SampleRate returns the configured input sample rate in Hz.
func (e *Extractor) SampleRate() float64 { return e.sampleRate }

// FFTSize returns the analysis window length in samples.
func (e *Extractor) FFTSize() int { return e.fftSize }

// HopSize returns the analysis hop in samples (fftSize/4).
func (e *Extractor) HopSize() int { return e.hopSize }

// Bins returns the number of spectrum bins per snapshot (fftSize/2+1).
func (e *Extractor) Bins() int { return len(e.freqs) }

// Process consumes a block of mono samples in the range [-1, 1] and
// publishes one snapshot per completed analysis window. Blocks may be
// any length, including empty; partial windows are carried over.
func (e *Extractor) Process(block []float64) {
	e.pending = append(e.pending, block...)
	for len(e.pending) >= e.fftSize {
		e.analyze()
		e.pending = e.pending[:copy(e.pending, e.pending[e.hopSize:])]
		e.absStart += uint64(e.hopSize)
	}
}

func (e *Extractor) analyze() {
	now := float64(e.absStart+uint64(e.fftSize)) / e.sampleRate

	var sumSquares float64
	for i := 0; i < e.fftSize; i++ {
		s := e.pending[i]
		sumSquares += s * s
		e.frame[i] = s * e.window[i]
	}
	rms := math.Sqrt(sumSquares / float64(e.fftSize))

	e.fft.Coefficients(e.coeffs, e.frame)
	scale := 2 / e.windowSum
	for i, c := range e.coeffs {
		e.spectrum[i] = cmplx.Abs(c) * scale
	}

	var bandSquares [NumBands]float64
	for i, b := range e.binBand {
		if b >= 0 {
			bandSquares[b] += e.spectrum[i] * e.spectrum[i]
		}
	}
	var bands [NumBands]float64
	for b := 0; b < NumBands; b++ {
		if e.bandBins[b] == 0 {
			continue
		}
		v := math.Sqrt(bandSquares[b]/float64(e.bandBins[b])) * bandGain
		if v > 1 {
			v = 1
		}
		bands[b] = v
	}

	onset, strength := e.onset.process(e.spectrum, now)
	if onset {
		e.tempo.addOnset(now)
	}
	beat := e.tempo.step(now, onset, strength)

	e.generation++
	snap := &AudioFeatureSnapshot{
		Timestamp:  time.Now(),
		Generation: e.generation,
		Spectrum:   append([]float64(nil), e.spectrum...),
		Freqs:      e.freqs,
		RMS:        rms,
		TempoBPM:   e.tempo.bpm,
		Beat:       beat,
		Onset:      onset,
		Bands:      bands,
	}
	if beat {
		snap.BeatStrength = 1
	}
	e.buffer.Publish(snap)
	if e.onSnapshot != nil {
		e.onSnapshot(snap)
	}
}

// Reset discards carried samples and all onset and tempo history, and
// publishes a silent snapshot. The generation counter keeps counting so
// consumers can tell the reset snapshot from the startup default.
func (e *Extractor) Reset() {
	e.pending = e.pending[:0]
	e.absStart = 0
	e.onset.reset()
	e.tempo.reset()

	e.generation++
	snap := SilentSnapshot(e.freqs)
	snap.Generation = e.generation
	snap.Timestamp = time.Now()
	e.buffer.Publish(snap)
	if e.onSnapshot != nil {
		e.onSnapshot(snap)
	}
}
