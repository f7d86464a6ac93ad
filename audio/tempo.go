package audio

import "math"

const (
	// tempoWindow is the trailing window of onset history in seconds.
	tempoWindow = 8.0

	// Valid tempo estimates are confined to this octave-and-a-bit range;
	// out-of-range inter-onset intervals are folded in by doubling or
	// halving before clustering.
	tempoMinBPM = 60.0
	tempoMaxBPM = 200.0

	// tempoSmoothing is the weight of the previous estimate when a new
	// candidate arrives.
	tempoSmoothing = 0.8

	// tempoTolerance is the relative spread of an interval cluster.
	tempoTolerance = 0.10

	// tempoMinSupport is how many agreeing intervals are needed before a
	// tempo is trusted.
	tempoMinSupport = 3

	// beatReanchor is the fraction of a period within which an onset
	// snaps the beat grid onto itself.
	beatReanchor = 0.15

	// fallbackBeatGap spaces out beats fired directly from strong onsets
	// while no tempo is established, in seconds.
	fallbackBeatGap = 0.2

	// strongOnset is the minimum onset strength for a fallback beat.
	strongOnset = 0.5
)

// tempoTracker estimates tempo from the most consistent inter-onset
// interval over a trailing window and projects beat times forward from
// the last confirmed beat.
//
// Beat rule: with a tempo established, a beat fires when the projected
// time (last beat + period) falls inside the current analysis pass;
// onsets landing within beatReanchor of the projection re-anchor the grid
// instead (projection priority, onset correction). With no tempo, a
// strong onset fires a beat directly. Silence or irregular onsets decay
// the tempo back to 0, the "no rhythm" steady state.
type tempoTracker struct {
	onsets   []float64
	bpm      float64
	lastBeat float64
	haveBeat bool
}

func newTempoTracker() *tempoTracker {
	return &tempoTracker{}
}

// addOnset records an onset at time now (seconds) and refreshes the
// tempo estimate.
func (t *tempoTracker) addOnset(now float64) {
	t.onsets = append(t.onsets, now)
	t.prune(now)
	t.estimate()
}

func (t *tempoTracker) prune(now float64) {
	cut := 0
	for cut < len(t.onsets) && t.onsets[cut] < now-tempoWindow {
		cut++
	}
	if cut > 0 {
		t.onsets = append(t.onsets[:0], t.onsets[cut:]...)
	}
}

// foldInterval doubles or halves an interval into the valid tempo octave.
// Intervals more than three foldings away are discarded as unrelated.
func foldInterval(ioi float64) (float64, bool) {
	if ioi <= 0 {
		return 0, false
	}
	lo := 60.0 / tempoMaxBPM
	hi := 60.0 / tempoMinBPM
	for n := 0; ioi < lo && n < 3; n++ {
		ioi *= 2
	}
	for n := 0; ioi > hi && n < 3; n++ {
		ioi /= 2
	}
	if ioi < lo || ioi > hi {
		return 0, false
	}
	return ioi, true
}

// estimate recomputes the tempo from the densest inter-onset interval
// cluster. Too little agreement leaves the previous estimate in place;
// loss of rhythm is handled by step's decay rule instead.
func (t *tempoTracker) estimate() {
	iois := make([]float64, 0, len(t.onsets))
	for i := 1; i < len(t.onsets); i++ {
		if folded, ok := foldInterval(t.onsets[i] - t.onsets[i-1]); ok {
			iois = append(iois, folded)
		}
	}
	if len(iois) < tempoMinSupport {
		return
	}

	var bestSum float64
	bestCount := 0
	for _, center := range iois {
		var sum float64
		count := 0
		for _, x := range iois {
			if math.Abs(x-center) <= tempoTolerance*center {
				sum += x
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestSum = sum
		}
	}
	if bestCount < tempoMinSupport {
		return
	}

	candidate := 60.0 / (bestSum / float64(bestCount))
	if t.bpm == 0 {
		t.bpm = candidate
	} else {
		t.bpm = tempoSmoothing*t.bpm + (1-tempoSmoothing)*candidate
	}
}

// step advances beat prediction by one analysis pass ending at time now.
func (t *tempoTracker) step(now float64, onset bool, strength float64) (beat bool) {
	t.prune(now)
	if len(t.onsets) < 2 {
		t.bpm = 0
		t.haveBeat = false
	}

	if t.bpm == 0 {
		if onset && strength >= strongOnset && (!t.haveBeat || now-t.lastBeat >= fallbackBeatGap) {
			t.lastBeat = now
			t.haveBeat = true
			return true
		}
		return false
	}

	period := 60.0 / t.bpm
	if !t.haveBeat {
		if onset {
			t.lastBeat = now
			t.haveBeat = true
			return true
		}
		return false
	}

	next := t.lastBeat + period
	if onset && math.Abs(now-next) <= beatReanchor*period {
		t.lastBeat = now
		return true
	}
	if now >= next {
		t.lastBeat = next
		if now-next > period {
			// Fell more than a full period behind; resync to now.
			t.lastBeat = now
		}
		return true
	}
	return false
}

func (t *tempoTracker) reset() {
	t.onsets = t.onsets[:0]
	t.bpm = 0
	t.lastBeat = 0
	t.haveBeat = false
}
