package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vjkit/video"
)

func spotlightCorner(f *video.Frame) uint8 {
	r, _, _ := f.At(f.Width-1, f.Height-1)
	return r
}

func TestSpotlightNoDetectorPassesThrough(t *testing.T) {
	s := NewSpotlight(nil)

	out := s.Process(solidFrame(64, 64, 200, 200, 200), nil)
	assert.Equal(t, uint8(200), spotlightCorner(out))
}

func TestSpotlightNoFaceYetPassesThrough(t *testing.T) {
	s := NewSpotlight(&stubDetector{})

	out := s.Process(solidFrame(64, 64, 200, 200, 200), nil)
	assert.Equal(t, uint8(200), spotlightCorner(out))
}

func TestSpotlightMasksAroundFace(t *testing.T) {
	det := &stubDetector{
		boxes: []Box{{X: 10, Y: 10, W: 20, H: 20}},
		found: []bool{true},
	}
	s := NewSpotlight(det)

	out := s.Process(solidFrame(128, 128, 200, 200, 200), nil)

	// The face center survives, the far corner goes black.
	r, _, _ := out.At(20, 20)
	assert.Equal(t, uint8(200), r)
	assert.Equal(t, uint8(0), spotlightCorner(out))
}

func TestSpotlightGraceHoldAndFade(t *testing.T) {
	det := &stubDetector{
		boxes: []Box{{X: 10, Y: 10, W: 20, H: 20}},
		found: []bool{true},
	}
	s := NewSpotlight(det)

	out := s.Process(solidFrame(128, 128, 200, 200, 200), nil)
	require.Equal(t, uint8(0), spotlightCorner(out))

	// The mask holds through the whole grace period.
	for i := 1; i <= 30; i++ {
		out = s.Process(solidFrame(128, 128, 200, 200, 200), nil)
		require.Equal(t, uint8(0), spotlightCorner(out), "frame %d", i)
	}

	// Then it dissolves instead of snapping off.
	out = s.Process(solidFrame(128, 128, 200, 200, 200), nil)
	mid := spotlightCorner(out)
	assert.Greater(t, mid, uint8(0))
	assert.Less(t, mid, uint8(200))

	// Fully faded: passthrough.
	for i := 0; i < 20; i++ {
		out = s.Process(solidFrame(128, 128, 200, 200, 200), nil)
	}
	assert.Equal(t, uint8(200), spotlightCorner(out))
}

func TestSpotlightDetectionCadence(t *testing.T) {
	det := &stubDetector{}
	s := NewSpotlight(det)

	for i := 0; i < 6; i++ {
		s.Process(solidFrame(32, 32, 0, 0, 0), nil)
	}
	assert.Equal(t, 3, det.calls, "default cadence detects every other frame")

	det.calls = 0
	require.True(t, s.Set("detect_every", 1))
	for i := 0; i < 4; i++ {
		s.Process(solidFrame(32, 32, 0, 0, 0), nil)
	}
	assert.Equal(t, 4, det.calls)
}

func TestSpotlightBoxSmoothing(t *testing.T) {
	det := &stubDetector{
		boxes: []Box{
			{X: 10, Y: 10, W: 20, H: 20},
			{X: 30, Y: 30, W: 20, H: 20},
		},
		found: []bool{true, true},
	}
	s := NewSpotlight(det)
	require.True(t, s.Set("detect_every", 1))

	s.Process(solidFrame(128, 128, 200, 200, 200), nil)
	s.Process(solidFrame(128, 128, 200, 200, 200), nil)

	// 0.7*10 + 0.3*30 = 16: the box drifts toward the new detection
	// instead of jumping.
	assert.InDelta(t, 16, s.bx, 1e-9)
	assert.InDelta(t, 16, s.by, 1e-9)
}

func TestSpotlightParamValidation(t *testing.T) {
	s := NewSpotlight(nil)

	assert.False(t, s.Set("detect_every", 0))
	assert.False(t, s.Set("detect_every", 11))
	assert.True(t, s.Set("detect_every", 5))
	assert.False(t, s.Set("grace", -1))
	assert.False(t, s.Set("grace", 121))
	assert.True(t, s.Set("grace", 0))
}

func TestSpotlightReset(t *testing.T) {
	det := &stubDetector{
		boxes: []Box{{X: 10, Y: 10, W: 20, H: 20}},
		found: []bool{true},
	}
	s := NewSpotlight(det)
	s.Process(solidFrame(128, 128, 200, 200, 200), nil)

	s.Reset()
	out := s.Process(solidFrame(128, 128, 200, 200, 200), nil)
	assert.Equal(t, uint8(200), spotlightCorner(out), "tracked face forgotten")
}
