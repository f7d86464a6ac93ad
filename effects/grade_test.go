package effects

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vjkit/gradient"
)

// twoAssetLibrary builds a library with the default gradient plus one
// red-to-blue asset loaded from disk.
func twoAssetLibrary(t *testing.T) *gradient.Library {
	t.Helper()
	dir := t.TempDir()
	asset := `{"name":"redblue","stops":[{"position":0,"color":[255,0,0]},{"position":1,"color":[0,0,255]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "redblue.json"), []byte(asset), 0o644))

	lib := gradient.NewLibrary(dir)
	require.Equal(t, 2, lib.Len())
	return lib
}

func TestGradeFullOpacityMapsLuminance(t *testing.T) {
	g := NewGrade(nil)
	require.True(t, g.Set("opacity", 1))

	// Default gradient is black to white: a pixel becomes its own
	// luminance in gray.
	frame := solidFrame(2, 2, 255, 0, 0)
	out := g.Process(frame, nil)

	r, gr, b := out.At(0, 0)
	assert.Equal(t, uint8(76), r, "red luminance")
	assert.Equal(t, uint8(76), gr)
	assert.Equal(t, uint8(76), b)
}

func TestGradeZeroOpacityPassesThrough(t *testing.T) {
	g := NewGrade(nil)
	require.True(t, g.Set("opacity", 0))

	frame := solidFrame(2, 2, 10, 200, 30)
	out := g.Process(frame, nil)

	r, gr, b := out.At(1, 1)
	assert.Equal(t, [3]uint8{10, 200, 30}, [3]uint8{r, gr, b})
}

func TestGradeHalfOpacityBlends(t *testing.T) {
	g := NewGrade(nil)
	require.True(t, g.Set("opacity", 0.5))

	frame := solidFrame(1, 1, 255, 0, 0)
	out := g.Process(frame, nil)

	// Halfway between (255,0,0) and gray 76.
	r, gr, b := out.At(0, 0)
	assert.InDelta(t, 165, int(r), 2)
	assert.InDelta(t, 38, int(gr), 2)
	assert.InDelta(t, 38, int(b), 2)
}

func TestGradeGradientSelection(t *testing.T) {
	lib := twoAssetLibrary(t)
	g := NewGrade(lib)
	require.True(t, g.Set("opacity", 1))
	require.True(t, g.Set("gradient", 1))

	// A black pixel maps to the redblue gradient's first stop.
	frame := solidFrame(1, 1, 0, 0, 0)
	out := g.Process(frame, nil)
	r, _, b := out.At(0, 0)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), b)

	assert.False(t, g.Set("gradient", 2), "index past the library is rejected")
}

func TestGradeControls(t *testing.T) {
	lib := twoAssetLibrary(t)
	g := NewGrade(lib)

	assert.True(t, g.HandleControl(ControlGradeNext))
	idx, _ := g.Get("gradient")
	assert.Equal(t, 1.0, idx)

	assert.True(t, g.HandleControl(ControlGradeNext))
	idx, _ = g.Get("gradient")
	assert.Equal(t, 0.0, idx, "wraps past the end")

	assert.True(t, g.HandleControl(ControlGradePrev))
	idx, _ = g.Get("gradient")
	assert.Equal(t, 1.0, idx, "wraps below zero")

	assert.True(t, g.HandleControl(ControlGradeOpacityUp))
	op, _ := g.Get("opacity")
	assert.InDelta(t, 0.6, op, 1e-9)

	for i := 0; i < 10; i++ {
		g.HandleControl(ControlGradeOpacityUp)
	}
	op, _ = g.Get("opacity")
	assert.Equal(t, 1.0, op)

	assert.False(t, g.HandleControl(Control("flip.faster")))
}

func TestGradeReset(t *testing.T) {
	lib := twoAssetLibrary(t)
	g := NewGrade(lib)
	require.True(t, g.Set("gradient", 1))
	require.True(t, g.Set("opacity", 0.9))

	g.Reset()
	idx, _ := g.Get("gradient")
	op, _ := g.Get("opacity")
	assert.Equal(t, 0.0, idx)
	assert.Equal(t, 0.5, op)
}

func BenchmarkGradeProcess(b *testing.B) {
	g := NewGrade(nil)
	frame := solidFrame(640, 480, 40, 80, 120)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Process(frame, nil)
	}
}
