package vjkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vjkit/capture"
)

func TestPipelineRunLifecycle(t *testing.T) {
	h := newHarness(t)
	pipe := h.build()

	require.ErrorIs(t, pipe.Run(context.Background()), ErrNotStarted)

	require.NoError(t, pipe.Start())
	assert.ErrorIs(t, pipe.Start(), ErrAlreadyStarted)
	assert.True(t, h.mics[-1].started.Load(), "audio capture runs before the first tick")

	h.onTick = func(n int, p *Pipeline) {
		if n == 5 {
			require.NoError(t, p.Stop())
		}
	}
	require.NoError(t, pipe.Run(context.Background()))

	assert.Len(t, h.Frames(), 5, "no tick after stop")
	assert.True(t, h.cameras[0].closed.Load())
	assert.True(t, h.mics[-1].closed.Load())

	m := pipe.Metrics()
	assert.Equal(t, uint64(5), m.FramesProcessed)
	assert.Positive(t, m.ActualFPS)

	// The pipeline is single-use.
	assert.ErrorIs(t, pipe.Run(context.Background()), ErrNotStarted)
	assert.ErrorIs(t, pipe.Start(), ErrAlreadyStarted)
	assert.NoError(t, pipe.Stop(), "stop stays idempotent")
}

func TestPipelineRunStopsOnContextCancel(t *testing.T) {
	h := newHarness(t)
	pipe := h.build()
	require.NoError(t, pipe.Start())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.onTick = func(n int, _ *Pipeline) {
		if n == 3 {
			cancel()
		}
	}

	require.NoError(t, pipe.Run(ctx))
	assert.Len(t, h.Frames(), 3)
	assert.True(t, h.cameras[0].closed.Load())
	assert.True(t, h.mics[-1].closed.Load())
}

func TestPipelineStopWithoutRunClosesDevices(t *testing.T) {
	h := newHarness(t)
	pipe := h.build()

	assert.ErrorIs(t, pipe.Stop(), ErrNotStarted)

	require.NoError(t, pipe.Start())
	require.NoError(t, pipe.Stop())

	assert.True(t, h.cameras[0].closed.Load())
	assert.True(t, h.mics[-1].closed.Load())
	assert.ErrorIs(t, pipe.Run(context.Background()), ErrNotStarted)
}

func TestPipelineStartCameraFailure(t *testing.T) {
	h := newHarness(t)
	h.camErr[0] = capture.ErrNoSuchDevice
	pipe := h.build()

	assert.ErrorIs(t, pipe.Start(), capture.ErrNoSuchDevice)
	assert.Empty(t, h.mics, "microphone is not opened when the camera fails")
}

func TestPipelineStartMicrophoneFailureClosesCamera(t *testing.T) {
	h := newHarness(t)
	h.micErr[-1] = capture.ErrDeviceUnavailable
	pipe := h.build()

	assert.ErrorIs(t, pipe.Start(), capture.ErrDeviceUnavailable)
	assert.True(t, h.cameras[0].closed.Load(), "a half-open pipeline leaves nothing behind")
	assert.ErrorIs(t, pipe.Stop(), ErrNotStarted)
}

func TestCameraSwitchAppliesAtTickBoundary(t *testing.T) {
	h := newHarness(t)
	pipe := h.build()
	require.NoError(t, pipe.Start())

	h.onTick = func(n int, p *Pipeline) {
		switch n {
		case 2:
			require.NoError(t, p.RequestCameraSwitch(1))
		case 4:
			require.NoError(t, p.Stop())
		}
	}
	require.NoError(t, pipe.Run(context.Background()))

	// The frame in flight when the request lands still comes from the
	// old camera; the switch happens before the next capture.
	assert.Equal(t, []uint8{0, 0, 1, 1}, h.Frames())
	assert.Equal(t, 1, pipe.CameraIndex())
	assert.True(t, h.cameras[0].closed.Load(), "switch closed the old camera")
	assert.True(t, h.cameras[1].closed.Load(), "run teardown closed the new one")
}

func TestCameraSwitchFailureRetainsDevice(t *testing.T) {
	h := newHarness(t)
	h.camErr[3] = capture.ErrNoSuchDevice
	pipe := h.build()
	require.NoError(t, pipe.Start())

	h.onTick = func(n int, p *Pipeline) {
		switch n {
		case 1:
			require.NoError(t, p.RequestCameraSwitch(3))
		case 3:
			require.NoError(t, p.Stop())
		}
	}
	require.NoError(t, pipe.Run(context.Background()))

	assert.Equal(t, []uint8{0, 0, 0}, h.Frames(), "old camera keeps capturing")
	assert.Equal(t, 0, pipe.CameraIndex())
}

func TestMicrophoneSwitchStopsOldBeforeNewStarts(t *testing.T) {
	h := newHarness(t)
	pipe := h.build()
	require.NoError(t, pipe.Start())

	require.NoError(t, pipe.RequestMicrophoneSwitch(2))
	pipe.applySwitches()

	assert.Equal(t, 2, pipe.MicrophoneIndex())
	assert.True(t, h.mics[2].started.Load())
	assert.True(t, h.mics[-1].closed.Load())

	// Two capture callbacks must never feed the extractor at once, so
	// the old input stops before the new one opens.
	assert.Equal(t, []string{
		"camera.open:0", "mic.open:-1", "mic.start:-1",
		"mic.stop:-1", "mic.open:2", "mic.start:2", "mic.close:-1",
	}, h.Events())

	require.NoError(t, pipe.Stop())
}

func TestMicrophoneSwitchFailureRestartsOld(t *testing.T) {
	h := newHarness(t)
	h.micErr[7] = capture.ErrDeviceUnavailable
	pipe := h.build()
	require.NoError(t, pipe.Start())

	require.NoError(t, pipe.RequestMicrophoneSwitch(7))
	pipe.applySwitches()

	assert.Equal(t, -1, pipe.MicrophoneIndex())
	assert.True(t, h.mics[-1].started.Load(), "old input is capturing again")
	assert.Equal(t, []string{
		"camera.open:0", "mic.open:-1", "mic.start:-1",
		"mic.stop:-1", "mic.start:-1",
	}, h.Events())

	require.NoError(t, pipe.Stop())
}

func TestSwitchToSameDeviceIsNoOp(t *testing.T) {
	h := newHarness(t)
	pipe := h.build()
	require.NoError(t, pipe.Start())

	require.NoError(t, pipe.RequestCameraSwitch(0))
	require.NoError(t, pipe.RequestMicrophoneSwitch(-1))
	pipe.applySwitches()

	assert.Equal(t, []string{"camera.open:0", "mic.open:-1", "mic.start:-1"}, h.Events())
	require.NoError(t, pipe.Stop())
}

func TestSwitchRequestsRequireStart(t *testing.T) {
	h := newHarness(t)
	pipe := h.build()

	assert.ErrorIs(t, pipe.RequestCameraSwitch(1), ErrNotStarted)
	assert.ErrorIs(t, pipe.RequestMicrophoneSwitch(1), ErrNotStarted)
}

func TestTickDropsFailedCaptures(t *testing.T) {
	h := newHarness(t)
	pipe := h.build()
	require.NoError(t, pipe.Start())

	h.cameras[0].fail.Store(true)
	pipe.tick()
	pipe.tick()
	h.cameras[0].fail.Store(false)
	pipe.tick()

	assert.Len(t, h.Frames(), 1, "failed captures reach no display")
	m := pipe.Metrics()
	assert.Equal(t, uint64(2), m.FramesDropped)
	assert.Equal(t, uint64(1), m.FramesProcessed)

	require.NoError(t, pipe.Stop())
}

func TestAudioBlocksFeedFeatureBuffer(t *testing.T) {
	h := newHarness(t)
	pipe := h.build()
	require.NoError(t, pipe.Start())

	snap := pipe.Features().Latest()
	require.NotNil(t, snap)
	assert.Zero(t, snap.Generation, "silent snapshot before any audio")

	// Drive the capture callback the way PortAudio would.
	block := make([]float64, h.cfg.Audio.BlockSize)
	for i := 0; i+1 < len(block); i += 2 {
		block[i] = 0.9
		block[i+1] = -0.9
	}
	mic := h.mics[-1]
	for i := 0; i < 4; i++ {
		mic.fn(block)
	}

	snap = pipe.Features().Latest()
	assert.Positive(t, snap.Generation)
	assert.Positive(t, snap.RMS)

	m := pipe.Metrics()
	assert.Equal(t, uint64(4), m.AudioBlocks)
	assert.Positive(t, m.FeatureSnapshots)

	require.NoError(t, pipe.Stop())
}
