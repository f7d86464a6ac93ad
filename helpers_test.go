package vjkit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/capture"
	"github.com/opd-ai/vjkit/config"
	"github.com/opd-ai/vjkit/effects"
	"github.com/opd-ai/vjkit/gradient"
	"github.com/opd-ai/vjkit/video"
)

// testConfig returns a small, fast configuration for pipeline tests:
// tiny frames and a high tick rate so lifecycle tests finish quickly.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Video.Width = 16
	cfg.Video.Height = 16
	cfg.Video.FPS = 240
	return cfg
}

func nopDisplay(*video.Frame, *audio.AudioFeatureSnapshot) {}

// harness builds pipelines on synthetic devices. Opened devices are
// kept by index, lifecycle calls land in an ordered event log, and the
// display callback records the first pixel of every frame. Stub
// cameras fill frames with their own index, so the pixel identifies
// which camera produced each tick.
type harness struct {
	t   *testing.T
	cfg *config.Config

	cameraList []capture.CameraDevice
	micList    []capture.AudioDevice
	listErr    error

	camErr    map[int]error
	micErr    map[int]error
	plainMics bool

	mu      sync.Mutex
	events  []string
	cameras map[int]*stubCamera
	mics    map[int]*stubMic
	frames  []uint8
	onTick  func(n int, p *Pipeline)

	pipe *Pipeline
}

func newHarness(t *testing.T) *harness {
	return &harness{
		t:       t,
		cfg:     testConfig(),
		camErr:  make(map[int]error),
		micErr:  make(map[int]error),
		cameras: make(map[int]*stubCamera),
		mics:    make(map[int]*stubMic),
	}
}

// build constructs a pipeline wired to the harness stubs.
func (h *harness) build() *Pipeline {
	pipe, err := New(&Options{
		Config:          h.cfg,
		Display:         h.display,
		OpenCamera:      h.openCamera,
		OpenMicrophone:  h.openMicrophone,
		ListCameras:     h.listCameras,
		ListMicrophones: h.listMicrophones,
		Gradients:       gradient.NewLibrary(""),
	})
	require.NoError(h.t, err)
	h.pipe = pipe
	return pipe
}

func (h *harness) display(frame *video.Frame, _ *audio.AudioFeatureSnapshot) {
	h.mu.Lock()
	h.frames = append(h.frames, frame.Pix[0])
	n := len(h.frames)
	hook := h.onTick
	h.mu.Unlock()

	if hook != nil {
		hook(n, h.pipe)
	}
}

func (h *harness) openCamera(index, width, height int) (capture.Camera, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.camErr[index]; err != nil {
		return nil, err
	}
	cam := newStubCamera(index, width, height)
	h.cameras[index] = cam
	h.events = append(h.events, fmt.Sprintf("camera.open:%d", index))
	return cam, nil
}

func (h *harness) openMicrophone(index int, _ float64, _ int, fn capture.BlockFunc) (capture.AudioInput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.micErr[index]; err != nil {
		return nil, err
	}
	mic := &stubMic{index: index, fn: fn, h: h}
	h.mics[index] = mic
	h.events = append(h.events, fmt.Sprintf("mic.open:%d", index))
	if h.plainMics {
		return &plainMic{mic: mic}, nil
	}
	return mic, nil
}

func (h *harness) listCameras() ([]capture.CameraDevice, error) {
	if h.listErr != nil {
		return nil, h.listErr
	}
	return h.cameraList, nil
}

func (h *harness) listMicrophones() ([]capture.AudioDevice, error) {
	if h.listErr != nil {
		return nil, h.listErr
	}
	return h.micList, nil
}

func (h *harness) logEvent(ev string) {
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()
}

// Events returns a copy of the ordered lifecycle log.
func (h *harness) Events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}

// Frames returns the camera index that produced each displayed frame.
func (h *harness) Frames() []uint8 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]uint8(nil), h.frames...)
}

// stubCamera returns frames filled with its own device index.
type stubCamera struct {
	index  int
	frame  *video.Frame
	fail   atomic.Bool
	reads  atomic.Int64
	closed atomic.Bool
}

func newStubCamera(index, width, height int) *stubCamera {
	c := &stubCamera{index: index, frame: video.NewFrame(width, height)}
	c.frame.Fill(uint8(index), uint8(index), uint8(index))
	return c
}

func (c *stubCamera) ReadFrame() (*video.Frame, error) {
	c.reads.Add(1)
	if c.fail.Load() {
		return nil, capture.ErrFrameTimeout
	}
	return c.frame, nil
}

func (c *stubCamera) Close() error {
	c.closed.Store(true)
	return nil
}

// stubMic is a controllable AudioInput that logs lifecycle events and
// implements the recording surface.
type stubMic struct {
	index int
	fn    capture.BlockFunc
	h     *harness

	started  atomic.Bool
	closed   atomic.Bool
	startErr error

	recording atomic.Bool
	recPaths  []string
}

func (m *stubMic) Start() error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started.Store(true)
	m.h.logEvent(fmt.Sprintf("mic.start:%d", m.index))
	return nil
}

func (m *stubMic) Stop() error {
	m.started.Store(false)
	m.h.logEvent(fmt.Sprintf("mic.stop:%d", m.index))
	return nil
}

func (m *stubMic) Close() error {
	m.closed.Store(true)
	m.h.logEvent(fmt.Sprintf("mic.close:%d", m.index))
	return nil
}

func (m *stubMic) StartRecording(path string) error {
	if m.recording.Load() {
		return capture.ErrAlreadyRecording
	}
	m.recording.Store(true)
	m.h.mu.Lock()
	m.recPaths = append(m.recPaths, path)
	m.h.mu.Unlock()
	m.h.logEvent("rec.start")
	return nil
}

func (m *stubMic) StopRecording() error {
	m.recording.Store(false)
	m.h.logEvent("rec.stop")
	return nil
}

func (m *stubMic) Recording() bool {
	return m.recording.Load()
}

// plainMic strips the recording surface off a stubMic, for testing
// inputs that cannot record.
type plainMic struct {
	mic *stubMic
}

func (m *plainMic) Start() error { return m.mic.Start() }
func (m *plainMic) Stop() error  { return m.mic.Stop() }
func (m *plainMic) Close() error { return m.mic.Close() }

// tokenEffect is a pass-through effect that consumes one control token
// and counts resets.
type tokenEffect struct {
	id       string
	consumes effects.Control
	handled  []effects.Control
	resets   int
}

func newTokenEffect(id string, consumes effects.Control) *tokenEffect {
	return &tokenEffect{id: id, consumes: consumes}
}

func (e *tokenEffect) Name() string { return "Token(" + e.id + ")" }
func (e *tokenEffect) ID() string   { return e.id }

func (e *tokenEffect) Process(f *video.Frame, _ *audio.AudioFeatureSnapshot) *video.Frame {
	return f
}

func (e *tokenEffect) Params() []effects.ParamSpec { return nil }
func (e *tokenEffect) Get(string) (float64, bool)  { return 0, false }
func (e *tokenEffect) Set(string, float64) bool    { return false }

func (e *tokenEffect) HandleControl(c effects.Control) bool {
	e.handled = append(e.handled, c)
	return e.consumes != "" && c == e.consumes
}

func (e *tokenEffect) Reset() { e.resets++ }
