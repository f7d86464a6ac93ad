package vjkit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/capture"
	"github.com/opd-ai/vjkit/config"
	"github.com/opd-ai/vjkit/effects"
	"github.com/opd-ai/vjkit/gradient"
)

// pipelineState tracks the single-use lifecycle: Created → Started →
// Running → Stopping → Stopped. A stopped pipeline cannot be restarted;
// build a new one.
type pipelineState int

const (
	stateCreated pipelineState = iota
	stateStarted
	stateRunning
	stateStopping
	stateStopped
)

// Pipeline drives the audio-visual loop. Audio blocks arrive on the
// capture goroutine and feed the extractor; the published snapshots
// cross to the video side through the feature buffer. Video runs as a
// tick loop on whatever goroutine calls Run, which is therefore the
// display context. The two sides share nothing else and never wait on
// each other.
//
// Device switches are queued and applied between ticks, never while a
// frame is in flight.
type Pipeline struct {
	cfg     *config.Config
	display DisplayFunc

	openCam  CameraOpener
	openMic  MicrophoneOpener
	listCams CameraLister
	listMics MicrophoneLister

	extractor *audio.Extractor
	features  *audio.FeatureBuffer
	chain     *effects.Chain
	registry  *effects.Registry
	gradients *gradient.Library
	metrics   *Metrics

	// mu guards state, the device fields, and the pending switch
	// requests. The tick loop owns the devices while running; other
	// goroutines only queue requests.
	mu          sync.Mutex
	state       pipelineState
	camera      capture.Camera
	cameraIndex int
	mic         capture.AudioInput
	micIndex    int

	pendingCamera *int
	pendingMic    *int

	// stop is closed by Stop while the tick loop is running.
	stop chan struct{}
}

// Start opens the configured camera and microphone and begins audio
// capture. Feature snapshots start flowing immediately; video does not
// move until Run. A device that cannot be opened here is a
// configuration failure and nothing is left open.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != stateCreated {
		return ErrAlreadyStarted
	}

	cam, err := p.openCam(p.cfg.Video.Device, p.cfg.Video.Width, p.cfg.Video.Height)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", p.cfg.Video.Device, err)
	}

	mic, err := p.openMic(p.cfg.Audio.Device, float64(p.cfg.Audio.SampleRate), p.cfg.Audio.BlockSize, p.audioBlock)
	if err != nil {
		cam.Close()
		return fmt.Errorf("open microphone %d: %w", p.cfg.Audio.Device, err)
	}
	if err := mic.Start(); err != nil {
		mic.Close()
		cam.Close()
		return fmt.Errorf("start microphone: %w", err)
	}

	p.camera = cam
	p.cameraIndex = p.cfg.Video.Device
	p.mic = mic
	p.micIndex = p.cfg.Audio.Device
	p.state = stateStarted

	logrus.WithFields(logrus.Fields{
		"function": "Start",
		"camera":   p.cameraIndex,
		"mic":      p.micIndex,
	}).Info("Pipeline started")
	return nil
}

// Run executes the tick loop on the calling goroutine until ctx is
// cancelled or Stop is called, then releases the capture devices and
// returns nil. Call it from the goroutine the display backend requires.
// Run must follow Start.
//
// Each tick applies pending device switches, reads a frame, pairs it
// with the latest feature snapshot, runs the effect chain, and hands
// the result to the display callback. Ticks are paced to the configured
// frame rate; a tick that overruns skips the sleep but is never
// followed by catch-up ticks.
func (p *Pipeline) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.Lock()
	if p.state != stateStarted {
		p.mu.Unlock()
		return ErrNotStarted
	}
	p.state = stateRunning
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.closeDevicesLocked()
		p.state = stateStopped
		p.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"function": "Run",
		}).Info("Pipeline stopped")
	}()

	logrus.WithFields(logrus.Fields{
		"function": "Run",
		"fps":      p.cfg.Video.FPS,
	}).Info("Pipeline running")

	interval := time.Second / time.Duration(p.cfg.Video.FPS)
	next := time.Now()
	var lastTick time.Time

	for {
		if err := p.waitNextTick(ctx, next); err != nil {
			return nil
		}

		start := time.Now()
		if !lastTick.IsZero() {
			p.metrics.observeTick(start.Sub(lastTick))
		}
		lastTick = start

		p.applySwitches()
		p.tick()

		next = next.Add(interval)
		if now := time.Now(); now.After(next) {
			p.metrics.observeOverrun()
			next = now
		}
	}
}

// Stop requests shutdown. While Run is active the tick loop finishes
// its current frame before the devices close; otherwise the devices
// close here. Safe to call from any goroutine and more than once.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case stateCreated:
		return ErrNotStarted
	case stateStarted:
		p.closeDevicesLocked()
		p.state = stateStopped
		return nil
	case stateRunning:
		close(p.stop)
		p.state = stateStopping
		return nil
	default:
		return nil
	}
}

// waitNextTick sleeps until the tick deadline. A deadline already in
// the past returns immediately so an overrun tick is never delayed
// further. Returns errStopRequested when Stop is called or ctx ends.
func (p *Pipeline) waitNextTick(ctx context.Context, next time.Time) error {
	d := time.Until(next)
	if d <= 0 {
		select {
		case <-ctx.Done():
			return errStopRequested
		case <-p.stop:
			return errStopRequested
		default:
			return nil
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errStopRequested
	case <-p.stop:
		return errStopRequested
	case <-timer.C:
		return nil
	}
}

// tick captures, processes, and displays one frame. A failed capture
// drops the frame and leaves the previous display output standing.
func (p *Pipeline) tick() {
	frame, err := p.camera.ReadFrame()
	if err != nil {
		p.metrics.observeDrop()
		logrus.WithFields(logrus.Fields{
			"function": "tick",
			"error":    err.Error(),
		}).Warn("Frame capture failed, frame dropped")
		return
	}

	feat := p.features.Latest()

	start := time.Now()
	out := p.chain.Process(frame, feat)
	p.metrics.observeEffectTime(time.Since(start))

	p.display(out, feat)
	p.metrics.observeFrame()
}

// audioBlock is the microphone callback. It runs on the capture
// goroutine; the published snapshot crosses to the tick loop through
// the feature buffer, so nothing here may block.
func (p *Pipeline) audioBlock(block []float64) {
	p.metrics.observeBlock()
	p.extractor.Process(block)
}

// RequestCameraSwitch queues a switch to the camera at index, applied
// at the next tick boundary. If the new device cannot be opened the
// current one is retained and the pipeline continues.
func (p *Pipeline) RequestCameraSwitch(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != stateStarted && p.state != stateRunning {
		return ErrNotStarted
	}
	idx := index
	p.pendingCamera = &idx
	return nil
}

// RequestMicrophoneSwitch queues a switch to the audio input at index,
// applied at the next tick boundary. The current input keeps running
// until the switch happens; on failure it is kept.
func (p *Pipeline) RequestMicrophoneSwitch(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != stateStarted && p.state != stateRunning {
		return ErrNotStarted
	}
	idx := index
	p.pendingMic = &idx
	return nil
}

// applySwitches applies queued device-switch requests. Runs between
// ticks so a device is never reconfigured while a frame is in flight.
func (p *Pipeline) applySwitches() {
	p.mu.Lock()
	camIdx, micIdx := p.pendingCamera, p.pendingMic
	p.pendingCamera, p.pendingMic = nil, nil
	p.mu.Unlock()

	if camIdx != nil {
		p.switchCamera(*camIdx)
	}
	if micIdx != nil {
		p.switchMicrophone(*micIdx)
	}
}

// switchCamera replaces the camera with the device at index. The new
// device is opened before the old one closes, so an open failure keeps
// the current camera capturing.
func (p *Pipeline) switchCamera(index int) {
	if index == p.cameraIndex {
		return
	}

	cam, err := p.openCam(index, p.cfg.Video.Width, p.cfg.Video.Height)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "switchCamera",
			"index":    index,
			"error":    err.Error(),
		}).Warn("Camera switch failed, keeping current device")
		return
	}

	if err := p.camera.Close(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "switchCamera",
			"error":    err.Error(),
		}).Warn("Closing previous camera failed")
	}

	p.mu.Lock()
	p.camera = cam
	p.cameraIndex = index
	p.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "switchCamera",
		"index":    index,
	}).Info("Camera switched")
}

// switchMicrophone replaces the audio input with the device at index.
// The current input stops before the new one opens so two capture
// callbacks never feed the extractor at once; if the new device fails,
// the old one is restarted.
func (p *Pipeline) switchMicrophone(index int) {
	if index == p.micIndex {
		return
	}

	old := p.mic
	if err := old.Stop(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "switchMicrophone",
			"error":    err.Error(),
		}).Warn("Stopping current microphone failed")
	}

	mic, err := p.openMic(index, float64(p.cfg.Audio.SampleRate), p.cfg.Audio.BlockSize, p.audioBlock)
	if err == nil {
		if serr := mic.Start(); serr != nil {
			mic.Close()
			err = serr
		}
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "switchMicrophone",
			"index":    index,
			"error":    err.Error(),
		}).Warn("Microphone switch failed, keeping current device")
		if rerr := old.Start(); rerr != nil {
			logrus.WithFields(logrus.Fields{
				"function": "switchMicrophone",
				"error":    rerr.Error(),
			}).Warn("Previous microphone could not be restarted")
		}
		return
	}

	if err := old.Close(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "switchMicrophone",
			"error":    err.Error(),
		}).Warn("Closing previous microphone failed")
	}

	p.mu.Lock()
	p.mic = mic
	p.micIndex = index
	p.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "switchMicrophone",
		"index":    index,
	}).Info("Microphone switched")
}

// closeDevicesLocked stops audio capture and releases both devices.
// Callers hold p.mu.
func (p *Pipeline) closeDevicesLocked() {
	if p.mic != nil {
		if err := p.mic.Stop(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "closeDevicesLocked",
				"error":    err.Error(),
			}).Warn("Stopping microphone failed")
		}
		if err := p.mic.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "closeDevicesLocked",
				"error":    err.Error(),
			}).Warn("Closing microphone failed")
		}
		p.mic = nil
	}
	if p.camera != nil {
		if err := p.camera.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "closeDevicesLocked",
				"error":    err.Error(),
			}).Warn("Closing camera failed")
		}
		p.camera = nil
	}
}

// Chain returns the effect chain. Populate it before Run; its methods
// are safe to call while the pipeline is running.
func (p *Pipeline) Chain() *effects.Chain {
	return p.chain
}

// Registry returns the effect registry used to build chain entries.
func (p *Pipeline) Registry() *effects.Registry {
	return p.registry
}

// Gradients returns the asset library shared by the color effects.
func (p *Pipeline) Gradients() *gradient.Library {
	return p.gradients
}

// Features returns the snapshot hand-off slot fed by the audio side.
func (p *Pipeline) Features() *audio.FeatureBuffer {
	return p.features
}

// Metrics returns a point-in-time copy of the activity counters.
func (p *Pipeline) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}

// Config returns the active configuration. Treat it as read-only once
// the pipeline is built.
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// CameraIndex returns the index of the camera currently capturing.
func (p *Pipeline) CameraIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cameraIndex
}

// MicrophoneIndex returns the index of the audio input currently
// capturing.
func (p *Pipeline) MicrophoneIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.micIndex
}
