package vjkit

import (
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vjkit/capture"
	"github.com/opd-ai/vjkit/effects"
)

// Driver-level control tokens. Tokens not listed here are only offered
// to the effect chain.
const (
	// ControlCameraNext switches to the next enumerated camera,
	// wrapping at the end of the list.
	ControlCameraNext = effects.Control("camera.next")

	// ControlMicNext switches to the next enumerated audio input.
	ControlMicNext = effects.Control("mic.next")

	// ControlRecordToggle starts or stops WAV capture of the raw
	// microphone feed.
	ControlRecordToggle = effects.Control("record.toggle")

	// ControlCycleActive advances the chain's active-effect cursor.
	ControlCycleActive = effects.Control("chain.cycle-active")

	// ControlChainReset restores every effect to defaults and clears
	// accumulated history.
	ControlChainReset = effects.Control("chain.reset")

	// ControlMixUp and ControlMixDown nudge the dry/wet blend.
	ControlMixUp   = effects.Control("chain.mix+")
	ControlMixDown = effects.Control("chain.mix-")

	// ControlIntensityUp and ControlIntensityDown nudge the audio
	// response scale.
	ControlIntensityUp   = effects.Control("chain.intensity+")
	ControlIntensityDown = effects.Control("chain.intensity-")
)

// controlStep is the mix and intensity change per nudge token.
const controlStep = 0.1

// HandleControl routes a control token. The effect chain gets the
// first chance (active effect, then the rest in order); tokens the
// chain does not consume are matched against the driver's own. Returns
// false when nothing recognized the token.
//
// Safe to call from any goroutine. Device switches triggered here are
// queued and take effect at the next tick boundary.
func (p *Pipeline) HandleControl(c effects.Control) bool {
	if p.chain.HandleControl(c) {
		return true
	}

	switch c {
	case ControlCameraNext:
		p.requestNextCamera()
	case ControlMicNext:
		p.requestNextMicrophone()
	case ControlRecordToggle:
		p.toggleRecording()
	case ControlCycleActive:
		p.chain.CycleActive()
	case ControlChainReset:
		p.chain.ResetAll()
	case ControlMixUp:
		p.nudgeMix(controlStep)
	case ControlMixDown:
		p.nudgeMix(-controlStep)
	case ControlIntensityUp:
		p.nudgeIntensity(controlStep)
	case ControlIntensityDown:
		p.nudgeIntensity(-controlStep)
	default:
		return false
	}
	return true
}

func (p *Pipeline) nudgeMix(delta float64) {
	v := p.chain.Mix() + delta
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.chain.SetMix(v)
}

func (p *Pipeline) nudgeIntensity(delta float64) {
	v := p.chain.Intensity() + delta
	if v < 0 {
		v = 0
	} else if v > 2 {
		v = 2
	}
	p.chain.SetIntensity(v)
}

// requestNextCamera queues a switch to the camera after the current one
// in enumeration order. A current device missing from the enumeration
// wraps to the first entry.
func (p *Pipeline) requestNextCamera() {
	devices, err := p.listCams()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "requestNextCamera",
			"error":    err.Error(),
		}).Warn("Camera enumeration failed")
		return
	}
	if len(devices) == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "requestNextCamera",
		}).Warn("No cameras found")
		return
	}

	current := p.CameraIndex()
	pos := -1
	for i, d := range devices {
		if d.Index == current {
			pos = i
			break
		}
	}
	next := devices[(pos+1)%len(devices)].Index

	if err := p.RequestCameraSwitch(next); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "requestNextCamera",
			"index":    next,
			"error":    err.Error(),
		}).Warn("Camera switch rejected")
	}
}

// requestNextMicrophone queues a switch to the audio input after the
// current one in enumeration order.
func (p *Pipeline) requestNextMicrophone() {
	devices, err := p.listMics()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "requestNextMicrophone",
			"error":    err.Error(),
		}).Warn("Audio input enumeration failed")
		return
	}
	if len(devices) == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "requestNextMicrophone",
		}).Warn("No audio inputs found")
		return
	}

	current := p.MicrophoneIndex()
	pos := -1
	for i, d := range devices {
		if d.Index == current {
			pos = i
			break
		}
	}
	next := devices[(pos+1)%len(devices)].Index

	if err := p.RequestMicrophoneSwitch(next); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "requestNextMicrophone",
			"index":    next,
			"error":    err.Error(),
		}).Warn("Microphone switch rejected")
	}
}

// toggleRecording starts or stops WAV capture on inputs that support
// it. New recordings land in the configured recording directory under
// a timestamped name.
func (p *Pipeline) toggleRecording() {
	p.mu.Lock()
	mic := p.mic
	p.mu.Unlock()

	if mic == nil {
		logrus.WithFields(logrus.Fields{
			"function": "toggleRecording",
		}).Warn("No audio input open")
		return
	}
	rec, ok := mic.(capture.WAVRecorder)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "toggleRecording",
		}).Warn("Audio input does not support recording")
		return
	}

	if rec.Recording() {
		if err := rec.StopRecording(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "toggleRecording",
				"error":    err.Error(),
			}).Warn("Stopping recording failed")
			return
		}
		logrus.WithFields(logrus.Fields{
			"function": "toggleRecording",
		}).Info("Recording stopped")
		return
	}

	name := "capture_" + time.Now().Format("20060102_150405") + ".wav"
	path := filepath.Join(p.cfg.Recording.Dir, name)
	if err := rec.StartRecording(path); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "toggleRecording",
			"path":     path,
			"error":    err.Error(),
		}).Warn("Starting recording failed")
		return
	}
	logrus.WithFields(logrus.Fields{
		"function": "toggleRecording",
		"path":     path,
	}).Info("Recording started")
}
