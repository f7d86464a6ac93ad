package vjkit

import (
	"fmt"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/capture"
	"github.com/opd-ai/vjkit/config"
	"github.com/opd-ai/vjkit/effects"
	"github.com/opd-ai/vjkit/gradient"
	"github.com/opd-ai/vjkit/video"
)

// DisplayFunc receives the processed frame and the feature snapshot it
// was rendered with, once per tick, on the goroutine that called Run.
// The frame's Mirrored flag carries the orientation to apply at render
// time. The frame is valid only for the duration of the call: capture
// sources reuse their buffers, so implementations that keep pixels must
// clone them.
type DisplayFunc func(frame *video.Frame, feat *audio.AudioFeatureSnapshot)

// CameraOpener opens the camera at index with a preferred frame size.
// The default is capture.OpenCamera; tests and hardware-free demos
// substitute synthetic sources.
type CameraOpener func(index, width, height int) (capture.Camera, error)

// MicrophoneOpener opens the audio input at index delivering blockSize
// samples at sampleRate to fn. The returned input must be ready to
// Start. The default is capture.OpenMicrophone.
type MicrophoneOpener func(index int, sampleRate float64, blockSize int, fn capture.BlockFunc) (capture.AudioInput, error)

// CameraLister enumerates switchable cameras for the "camera.next"
// control. The default is capture.CameraDevices.
type CameraLister func() ([]capture.CameraDevice, error)

// MicrophoneLister enumerates switchable audio inputs for the
// "mic.next" control. The default is capture.AudioDevices.
type MicrophoneLister func() ([]capture.AudioDevice, error)

// Options configures a Pipeline.
type Options struct {
	// Config supplies device, analysis, and timing settings. Nil means
	// config.Default().
	Config *config.Config

	// Display receives each processed frame. Required.
	Display DisplayFunc

	// OpenCamera and OpenMicrophone open capture devices by index.
	// Nil selects the hardware implementations in the capture package.
	OpenCamera     CameraOpener
	OpenMicrophone MicrophoneOpener

	// ListCameras and ListMicrophones enumerate devices for the cyclic
	// next-device controls. Nil selects the capture package scanners.
	ListCameras     CameraLister
	ListMicrophones MicrophoneLister

	// Gradients overrides the asset library built from the configured
	// directory. Mainly for tests.
	Gradients *gradient.Library

	// Detector overrides the face detector built from the configured
	// cascade file. Mainly for tests.
	Detector effects.FaceDetector
}

// New builds a Pipeline from opts. It validates the configuration,
// constructs the feature extractor, loads the gradient library and the
// face cascade, and registers the built-in effects. The effect chain
// starts empty; callers append what they need before Run. No devices
// are opened until Start.
func New(opts *Options) (*Pipeline, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Display == nil {
		return nil, ErrNilDisplay
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	extractor, err := audio.NewExtractor(float64(cfg.Audio.SampleRate), cfg.Audio.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("create extractor: %w", err)
	}

	gradients := opts.Gradients
	if gradients == nil {
		gradients = gradient.NewLibrary(cfg.Gradients.Dir)
	}

	detector := opts.Detector
	if detector == nil && cfg.Detector.Cascade != "" {
		detector, err = effects.NewPigoDetector(cfg.Detector.Cascade)
		if err != nil {
			return nil, fmt.Errorf("load face cascade: %w", err)
		}
	}

	p := &Pipeline{
		cfg:       cfg,
		display:   opts.Display,
		openCam:   opts.OpenCamera,
		openMic:   opts.OpenMicrophone,
		listCams:  opts.ListCameras,
		listMics:  opts.ListMicrophones,
		extractor: extractor,
		features:  extractor.Buffer(),
		chain:     effects.NewChain(),
		gradients: gradients,
		metrics:   &Metrics{},
		stop:      make(chan struct{}),
	}
	p.registry = effects.DefaultRegistry(effects.Context{
		Gradients: gradients,
		Detector:  detector,
	})
	if p.openCam == nil {
		p.openCam = defaultCameraOpener
	}
	if p.openMic == nil {
		p.openMic = defaultMicrophoneOpener
	}
	if p.listCams == nil {
		p.listCams = capture.CameraDevices
	}
	if p.listMics == nil {
		p.listMics = capture.AudioDevices
	}

	extractor.SetSnapshotFunc(p.metrics.observeSnapshot)
	return p, nil
}

func defaultCameraOpener(index, width, height int) (capture.Camera, error) {
	cam, err := capture.OpenCamera(index, width, height)
	if err != nil {
		return nil, err
	}
	return cam, nil
}

func defaultMicrophoneOpener(index int, sampleRate float64, blockSize int, fn capture.BlockFunc) (capture.AudioInput, error) {
	mic, err := capture.OpenMicrophone(index, sampleRate, blockSize, fn)
	if err != nil {
		return nil, err
	}
	return mic, nil
}
