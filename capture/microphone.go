package capture

import (
	"fmt"
	"runtime"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

// BlockFunc receives one block of mono samples scaled to [-1, 1]. It is
// called on the audio capture thread, so it must not block: hand work
// to the analysis path and return.
type BlockFunc func(block []float64)

// AudioInput is a started/stopped source of audio blocks. Microphone is
// the production implementation; tests and demos substitute synthetic
// sources.
type AudioInput interface {
	Start() error
	Stop() error
	Close() error
}

// WAVRecorder is the optional capture-to-disk surface of an AudioInput.
// The pipeline's record toggle works on any input that implements it.
type WAVRecorder interface {
	StartRecording(path string) error
	StopRecording() error
	Recording() bool
}

// Microphone captures mono audio from a PortAudio input device and
// delivers fixed-size blocks to a BlockFunc. Buffers are pre-allocated;
// the capture callback performs no allocation.
//
// Requires Initialize before opening and is not safe for concurrent
// Start/Stop/Close calls.
type Microphone struct {
	device *portaudio.DeviceInfo
	stream *portaudio.Stream
	fn     BlockFunc

	in    []int32
	block []float64

	rec *Recorder
}

// int32Scale converts full-range int32 samples to [-1, 1].
const int32Scale = 1.0 / (1 << 31)

// OpenMicrophone opens the input device at index (-1 for the system
// default) capturing mono at sampleRate with blockSize frames per
// callback. The stream is created but not started.
func OpenMicrophone(index int, sampleRate float64, blockSize int, fn BlockFunc) (*Microphone, error) {
	dev, err := inputDevice(index)
	if err != nil {
		return nil, err
	}

	m := &Microphone{
		device: dev,
		fn:     fn,
		in:     make([]int32, blockSize),
		block:  make([]float64, blockSize),
		rec:    NewRecorder(int(sampleRate)),
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: blockSize,
	}

	stream, err := portaudio.OpenStream(params, m.process)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q (%v)", ErrDeviceUnavailable, dev.Name, err)
	}
	m.stream = stream

	logrus.WithFields(logrus.Fields{
		"function":    "OpenMicrophone",
		"device":      dev.Name,
		"sample_rate": sampleRate,
		"block_size":  blockSize,
	}).Info("Microphone opened")
	return m, nil
}

// Name returns the underlying device name.
func (m *Microphone) Name() string {
	return m.device.Name
}

// Start begins capture; the BlockFunc runs until Stop.
func (m *Microphone) Start() error {
	if err := m.stream.Start(); err != nil {
		return fmt.Errorf("%w: start %q (%v)", ErrDeviceUnavailable, m.device.Name, err)
	}
	return nil
}

// Stop halts capture. The BlockFunc is not called once Stop returns.
func (m *Microphone) Stop() error {
	if err := m.stream.Stop(); err != nil {
		return fmt.Errorf("stop %q: %w", m.device.Name, err)
	}
	return nil
}

// Close stops any recording and releases the stream.
func (m *Microphone) Close() error {
	err := m.rec.Stop()
	if m.stream != nil {
		if cerr := m.stream.Close(); err == nil {
			err = cerr
		}
		m.stream = nil
	}
	return err
}

// StartRecording writes the raw capture feed to a WAV file at path.
func (m *Microphone) StartRecording(path string) error {
	return m.rec.Start(path)
}

// StopRecording finishes an in-progress recording.
func (m *Microphone) StopRecording() error {
	return m.rec.Stop()
}

// Recording reports whether the capture feed is being written to disk.
func (m *Microphone) Recording() bool {
	return m.rec.Recording()
}

// process is the capture callback. It runs on the audio thread with
// pre-allocated buffers only.
func (m *Microphone) process(in []int32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	n := copy(m.in, in)
	m.rec.Write(m.in[:n])

	for i, s := range m.in[:n] {
		m.block[i] = float64(s) * int32Scale
	}
	if m.fn != nil {
		m.fn(m.block[:n])
	}
}
