package capture

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
)

// Recorder writes raw capture blocks to a 32-bit mono WAV file. Start
// and Stop are safe to call from any goroutine; Write is intended for
// the capture callback and is a cheap no-op while not recording.
//
// A failed write stops the recording rather than spamming the log from
// the audio thread: the error is reported once and the file is closed.
type Recorder struct {
	sampleRate int

	active atomic.Bool

	mu   sync.Mutex
	file *os.File
	enc  *wav.Encoder
	buf  *goaudio.IntBuffer
}

// NewRecorder creates a recorder for mono input at the given rate.
func NewRecorder(sampleRate int) *Recorder {
	return &Recorder{sampleRate: sampleRate}
}

// Start begins recording to path, creating or truncating the file.
func (r *Recorder) Start(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.enc != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyRecording, r.file.Name())
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}

	r.file = file
	r.enc = wav.NewEncoder(file, r.sampleRate, 32, 1, 1)
	r.buf = &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: r.sampleRate},
	}
	r.active.Store(true)

	logrus.WithFields(logrus.Fields{
		"function": "Recorder.Start",
		"path":     path,
		"rate":     r.sampleRate,
	}).Info("Recording started")
	return nil
}

// Stop finishes the recording and closes the file. Stopping an idle
// recorder is a no-op.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked()
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool {
	return r.active.Load()
}

// Write appends one block of samples to the recording, if one is active.
func (r *Recorder) Write(block []int32) {
	if !r.active.Load() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enc == nil {
		return
	}

	if cap(r.buf.Data) < len(block) {
		r.buf.Data = make([]int, len(block))
	}
	r.buf.Data = r.buf.Data[:len(block)]
	for i, s := range block {
		r.buf.Data[i] = int(s)
	}

	if err := r.enc.Write(r.buf); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Recorder.Write",
			"path":     r.file.Name(),
			"error":    err.Error(),
		}).Warn("Recording write failed, stopping recording")
		if cerr := r.closeLocked(); cerr != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Recorder.Write",
				"error":    cerr.Error(),
			}).Warn("Recording cleanup failed")
		}
	}
}

// closeLocked finalizes the WAV header and releases the file. Callers
// hold r.mu.
func (r *Recorder) closeLocked() error {
	if r.enc == nil {
		return nil
	}
	r.active.Store(false)

	path := r.file.Name()
	err := r.enc.Close()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	r.enc = nil
	r.file = nil
	r.buf = nil

	if err != nil {
		return fmt.Errorf("finish recording %s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{
		"function": "Recorder.Stop",
		"path":     path,
	}).Info("Recording stopped")
	return nil
}
