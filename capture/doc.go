// Package capture provides the device layer: microphone input through
// PortAudio, camera input through V4L2, device enumeration, and an
// optional WAV recorder for the raw audio feed.
//
// # Microphone
//
// OpenMicrophone opens a mono input stream delivering fixed-size sample
// blocks, scaled to [-1, 1], to a BlockFunc on the audio thread:
//
//	if err := capture.Initialize(); err != nil {
//	    return err
//	}
//	defer capture.Terminate()
//
//	mic, err := capture.OpenMicrophone(-1, 44100, 1024, func(block []float64) {
//	    extractor.Process(block)
//	})
//	if err != nil {
//	    return err
//	}
//	defer mic.Close()
//	mic.Start()
//
// The BlockFunc runs on the capture thread and must not block; feature
// extraction is cheap enough to run there directly. The Microphone's
// recorder writes the raw int32 feed to a 32-bit WAV file when toggled.
//
// # Camera
//
// Camera is the frame-source interface. OpenCamera wraps a V4L2 device
// in YUYV mode and converts to RGB; NewPatternSource is a deterministic
// synthetic camera for tests and demos. Frames returned by ReadFrame
// are reused by the next call, so a consumer that needs to keep one
// must clone it.
//
// # Thread Safety
//
// Device open/close and Start/Stop are single-goroutine operations.
// Recorder Start/Stop may race freely with the capture callback; that
// is the only concurrency this package arbitrates.
package capture
