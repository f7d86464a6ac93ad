package capture

import "errors"

// Sentinel errors for capture operations.
// These errors enable reliable error classification using errors.Is().

// Device errors.
var (
	// ErrNoSuchDevice indicates the requested device index does not
	// exist or is not usable for the requested direction.
	ErrNoSuchDevice = errors.New("no such capture device")

	// ErrDeviceUnavailable indicates the device exists but could not be
	// opened or configured.
	ErrDeviceUnavailable = errors.New("capture device unavailable")

	// ErrUnsupportedFormat indicates the camera offers no pixel format
	// this package can convert.
	ErrUnsupportedFormat = errors.New("camera offers no supported pixel format")

	// ErrFrameTimeout indicates the camera produced no frame within the
	// read deadline.
	ErrFrameTimeout = errors.New("timed out waiting for camera frame")
)

// Recording errors.
var (
	// ErrAlreadyRecording indicates a recording is already in progress.
	ErrAlreadyRecording = errors.New("already recording")
)
