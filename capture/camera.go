package capture

import (
	"fmt"

	"github.com/blackjack/webcam"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vjkit/video"
)

// Camera is a source of video frames. A frame returned by ReadFrame is
// owned by the caller only until the next ReadFrame call; implementations
// may reuse the buffer.
type Camera interface {
	ReadFrame() (*video.Frame, error)
	Close() error
}

// fourccYUYV is the V4L2 pixel format code for packed YUYV 4:2:2.
const fourccYUYV = webcam.PixelFormat(0x56595559)

// cameraWaitSeconds bounds one wait for the next frame.
const cameraWaitSeconds = 2

// cameraReadAttempts bounds retries over empty or short driver frames
// before a read reports failure.
const cameraReadAttempts = 4

// V4L2Camera captures frames from a /dev/videoN device in YUYV format
// and converts them to RGB. Not safe for concurrent use.
type V4L2Camera struct {
	cam   *webcam.Webcam
	path  string
	frame *video.Frame
}

// OpenCamera opens /dev/video<index>, negotiates YUYV at the nearest
// supported size to width x height, and starts streaming. The actual
// frame geometry may differ from the request; read it from the returned
// frames.
func OpenCamera(index, width, height int) (*V4L2Camera, error) {
	path := fmt.Sprintf("/dev/video%d", index)
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s (%v)", ErrDeviceUnavailable, path, err)
	}

	format, ok := pickYUYV(cam.GetSupportedFormats())
	if !ok {
		cam.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	w, h := nearestSize(cam.GetSupportedFrameSizes(format), uint32(width), uint32(height))
	setFormat, setW, setH, err := cam.SetImageFormat(format, w, h)
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("%w: set format on %s (%v)", ErrDeviceUnavailable, path, err)
	}
	if setFormat != format {
		cam.Close()
		return nil, fmt.Errorf("%w: %s switched to format %#x", ErrUnsupportedFormat, path, uint32(setFormat))
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, fmt.Errorf("%w: start streaming on %s (%v)", ErrDeviceUnavailable, path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "OpenCamera",
		"path":     path,
		"width":    setW,
		"height":   setH,
	}).Info("Camera opened")

	return &V4L2Camera{
		cam:   cam,
		path:  path,
		frame: video.NewFrame(int(setW), int(setH)),
	}, nil
}

// Path returns the device path the camera was opened from.
func (c *V4L2Camera) Path() string {
	return c.path
}

// ReadFrame blocks for the next frame and converts it to RGB. The
// returned frame is reused by the next call.
func (c *V4L2Camera) ReadFrame() (*video.Frame, error) {
	need := c.frame.Width * c.frame.Height * 2

	for attempt := 0; attempt < cameraReadAttempts; attempt++ {
		err := c.cam.WaitForFrame(cameraWaitSeconds)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			return nil, fmt.Errorf("%w: %s", ErrFrameTimeout, c.path)
		default:
			return nil, fmt.Errorf("wait for frame on %s: %w", c.path, err)
		}

		data, err := c.cam.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("read frame on %s: %w", c.path, err)
		}
		if len(data) < need {
			// Drivers occasionally deliver empty or truncated buffers
			// right after streaming starts.
			continue
		}

		YUYVToRGB(data, c.frame)
		c.frame.Mirrored = false
		return c.frame, nil
	}
	return nil, fmt.Errorf("%w: %s delivered no complete frame", ErrFrameTimeout, c.path)
}

// Close stops streaming and releases the device.
func (c *V4L2Camera) Close() error {
	if c.cam == nil {
		return nil
	}
	err := c.cam.StopStreaming()
	if cerr := c.cam.Close(); err == nil {
		err = cerr
	}
	c.cam = nil
	if err != nil {
		return fmt.Errorf("close %s: %w", c.path, err)
	}
	return nil
}

// pickYUYV finds the YUYV pixel format among the camera's offerings,
// matching by fourcc first and then by description.
func pickYUYV(formats map[webcam.PixelFormat]string) (webcam.PixelFormat, bool) {
	if _, ok := formats[fourccYUYV]; ok {
		return fourccYUYV, true
	}
	for pf, desc := range formats {
		if desc == "YUYV 4:2:2" {
			return pf, true
		}
	}
	return 0, false
}

// nearestSize picks the supported size closest to the request. Stepwise
// ranges are snapped to their step grid; with no size information the
// request passes through for the driver to resolve.
func nearestSize(sizes []webcam.FrameSize, w, h uint32) (uint32, uint32) {
	if len(sizes) == 0 {
		return w, h
	}

	bestW, bestH := w, h
	bestDist := int64(-1)
	for _, s := range sizes {
		cw := snapDimension(w, s.MinWidth, s.MaxWidth, s.StepWidth)
		ch := snapDimension(h, s.MinHeight, s.MaxHeight, s.StepHeight)
		dist := absDiff(cw, w) + absDiff(ch, h)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			bestW, bestH = cw, ch
		}
	}
	return bestW, bestH
}

// snapDimension clamps v into [min, max] on the step grid anchored at
// min. Discrete sizes have min == max and step 0.
func snapDimension(v, min, max, step uint32) uint32 {
	if v <= min {
		return min
	}
	if v >= max {
		return max
	}
	if step == 0 {
		return min
	}
	snapped := min + (v-min+step/2)/step*step
	if snapped > max {
		snapped = max
	}
	return snapped
}

func absDiff(a, b uint32) int64 {
	if a > b {
		return int64(a - b)
	}
	return int64(b - a)
}
