package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Initialize sets up the PortAudio subsystem. Call once before any
// microphone operation and pair with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	return nil
}

// Terminate shuts down the PortAudio subsystem. Defer it right after a
// successful Initialize.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminate portaudio: %w", err)
	}
	return nil
}

// AudioDevice describes one audio input device.
type AudioDevice struct {
	// Index identifies the device for OpenMicrophone. It is the
	// device's position in the PortAudio device list.
	Index int

	Name       string
	Channels   int
	SampleRate float64
}

// AudioDevices enumerates the available audio input devices. Requires a
// prior Initialize.
func AudioDevices() ([]AudioDevice, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	var inputs []AudioDevice
	for i, dev := range devices {
		if dev.MaxInputChannels < 1 {
			continue
		}
		inputs = append(inputs, AudioDevice{
			Index:      i,
			Name:       dev.Name,
			Channels:   dev.MaxInputChannels,
			SampleRate: dev.DefaultSampleRate,
		})
	}
	return inputs, nil
}

// inputDevice resolves an input device index, with -1 selecting the
// system default.
func inputDevice(index int) (*portaudio.DeviceInfo, error) {
	if index == -1 {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: no default input (%v)", ErrNoSuchDevice, err)
		}
		return dev, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}
	if index < 0 || index >= len(devices) {
		return nil, fmt.Errorf("%w: audio index %d", ErrNoSuchDevice, index)
	}
	dev := devices[index]
	if dev.MaxInputChannels < 1 {
		return nil, fmt.Errorf("%w: %q has no input channels", ErrNoSuchDevice, dev.Name)
	}
	return dev, nil
}

// CameraDevice describes one V4L2 capture device.
type CameraDevice struct {
	// Index is the N in /dev/videoN, used by OpenCamera.
	Index int

	Path string
	Name string
}

// CameraDevices enumerates /dev/video* devices, with names read from
// sysfs where available.
func CameraDevices() ([]CameraDevice, error) {
	return cameraDevicesIn("/dev", "/sys/class/video4linux")
}

func cameraDevicesIn(devDir, sysDir string) ([]CameraDevice, error) {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", devDir, err)
	}

	var cameras []CameraDevice
	for _, entry := range entries {
		name := entry.Name()
		suffix, ok := strings.CutPrefix(name, "video")
		if !ok {
			continue
		}
		index, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}

		cam := CameraDevice{
			Index: index,
			Path:  filepath.Join(devDir, name),
			Name:  name,
		}
		if label, err := os.ReadFile(filepath.Join(sysDir, name, "name")); err == nil {
			if trimmed := strings.TrimSpace(string(label)); trimmed != "" {
				cam.Name = trimmed
			}
		}
		cameras = append(cameras, cam)
	}

	sort.Slice(cameras, func(a, b int) bool {
		return cameras[a].Index < cameras[b].Index
	})
	return cameras, nil
}
