package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Audio contains configuration for microphone capture and analysis.
type Audio struct {
	// SampleRate is the capture rate in Hz.
	SampleRate int `toml:"sample_rate"`

	// BlockSize is the number of samples per capture callback, a power
	// of two.
	BlockSize int `toml:"block_size"`

	// FFTSize is the analysis window length in samples, a power of two.
	FFTSize int `toml:"fft_size"`

	// Device is the input device index, -1 for the system default.
	Device int `toml:"device"`
}

// Video contains configuration for camera capture and the tick loop.
type Video struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// FPS is the target tick rate of the video loop.
	FPS int `toml:"fps"`

	// Device is the camera index (the N in /dev/videoN).
	Device int `toml:"device"`
}

// Gradients contains configuration for the gradient asset library.
type Gradients struct {
	// Dir is the directory scanned for gradient JSON files.
	Dir string `toml:"dir"`
}

// Detector contains configuration for face detection.
type Detector struct {
	// Cascade is the path to a pigo binary cascade file. Empty disables
	// face detection; the spotlight effect then passes frames through.
	Cascade string `toml:"cascade"`
}

// Recording contains configuration for WAV capture of the microphone.
type Recording struct {
	// Dir is where capture_<timestamp>.wav files are written.
	Dir string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	// Level is one of the logrus level names (trace through panic).
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for the pipeline.
//
// Sections by subsystem:
//   - Audio: microphone capture and feature analysis settings
//   - Video: camera geometry and tick rate
//   - Gradients: gradient asset directory
//   - Detector: face detection cascade
//   - Recording: WAV capture output directory
//   - Logging: log level and format
type Config struct {
	Audio     Audio     `toml:"audio"`
	Video     Video     `toml:"video"`
	Gradients Gradients `toml:"gradients"`
	Detector  Detector  `toml:"detector"`
	Recording Recording `toml:"recording"`
	Logging   Logging   `toml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Audio: Audio{
			SampleRate: 44100,
			BlockSize:  1024,
			FFTSize:    1024,
			Device:     -1,
		},
		Video: Video{
			Width:  1280,
			Height: 720,
			FPS:    30,
			Device: 0,
		},
		Gradients: Gradients{
			Dir: "gradients",
		},
		Recording: Recording{
			Dir: ".",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and validates the configuration file at path. A missing
// file is not an error: defaults are returned. Malformed TOML or invalid
// values are errors, and the pipeline must not start with them.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Fall through to defaults.
		case err != nil:
			return nil, fmt.Errorf("open config: %w", err)
		default:
			defer file.Close()
			decoder := toml.NewDecoder(file)
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration is usable. Any error here is a
// startup failure; nothing is corrected silently.
func (c *Config) Validate() error {
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("audio.sample_rate must be between 8000 and 192000, got %d", c.Audio.SampleRate)
	}
	if !isPowerOfTwo(c.Audio.BlockSize) || c.Audio.BlockSize < 64 || c.Audio.BlockSize > 16384 {
		return fmt.Errorf("audio.block_size must be a power of two between 64 and 16384, got %d", c.Audio.BlockSize)
	}
	if !isPowerOfTwo(c.Audio.FFTSize) || c.Audio.FFTSize < 256 || c.Audio.FFTSize > 16384 {
		return fmt.Errorf("audio.fft_size must be a power of two between 256 and 16384, got %d", c.Audio.FFTSize)
	}
	if c.Audio.Device < -1 {
		return fmt.Errorf("audio.device must be -1 (default) or a device index, got %d", c.Audio.Device)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.Width < 16 || c.Video.Width > 7680 {
		return fmt.Errorf("video.width must be between 16 and 7680, got %d", c.Video.Width)
	}
	if c.Video.Height < 16 || c.Video.Height > 4320 {
		return fmt.Errorf("video.height must be between 16 and 4320, got %d", c.Video.Height)
	}
	if c.Video.FPS < 1 || c.Video.FPS > 240 {
		return fmt.Errorf("video.fps must be between 1 and 240, got %d", c.Video.FPS)
	}
	if c.Video.Device < 0 {
		return fmt.Errorf("video.device must be a camera index, got %d", c.Video.Device)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
