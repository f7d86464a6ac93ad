package effects

import (
	"fmt"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// Box is an axis-aligned pixel region.
type Box struct {
	X, Y, W, H int
}

// FaceDetector locates the most prominent face in a grayscale image.
// Implementations must be safe to call repeatedly from one goroutine.
type FaceDetector interface {
	// Detect scans a row-major 8-bit grayscale image and returns the
	// best face box, or false when no face is found.
	Detect(gray []uint8, width, height int) (Box, bool)
}

// pigoMinQuality rejects low-confidence detections.
const pigoMinQuality = 5.0

// PigoDetector wraps the pigo cascade classifier.
type PigoDetector struct {
	classifier *pigo.Pigo
}

// NewPigoDetector loads a binary cascade file and prepares the
// classifier.
func NewPigoDetector(cascadePath string) (*PigoDetector, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade %s: %w", cascadePath, err)
	}
	return &PigoDetector{classifier: classifier}, nil
}

// Detect runs the cascade over the image and returns the
// highest-quality clustered detection.
func (d *PigoDetector) Detect(gray []uint8, width, height int) (Box, bool) {
	minSize := height / 8
	if minSize < 20 {
		minSize = 20
	}

	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     height,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: gray,
			Rows:   height,
			Cols:   width,
			Dim:    width,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	best := -1
	for i, det := range dets {
		if det.Q < pigoMinQuality {
			continue
		}
		if best < 0 || det.Q > dets[best].Q {
			best = i
		}
	}
	if best < 0 {
		return Box{}, false
	}

	det := dets[best]
	half := det.Scale / 2
	return Box{
		X: det.Col - half,
		Y: det.Row - half,
		W: det.Scale,
		H: det.Scale,
	}, true
}
