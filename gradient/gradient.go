package gradient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// Sentinel errors for asset validation. These are recoverable asset
// errors: callers fall back to a previous or default asset.
var (
	// ErrTooFewStops indicates the asset has fewer than two color stops.
	ErrTooFewStops = errors.New("gradient requires at least 2 stops")

	// ErrStopOutOfRange indicates a stop position outside [0, 1].
	ErrStopOutOfRange = errors.New("gradient stop position out of range")

	// ErrBadColor indicates a color with missing or out-of-range components.
	ErrBadColor = errors.New("gradient color component out of range")
)

// Stop is a single color stop.
type Stop struct {
	Position float64
	Color    [3]uint8
}

// Asset is an ordered sequence of color stops. Stops are sorted by
// position and the validation invariants of Decode hold for any Asset
// obtained from this package.
type Asset struct {
	Name  string
	Stops []Stop
}

type stopJSON struct {
	Position float64 `json:"position"`
	Color    []int   `json:"color"`
}

type assetJSON struct {
	Name  string     `json:"name"`
	Stops []stopJSON `json:"stops"`
}

// Decode reads one gradient asset from r and validates it. A trailing
// alpha component in colors is tolerated and dropped.
func Decode(r io.Reader) (*Asset, error) {
	var raw assetJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse gradient: %w", err)
	}

	if len(raw.Stops) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewStops, len(raw.Stops))
	}

	asset := &Asset{Name: raw.Name, Stops: make([]Stop, 0, len(raw.Stops))}
	for i, s := range raw.Stops {
		if s.Position < 0 || s.Position > 1 {
			return nil, fmt.Errorf("%w: stop %d at %v", ErrStopOutOfRange, i, s.Position)
		}
		if len(s.Color) < 3 {
			return nil, fmt.Errorf("%w: stop %d has %d components", ErrBadColor, i, len(s.Color))
		}
		var c [3]uint8
		for j := 0; j < 3; j++ {
			if s.Color[j] < 0 || s.Color[j] > 255 {
				return nil, fmt.Errorf("%w: stop %d component %d = %d", ErrBadColor, i, j, s.Color[j])
			}
			c[j] = uint8(s.Color[j])
		}
		asset.Stops = append(asset.Stops, Stop{Position: s.Position, Color: c})
	}

	sort.SliceStable(asset.Stops, func(a, b int) bool {
		return asset.Stops[a].Position < asset.Stops[b].Position
	})
	return asset, nil
}

// LoadFile loads and validates a gradient asset from disk.
func LoadFile(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gradient file: %w", err)
	}
	defer f.Close()

	asset, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return asset, nil
}

// ColorAt interpolates the gradient color at position pos, clamped to
// [0, 1]. Interpolation is linear between the surrounding stops; positions
// before the first stop extrapolate from the first pair with per-channel
// clamping, matching the table the authoring tool previews.
func (a *Asset) ColorAt(pos float64) (r, g, b uint8) {
	if pos < 0 {
		pos = 0
	} else if pos > 1 {
		pos = 1
	}

	for i := 0; i < len(a.Stops)-1; i++ {
		s1 := a.Stops[i]
		s2 := a.Stops[i+1]
		if pos > s2.Position {
			continue
		}
		if s1.Position == s2.Position {
			return s1.Color[0], s1.Color[1], s1.Color[2]
		}
		t := (pos - s1.Position) / (s2.Position - s1.Position)
		return lerpChannel(s1.Color[0], s2.Color[0], t),
			lerpChannel(s1.Color[1], s2.Color[1], t),
			lerpChannel(s1.Color[2], s2.Color[2], t)
	}

	last := a.Stops[len(a.Stops)-1]
	return last.Color[0], last.Color[1], last.Color[2]
}

func lerpChannel(c1, c2 uint8, t float64) uint8 {
	v := float64(c1) + t*(float64(c2)-float64(c1))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// LUT is a 256-entry color table indexed by an 8-bit scalar.
type LUT struct {
	table [256][3]uint8
}

// LUT builds the asset's lookup table.
func (a *Asset) LUT() *LUT {
	var l LUT
	for i := 0; i < 256; i++ {
		r, g, b := a.ColorAt(float64(i) / 255.0)
		l.table[i] = [3]uint8{r, g, b}
	}
	return &l
}

// At returns the color for index i.
func (l *LUT) At(i uint8) (r, g, b uint8) {
	c := l.table[i]
	return c[0], c[1], c[2]
}
