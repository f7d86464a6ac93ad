package effects

import (
	"fmt"
	"sync"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/video"
)

// Chain runs an ordered list of effects over each frame. Enable flags
// live here, not on the effects: a disabled entry is skipped entirely,
// so its counters and history freeze until it is enabled again.
//
// One entry is the active effect, the first stop for control tokens.
// The chain also owns two globals: Mix blends the chain's output with
// the unprocessed input frame, and Intensity scales the audio response
// (band energies and beat strength) every effect sees.
//
// All methods are safe for concurrent use.
type Chain struct {
	mu        sync.Mutex
	entries   []chainEntry
	activeID  string
	mix       float64
	intensity float64
}

type chainEntry struct {
	effect  Effect
	enabled bool
}

// EntryInfo is a point-in-time description of one chain entry.
type EntryInfo struct {
	ID      string
	Name    string
	Enabled bool
	Active  bool
}

// NewChain creates an empty chain with Mix and Intensity at 1.
func NewChain() *Chain {
	return &Chain{mix: 1, intensity: 1}
}

// Append adds an effect to the end of the chain, enabled. The first
// effect added becomes the active one.
func (c *Chain) Append(e Effect) error {
	if e == nil {
		return ErrNilEffect
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, chainEntry{effect: e, enabled: true})
	if c.activeID == "" {
		c.activeID = e.ID()
	}
	return nil
}

// InsertAt adds an effect at the given position, enabled.
func (c *Chain) InsertAt(pos int, e Effect) error {
	if e == nil {
		return ErrNilEffect
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if pos < 0 || pos > len(c.entries) {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, pos)
	}
	c.entries = append(c.entries, chainEntry{})
	copy(c.entries[pos+1:], c.entries[pos:])
	c.entries[pos] = chainEntry{effect: e, enabled: true}
	if c.activeID == "" {
		c.activeID = e.ID()
	}
	return nil
}

// Remove deletes the effect with the given ID. If it was active, the
// entry now in its position becomes active.
func (c *Chain) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEffectNotFound, id)
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	if c.activeID == id {
		c.activeID = ""
		if len(c.entries) > 0 {
			if i >= len(c.entries) {
				i = len(c.entries) - 1
			}
			c.activeID = c.entries[i].effect.ID()
		}
	}
	return nil
}

// MoveTo repositions the effect with the given ID.
func (c *Chain) MoveTo(id string, pos int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEffectNotFound, id)
	}
	if pos < 0 || pos >= len(c.entries) {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, pos)
	}
	entry := c.entries[i]
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	c.entries = append(c.entries, chainEntry{})
	copy(c.entries[pos+1:], c.entries[pos:])
	c.entries[pos] = entry
	return nil
}

// Enable marks the effect with the given ID as processing.
func (c *Chain) Enable(id string) error {
	return c.setEnabled(id, true)
}

// Disable skips the effect with the given ID; its state freezes.
func (c *Chain) Disable(id string) error {
	return c.setEnabled(id, false)
}

func (c *Chain) setEnabled(id string, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEffectNotFound, id)
	}
	c.entries[i].enabled = enabled
	return nil
}

// SetActive makes the effect with the given ID the control target.
func (c *Chain) SetActive(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrEffectNotFound, id)
	}
	c.activeID = id
	return nil
}

// CycleActive advances the active effect to the next chain position,
// wrapping at the end.
func (c *Chain) CycleActive() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return
	}
	i := c.indexOf(c.activeID)
	c.activeID = c.entries[(i+1)%len(c.entries)].effect.ID()
}

// ActiveID returns the active effect's ID, or "" for an empty chain.
func (c *Chain) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Len returns the number of entries.
func (c *Chain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Effects returns a snapshot of the chain's effects in order.
func (c *Chain) Effects() []Effect {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Effect, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.effect
	}
	return out
}

// Describe returns a snapshot of the chain for display.
func (c *Chain) Describe() []EntryInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]EntryInfo, len(c.entries))
	for i, e := range c.entries {
		out[i] = EntryInfo{
			ID:      e.effect.ID(),
			Name:    e.effect.Name(),
			Enabled: e.enabled,
			Active:  e.effect.ID() == c.activeID,
		}
	}
	return out
}

// Mix returns the output blend factor.
func (c *Chain) Mix() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mix
}

// SetMix sets the blend between chain output (1) and the unprocessed
// input frame (0). Values outside [0, 1] are rejected.
func (c *Chain) SetMix(v float64) bool {
	if v < 0 || v > 1 || v != v {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mix = v
	return true
}

// Intensity returns the audio response scale.
func (c *Chain) Intensity() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intensity
}

// SetIntensity scales the band energies and beat strength effects see,
// 0 to 2. Values outside that range are rejected.
func (c *Chain) SetIntensity(v float64) bool {
	if v < 0 || v > 2 || v != v {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intensity = v
	return true
}

// Process runs the frame through all enabled effects in order and
// applies the mix blend. A nil frame is returned unchanged.
func (c *Chain) Process(frame *video.Frame, feat *audio.AudioFeatureSnapshot) *video.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	if frame == nil {
		return nil
	}
	feat = c.scaledFeatures(feat)

	var dry *video.Frame
	if c.mix < 1 {
		dry = frame.Clone()
	}

	out := frame
	for i := range c.entries {
		if !c.entries[i].enabled {
			continue
		}
		out = c.entries[i].effect.Process(out, feat)
	}

	if dry != nil && out.SameGeometry(dry) {
		blendFrames(out, dry, c.mix)
	}
	return out
}

// scaledFeatures applies the intensity scale to a copy of the snapshot.
// Beat and onset flags are never scaled, only magnitudes.
func (c *Chain) scaledFeatures(feat *audio.AudioFeatureSnapshot) *audio.AudioFeatureSnapshot {
	if feat == nil || c.intensity == 1 {
		return feat
	}
	scaled := *feat
	for i := range scaled.Bands {
		v := scaled.Bands[i] * c.intensity
		if v > 1 {
			v = 1
		}
		scaled.Bands[i] = v
	}
	if bs := scaled.BeatStrength * c.intensity; bs <= 1 {
		scaled.BeatStrength = bs
	} else {
		scaled.BeatStrength = 1
	}
	return &scaled
}

// blendFrames overwrites wet with mix*wet + (1-mix)*dry.
func blendFrames(wet, dry *video.Frame, mix float64) {
	w := uint32(mix*256 + 0.5)
	for i, p := range wet.Pix {
		wet.Pix[i] = uint8((uint32(p)*w + uint32(dry.Pix[i])*(256-w)) >> 8)
	}
}

// HandleControl offers the token to the active effect first, then the
// rest of the chain in order. Returns true when any effect consumes it.
func (c *Chain) HandleControl(ctrl Control) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.indexOf(c.activeID)
	if active >= 0 && c.entries[active].effect.HandleControl(ctrl) {
		return true
	}
	for i := range c.entries {
		if i == active {
			continue
		}
		if c.entries[i].effect.HandleControl(ctrl) {
			return true
		}
	}
	return false
}

// ResetAll restores every effect to defaults and clears history.
func (c *Chain) ResetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i].effect.Reset()
	}
}

// indexOf returns the position of the entry with the given ID, or -1.
// Callers hold c.mu.
func (c *Chain) indexOf(id string) int {
	for i := range c.entries {
		if c.entries[i].effect.ID() == id {
			return i
		}
	}
	return -1
}
