package video

// Channels is the number of color channels per pixel. Frames are packed
// RGB with no alpha.
const Channels = 3

// Frame is a rectangular interleaved RGB pixel buffer plus the display
// orientation flag. Width and height are fixed per capture session; every
// stage of the pipeline preserves them.
type Frame struct {
	Width  int
	Height int

	// Pix holds the pixel data in row-major RGB order. Its length is
	// Width * Height * Channels.
	Pix []uint8

	// Mirrored requests a horizontal flip at display time. It travels
	// with the frame so the render boundary never has to query effect
	// state.
	Mirrored bool
}

// NewFrame allocates a zeroed (black) frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	return &Frame{
		Width:    f.Width,
		Height:   f.Height,
		Pix:      append([]uint8(nil), f.Pix...),
		Mirrored: f.Mirrored,
	}
}

// CopyInto copies this frame's pixels and orientation into dst. dst must
// have the same geometry; CopyInto reallocates its buffer only when the
// length does not match.
func (f *Frame) CopyInto(dst *Frame) {
	dst.Width = f.Width
	dst.Height = f.Height
	dst.Mirrored = f.Mirrored
	if len(dst.Pix) != len(f.Pix) {
		dst.Pix = make([]uint8, len(f.Pix))
	}
	copy(dst.Pix, f.Pix)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (f *Frame) PixOffset(x, y int) int {
	return (y*f.Width + x) * Channels
}

// At returns the RGB components of the pixel at (x, y).
func (f *Frame) At(x, y int) (r, g, b uint8) {
	i := f.PixOffset(x, y)
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// SetRGB sets the pixel at (x, y).
func (f *Frame) SetRGB(x, y int, r, g, b uint8) {
	i := f.PixOffset(x, y)
	f.Pix[i] = r
	f.Pix[i+1] = g
	f.Pix[i+2] = b
}

// Fill sets every pixel to the given color.
func (f *Frame) Fill(r, g, b uint8) {
	for i := 0; i < len(f.Pix); i += Channels {
		f.Pix[i] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
	}
}

// SameGeometry reports whether two frames have identical dimensions.
func (f *Frame) SameGeometry(other *Frame) bool {
	return f.Width == other.Width && f.Height == other.Height
}
