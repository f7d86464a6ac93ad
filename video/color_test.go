package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuminance(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"pure red", 255, 0, 0, 76},
		{"pure green", 0, 255, 0, 149},
		{"pure blue", 0, 0, 255, 29},
		{"mid gray", 128, 128, 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Luminance(tt.r, tt.g, tt.b))
		})
	}
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 255},
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"gray", 100, 100, 100, 0, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			assert.Equal(t, tt.h, h, "hue")
			assert.Equal(t, tt.s, s, "saturation")
			assert.Equal(t, tt.v, v, "value")
		})
	}
}

func TestHueDistanceWrapsAround(t *testing.T) {
	// 5 and 175 are 10 apart on the circular scale, not 170.
	assert.Equal(t, 10, HueDistance(5, 175))
	assert.Equal(t, 10, HueDistance(175, 5))
	assert.Equal(t, 0, HueDistance(90, 90))
	assert.Equal(t, 90, HueDistance(0, 90))
}

func TestClampU8(t *testing.T) {
	assert.Equal(t, uint8(0), ClampU8(-5))
	assert.Equal(t, uint8(255), ClampU8(300))
	assert.Equal(t, uint8(42), ClampU8(42))
}
