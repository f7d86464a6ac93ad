// Package video provides the frame model shared by capture sources and
// visual effects.
//
// Frames are interleaved 8-bit RGB buffers with a fixed geometry for the
// lifetime of a capture session:
//
//	frame := video.NewFrame(1280, 720)
//	frame.SetRGB(x, y, 255, 0, 0)
//	r, g, b := frame.At(x, y)
//
// The Mirrored flag records the horizontal orientation requested for
// display. Effects may toggle it; the render boundary applies it. Pixel
// data itself is never mirrored inside the pipeline.
//
// Color helpers follow the 8-bit conventions of the effects that consume
// them: luminance is the Rec. 601 weighting used for gradient lookups, and
// RGBToHSV produces hue on a 0-179 scale so that circular hue distance
// arithmetic stays in byte range.
//
// # Thread Safety
//
// Frames are not thread-safe. A frame is owned by exactly one goroutine at
// a time; ownership passes sequentially through the effect chain during a
// tick.
package video
