// Package gradient loads color gradient assets and turns them into lookup
// tables for the effects that map scalar values to colors.
//
// Assets are JSON documents produced by an external authoring tool:
//
//	{
//	  "name": "sunset",
//	  "stops": [
//	    {"position": 0.0, "color": [10, 0, 40]},
//	    {"position": 1.0, "color": [255, 200, 80]}
//	  ]
//	}
//
// A valid asset has at least two stops, positions within [0, 1] and color
// components within 0-255. The authoring tool appends an alpha component
// to colors; it is accepted and ignored. Stops are sorted by position on
// load. Files follow the convention gradient_<timestamp>.json.
//
// A Library scans a directory of assets and always carries a built-in
// grayscale default at index 0, so consumers can index unconditionally:
//
//	lib, _ := gradient.NewLibrary("gradients")
//	lut := lib.Get(0).LUT()
//	r, g, b := lut.At(128)
//
// Malformed files are reported and skipped, never fatal: the consuming
// effect keeps its previous asset.
//
// # Thread Safety
//
// Library and Asset are not thread-safe. The pipeline confines them to the
// video-processing goroutine.
package gradient
