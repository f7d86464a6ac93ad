// Package effects implements the audio-reactive video effect chain.
//
// # Overview
//
// An Effect transforms one RGB frame at a time, optionally driven by the
// latest audio feature snapshot. Effects are stateful: trails remember
// previous frames, the auto-flip counts frames between toggles, the
// motion reveal integrates per-pixel velocity. The Chain runs an ordered
// list of effects over each frame and owns the enable flag for every
// entry, so a disabled effect is skipped entirely and its internal
// state freezes until it is enabled again.
//
// # Processing Contract
//
// Effect.Process never fails and never returns nil: given a valid frame
// it returns a valid frame of the same dimensions, either mutated in
// place or freshly allocated. Geometry changes mid-stream reset any
// per-pixel state an effect holds. Process runs on the render path, so
// implementations avoid allocation where practical and never log.
//
// # Parameters and Controls
//
// Every effect exposes its tunable state as ParamSpec descriptors.
// Values travel as float64 regardless of kind; Set rejects unknown names
// and out-of-range values by returning false and leaving state
// unchanged. Controls are one-shot tokens (Control strings) for actions
// that are not a value assignment, like toggling beat sync or stepping
// to the next gradient. HandleControl reports whether the effect
// consumed the token; the Chain offers a token to the active effect
// first and then walks the rest of the chain.
//
// # Construction
//
// Effects are built through the package Registry:
//
//	reg := effects.DefaultRegistry(effects.Context{Gradients: lib})
//	fx, err := reg.New("trail")
//	if err != nil {
//	    return err
//	}
//	chain.Append(fx)
//
// The Context carries shared resources: the gradient library used by the
// color-mapping effects and the face detector used by the spotlight.
//
// # Thread Safety
//
// Chain methods are safe for concurrent use; a mutex serializes frame
// processing against configuration changes. Individual effects are not
// safe for concurrent use on their own and expect to be driven through
// a Chain or from a single goroutine.
package effects
