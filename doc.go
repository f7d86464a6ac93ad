// Package vjkit implements an audio-reactive camera effects pipeline.
//
// vjkit ingests live camera frames and microphone audio, derives
// real-time audio features (spectrum, band energies, onset, beat, and
// tempo), and applies a user-selectable chain of audio-reactive visual
// transforms to each frame before display. Audio and video run at
// their own cadences; the only state shared between them is a
// single-slot feature buffer, so capture is never stalled by render
// cost and ticks never wait for analysis.
//
// # Getting Started
//
// Create a Pipeline with options, populate its effect chain, and run
// the tick loop on the goroutine your display backend requires:
//
//	pipe, err := vjkit.New(&vjkit.Options{
//	    Display: func(frame *video.Frame, feat *audio.AudioFeatureSnapshot) {
//	        window.Draw(frame)
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Build the effect chain from the registry.
//	for _, kind := range []string{"grade", "trail"} {
//	    e, err := pipe.Registry().New(kind)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    pipe.Chain().Append(e)
//	}
//
//	if err := pipe.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	pipe.Run(ctx)
//
// # Core Types
//
// The package defines several core types:
//
//   - [Pipeline]: the driver owning the tick loop and capture devices
//   - [Options]: configuration for creating a new Pipeline
//   - [Metrics]: activity counters readable while the pipeline runs
//
// # Controls
//
// One-shot actions route through [Pipeline.HandleControl] as
// [effects.Control] tokens. The chain's active effect sees a token
// first, then the other effects, then the driver:
//
//	pipe.HandleControl(vjkit.ControlCycleActive) // move the cursor
//	pipe.HandleControl(vjkit.ControlMixUp)       // nudge dry/wet blend
//	pipe.HandleControl(effects.Control("flip.toggle-sync"))
//
// Driver tokens cover device cycling (camera.next, mic.next), WAV
// recording of the raw microphone feed (record.toggle), and chain
// globals (chain.cycle-active, chain.reset, chain.mix+/-,
// chain.intensity+/-).
//
// # Device Switching
//
// Capture devices hot-swap at tick boundaries only, so a device is
// never reconfigured while a frame is in flight:
//
//	pipe.RequestCameraSwitch(1)     // applied before the next frame
//	pipe.RequestMicrophoneSwitch(0)
//
// A switch that fails to open the new device logs a warning and keeps
// the current device capturing; the pipeline never stops over a
// hot-swap failure.
//
// # Thread Safety
//
// Run owns the video side: camera reads, effect processing, and the
// display callback all happen on Run's goroutine. Audio analysis runs
// on the capture callback goroutine. Every other exported method is
// safe to call from any goroutine:
//
//   - Control and switch requests are queued under a mutex
//   - Chain methods carry their own lock
//   - Metrics counters are atomic
//
// # Integration Architecture
//
// This package is the integration point, orchestrating:
//
//   - [audio]: FFT feature extraction, onset detection, tempo tracking
//   - [video]: the RGB frame type shared by every stage
//   - [effects]: the effect chain, registry, and built-in effects
//   - [gradient]: color gradient assets and the library that loads them
//   - [capture]: PortAudio microphone and V4L2 camera devices
//   - [config]: TOML configuration with validation
package vjkit
