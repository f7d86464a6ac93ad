package vjkit

import "errors"

// Sentinel errors for pipeline construction and lifecycle.
// These errors enable reliable error classification using errors.Is().

// Construction errors. Anything New returns is a configuration failure:
// the pipeline must not start.
var (
	// ErrNilDisplay indicates Options.Display was not provided.
	ErrNilDisplay = errors.New("display callback is required")
)

// Lifecycle errors.
var (
	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("pipeline already started")

	// ErrNotStarted indicates Run was called before Start, after Stop,
	// or while another Run is in progress.
	ErrNotStarted = errors.New("pipeline not started")
)

// errStopRequested is the internal tick-loop exit signal for Stop; Run
// reports it as a clean nil return.
var errStopRequested = errors.New("stop requested")
