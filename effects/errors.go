package effects

import "errors"

// Sentinel errors for effect construction and chain operations.
// These errors enable reliable error classification using errors.Is().

// Registry errors.
var (
	// ErrUnknownKind indicates no factory is registered for the kind.
	ErrUnknownKind = errors.New("unknown effect kind")

	// ErrDuplicateKind indicates a factory is already registered.
	ErrDuplicateKind = errors.New("duplicate effect kind")

	// ErrEmptyKind indicates a registration with an empty kind name.
	ErrEmptyKind = errors.New("empty effect kind")

	// ErrNilFactory indicates a registration with a nil factory.
	ErrNilFactory = errors.New("nil effect factory")
)

// Chain errors.
var (
	// ErrEffectNotFound indicates the effect ID is not in the chain.
	ErrEffectNotFound = errors.New("effect not found in chain")

	// ErrInvalidPosition indicates an out-of-range chain position.
	ErrInvalidPosition = errors.New("invalid chain position")

	// ErrNilEffect indicates an attempt to add a nil effect.
	ErrNilEffect = errors.New("nil effect")
)
