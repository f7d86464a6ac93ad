package effects

import (
	"fmt"
	"sort"

	"github.com/opd-ai/vjkit/gradient"
)

// Context provides shared resources to effect factories.
type Context struct {
	// Gradients is the asset library used by the color-mapping effects.
	// A nil library is replaced with one containing only the built-in
	// default gradient.
	Gradients *gradient.Library

	// Detector locates faces for the spotlight effect. Nil disables
	// detection; the spotlight passes frames through unchanged.
	Detector FaceDetector
}

// Factory builds one effect instance.
type Factory func(ctx Context) (Effect, error)

// Registry maps effect kind names to their factories.
type Registry struct {
	ctx       Context
	factories map[string]Factory
}

// NewRegistry creates an empty registry with the given context.
func NewRegistry(ctx Context) *Registry {
	if ctx.Gradients == nil {
		ctx.Gradients = gradient.NewLibrary("")
	}
	return &Registry{
		ctx:       ctx,
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for the given kind.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind == "" {
		return ErrEmptyKind
	}
	if factory == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, kind)
	}
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}
	r.factories[kind] = factory
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind string, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic("effects registry: " + err.Error())
	}
}

// New builds a fresh instance of the given kind.
func (r *Registry) New(kind string) (Effect, error) {
	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return factory(r.ctx)
}

// Kinds returns the registered kind names in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultRegistry returns a Registry pre-populated with all built-in
// effects.
func DefaultRegistry(ctx Context) *Registry {
	r := NewRegistry(ctx)

	r.MustRegister("flip", func(_ Context) (Effect, error) {
		return NewFlip(), nil
	})
	r.MustRegister("grade", func(ctx Context) (Effect, error) {
		return NewGrade(ctx.Gradients), nil
	})
	r.MustRegister("trail", func(_ Context) (Effect, error) {
		return NewTrail(), nil
	})
	r.MustRegister("diamond", func(_ Context) (Effect, error) {
		return NewDiamond(), nil
	})
	r.MustRegister("reveal", func(ctx Context) (Effect, error) {
		return NewReveal(ctx.Gradients), nil
	})
	r.MustRegister("spotlight", func(ctx Context) (Effect, error) {
		return NewSpotlight(ctx.Detector), nil
	})

	return r
}
