package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryKinds(t *testing.T) {
	r := DefaultRegistry(Context{})
	assert.Equal(t, []string{"diamond", "flip", "grade", "reveal", "spotlight", "trail"}, r.Kinds())
}

func TestRegistryNew(t *testing.T) {
	r := DefaultRegistry(Context{})

	for _, kind := range r.Kinds() {
		fx, err := r.New(kind)
		require.NoError(t, err, kind)
		require.NotNil(t, fx, kind)
		assert.NotEmpty(t, fx.ID())
		assert.NotEmpty(t, fx.Name())
	}

	_, err := r.New("wobble")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRegistryInstancesAreIndependent(t *testing.T) {
	r := DefaultRegistry(Context{})

	a, err := r.New("flip")
	require.NoError(t, err)
	b, err := r.New("flip")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())

	require.True(t, a.Set("interval", 10))
	got, ok := b.Get("interval")
	require.True(t, ok)
	assert.Equal(t, 120.0, got, "sibling instance keeps its own state")
}

func TestRegistryRegisterValidation(t *testing.T) {
	r := NewRegistry(Context{})
	factory := func(Context) (Effect, error) { return NewFlip(), nil }

	assert.ErrorIs(t, r.Register("", factory), ErrEmptyKind)
	assert.ErrorIs(t, r.Register("flip", nil), ErrNilFactory)
	require.NoError(t, r.Register("flip", factory))
	assert.ErrorIs(t, r.Register("flip", factory), ErrDuplicateKind)
}

func TestRegistryDefaultsEveryEffectHasParams(t *testing.T) {
	r := DefaultRegistry(Context{})

	for _, kind := range r.Kinds() {
		fx, err := r.New(kind)
		require.NoError(t, err)

		for _, spec := range fx.Params() {
			got, ok := fx.Get(spec.Name)
			require.True(t, ok, "%s param %s", kind, spec.Name)
			assert.Equal(t, spec.Default, got, "%s param %s starts at default", kind, spec.Name)
			assert.True(t, spec.Accepts(spec.Default), "%s param %s default is legal", kind, spec.Name)
			assert.True(t, fx.Set(spec.Name, spec.Default), "%s param %s roundtrip", kind, spec.Name)
		}

		assert.False(t, fx.Set("no-such-param", 1))
		_, ok := fx.Get("no-such-param")
		assert.False(t, ok)
	}
}
