package effects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamKindString(t *testing.T) {
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "index", KindIndex.String())
	assert.Equal(t, "unknown", ParamKind(99).String())
}

func TestParamSpecAccepts(t *testing.T) {
	intStep := ParamSpec{Name: "tile", Kind: KindInt, Min: 9, Max: 81, Step: 9}
	floatP := ParamSpec{Name: "opacity", Kind: KindFloat, Min: 0, Max: 1, Step: 0.1}
	boolP := ParamSpec{Name: "sync", Kind: KindBool, Min: 0, Max: 1}
	indexP := ParamSpec{Name: "gradient", Kind: KindIndex, Min: 0, Max: 4}

	tests := []struct {
		name string
		spec ParamSpec
		v    float64
		want bool
	}{
		{"float in range", floatP, 0.5, true},
		{"float at min", floatP, 0, true},
		{"float at max", floatP, 1, true},
		{"float below min", floatP, -0.1, false},
		{"float above max", floatP, 1.1, false},
		{"float nan", floatP, math.NaN(), false},
		{"float inf", floatP, math.Inf(1), false},
		{"bool zero", boolP, 0, true},
		{"bool one", boolP, 1, true},
		{"bool half", boolP, 0.5, false},
		{"int on step", intStep, 63, true},
		{"int min", intStep, 9, true},
		{"int max", intStep, 81, true},
		{"int off step", intStep, 10, false},
		{"int fractional", intStep, 18.5, false},
		{"int below", intStep, 0, false},
		{"index integral", indexP, 3, true},
		{"index fractional", indexP, 1.5, false},
		{"index above", indexP, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Accepts(tt.v))
		})
	}
}

func TestParamSpecClamp(t *testing.T) {
	intStep := ParamSpec{Name: "tile", Kind: KindInt, Min: 9, Max: 81, Step: 9, Default: 63}
	floatP := ParamSpec{Name: "opacity", Kind: KindFloat, Min: 0, Max: 1, Default: 0.5}
	boolP := ParamSpec{Name: "sync", Kind: KindBool, Min: 0, Max: 1}

	assert.Equal(t, 1.0, floatP.Clamp(2.5))
	assert.Equal(t, 0.0, floatP.Clamp(-1))
	assert.Equal(t, 0.3, floatP.Clamp(0.3))
	assert.Equal(t, 0.5, floatP.Clamp(math.NaN()))

	assert.Equal(t, 1.0, boolP.Clamp(0.7))
	assert.Equal(t, 0.0, boolP.Clamp(0.2))

	// Off-step values snap to the grid, staying inside the range.
	assert.Equal(t, 63.0, intStep.Clamp(60))
	assert.Equal(t, 9.0, intStep.Clamp(-100))
	assert.Equal(t, 81.0, intStep.Clamp(500))
	assert.Equal(t, 72.0, intStep.Clamp(70))
}
