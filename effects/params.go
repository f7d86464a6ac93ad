package effects

import "math"

// ParamKind describes how a parameter value is interpreted.
type ParamKind int

const (
	// KindFloat is a continuous value.
	KindFloat ParamKind = iota

	// KindInt is an integral value; Step > 1 constrains it to
	// Min + k*Step.
	KindInt

	// KindBool is 0 or 1.
	KindBool

	// KindIndex is an integral selector into an external list, such as
	// the gradient library.
	KindIndex
)

// String returns the kind's display name.
func (k ParamKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// ParamSpec describes one tunable parameter of an effect. All values
// travel as float64: bools as 0/1, ints and indices as integral floats.
// Step is the suggested UI increment; for KindInt with Step > 1 it is
// also a validation constraint.
type ParamSpec struct {
	Name    string
	Kind    ParamKind
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// Accepts reports whether v is a valid value for this parameter.
func (p ParamSpec) Accepts(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if v < p.Min || v > p.Max {
		return false
	}
	switch p.Kind {
	case KindBool:
		return v == 0 || v == 1
	case KindInt, KindIndex:
		if v != math.Trunc(v) {
			return false
		}
		if p.Kind == KindInt && p.Step > 1 {
			offset := int(v - p.Min)
			return offset%int(p.Step) == 0
		}
	}
	return true
}

// Clamp returns v limited to the parameter's range, rounded to the
// nearest legal value for integral kinds. Controls use this to nudge
// values without tripping validation.
func (p ParamSpec) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.Default
	}
	if v < p.Min {
		v = p.Min
	}
	if v > p.Max {
		v = p.Max
	}
	switch p.Kind {
	case KindBool:
		if v >= 0.5 {
			return 1
		}
		return 0
	case KindInt, KindIndex:
		if p.Kind == KindInt && p.Step > 1 {
			steps := math.Round((v - p.Min) / p.Step)
			v = p.Min + steps*p.Step
			if v > p.Max {
				v -= p.Step
			}
			return v
		}
		return math.Round(v)
	}
	return v
}

// specByName returns the spec with the given name, if present.
func specByName(specs []ParamSpec, name string) (ParamSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return ParamSpec{}, false
}
