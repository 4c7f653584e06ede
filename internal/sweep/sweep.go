// Package sweep provides the scalar-or-sweep parameter representation used
// throughout the sensitivity pipeline. A Values holds an ordered sequence of
// samples sharing a common index; a scalar is a sequence of length one and
// broadcasts against any sweep length.
package sweep

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrConflictingSweeps is returned when more than one parameter varies with a
// different sweep length, so no common broadcast length exists.
var ErrConflictingSweeps = errors.New("conflicting sweep lengths")

// Values is an ordered homogeneous sequence of parameter samples.
type Values []float64

// Scalar wraps a single value as a length-1 sequence.
func Scalar(v float64) Values {
	return Values{v}
}

// Linspace returns n evenly spaced samples over [start, stop].
func Linspace(start, stop float64, n int) Values {
	if n <= 1 {
		return Scalar(start)
	}
	vs := make(Values, n)
	step := (stop - start) / float64(n-1)
	for i := range vs {
		vs[i] = start + float64(i)*step
	}
	return vs
}

// Len returns the number of samples. A zero-value Values has length 0 and is
// treated as unset by CommonLength.
func (v Values) Len() int {
	return len(v)
}

// At returns the i-th sample, broadcasting a scalar to any index.
func (v Values) At(i int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

// IsScalar reports whether v holds a single sample.
func (v Values) IsScalar() bool {
	return len(v) == 1
}

// Broadcast returns a sequence of exactly n samples. Scalars are repeated;
// sequences already of length n are returned as-is.
func (v Values) Broadcast(n int) (Values, error) {
	switch {
	case len(v) == n:
		return v, nil
	case len(v) == 1:
		out := make(Values, n)
		for i := range out {
			out[i] = v[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot broadcast length %d to %d", ErrConflictingSweeps, len(v), n)
	}
}

// CommonLength computes the broadcast length of a set of parameters.
// At most one distinct length greater than one may appear; otherwise the
// parameters disagree on the sweep index and ErrConflictingSweeps is returned.
// Empty (unset) sequences are ignored.
func CommonLength(vs ...Values) (int, error) {
	n := 1
	for _, v := range vs {
		switch {
		case len(v) <= 1:
			continue
		case n == 1:
			n = len(v)
		case len(v) != n:
			return 0, fmt.Errorf("%w: found sweeps of length %d and %d", ErrConflictingSweeps, n, len(v))
		}
	}
	return n, nil
}

// UnmarshalYAML accepts either a single scalar or a sequence of scalars, so a
// configuration file can turn any parameter into a sweep without a schema
// change.
func (v *Values) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("sweep.Values: failed to parse scalar: %w", err)
		}
		*v = Scalar(f)
		return nil

	case yaml.SequenceNode:
		var fs []float64
		if err := value.Decode(&fs); err != nil {
			return fmt.Errorf("sweep.Values: failed to parse sequence: %w", err)
		}
		*v = fs
		return nil

	default:
		return fmt.Errorf("sweep.Values: expected scalar or sequence, got %v", value.Kind)
	}
}

// MarshalYAML emits a bare scalar for length-1 sequences, mirroring the
// accepted input forms.
func (v Values) MarshalYAML() (interface{}, error) {
	if len(v) == 1 {
		return v[0], nil
	}
	return []float64(v), nil
}
