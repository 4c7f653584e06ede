package atmosphere

import (
	"fmt"
	"sort"
)

// interpCubic evaluates a piecewise cubic Hermite interpolant through
// (xs, ys) at x. Knot slopes are centred three-point finite differences,
// which handles non-uniform axes such as the pwv columns of a measured grid.
// xs must be strictly increasing; x outside [xs[0], xs[n-1]] is an error.
func interpCubic(xs, ys []float64, x float64) (float64, error) {
	n := len(xs)
	if x < xs[0] || x > xs[n-1] {
		return 0, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfRange, x, xs[0], xs[n-1])
	}

	// Locate the interval [xs[i], xs[i+1]] containing x.
	i := sort.SearchFloat64s(xs, x)
	if i > 0 {
		i--
	}
	if i == n-1 {
		i--
	}

	h := xs[i+1] - xs[i]
	t := (x - xs[i]) / h

	m0 := knotSlope(xs, ys, i)
	m1 := knotSlope(xs, ys, i+1)

	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return h00*ys[i] + h10*h*m0 + h01*ys[i+1] + h11*h*m1, nil
}

// knotSlope estimates the derivative at knot i. Interior knots use the
// weighted central difference appropriate for non-uniform spacing; endpoints
// use the one-sided secant.
func knotSlope(xs, ys []float64, i int) float64 {
	n := len(xs)
	switch i {
	case 0:
		return (ys[1] - ys[0]) / (xs[1] - xs[0])
	case n - 1:
		return (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])
	default:
		hl := xs[i] - xs[i-1]
		hr := xs[i+1] - xs[i]
		sl := (ys[i] - ys[i-1]) / hl
		sr := (ys[i+1] - ys[i]) / hr
		return (sl*hr + sr*hl) / (hl + hr)
	}
}
