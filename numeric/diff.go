package numeric

import (
	"github.com/ungerik/go3d/float64/vec3"
)

// Order selects the accuracy order of a centered finite difference stencil.
type Order int

const (
	Order6 Order = 6
	Order8 Order = 8
)

// Stencil weights for the first derivative, for offsets -n..n, scaled by
// the denominator.
var (
	stencil6 = [...]float64{-1, 9, -45, 0, 45, -9, 1}
	stencil8 = [...]float64{3, -32, 168, -672, 0, 672, -168, 32, -3}
)

func stencil(o Order) ([]float64, float64) {
	if o == Order8 {
		return stencil8[:], 840
	}
	return stencil6[:], 60
}

// Derivative estimates f'(x) by a centered finite difference of the given
// order with step width h. f is evaluated at x ± k⋅h, k ≤ order/2, and thus
// has to be defined beyond the point of interest.
func Derivative(f func(float64) float64, x, h float64, o Order) float64 {
	w, denom := stencil(o)
	n := len(w) / 2
	var d float64
	for i, c := range w {
		if c != 0 {
			d += c * f(x+float64(i-n)*h)
		}
	}
	return d / (denom * h)
}

// DerivativeV is [Derivative] for vector valued functions.
func DerivativeV(f func(float64) vec3.T, x, h float64, o Order) vec3.T {
	w, denom := stencil(o)
	n := len(w) / 2
	var d vec3.T
	for i, c := range w {
		if c == 0 {
			continue
		}
		v := f(x + float64(i-n)*h)
		for j := range 3 {
			d[j] += c * v[j]
		}
	}
	return d.Scaled(1 / (denom * h))
}

// SecondDerivative estimates f”(x) by applying the stencil twice. The inner
// evaluation uses the same step width.
func SecondDerivative(f func(float64) float64, x, h float64, o Order) float64 {
	df := func(y float64) float64 {
		return Derivative(f, y, h, o)
	}
	return Derivative(df, x, h, o)
}
