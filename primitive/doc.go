/*
Package primitive implements curves with closed form evaluation: lines,
circular arcs, clothoids, helices, rotators and rotator chains.

Arc, Clothoid, Helix and Rotator are given in a canonical local coordinate
system: they start at the origin and, for curves starting in the xy-plane,
head along the x-axis with the normal along y. Placement in space is a
matter of the caller's frame (see [spacecurve.Frame.Compose]). ArcP and
HelixP carry an explicit center frame instead and can therefore be mirrored.

Each primitive supplies exact derivatives up to third order; curvature,
torsion and the Frenet frame are derived analytically. Curvature follows
the Frenet convention and is non-negative; where a signed curvature changes
sign, the normal flips and the position shows up in ZeroSet().
*/
package primitive

import (
	"iter"
	"math"

	"github.com/npillmayer/schuko/tracing"
	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'spacecurve'
func tracer() tracing.Trace {
	return tracing.Select("spacecurve")
}

// noZeros is the zero set of curves whose normal never flips.
func noZeros(yield func(float64) bool) {}

var _ iter.Seq[float64] = noZeros

// upOf returns the binormal at the start of a flat curve.
func upOf(c sc.Curve) vec3.T {
	return c.Transition(0).B
}

// sinc is sin(x)/x, continuous at 0.
func sinc(x float64) float64 {
	if math.Abs(x) < 1e-4 {
		return 1 - x*x/6
	}
	return math.Sin(x) / x
}

// cosIntegral returns ∫₀ˢ cos(w⋅u + φ) du, stable for w → 0.
func cosIntegral(w, phi, s float64) float64 {
	h := w * s / 2
	return math.Cos(phi+h) * s * sinc(h)
}

// sinIntegral returns ∫₀ˢ sin(w⋅u + φ) du, stable for w → 0.
func sinIntegral(w, phi, s float64) float64 {
	h := w * s / 2
	return math.Sin(phi+h) * s * sinc(h)
}

func isPositive(x float64) bool {
	return x > 0 && sc.IsFinite(x)
}
