/*
Package cubic implements cubic polynomial curves and splines of them.

A cubic segment is a polynomial

	P(t) = A + t⋅(B + t⋅(C + t⋅D)),  t ∈ [0,1]

which is exposed by arc length through package arclen. Segments are
constructed from Hermite data (end points and end tangents) or from Bezier
control points.

A Spline chains cubic segments. Splines through a sequence of knots are
assembled with a builder:

	spline, err := cubic.NullSpline().Knot(p0).Knot(p1).Knot(p2).Natural()

Natural and clamped splines solve a tridiagonal system for the tangents at
the knots; Catmull-Rom splines take them from the neighbouring knots.

Fit approximates an arbitrary curve by a spline within a deviation budget,
using a Nelder-Mead search over the tangent magnitudes at segment ends and
recursive bisection where a single segment does not suffice.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package cubic

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'spacecurve'
func tracer() tracing.Trace {
	return tracing.Select("spacecurve")
}
