package spacecurve

import (
	"fmt"
	"iter"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Interval is a range of arc length. Curves without a natural bound use an
// infinite interval.
type Interval struct {
	Near float64
	Far  float64
}

// Infinite is the range (-∞, +∞).
var Infinite = Interval{math.Inf(-1), math.Inf(1)}

// Length returns Far - Near.
func (r Interval) Length() float64 {
	return r.Far - r.Near
}

// IsFinite is a predicate: both limits are finite.
func (r Interval) IsFinite() bool {
	return IsFinite(r.Near) && IsFinite(r.Far)
}

// Contains is a predicate: s lies within the interval, allowing for a
// tolerance of eps at the limits.
func (r Interval) Contains(s, eps float64) bool {
	return s >= r.Near-eps && s <= r.Far+eps
}

// Clamp limits s to the interval.
func (r Interval) Clamp(s float64) float64 {
	return math.Max(r.Near, math.Min(r.Far, s))
}

// Intersect returns the common part of two intervals. The result may be
// empty, i.e. Near > Far.
func (r Interval) Intersect(o Interval) Interval {
	return Interval{math.Max(r.Near, o.Near), math.Min(r.Far, o.Far)}
}

func (r Interval) String() string {
	return fmt.Sprintf("[%g,%g]", r.Near, r.Far)
}

// Curve is the uniform query surface of all curve variants. Curves are
// parametrized by arc length s. Curvature is non-negative, torsion is signed.
//
// Query methods do not check their preconditions: the curve has to be valid and
// s has to be inside Range(). Use [Transition] for a checked query.
type Curve interface {
	// IsValid reports whether the curve has successfully been created.
	IsValid() bool
	// Range is the interval of arc length the curve is defined on.
	Range() Interval
	// Curvature returns the rate of tangent rotation at s.
	Curvature(s float64) float64
	// Torsion returns the rate of binormal rotation at s.
	Torsion(s float64) float64
	// Position returns the point at arc length s.
	Position(s float64) vec3.T
	// Tangent returns the unit tangent at s.
	Tangent(s float64) vec3.T
	// Transition returns the full Frenet frame at s.
	Transition(s float64) Frame
	// ZeroSet lists the arc length positions at which the normal vector
	// flips. The sequence is computed lazily on each call.
	ZeroSet() iter.Seq[float64]
	// IsFlat reports whether torsion is identically zero.
	IsFlat() bool
	// LocalUp returns the constant binormal of a flat curve. It fails with
	// ErrDomain for curves which do not maintain one.
	LocalUp() (vec3.T, error)
	// Mirror reflects the curve's data across plane p. It returns false and
	// leaves the curve unchanged if the variant cannot represent the mirror
	// image.
	Mirror(p Plane) bool
	// Clone returns an independent copy.
	Clone() Curve
}

// Transition is the checked variant of [Curve.Transition]. It fails with
// ErrLogic for curves not yet created or for s outside of the curve's range.
func Transition(c Curve, s float64) (Frame, error) {
	if c == nil || !c.IsValid() {
		return Frame{}, fmt.Errorf("%w: curve not created", ErrLogic)
	}
	if r := c.Range(); !r.Contains(s, EpsilonLength) {
		return Frame{}, fmt.Errorf("%w: s=%g outside of range %s", ErrLogic, s, r)
	}
	return c.Transition(c.Range().Clamp(s)), nil
}

// LocalTransformation returns the frame at s = 0, i.e. the placement of the
// curve's start relative to its own coordinate system.
func LocalTransformation(c Curve) (Frame, error) {
	return Transition(c, 0)
}

// Length returns the extent of a curve's range; infinite for unbounded curves.
func Length(c Curve) float64 {
	return c.Range().Length()
}

// Equals compares two curves on interval r by sampling positions, tangents
// and (where defined) normals. Positions have to agree within epsLength,
// directions within epsAngle. r has to be finite and inside both ranges.
func Equals(a, b Curve, r Interval, epsLength, epsAngle float64) bool {
	if a == nil || b == nil || !a.IsValid() || !b.IsValid() || !r.IsFinite() {
		return false
	}
	if !a.Range().Contains(r.Near, epsLength) || !a.Range().Contains(r.Far, epsLength) ||
		!b.Range().Contains(r.Near, epsLength) || !b.Range().Contains(r.Far, epsLength) {
		return false
	}
	steps := int(math.Ceil(r.Length() / (100 * epsLength)))
	steps = max(2, min(steps, 1000))
	for i := 0; i <= steps; i++ {
		s := r.Near + r.Length()*float64(i)/float64(steps)
		fa, fb := a.Transition(a.Range().Clamp(s)), b.Transition(b.Range().Clamp(s))
		if Distance(fa.P, fb.P) > epsLength || Angle(fa.T, fb.T) > epsAngle {
			tracer().Debugf("curves differ at s=%g", s)
			return false
		}
		if a.Curvature(s) > epsAngle && b.Curvature(s) > epsAngle && Angle(fa.N, fb.N) > epsAngle {
			tracer().Debugf("curve normals differ at s=%g", s)
			return false
		}
	}
	return true
}

// FrenetFromDerivatives derives frame, curvature and torsion from a position
// p and its first three derivatives with respect to an arbitrary parameter.
// Where curvature vanishes the normal is undefined; the binormal is then taken
// from up, projected perpendicular to the tangent.
//
//	κ = |D1×D2| / |D1|³
//	τ = det[D1;D2;D3] / |D1×D2|²
func FrenetFromDerivatives(p, d1, d2, d3, up vec3.T) (f Frame, curvature, torsion float64) {
	l := Norm(d1)
	f.P = p
	f.T = Scale(d1, 1/l)
	c := Cross(d1, d2)
	lc := Norm(c)
	if lc <= EpsilonFactor*l*l*l*EpsilonAngle || lc == 0 {
		b := AddScaled(up, f.T, -Dot(up, f.T))
		if IsNull(b, EpsilonFactor) {
			b = Perpendicular(f.T)
		}
		f.B = Unit(b)
		f.N = Cross(f.B, f.T)
		return f, 0, 0
	}
	f.B = Scale(c, 1/lc)
	f.N = Cross(f.B, f.T)
	curvature = lc / (l * l * l)
	torsion = Dot(c, d3) / (lc * lc)
	return f, curvature, torsion
}
