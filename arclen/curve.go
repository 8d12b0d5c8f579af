package arclen

import (
	"fmt"
	"iter"
	"math"

	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// Mirrorable is implemented by curve functions which can reflect themselves
// across a plane.
type Mirrorable[F ParamFunc] interface {
	Mirrored(p sc.Plane) F
}

// Curve exposes a [ParamFunc] through the [sc.Curve] contract, parametrized
// by arc length over [0, Length()].
//
// With v = |D1| the derivatives with respect to s follow from the chain rule;
// FrenetFromDerivatives is invariant under reparametrization, so the
// t-derivatives are used directly.
type Curve[F ParamFunc] struct {
	Adapter[F]
	up   vec3.T // binormal fallback where curvature vanishes
	flat bool
}

// New creates an arc length curve from f with default options.
func New[F ParamFunc](f F) (*Curve[F], error) {
	c := &Curve[F]{}
	if err := c.Create(f, DefaultOptions()); err != nil {
		return nil, err
	}
	return c, nil
}

// Create builds the arc length table for f. On error the curve keeps its
// previous state.
func (c *Curve[F]) Create(f F, opt Options) error {
	var a Adapter[F]
	if err := a.Create(f, opt); err != nil {
		return err
	}
	c.Adapter = a
	c.up = c.probeUp()
	c.flat = c.probeFlat()
	return nil
}

func (c *Curve[F]) probeUp() vec3.T {
	for _, t := range c.table {
		b := sc.Cross(c.f.D1(t), c.f.D2(t))
		if sc.Norm(b) > sc.EpsilonFactor {
			return sc.Unit(b)
		}
	}
	return sc.Perpendicular(c.f.D1(0))
}

// A curve is flat if all samples lie in the plane given by the start
// position and up.
func (c *Curve[F]) probeFlat() bool {
	p0 := c.f.P(0)
	for _, t := range c.table {
		if math.Abs(sc.Dot(sc.Sub(c.f.P(t), p0), c.up)) > sc.EpsilonLength {
			return false
		}
	}
	return math.Abs(sc.Dot(sc.Sub(c.f.P(1), p0), c.up)) <= sc.EpsilonLength
}

// Range is [0, Length()].
func (c *Curve[F]) Range() sc.Interval {
	return sc.Interval{Near: 0, Far: c.length}
}

func (c *Curve[F]) frenet(s float64) (sc.Frame, float64, float64) {
	t := c.T(s)
	return sc.FrenetFromDerivatives(c.f.P(t), c.f.D1(t), c.f.D2(t), c.f.D3(t), c.up)
}

// Position returns the point at arc length s.
func (c *Curve[F]) Position(s float64) vec3.T {
	return c.f.P(c.T(s))
}

// Tangent returns the unit tangent at s.
func (c *Curve[F]) Tangent(s float64) vec3.T {
	return sc.Unit(c.f.D1(c.T(s)))
}

// Transition returns the Frenet frame at s.
func (c *Curve[F]) Transition(s float64) sc.Frame {
	f, _, _ := c.frenet(s)
	return f
}

// Curvature is |D1×D2| / |D1|³, equivalently sqrt(D2² − (D1·D2)²/D1²) / D1².
func (c *Curve[F]) Curvature(s float64) float64 {
	_, k, _ := c.frenet(s)
	return k
}

// Torsion is det[D1;D2;D3] / (κ²⋅|D1|⁶).
func (c *Curve[F]) Torsion(s float64) float64 {
	_, _, tau := c.frenet(s)
	return tau
}

func (c *Curve[F]) binormal(s float64) vec3.T {
	t := c.T(s)
	return sc.Cross(c.f.D1(t), c.f.D2(t))
}

// ZeroSet yields the arc length positions where the binormal direction of
// D1×D2 reverses, i.e. where the normal flips. Candidates are found between
// table samples and refined by bisection.
func (c *Curve[F]) ZeroSet() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		ds := c.opt.Ds
		n := int(math.Ceil(c.length / ds))
		prev := c.binormal(0)
		for i := 1; i <= n; i++ {
			s := math.Min(float64(i)*ds, c.length)
			b := c.binormal(s)
			if sc.Dot(prev, b) < 0 {
				if !yield(c.refineFlip(s-ds, s, prev)) {
					return
				}
			}
			if sc.Norm(b) > 0 {
				prev = b
			}
		}
	}
}

func (c *Curve[F]) refineFlip(a, b float64, ref vec3.T) float64 {
	a = math.Max(a, 0)
	for b-a > sc.EpsilonLength*sc.EpsilonFactor {
		m := 0.5 * (a + b)
		if sc.Dot(c.binormal(m), ref) > 0 {
			a = m
		} else {
			b = m
		}
	}
	return 0.5 * (a + b)
}

// IsFlat reports whether the curve lies in a plane.
func (c *Curve[F]) IsFlat() bool {
	return c.flat
}

// LocalUp returns the normal of the curve's plane. It fails for twisted
// curves.
func (c *Curve[F]) LocalUp() (vec3.T, error) {
	if !c.flat {
		return vec3.T{}, fmt.Errorf("%w: curve is not flat", sc.ErrDomain)
	}
	return c.up, nil
}

// Mirror reflects the curve function, if it supports it, and rebuilds the
// table.
func (c *Curve[F]) Mirror(p sc.Plane) bool {
	m, ok := any(c.f).(Mirrorable[F])
	if !ok || !c.valid {
		return false
	}
	if err := c.Create(m.Mirrored(p), c.opt); err != nil {
		tracer().Errorf("mirrored curve not valid: %v", err)
		return false
	}
	return true
}

// Clone returns an independent copy.
func (c *Curve[F]) Clone() sc.Curve {
	d := *c
	d.table = append([]float64(nil), c.table...)
	return &d
}

var _ sc.Curve = (*Curve[ParamFunc])(nil)
