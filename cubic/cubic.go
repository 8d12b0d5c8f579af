package cubic

import (
	"fmt"

	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/arclen"
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/integrate/quad"
)

// CubicData holds the coefficients of P(t) = A + t⋅(B + t⋅(C + t⋅D)).
// A is a position, B, C and D are vectors.
type CubicData struct {
	A, B, C, D vec3.T
}

// P evaluates the polynomial at t.
func (d CubicData) P(t float64) vec3.T {
	return sc.AddScaled(d.A, sc.AddScaled(d.B, sc.AddScaled(d.C, d.D, t), t), t)
}

// D1 is the first derivative B + 2C⋅t + 3D⋅t².
func (d CubicData) D1(t float64) vec3.T {
	return sc.AddScaled(d.B, sc.AddScaled(sc.Scale(d.C, 2), d.D, 3*t), t)
}

// D2 is the second derivative 2C + 6D⋅t.
func (d CubicData) D2(t float64) vec3.T {
	return sc.AddScaled(sc.Scale(d.C, 2), d.D, 6*t)
}

// D3 is the constant third derivative 6D.
func (d CubicData) D3(float64) vec3.T {
	return sc.Scale(d.D, 6)
}

// Mirrored reflects the polynomial across plane p.
func (d CubicData) Mirrored(p sc.Plane) CubicData {
	return CubicData{
		A: p.Reflect(d.A),
		B: p.ReflectVector(d.B),
		C: p.ReflectVector(d.C),
		D: p.ReflectVector(d.D),
	}
}

// IsFinite is a predicate: all coefficients are finite.
func (d CubicData) IsFinite() bool {
	return sc.IsFiniteV(d.A) && sc.IsFiniteV(d.B) && sc.IsFiniteV(d.C) && sc.IsFiniteV(d.D)
}

// Hermite creates the cubic from P(0) = p0, P(1) = p1, P'(0) = m0 and
// P'(1) = m1.
func Hermite(p0, p1, m0, m1 vec3.T) CubicData {
	d := sc.Sub(p1, p0)
	return CubicData{
		A: p0,
		B: m0,
		C: sc.Sub(sc.Sub(sc.Scale(d, 3), sc.Scale(m0, 2)), m1),
		D: sc.Add(sc.Add(sc.Scale(d, -2), m0), m1),
	}
}

// HermiteFrames creates the cubic connecting the positions of two frames,
// starting and ending in the frames' tangent directions. The tangent
// magnitudes are o0 and o1; the length of the connecting curve is a good
// first choice for both.
func HermiteFrames(f0, f1 sc.Frame, o0, o1 float64) CubicData {
	return Hermite(f0.P, f1.P, sc.Scale(sc.Unit(f0.T), o0), sc.Scale(sc.Unit(f1.T), o1))
}

// Bezier creates the cubic with control points p0, p1, p2, p3.
func Bezier(p0, p1, p2, p3 vec3.T) CubicData {
	return CubicData{
		A: p0,
		B: sc.Scale(sc.Sub(p1, p0), 3),
		C: sc.Scale(sc.Add(sc.Sub(p0, sc.Scale(p1, 2)), p2), 3),
		D: sc.Add(sc.Sub(p3, p0), sc.Scale(sc.Sub(p1, p2), 3)),
	}
}

// BezierPoints returns the four Bezier control points of the cubic.
func (d CubicData) BezierPoints() [4]vec3.T {
	p1 := sc.AddScaled(d.A, d.B, 1.0/3)
	p2 := sc.AddScaled(p1, sc.Add(d.B, d.C), 1.0/3)
	return [4]vec3.T{d.A, p1, p2, d.P(1)}
}

// Shorten returns the cubic which runs over [t0,t1] of d as its parameter
// goes from 0 to 1, i.e. substitutes t = v⋅(t1−t0) + t0. t1 < t0 reverses
// the direction.
func (d CubicData) Shorten(t0, t1 float64) CubicData {
	w := t1 - t0
	return CubicData{
		A: d.P(t0),
		B: sc.Scale(d.D1(t0), w),
		C: sc.Scale(d.D2(t0), w*w/2),
		D: sc.Scale(d.D, w*w*w),
	}
}

// Length integrates the speed |P'(t)| over [0,1] by Gauss-Legendre
// quadrature.
func (d CubicData) Length() float64 {
	return quad.Fixed(func(t float64) float64 {
		return sc.Norm(d.D1(t))
	}, 0, 1, 64, quad.Legendre{}, 0)
}

// Cubic is a cubic segment parametrized by arc length.
type Cubic struct {
	arclen.Curve[CubicData]
}

// New creates a cubic segment with default arc length tolerances.
func New(d CubicData) (*Cubic, error) {
	c := &Cubic{}
	if err := c.Create(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Create (re-)initializes the segment. Degenerate polynomials, i.e. with
// vanishing derivative somewhere in [0,1], are rejected.
func (c *Cubic) Create(d CubicData) error {
	if !d.IsFinite() {
		return fmt.Errorf("%w: cubic with non-finite coefficients", sc.ErrInvalidArgument)
	}
	return c.Curve.Create(d, arclen.DefaultOptions())
}

// Data returns the polynomial.
func (c *Cubic) Data() CubicData {
	return c.Func()
}

// Clone returns an independent copy.
func (c *Cubic) Clone() sc.Curve {
	cl := c.Curve.Clone().(*arclen.Curve[CubicData])
	return &Cubic{Curve: *cl}
}

var _ arclen.Mirrorable[CubicData] = CubicData{}
var _ sc.Curve = (*Cubic)(nil)
