package primitive

import (
	"fmt"
	"iter"
	"math"

	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// ArcData is a circular arc in canonical position, given by its curvature
// c = 1/r.
type ArcData struct {
	Curvature float64
}

// Arc is a circle in the xy-plane, starting at the origin in direction x and
// bending towards y:
//
//	P(s) = C + r⋅(sin(c⋅s)⋅T − cos(c⋅s)⋅N),  C = (0, r, 0)
//
// Its range is infinite; positions repeat after one turn.
type Arc struct {
	data  ArcData
	r     float64
	valid bool
}

// NewArc creates an arc with curvature k.
func NewArc(k float64) (*Arc, error) {
	a := &Arc{}
	if err := a.Create(ArcData{Curvature: k}); err != nil {
		return nil, err
	}
	return a, nil
}

// Create (re-)initializes the arc. Curvature has to be positive.
func (a *Arc) Create(d ArcData) error {
	if !isPositive(d.Curvature) {
		return fmt.Errorf("%w: arc curvature %g", sc.ErrInvalidArgument, d.Curvature)
	}
	a.data, a.r, a.valid = d, 1/d.Curvature, true
	return nil
}

// Data returns the construction data.
func (a *Arc) Data() ArcData { return a.data }

// Radius returns 1/curvature.
func (a *Arc) Radius() float64 { return a.r }

func (a *Arc) IsValid() bool { return a.valid }
func (a *Arc) Range() sc.Interval { return sc.Infinite }
func (a *Arc) Curvature(float64) float64 { return a.data.Curvature }
func (a *Arc) Torsion(float64) float64 { return 0 }
func (a *Arc) ZeroSet() iter.Seq[float64] { return noZeros }
func (a *Arc) IsFlat() bool { return true }
func (a *Arc) LocalUp() (vec3.T, error) { return sc.Ez, nil }

// Position returns the point at arc length s.
func (a *Arc) Position(s float64) vec3.T {
	sin, cos := math.Sincos(a.data.Curvature * s)
	return sc.V(a.r*sin, a.r*(1-cos), 0)
}

// Tangent returns the unit tangent at s.
func (a *Arc) Tangent(s float64) vec3.T {
	sin, cos := math.Sincos(a.data.Curvature * s)
	return sc.V(cos, sin, 0)
}

// Transition returns the Frenet frame at s.
func (a *Arc) Transition(s float64) sc.Frame {
	sin, cos := math.Sincos(a.data.Curvature * s)
	return sc.Frame{
		P: sc.V(a.r*sin, a.r*(1-cos), 0),
		T: sc.V(cos, sin, 0),
		N: sc.V(-sin, cos, 0),
		B: sc.Ez,
	}
}

// Mirror is not supported: the mirror image of a canonical arc bends to the
// right, which ArcData cannot express.
func (a *Arc) Mirror(sc.Plane) bool { return false }

// Clone returns an independent copy.
func (a *Arc) Clone() sc.Curve {
	c := *a
	return &c
}

// Parameters returns the construction parameters, [curvature].
func (a *Arc) Parameters() []float64 { return []float64{a.data.Curvature} }

// CurvatureIndex is the position of the curvature within Parameters().
func (a *Arc) CurvatureIndex() int { return 0 }

// WithParameters creates a new arc from parameters.
func (a *Arc) WithParameters(p []float64) (sc.Curve, error) {
	if len(p) != 1 {
		return nil, fmt.Errorf("%w: arc expects 1 parameter, got %d", sc.ErrInvalidArgument, len(p))
	}
	return NewArc(p[0])
}

// ArcPData is a circular arc placed in space by a center frame: Center.P is
// the circle's center, Center.T the tangent direction at s = 0, and Center.N
// points from the start towards the center, its length being the radius.
// Center.B is ignored.
type ArcPData struct {
	Center sc.Frame
}

// ArcP is a circular arc with explicit placement:
//
//	P(s) = C + r⋅(sin(s/r)⋅T − cos(s/r)⋅N)
type ArcP struct {
	data  ArcPData
	c     vec3.T
	t     vec3.T // unit
	n     vec3.T // unit
	b     vec3.T
	r     float64
	valid bool
}

// NewArcP creates an arc from a center frame.
func NewArcP(d ArcPData) (*ArcP, error) {
	a := &ArcP{}
	if err := a.Create(d); err != nil {
		return nil, err
	}
	return a, nil
}

// Create (re-)initializes the arc. T and N have to be perpendicular and N
// must not be zero.
func (a *ArcP) Create(d ArcPData) error {
	t, n := d.Center.T, d.Center.N
	r := sc.Norm(n)
	if !isPositive(r) || r <= sc.EpsilonLength {
		return fmt.Errorf("%w: arc radius %g", sc.ErrInvalidArgument, r)
	}
	if sc.Normalize(&t) <= sc.EpsilonFactor {
		return fmt.Errorf("%w: zero length tangent", sc.ErrInvalidArgument)
	}
	n = sc.Scale(n, 1/r)
	if math.Abs(sc.Dot(t, n)) > sc.EpsilonFactor {
		return fmt.Errorf("%w: tangent and normal not perpendicular", sc.ErrInvalidArgument)
	}
	if !sc.IsFiniteV(d.Center.P) {
		return fmt.Errorf("%w: arc center %s", sc.ErrInvalidArgument, sc.VString(d.Center.P))
	}
	a.data, a.valid = d, true
	a.c, a.t, a.n, a.b, a.r = d.Center.P, t, n, sc.Cross(t, n), r
	return nil
}

// Data returns the construction data.
func (a *ArcP) Data() ArcPData { return a.data }

func (a *ArcP) IsValid() bool { return a.valid }
func (a *ArcP) Range() sc.Interval { return sc.Infinite }
func (a *ArcP) Curvature(float64) float64 { return 1 / a.r }
func (a *ArcP) Torsion(float64) float64 { return 0 }
func (a *ArcP) ZeroSet() iter.Seq[float64] { return noZeros }
func (a *ArcP) IsFlat() bool { return true }
func (a *ArcP) LocalUp() (vec3.T, error) { return a.b, nil }

// Position returns the point at arc length s.
func (a *ArcP) Position(s float64) vec3.T {
	sin, cos := math.Sincos(s / a.r)
	p := sc.AddScaled(a.c, a.t, a.r*sin)
	return sc.AddScaled(p, a.n, -a.r*cos)
}

// Tangent returns the unit tangent at s.
func (a *ArcP) Tangent(s float64) vec3.T {
	sin, cos := math.Sincos(s / a.r)
	return sc.AddScaled(sc.Scale(a.t, cos), a.n, sin)
}

// Transition returns the Frenet frame at s.
func (a *ArcP) Transition(s float64) sc.Frame {
	sin, cos := math.Sincos(s / a.r)
	return sc.Frame{
		P: a.Position(s),
		T: sc.AddScaled(sc.Scale(a.t, cos), a.n, sin),
		N: sc.AddScaled(sc.Scale(a.t, -sin), a.n, cos),
		B: a.b,
	}
}

// Mirror reflects the center frame.
func (a *ArcP) Mirror(p sc.Plane) bool {
	f := a.data.Center
	d := ArcPData{Center: sc.Frame{
		P: p.Reflect(f.P),
		T: p.ReflectVector(f.T),
		N: p.ReflectVector(f.N),
		B: p.ReflectVector(f.B),
	}}
	return a.Create(d) == nil
}

// Clone returns an independent copy.
func (a *ArcP) Clone() sc.Curve {
	c := *a
	return &c
}

var (
	_ sc.Curve = (*Arc)(nil)
	_ sc.Curve = (*ArcP)(nil)
)
