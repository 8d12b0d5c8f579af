package primitive

import (
	"fmt"
	"iter"
	"math"

	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// HelixData is a helix in canonical position, given by its constant
// curvature and torsion.
type HelixData struct {
	Curvature float64
	Torsion   float64
}

// Helix winds around an axis parallel to z through (0, a, 0). With
// c = √(κ²+τ²), radius a = κ/c² and slope b = τ/c²:
//
//	P(s) = (a⋅sin(c⋅s), a⋅(1 − cos(c⋅s)), b⋅c⋅s)
//
// Torsion zero makes it an arc in the xy-plane.
type Helix struct {
	data  HelixData
	a, b  float64
	c     float64
	valid bool
}

// NewHelix creates a helix from curvature k and torsion t.
func NewHelix(k, t float64) (*Helix, error) {
	h := &Helix{}
	if err := h.Create(HelixData{Curvature: k, Torsion: t}); err != nil {
		return nil, err
	}
	return h, nil
}

// Create (re-)initializes the helix. Curvature has to be positive.
func (h *Helix) Create(d HelixData) error {
	if !isPositive(d.Curvature) {
		return fmt.Errorf("%w: helix curvature %g", sc.ErrInvalidArgument, d.Curvature)
	}
	if !sc.IsFinite(d.Torsion) {
		return fmt.Errorf("%w: helix torsion %g", sc.ErrInvalidArgument, d.Torsion)
	}
	c2 := d.Curvature*d.Curvature + d.Torsion*d.Torsion
	h.data, h.valid = d, true
	h.a, h.b, h.c = d.Curvature/c2, d.Torsion/c2, math.Sqrt(c2)
	return nil
}

// Data returns the construction data.
func (h *Helix) Data() HelixData { return h.data }

// Radius returns the distance of the curve from the helix axis.
func (h *Helix) Radius() float64 { return h.a }

// Pitch returns the rise along the axis per radian.
func (h *Helix) Pitch() float64 { return h.b }

func (h *Helix) IsValid() bool { return h.valid }
func (h *Helix) Range() sc.Interval { return sc.Infinite }
func (h *Helix) Curvature(float64) float64 { return h.data.Curvature }
func (h *Helix) Torsion(float64) float64 { return h.data.Torsion }
func (h *Helix) ZeroSet() iter.Seq[float64] { return noZeros }
func (h *Helix) IsFlat() bool { return h.data.Torsion == 0 }

// LocalUp is z for flat helices.
func (h *Helix) LocalUp() (vec3.T, error) {
	if !h.IsFlat() {
		return vec3.T{}, fmt.Errorf("%w: helix with torsion %g has no local up", sc.ErrDomain, h.data.Torsion)
	}
	return sc.Ez, nil
}

// Position returns the point at arc length s.
func (h *Helix) Position(s float64) vec3.T {
	sin, cos := math.Sincos(h.c * s)
	return sc.V(h.a*sin, h.a*(1-cos), h.b*h.c*s)
}

// Tangent returns the unit tangent at s.
func (h *Helix) Tangent(s float64) vec3.T {
	sin, cos := math.Sincos(h.c * s)
	return sc.Scale(sc.V(h.a*cos, h.a*sin, h.b), h.c)
}

// Transition returns the Frenet frame at s.
func (h *Helix) Transition(s float64) sc.Frame {
	sin, cos := math.Sincos(h.c * s)
	return sc.Frame{
		P: h.Position(s),
		T: sc.Scale(sc.V(h.a*cos, h.a*sin, h.b), h.c),
		N: sc.V(-sin, cos, 0),
		B: sc.Scale(sc.V(-h.b*cos, -h.b*sin, h.a), h.c),
	}
}

// Mirror is not supported for canonical helices.
func (h *Helix) Mirror(sc.Plane) bool { return false }

// Clone returns an independent copy.
func (h *Helix) Clone() sc.Curve {
	c := *h
	return &c
}

// Parameters returns the construction parameters, [curvature, torsion].
func (h *Helix) Parameters() []float64 {
	return []float64{h.data.Curvature, h.data.Torsion}
}

// CurvatureIndex is the position of the curvature within Parameters().
func (h *Helix) CurvatureIndex() int { return 0 }

// WithParameters creates a new helix from parameters.
func (h *Helix) WithParameters(p []float64) (sc.Curve, error) {
	if len(p) != 2 {
		return nil, fmt.Errorf("%w: helix expects 2 parameters, got %d", sc.ErrInvalidArgument, len(p))
	}
	return NewHelix(p[0], p[1])
}

// HelixPData places a helix by a center frame: Center.P is a point on the
// axis, Center.B the axis direction, Center.T the tangent direction of the
// start point's circle and Center.N the direction from the start point
// towards the axis. A is the radius, B the rise along the axis per radian.
// A left-handed center frame produces a helix of opposite handedness.
type HelixPData struct {
	Center sc.Frame
	A      float64
	B      float64
}

// HelixP is a helix with explicit placement:
//
//	P(φ) = C + A⋅(sin φ⋅T − cos φ⋅N) + B⋅φ⋅Axis,  φ = s/√(A²+B²)
type HelixP struct {
	data  HelixPData
	w     float64 // dφ/ds
	valid bool
}

// NewHelixP creates a helix from a center frame.
func NewHelixP(d HelixPData) (*HelixP, error) {
	h := &HelixP{}
	if err := h.Create(d); err != nil {
		return nil, err
	}
	return h, nil
}

// Create (re-)initializes the helix. The center frame has to be orthonormal
// and A positive.
func (h *HelixP) Create(d HelixPData) error {
	if !d.Center.IsOrthoNormal(sc.EpsilonFactor) {
		return fmt.Errorf("%w: helix center frame not orthonormal", sc.ErrInvalidArgument)
	}
	if !isPositive(d.A) || !sc.IsFinite(d.B) {
		return fmt.Errorf("%w: helix radius %g, pitch %g", sc.ErrInvalidArgument, d.A, d.B)
	}
	h.data, h.w, h.valid = d, 1/math.Hypot(d.A, d.B), true
	return nil
}

// Data returns the construction data.
func (h *HelixP) Data() HelixPData { return h.data }

func (h *HelixP) IsValid() bool { return h.valid }
func (h *HelixP) Range() sc.Interval { return sc.Infinite }
func (h *HelixP) ZeroSet() iter.Seq[float64] { return noZeros }
func (h *HelixP) IsFlat() bool { return h.data.B == 0 }

// derivatives returns P and its first three derivatives with respect to s.
func (h *HelixP) derivatives(s float64) (p, d1, d2, d3 vec3.T) {
	f, a, w := h.data.Center, h.data.A, h.w
	sin, cos := math.Sincos(s * w)
	local := func(x, y, z float64) vec3.T {
		return f.VecToParent(sc.V(x, y, z))
	}
	p = sc.Add(f.P, local(a*sin, -a*cos, h.data.B*s*w))
	d1 = local(a*w*cos, a*w*sin, h.data.B*w)
	d2 = local(-a*w*w*sin, a*w*w*cos, 0)
	d3 = local(-a*w*w*w*cos, -a*w*w*w*sin, 0)
	return
}

func (h *HelixP) frenet(s float64) (sc.Frame, float64, float64) {
	p, d1, d2, d3 := h.derivatives(s)
	return sc.FrenetFromDerivatives(p, d1, d2, d3, h.data.Center.B)
}

// Curvature is A/(A²+B²).
func (h *HelixP) Curvature(float64) float64 {
	return h.data.A * h.w * h.w
}

// Torsion is ±B/(A²+B²), negative for left-handed center frames.
func (h *HelixP) Torsion(s float64) float64 {
	_, _, tau := h.frenet(s)
	return tau
}

// Position returns the point at arc length s.
func (h *HelixP) Position(s float64) vec3.T {
	p, _, _, _ := h.derivatives(s)
	return p
}

// Tangent returns the unit tangent at s.
func (h *HelixP) Tangent(s float64) vec3.T {
	_, d1, _, _ := h.derivatives(s)
	return d1
}

// Transition returns the Frenet frame at s.
func (h *HelixP) Transition(s float64) sc.Frame {
	f, _, _ := h.frenet(s)
	return f
}

// LocalUp is the binormal of flat helices.
func (h *HelixP) LocalUp() (vec3.T, error) {
	if !h.IsFlat() {
		return vec3.T{}, fmt.Errorf("%w: helix with pitch %g has no local up", sc.ErrDomain, h.data.B)
	}
	return upOf(h), nil
}

// Mirror reflects the center frame.
func (h *HelixP) Mirror(p sc.Plane) bool {
	d := h.data
	d.Center.Mirror(p)
	return h.Create(d) == nil
}

// Clone returns an independent copy.
func (h *HelixP) Clone() sc.Curve {
	c := *h
	return &c
}

var (
	_ sc.Curve = (*Helix)(nil)
	_ sc.Curve = (*HelixP)(nil)
)
