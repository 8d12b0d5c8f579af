package primitive

import (
	"fmt"
	"iter"
	"math"

	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// RotatorData describes a tangent direction turning at two constant angular
// rates: yaw α(s) = A⋅s + A0 around z, and pitch β(s) = B⋅s + B0 out of the
// xy-plane.
type RotatorData struct {
	A, B   float64 // angular rates, radians per length
	A0, B0 float64 // angular offsets at s = 0
}

// Rotator is the curve starting at the origin whose unit tangent is
//
//	T(s) = (cos β⋅cos α, cos β⋅sin α, sin β)
//
// Positions are the closed form integrals of T.
type Rotator struct {
	data  RotatorData
	valid bool
}

// NewRotator creates a rotator from its data.
func NewRotator(d RotatorData) (*Rotator, error) {
	r := &Rotator{}
	if err := r.Create(d); err != nil {
		return nil, err
	}
	return r, nil
}

// Create (re-)initializes the rotator.
func (r *Rotator) Create(d RotatorData) error {
	for _, x := range [4]float64{d.A, d.B, d.A0, d.B0} {
		if !sc.IsFinite(x) {
			return fmt.Errorf("%w: rotator data %+v", sc.ErrInvalidArgument, d)
		}
	}
	r.data, r.valid = d, true
	return nil
}

// Data returns the construction data.
func (r *Rotator) Data() RotatorData { return r.data }

func (r *Rotator) IsValid() bool { return r.valid }
func (r *Rotator) Range() sc.Interval { return sc.Infinite }
func (r *Rotator) ZeroSet() iter.Seq[float64] { return noZeros }

func (r *Rotator) angles(s float64) (float64, float64) {
	return r.data.A*s + r.data.A0, r.data.B*s + r.data.B0
}

// Position integrates T from 0 to s, using product-to-sum identities:
//
//	cos β cos α = ½(cos(α+β) + cos(α−β))
//	cos β sin α = ½(sin(α+β) + sin(α−β))
func (r *Rotator) Position(s float64) vec3.T {
	d := r.data
	wp, pp := d.A+d.B, d.A0+d.B0
	wm, pm := d.A-d.B, d.A0-d.B0
	return sc.V(
		0.5*(cosIntegral(wp, pp, s)+cosIntegral(wm, pm, s)),
		0.5*(sinIntegral(wp, pp, s)+sinIntegral(wm, pm, s)),
		sinIntegral(d.B, d.B0, s),
	)
}

// Tangent returns the unit tangent at s.
func (r *Rotator) Tangent(s float64) vec3.T {
	sa, ca := math.Sincos(r.data.A*s + r.data.A0)
	sb, cb := math.Sincos(r.data.B*s + r.data.B0)
	return sc.V(cb*ca, cb*sa, sb)
}

// derivatives returns the first three derivatives of P with respect to s.
func (r *Rotator) derivatives(s float64) (d1, d2, d3 vec3.T) {
	a, b := r.data.A, r.data.B
	alpha, beta := r.angles(s)
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	d1 = sc.V(cb*ca, cb*sa, sb)
	d2 = sc.V(-b*sb*ca-a*cb*sa, -b*sb*sa+a*cb*ca, b*cb)
	ab2 := a*a + b*b
	d3 = sc.V(-ab2*cb*ca+2*a*b*sb*sa, -ab2*cb*sa-2*a*b*sb*ca, -b*b*sb)
	return
}

func (r *Rotator) frenet(s float64) (sc.Frame, float64, float64) {
	d1, d2, d3 := r.derivatives(s)
	return sc.FrenetFromDerivatives(r.Position(s), d1, d2, d3, sc.Ez)
}

// Curvature is √(B² + A²⋅cos²β).
func (r *Rotator) Curvature(s float64) float64 {
	_, beta := r.angles(s)
	cb := math.Cos(beta)
	return math.Sqrt(r.data.B*r.data.B + r.data.A*r.data.A*cb*cb)
}

// Torsion returns the torsion at s.
func (r *Rotator) Torsion(s float64) float64 {
	_, _, tau := r.frenet(s)
	return tau
}

// Transition returns the Frenet frame at s.
func (r *Rotator) Transition(s float64) sc.Frame {
	f, _, _ := r.frenet(s)
	return f
}

// IsFlat holds for rotators turning in one plane only: either pure yaw in the
// xy-plane or pure pitch in a vertical plane.
func (r *Rotator) IsFlat() bool {
	d := r.data
	return (d.B == 0 && d.B0 == 0) || d.A == 0
}

// LocalUp returns the normal of the plane a flat rotator lies in.
func (r *Rotator) LocalUp() (vec3.T, error) {
	if !r.IsFlat() {
		return vec3.T{}, fmt.Errorf("%w: rotator %+v is twisted", sc.ErrDomain, r.data)
	}
	return planeUp(r.data.B == 0 && r.data.B0 == 0, r.data.A0), nil
}

// planeUp is z for curves in the xy-plane and the normal of the vertical
// plane at yaw a0 otherwise. The latter matches the binormal of a tangent
// pitching upwards.
func planeUp(horizontal bool, a0 float64) vec3.T {
	if horizontal {
		return sc.Ez
	}
	sa, ca := math.Sincos(a0)
	return sc.V(sa, -ca, 0)
}

// Mirror supports only the local xz-plane, which flips the yaw.
func (r *Rotator) Mirror(p sc.Plane) bool {
	if !isLocalXZ(p) {
		return false
	}
	d := r.data
	d.A, d.A0 = -d.A, -d.A0
	return r.Create(d) == nil
}

func isLocalXZ(p sc.Plane) bool {
	return math.Abs(p.Distance(sc.Origin)) <= sc.EpsilonLength &&
		sc.IsNull(sc.Cross(sc.Unit(p.N), sc.Ey), sc.EpsilonAngle)
}

// Clone returns an independent copy.
func (r *Rotator) Clone() sc.Curve {
	c := *r
	return &c
}

var _ sc.Curve = (*Rotator)(nil)
