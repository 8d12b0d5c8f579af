package arclen

import (
	"math"

	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/numeric"
	"github.com/ungerik/go3d/float64/vec3"
)

// FDFrenet estimates Frenet quantities of a curve for which only the unit
// tangent as a function of arc length is known. Derivatives are taken by
// centered finite differences; the tangent function has to be defined within
// Order/2 steps beyond the point of interest.
type FDFrenet struct {
	Tangent func(s float64) vec3.T
	H       float64       // finite difference step, in arc length
	Order   numeric.Order // stencil order
	Up      vec3.T        // binormal fallback where curvature vanishes
}

// NewFDFrenet creates an estimator with a step suitable for the global
// length tolerance.
func NewFDFrenet(tangent func(float64) vec3.T, up vec3.T) FDFrenet {
	return FDFrenet{
		Tangent: tangent,
		H:       10 * sc.EpsilonLength,
		Order:   numeric.Order6,
		Up:      up,
	}
}

// dT returns dT/ds = κ⋅N.
func (fd FDFrenet) dT(s float64) vec3.T {
	return numeric.DerivativeV(fd.Tangent, s, fd.H, fd.Order)
}

// Curvature is |dT/ds|.
func (fd FDFrenet) Curvature(s float64) float64 {
	return sc.Norm(fd.dT(s))
}

// Frame returns tangent, normal and binormal at s; the position is left zero.
func (fd FDFrenet) Frame(s float64) sc.Frame {
	t := sc.Unit(fd.Tangent(s))
	n := fd.dT(s)
	n = sc.AddScaled(n, t, -sc.Dot(n, t))
	var f sc.Frame
	f.T = t
	if sc.Norm(n) <= sc.EpsilonAngle {
		b := sc.AddScaled(fd.Up, t, -sc.Dot(fd.Up, t))
		if sc.IsNull(b, sc.EpsilonFactor) {
			b = sc.Perpendicular(t)
		}
		f.B = sc.Unit(b)
		f.N = sc.Cross(f.B, t)
		return f
	}
	f.N = sc.Unit(n)
	f.B = sc.Cross(t, f.N)
	return f
}

// Torsion is −(dB/ds)·N. It is zero where the normal is undefined.
func (fd FDFrenet) Torsion(s float64) float64 {
	if fd.Curvature(s) <= sc.EpsilonAngle {
		return 0
	}
	f := fd.Frame(s)
	binormal := func(u float64) vec3.T {
		b := fd.Frame(u).B
		if sc.Dot(b, f.B) < 0 { // stay on the same side near a flip
			b = sc.Scale(b, -1)
		}
		return b
	}
	db := numeric.DerivativeV(binormal, s, fd.H, fd.Order)
	tau := -sc.Dot(db, f.N)
	if math.IsNaN(tau) {
		return 0
	}
	return tau
}
