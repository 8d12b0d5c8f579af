package spacecurve

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Frame is a position together with an orthonormal triad of tangent T,
// normal N and binormal B. Frames produced by curves are right-handed,
// B = T×N; mirrored frames stay orthonormal but may flip handedness.
type Frame struct {
	P vec3.T // position
	T vec3.T // tangent
	N vec3.T // normal
	B vec3.T // binormal
}

// IdentityFrame is located at the origin, aligned with the coordinate axes.
func IdentityFrame() Frame {
	return Frame{P: Origin, T: Ex, N: Ey, B: Ez}
}

// NewFrame creates a right-handed frame from a position, a tangent and an
// up direction. The tangent is kept; up is projected perpendicular to it and
// becomes the binormal.
func NewFrame(p, t, up vec3.T) (Frame, error) {
	if IsNull(t, EpsilonFactor) {
		return Frame{}, fmt.Errorf("%w: zero length tangent", ErrInvalidArgument)
	}
	t = Unit(t)
	b := AddScaled(up, t, -Dot(up, t))
	if IsNull(b, EpsilonFactor) {
		return Frame{}, fmt.Errorf("%w: up %s is parallel to tangent", ErrInvalidArgument, VString(up))
	}
	b = Unit(b)
	return Frame{P: p, T: t, N: Cross(b, t), B: b}, nil
}

func (f Frame) String() string {
	return fmt.Sprintf("{P%s T%s N%s B%s}", VString(f.P), VString(f.T), VString(f.N), VString(f.B))
}

// IsOrthoNormal checks the triad for unit lengths and mutual perpendicularity
// within tolerance eps. It does not repair anything.
func (f Frame) IsOrthoNormal(eps float64) bool {
	for _, v := range [3]vec3.T{f.T, f.N, f.B} {
		if math.Abs(Norm(v)-1) > eps {
			return false
		}
	}
	return math.Abs(Dot(f.T, f.N)) <= eps &&
		math.Abs(Dot(f.N, f.B)) <= eps &&
		math.Abs(Dot(f.B, f.T)) <= eps
}

// IsRightHanded is a predicate: B points along T×N.
func (f Frame) IsRightHanded() bool {
	return Triple(f.T, f.N, f.B) > 0
}

// OrthoNormalize repairs the triad by Gram-Schmidt: T is kept in direction,
// N is made perpendicular to T, and B is recomputed preserving the frame's
// handedness.
func (f *Frame) OrthoNormalize() error {
	if Normalize(&f.T) <= 0 {
		return fmt.Errorf("%w: frame with zero tangent", ErrInvalidArgument)
	}
	rh := Triple(f.T, f.N, f.B) >= 0
	n := AddScaled(f.N, f.T, -Dot(f.N, f.T))
	if IsNull(n, EpsilonFactor) {
		// N collapsed onto T, recover it from B
		n = Cross(f.B, f.T)
		if IsNull(n, EpsilonFactor) {
			return fmt.Errorf("%w: degenerate frame", ErrInvalidArgument)
		}
	}
	f.N = Unit(n)
	f.B = Cross(f.T, f.N)
	if !rh {
		f.B = Scale(f.B, -1)
	}
	return nil
}

// ToParent maps a position given in the coordinates of f to the parent
// coordinate system.
func (f Frame) ToParent(local vec3.T) vec3.T {
	return Add(f.P, f.VecToParent(local))
}

// VecToParent maps a direction given in the coordinates of f to the parent
// coordinate system.
func (f Frame) VecToParent(v vec3.T) vec3.T {
	r := Scale(f.T, v[0])
	r = AddScaled(r, f.N, v[1])
	return AddScaled(r, f.B, v[2])
}

// FromParent maps a position of the parent coordinate system into the
// coordinates of f. f has to be orthonormal.
func (f Frame) FromParent(p vec3.T) vec3.T {
	return f.VecFromParent(Sub(p, f.P))
}

// VecFromParent maps a direction of the parent coordinate system into the
// coordinates of f. f has to be orthonormal.
func (f Frame) VecFromParent(v vec3.T) vec3.T {
	return V(Dot(v, f.T), Dot(v, f.N), Dot(v, f.B))
}

// Compose interprets local as a frame given in the coordinates of f and returns
// it in parent coordinates.
func (f Frame) Compose(local Frame) Frame {
	return Frame{
		P: f.ToParent(local.P),
		T: f.VecToParent(local.T),
		N: f.VecToParent(local.N),
		B: f.VecToParent(local.B),
	}
}

// Rotated returns f with its triad rotated around axis by theta. The position
// stays in place.
func (f Frame) Rotated(axis vec3.T, theta float64) Frame {
	r := Rotation(axis, theta)
	g := r.TransformFrame(f)
	g.P = f.P
	return g
}

// Mirror reflects the frame across plane p. The result has opposite handedness.
func (f *Frame) Mirror(p Plane) {
	*f = Reflection(p).TransformFrame(*f)
}

// Equal compares two frames, positions with length tolerance and directions
// with angle tolerance.
func (f Frame) Equal(g Frame, epsLength, epsAngle float64) bool {
	return Distance(f.P, g.P) <= epsLength &&
		Angle(f.T, g.T) <= epsAngle &&
		Angle(f.N, g.N) <= epsAngle &&
		Angle(f.B, g.B) <= epsAngle
}

// === Plane =================================================================

// Plane is given by a point on the plane and a normal vector.
type Plane struct {
	P vec3.T
	N vec3.T
}

// Distance returns the signed distance of q from the plane.
func (p Plane) Distance(q vec3.T) float64 {
	return Dot(Sub(q, p.P), Unit(p.N))
}

// Reflect mirrors position q across the plane.
func (p Plane) Reflect(q vec3.T) vec3.T {
	return AddScaled(q, Unit(p.N), -2*p.Distance(q))
}

// ReflectVector mirrors direction v across the plane.
func (p Plane) ReflectVector(v vec3.T) vec3.T {
	n := Unit(p.N)
	return AddScaled(v, n, -2*Dot(v, n))
}
