package spacecurve

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Positions and vectors share go3d's vec3.T. The helpers in this file take and
// return values, which makes chained expressions possible.

// Origin represents the frequently used constant (0,0,0).
var Origin = V(0, 0, 0)

// Ex, Ey and Ez are the unit vectors of the coordinate axes.
var (
	Ex = V(1, 0, 0)
	Ey = V(0, 1, 0)
	Ez = V(0, 0, 1)
)

// V is a quick notation for constructing a vector from floats.
func V(x, y, z float64) vec3.T {
	return vec3.T{x, y, z}
}

// VString is a pretty Stringer for vectors.
func VString(v vec3.T) string {
	return fmt.Sprintf("(%g,%g,%g)", v[0], v[1], v[2])
}

// Add returns a + b.
func Add(a, b vec3.T) vec3.T {
	return vec3.Add(&a, &b)
}

// Sub returns a - b.
func Sub(a, b vec3.T) vec3.T {
	return vec3.Sub(&a, &b)
}

// Scale returns f⋅v.
func Scale(v vec3.T, f float64) vec3.T {
	return v.Scaled(f)
}

// AddScaled returns a + f⋅b.
func AddScaled(a, b vec3.T, f float64) vec3.T {
	fb := b.Scaled(f)
	return vec3.Add(&a, &fb)
}

// Dot returns the dot product a·b.
func Dot(a, b vec3.T) float64 {
	return vec3.Dot(&a, &b)
}

// Cross returns the cross product a×b.
func Cross(a, b vec3.T) vec3.T {
	return vec3.Cross(&a, &b)
}

// Norm returns |v|.
func Norm(v vec3.T) float64 {
	return v.Length()
}

// Distance returns |a - b|.
func Distance(a, b vec3.T) float64 {
	return vec3.Distance(&a, &b)
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b vec3.T, t float64) vec3.T {
	return vec3.Interpolate(&a, &b, t)
}

// Normalize scales v to unit length and returns the previous length.
// Zero vectors are left untouched.
func Normalize(v *vec3.T) float64 {
	l := v.Length()
	if l > 0 {
		*v = v.Scaled(1 / l)
	}
	return l
}

// Unit returns v scaled to unit length.
func Unit(v vec3.T) vec3.T {
	Normalize(&v)
	return v
}

// IsNull is a predicate: is |v| below tolerance eps?
func IsNull(v vec3.T, eps float64) bool {
	return Norm(v) <= eps
}

// IsFiniteV is a predicate: all components of v are finite.
func IsFiniteV(v vec3.T) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// Angle returns the unsigned angle between a and b, in [0, π].
func Angle(a, b vec3.T) float64 {
	return math.Atan2(Norm(Cross(a, b)), Dot(a, b))
}

// Triple returns the scalar triple product a·(b×c), i.e. det[a;b;c].
func Triple(a, b, c vec3.T) float64 {
	return Dot(a, Cross(b, c))
}

// Rotate rotates v counter-clockwise around axis by theta (Rodrigues' formula).
// axis needs not be normalized.
func Rotate(v, axis vec3.T, theta float64) vec3.T {
	k := Unit(axis)
	sin, cos := math.Sincos(theta)
	r := Scale(v, cos)
	r = AddScaled(r, Cross(k, v), sin)
	return AddScaled(r, k, Dot(k, v)*(1-cos))
}

// Perpendicular returns some unit vector perpendicular to v.
func Perpendicular(v vec3.T) vec3.T {
	i := 0 // axis least aligned with v
	for j := 1; j < 3; j++ {
		if math.Abs(v[j]) < math.Abs(v[i]) {
			i = j
		}
	}
	var a vec3.T
	a[i] = 1
	return Unit(Cross(v, a))
}
