package spacecurve

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
)

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming positions and
// vectors in 3-D space.
type AT []float64 // a 4x4 matrix, flattened by rows

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	m := make([]float64, 16)
	return m
}

func (m AT) get(row, col int) float64 {
	return m[row*4+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*4+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*4 : (row+1)*4]
}

func (m AT) col(col int) []float64 {
	c := make([]float64, 4)
	for i := range 4 {
		c[i] = m[i*4+col]
	}
	return c
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	for i := range 4 {
		m.set(i, i, 1.0)
	}
	return m
}

// Translation transform. Translate a point by v.
func Translation(v vec3.T) AT {
	m := Identity()
	m.set(0, 3, v[0])
	m.set(1, 3, v[1])
	m.set(2, 3, v[2])
	return m
}

// Rotation transform. Rotate a point counter-clockwise around an axis through
// the origin. Angle theta is in radians.
func Rotation(axis vec3.T, theta float64) AT {
	m := Identity()
	for col, e := range [3]vec3.T{Ex, Ey, Ez} {
		r := Rotate(e, axis, theta)
		for row := range 3 {
			m.set(row, col, r[row])
		}
	}
	return m
}

// Reflection transform. Mirror a point across plane p.
func Reflection(p Plane) AT {
	n := Unit(p.N)
	d := Dot(n, p.P)
	m := Identity()
	for row := range 3 {
		for col := range 3 {
			m.set(row, col, m.get(row, col)-2*n[row]*n[col])
		}
		m.set(row, 3, 2*d*n[row])
	}
	return m
}

// FrameTransform returns the transform mapping coordinates local to f into
// the parent coordinate system of f.
func FrameTransform(f Frame) AT {
	m := Identity()
	for col, e := range [4]vec3.T{f.T, f.N, f.B, f.P} {
		for row := range 3 {
			m.set(row, col, e[row])
		}
	}
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	s := "["
	for row := range 4 {
		if row > 0 {
			s += "|"
		}
		r := m.row(row)
		s += fmt.Sprintf("%g,%g,%g,%g", r[0], r[1], r[2], r[3])
	}
	return s + "]"
}

// v1 × v2, v.n = [a,b,c,d]
func dotProd(vec1, vec2 []float64) float64 {
	var p float64
	for i := range vec1 {
		p += vec1[i] * vec2[i]
	}
	return p
}

// Combine 2 affine transformation to a new one: first apply m, then n.
// Returns a new transformation without changing the argument(s).
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := range 4 {
		for col := range 4 {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

func (m AT) multiplyVector(v []float64) []float64 {
	c := make([]float64, 4)
	for i := range 4 {
		c[i] = dotProd(m.row(i), v)
	}
	return c
}

// Transform a 3-D position. The argument is unchanged and a new position is
// returned.
func (m AT) Transform(p vec3.T) vec3.T {
	c := m.multiplyVector([]float64{p[0], p[1], p[2], 1.0})
	return V(c[0], c[1], c[2])
}

// TransformVector transforms a direction. Translations do not apply.
func (m AT) TransformVector(v vec3.T) vec3.T {
	c := m.multiplyVector([]float64{v[0], v[1], v[2], 0.0})
	return V(c[0], c[1], c[2])
}

// TransformFrame transforms all parts of a frame.
func (m AT) TransformFrame(f Frame) Frame {
	return Frame{
		P: m.Transform(f.P),
		T: m.TransformVector(f.T),
		N: m.TransformVector(f.N),
		B: m.TransformVector(f.B),
	}
}
