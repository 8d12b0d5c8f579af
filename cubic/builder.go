package cubic

import (
	"fmt"

	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/numeric"
	"github.com/ungerik/go3d/float64/vec3"
)

// Knots is a builder for splines through a sequence of points. Knots are
// appended with Knot and the spline is created by one of the terminal calls
// Natural, Clamped, CatmullRom or Bezier:
//
//	sp, err := cubic.NullSpline().Knot(p0).Knot(p1).Knot(p2).CatmullRom()
//
// Consecutive equal knots produce degenerate segments and are rejected by the
// terminal calls.
type Knots struct {
	points []vec3.T
}

// NullSpline starts an empty knot sequence.
func NullSpline() *Knots {
	return &Knots{}
}

// Knot appends a knot. Part of builder functionality.
func (k *Knots) Knot(p vec3.T) *Knots {
	k.points = append(k.points, p)
	return k
}

// Knots appends several knots. Part of builder functionality.
func (k *Knots) Knots(pts ...vec3.T) *Knots {
	k.points = append(k.points, pts...)
	return k
}

// N returns the number of knots.
func (k *Knots) N() int {
	return len(k.points)
}

// Points returns a copy of the knots.
func (k *Knots) Points() []vec3.T {
	return append([]vec3.T(nil), k.points...)
}

// InsertKnot inserts p before knot i; i = N() appends.
func (k *Knots) InsertKnot(i int, p vec3.T) *Knots {
	if i < 0 || i > len(k.points) {
		panic(fmt.Sprintf("knot index %d out of range [0,%d]", i, len(k.points)))
	}
	k.points = append(k.points, vec3.T{})
	copy(k.points[i+1:], k.points[i:])
	k.points[i] = p
	return k
}

// RemoveKnot removes knot i.
func (k *Knots) RemoveKnot(i int) *Knots {
	if i < 0 || i >= len(k.points) {
		panic(fmt.Sprintf("knot index %d out of range [0,%d)", i, len(k.points)))
	}
	k.points = append(k.points[:i], k.points[i+1:]...)
	return k
}

func (k *Knots) check(atLeast int) error {
	if len(k.points) < atLeast {
		return fmt.Errorf("%w: spline needs at least %d knots, has %d", sc.ErrInvalidArgument, atLeast, len(k.points))
	}
	for i := 1; i < len(k.points); i++ {
		if sc.Distance(k.points[i-1], k.points[i]) <= sc.EpsilonLength {
			return fmt.Errorf("%w: knots #%d and #%d collocated", sc.ErrInvalidArgument, i-1, i)
		}
	}
	return nil
}

// hermite creates the spline from knot tangents m.
func (k *Knots) hermite(m []vec3.T) (*Spline, error) {
	data := make([]CubicData, len(k.points)-1)
	for i := range data {
		data[i] = Hermite(k.points[i], k.points[i+1], m[i], m[i+1])
	}
	return NewSpline(data)
}

// Natural creates the C²-continuous spline with vanishing second derivatives
// at both ends.
func (k *Knots) Natural() (*Spline, error) {
	if err := k.check(2); err != nil {
		return nil, err
	}
	return k.solve(nil, nil)
}

// Clamped creates the C²-continuous spline with start tangent m0 and end
// tangent m1, given as derivatives with respect to the unit segment
// parameter.
func (k *Knots) Clamped(m0, m1 vec3.T) (*Spline, error) {
	if err := k.check(2); err != nil {
		return nil, err
	}
	return k.solve(&m0, &m1)
}

// solve sets up the tangent equations of a uniform C² spline
//
//	m[i−1] + 4⋅m[i] + m[i+1] = 3⋅(p[i+1] − p[i−1])
//
// with either clamped or natural end conditions, and sweeps the tridiagonal
// system.
func (k *Knots) solve(m0, m1 *vec3.T) (*Spline, error) {
	p := k.points
	n := len(p)
	lo, diag, up := make([]float64, n), make([]float64, n), make([]float64, n)
	rhs := make([]vec3.T, n)
	for i := 1; i < n-1; i++ {
		lo[i], diag[i], up[i] = 1, 4, 1
		rhs[i] = sc.Scale(sc.Sub(p[i+1], p[i-1]), 3)
	}
	if m0 != nil {
		diag[0], rhs[0] = 1, *m0
	} else {
		diag[0], up[0] = 2, 1
		rhs[0] = sc.Scale(sc.Sub(p[1], p[0]), 3)
	}
	if m1 != nil {
		diag[n-1], rhs[n-1] = 1, *m1
	} else {
		lo[n-1], diag[n-1] = 1, 2
		rhs[n-1] = sc.Scale(sc.Sub(p[n-1], p[n-2]), 3)
	}
	m, err := numeric.SolveTridiagonal(lo, diag, up, rhs)
	if err != nil {
		return nil, err
	}
	return k.hermite(m)
}

// CatmullRom creates the C¹-continuous spline whose tangent at each inner
// knot is half the difference of its neighbours. End tangents point to the
// adjacent knot.
func (k *Knots) CatmullRom() (*Spline, error) {
	if err := k.check(2); err != nil {
		return nil, err
	}
	p := k.points
	n := len(p)
	m := make([]vec3.T, n)
	m[0] = sc.Sub(p[1], p[0])
	m[n-1] = sc.Sub(p[n-1], p[n-2])
	for i := 1; i < n-1; i++ {
		m[i] = sc.Scale(sc.Sub(p[i+1], p[i-1]), 0.5)
	}
	return k.hermite(m)
}

// Bezier interprets the knots as a Bezier control polygon
// p0, c1, c2, p1, c3, c4, p2, … with 3n+1 points for n segments.
func (k *Knots) Bezier() (*Spline, error) {
	n := len(k.points)
	if n < 4 || (n-1)%3 != 0 {
		return nil, fmt.Errorf("%w: Bezier spline needs 3n+1 control points, has %d", sc.ErrInvalidArgument, n)
	}
	p := k.points
	data := make([]CubicData, (n-1)/3)
	for i := range data {
		j := 3 * i
		data[i] = Bezier(p[j], p[j+1], p[j+2], p[j+3])
	}
	return NewSpline(data)
}

// BezierPoints returns the control polygon of a spline, with shared points
// at joints. Gaps between segments are closed at the start of the later
// segment.
func BezierPoints(sp *Spline) []vec3.T {
	pts := make([]vec3.T, 0, 3*sp.Len()+1)
	for i, d := range sp.Data() {
		b := d.BezierPoints()
		if i == 0 {
			pts = append(pts, b[0])
		}
		pts = append(pts, b[1], b[2], b[3])
	}
	return pts
}
