package primitive

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/arclen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/integrate/quad"
)

// integrateTangent returns ∫₀ˢ T(u) du by Gauss-Legendre quadrature.
func integrateTangent(c sc.Curve, s float64) vec3.T {
	comp := func(i int) float64 {
		return quad.Fixed(func(u float64) float64 {
			return c.Tangent(u)[i]
		}, 0, s, 40, quad.Legendre{}, 0)
	}
	return sc.V(comp(0), comp(1), comp(2))
}

func assertOrthoNormalFrames(t *testing.T, c sc.Curve, from, to float64) {
	t.Helper()
	for i := 0; i <= 20; i++ {
		s := from + (to-from)*float64(i)/20
		f := c.Transition(s)
		if !f.IsOrthoNormal(sc.EpsilonFactor) {
			t.Errorf("frame at s=%g is not orthonormal: %s", s, f)
		}
	}
}

func TestLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	l, err := NewLine(LineData{Start: sc.V(1, 2, 3), Tangent: sc.V(1, 1, 0), Up: sc.Ez})
	require.NoError(t, err)
	t0 := l.Tangent(0)
	for _, s := range []float64{-10, 0, 0.5, 100} {
		assert.Equal(t, 0.0, l.Curvature(s))
		assert.Equal(t, 0.0, l.Torsion(s))
		assert.Equal(t, t0, l.Tangent(s))
		assert.InDelta(t, math.Abs(s), sc.Distance(l.Position(s), sc.V(1, 2, 3)), 1e-9)
	}
	up, err := l.LocalUp()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sc.Dot(up, sc.Ez), 1e-12)
	assertOrthoNormalFrames(t, l, -5, 5)
	_, err = NewLine(LineData{Tangent: sc.Origin, Up: sc.Ez})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}

func TestLineMirror(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	l, err := NewLine(LineData{Start: sc.V(0, 1, 0), Tangent: sc.V(1, 1, 0), Up: sc.Ez})
	require.NoError(t, err)
	orig := l.Clone()
	plane := sc.Plane{P: sc.Origin, N: sc.Ey}
	require.True(t, l.Mirror(plane))
	for _, s := range []float64{0, 1, 2.5} {
		assert.InDelta(t, 0.0, sc.Distance(plane.Reflect(orig.Position(s)), l.Position(s)), 1e-9)
	}
}

func TestArcIsCircle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := 5.0
	a, err := NewArc(1 / r)
	require.NoError(t, err)
	center := sc.V(0, r, 0)
	for i := 0; i <= 40; i++ {
		s := float64(i) * 2 * math.Pi * r / 40
		assert.InDelta(t, r, sc.Distance(a.Position(s), center), 1e-9)
		assert.Equal(t, 1/r, a.Curvature(s))
		assert.Equal(t, 0.0, a.Torsion(s))
	}
	assert.InDelta(t, 0.0, sc.Distance(a.Position(2*math.Pi*r), a.Position(0)), 1e-9)
	assertOrthoNormalFrames(t, a, 0, 30)
	assert.False(t, a.Mirror(sc.Plane{N: sc.Ey}))
	_, err = NewArc(0)
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	_, err = NewArc(-1)
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}

func TestArcPMatchesArc(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a, _ := NewArc(0.25)
	ap, err := NewArcP(ArcPData{Center: sc.Frame{P: sc.V(0, 4, 0), T: sc.Ex, N: sc.V(0, 4, 0)}})
	require.NoError(t, err)
	assert.True(t, sc.Equals(a, ap, sc.Interval{Near: 0, Far: 10}, sc.EpsilonLength, sc.EpsilonAngle))
	plane := sc.Plane{P: sc.V(0, 0, 1), N: sc.Ez}
	require.True(t, ap.Mirror(plane))
	for _, s := range []float64{0, 1, 3} {
		assert.InDelta(t, 0.0, sc.Distance(plane.Reflect(a.Position(s)), ap.Position(s)), 1e-9)
	}
	_, err = NewArcP(ArcPData{Center: sc.Frame{T: sc.Ex, N: sc.V(1, 1, 0)}})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}

func TestClothoidCurvature(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 2.0
	c, err := NewClothoid(a)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Curvature(0))
	assert.InDelta(t, 1/a, c.Curvature(a), 1e-12)
	assert.InDelta(t, a*math.Sqrt(2*math.Pi), c.Range().Far, 1e-12)
	zeros := slices.Collect(c.ZeroSet())
	assert.Equal(t, []float64{0}, zeros)
	assertOrthoNormalFrames(t, c, c.Range().Near, c.Range().Far)
	// normal flips across the inflection point
	assert.Less(t, sc.Dot(c.Transition(-0.01).N, c.Transition(0.01).N), 0.0)
}

func TestClothoidRangeTurn(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := NewClothoid(1.5)
	require.NoError(t, err)
	r := c.Range()
	t0 := c.Tangent(0)
	// each branch turns by MaxClothoidAngle
	assert.InDelta(t, MaxClothoidAngle, sc.Angle(t0, c.Tangent(r.Far)), 1e-9)
	assert.InDelta(t, MaxClothoidAngle, sc.Angle(t0, c.Tangent(r.Near)), 1e-9)
	// heading at the middle of one branch is a quarter of the branch turn
	assert.InDelta(t, MaxClothoidAngle/4, sc.Angle(t0, c.Tangent(r.Far/2)), 1e-9)
}

func TestClothoidSeries(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := NewClothoid(1.5)
	require.NoError(t, err)
	for _, s := range []float64{0.1, 1, 2, c.Range().Far} {
		p := integrateTangent(c, s)
		assert.InDelta(t, 0.0, sc.Distance(p, c.Position(s)), 1e-8, "s=%g", s)
	}
	// odd symmetry
	assert.InDelta(t, 0.0, sc.Distance(c.Position(-1), sc.Scale(c.Position(1), -1)), 1e-12)
}

func TestHelixClosedForm(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	h, err := NewHelix(0.5, 0.2)
	require.NoError(t, err)
	assertOrthoNormalFrames(t, h, 0, 20)
	fd := arclen.NewFDFrenet(h.Tangent, sc.Ez)
	for _, s := range []float64{0, 1.5, 7} {
		assert.InDelta(t, 0.5, fd.Curvature(s), 1e-6)
		assert.InDelta(t, 0.2, fd.Torsion(s), 1e-5)
		p := integrateTangent(h, s)
		assert.InDelta(t, 0.0, sc.Distance(p, h.Position(s)), 1e-8)
		f := h.Transition(s)
		assert.InDelta(t, 1.0, sc.Dot(f.N, fd.Frame(s).N), 1e-6)
	}
	assert.False(t, h.IsFlat())
	_, err = h.LocalUp()
	assert.True(t, errors.Is(err, sc.ErrDomain))
}

func TestFlatHelixIsArc(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	h, _ := NewHelix(0.3, 0)
	a, _ := NewArc(0.3)
	assert.True(t, h.IsFlat())
	assert.True(t, sc.Equals(h, a, sc.Interval{Near: 0, Far: 15}, sc.EpsilonLength, sc.EpsilonAngle))
	up, err := h.LocalUp()
	require.NoError(t, err)
	assert.Equal(t, sc.Ez, up)
}

func TestHelixPMirror(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	d := HelixPData{Center: sc.IdentityFrame(), A: 2, B: 0.5}
	h, err := NewHelixP(d)
	require.NoError(t, err)
	k, tau := 2/4.25, 0.5/4.25
	assert.InDelta(t, k, h.Curvature(1), 1e-12)
	assert.InDelta(t, tau, h.Torsion(1), 1e-9)
	assertOrthoNormalFrames(t, h, 0, 10)
	orig := h.Clone()
	plane := sc.Plane{P: sc.V(0, 0, 3), N: sc.V(1, 1, 0)}
	require.True(t, h.Mirror(plane))
	assert.InDelta(t, -tau, h.Torsion(1), 1e-9)
	for _, s := range []float64{0, 1, 4} {
		assert.InDelta(t, 0.0, sc.Distance(plane.Reflect(orig.Position(s)), h.Position(s)), 1e-9)
	}
}

func TestRotatorPosition(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r, err := NewRotator(RotatorData{A: 0.3, B: 0.1, A0: 0.2, B0: -0.4})
	require.NoError(t, err)
	for _, s := range []float64{0.5, 3, 10} {
		p := integrateTangent(r, s)
		assert.InDelta(t, 0.0, sc.Distance(p, r.Position(s)), 1e-8, "s=%g", s)
	}
	fd := arclen.NewFDFrenet(r.Tangent, sc.Ez)
	for _, s := range []float64{0, 2, 5} {
		assert.InDelta(t, fd.Curvature(s), r.Curvature(s), 1e-6)
		assert.InDelta(t, fd.Torsion(s), r.Torsion(s), 1e-5)
	}
	assertOrthoNormalFrames(t, r, -5, 5)
	assert.False(t, r.IsFlat())
	_, err = r.LocalUp()
	assert.True(t, errors.Is(err, sc.ErrDomain))
}

func TestRotatorFlat(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r, _ := NewRotator(RotatorData{A: 0.5})
	a, _ := NewArc(0.5)
	assert.True(t, sc.Equals(r, a, sc.Interval{Near: 0, Far: 8}, sc.EpsilonLength, sc.EpsilonAngle))
	up, err := r.LocalUp()
	require.NoError(t, err)
	assert.Equal(t, sc.Ez, up)
	pitch, _ := NewRotator(RotatorData{B: 0.5})
	up, err = pitch.LocalUp()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sc.Dot(up, pitch.Transition(1).B), 1e-9)
}

func TestRotatorMirror(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r, _ := NewRotator(RotatorData{A: 0.3, B: 0.1, A0: 0.2})
	orig := r.Clone()
	xz := sc.Plane{N: sc.Ey}
	require.True(t, r.Mirror(xz))
	for _, s := range []float64{0, 1, 4} {
		assert.InDelta(t, 0.0, sc.Distance(xz.Reflect(orig.Position(s)), r.Position(s)), 1e-9)
	}
	assert.False(t, r.Mirror(sc.Plane{N: sc.Ez}))
}

func TestRotatorChain(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := NewRotatorChain(RotatorChainData{Links: []RotatorLink{
		{DA: math.Pi / 2, Length: 1},
		{DA: -math.Pi / 2, Length: 1},
		{DA: -math.Pi / 4, DB: 0.2, Length: 2},
	}})
	require.NoError(t, err)
	assert.Equal(t, sc.Interval{Near: 0, Far: 4}, c.Range())
	assert.InDelta(t, math.Pi/2, c.MaxCurvature(), 1e-12)
	for _, joint := range []float64{1, 2} {
		assert.InDelta(t, 0.0, sc.Distance(c.Position(joint-1e-9), c.Position(joint+1e-9)), 1e-8)
		assert.InDelta(t, 1.0, sc.Dot(c.Tangent(joint-1e-9), c.Tangent(joint+1e-9)), 1e-8)
	}
	p := integrateTangent(c, 1)
	assert.InDelta(t, 0.0, sc.Distance(p, c.Position(1)), 1e-8)
	assert.Equal(t, []float64{1}, slices.Collect(c.ZeroSet()))
	assert.False(t, c.IsFlat())
	assertOrthoNormalFrames(t, c, 0, 4)
	_, err = NewRotatorChain(RotatorChainData{Links: []RotatorLink{{DA: 1}}})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}

func TestRotatorChainFlat(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := NewRotatorChain(RotatorChainData{Links: []RotatorLink{
		{DA: 0.5, Length: 1},
		{DA: 0.25, Length: 1},
	}})
	require.NoError(t, err)
	assert.True(t, c.IsFlat())
	up, err := c.LocalUp()
	require.NoError(t, err)
	assert.Equal(t, sc.Ez, up)
	assert.Empty(t, slices.Collect(c.ZeroSet()))
	assert.InDelta(t, 0.0, c.Torsion(0.5), 1e-6)
	cl := c.Clone()
	assert.True(t, sc.Equals(c, cl, c.Range(), sc.EpsilonLength, sc.EpsilonAngle))
}
