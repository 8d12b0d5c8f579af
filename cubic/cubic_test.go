package cubic

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func diff(t *testing.T, want, got any) {
	t.Helper()
	if d := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("unexpected difference (-want +got):\n%s", d)
	}
}

func near(t *testing.T, want, got vec3.T, eps float64) {
	t.Helper()
	if d := sc.Distance(want, got); d > eps {
		t.Errorf("expected %s, got %s (distance %g)", sc.VString(want), sc.VString(got), d)
	}
}

func TestHermite(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p0, p1 := sc.V(1, 0, 0), sc.V(3, 2, 1)
	m0, m1 := sc.V(0, 2, 0), sc.V(1, 1, 1)
	d := Hermite(p0, p1, m0, m1)
	diff(t, p0, d.P(0))
	diff(t, p1, d.P(1))
	diff(t, m0, d.D1(0))
	diff(t, m1, d.D1(1))
}

func TestBezierRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := [4]vec3.T{sc.V(0, 0, 0), sc.V(1, 2, 0), sc.V(3, 2, 1), sc.V(4, 0, 1)}
	d := Bezier(pts[0], pts[1], pts[2], pts[3])
	diff(t, pts, d.BezierPoints())
	// tangents at the ends point along the control polygon
	assert.InDelta(t, 0.0, sc.Angle(d.D1(0), sc.Sub(pts[1], pts[0])), 1e-9)
	assert.InDelta(t, 0.0, sc.Angle(d.D1(1), sc.Sub(pts[3], pts[2])), 1e-9)
}

func TestShorten(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	d := Hermite(sc.V(0, 0, 0), sc.V(2, 1, 0), sc.V(1, 3, 0), sc.V(2, -1, 1))
	sh := d.Shorten(0.25, 0.75)
	for _, v := range []float64{0, 0.3, 0.5, 1} {
		near(t, d.P(0.25+0.5*v), sh.P(v), 1e-12)
	}
	rev := d.Shorten(1, 0)
	near(t, d.P(1), rev.P(0), 1e-12)
	near(t, d.P(0), rev.P(1), 1e-12)
}

func TestCubicLength(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	line := Hermite(sc.V(0, 0, 0), sc.V(3, 4, 0), sc.V(3, 4, 0), sc.V(3, 4, 0))
	assert.InDelta(t, 5.0, line.Length(), 1e-12)
	d := Hermite(sc.V(0, 0, 0), sc.V(2, 1, 0), sc.V(1, 3, 0), sc.V(2, -1, 1))
	c, err := New(d)
	require.NoError(t, err)
	assert.InDelta(t, d.Length(), c.Length(), 1e-4*d.Length())
	near(t, d.P(1), c.Position(c.Length()), 1e-9)
	assert.True(t, c.Data() == d)
}

func TestCubicDegenerate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := New(CubicData{A: sc.V(1, 1, 1)})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	_, err = New(CubicData{B: sc.V(math.NaN(), 0, 0)})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}

func TestNaturalSpline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	knots := []vec3.T{sc.V(0, 0, 0), sc.V(1, 1, 0), sc.V(2, 0, 1), sc.V(3, 1, 1), sc.V(4, 0, 0)}
	sp, err := NullSpline().Knots(knots...).Natural()
	require.NoError(t, err)
	require.Equal(t, 4, sp.Len())
	data := sp.Data()
	for i, d := range data {
		near(t, knots[i], d.P(0), 1e-12)
		near(t, knots[i+1], d.P(1), 1e-12)
		if i > 0 {
			near(t, data[i-1].D1(1), d.D1(0), 1e-9)
			near(t, data[i-1].D2(1), d.D2(0), 1e-9)
		}
	}
	assert.True(t, sc.Is0(sc.Norm(data[0].D2(0))))
	assert.True(t, sc.Is0(sc.Norm(data[3].D2(1))))
	assert.Empty(t, sp.Gaps(sc.EpsilonLength))
	assert.Empty(t, sp.Kinks(sc.EpsilonAngle))
	near(t, knots[4], sp.Position(sp.Range().Far), 1e-9)
	assert.False(t, sp.IsFlat())
}

func TestClampedSpline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m0, m1 := sc.V(0, 1, 0), sc.V(1, 0, 0)
	sp, err := NullSpline().Knot(sc.V(0, 0, 0)).Knot(sc.V(1, 1, 0)).Knot(sc.V(2, 1, 0)).Clamped(m0, m1)
	require.NoError(t, err)
	data := sp.Data()
	near(t, m0, data[0].D1(0), 1e-12)
	near(t, m1, data[1].D1(1), 1e-12)
	up, err := sp.LocalUp()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, math.Abs(up[2]), 1e-9)
}

func TestCatmullRom(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	knots := []vec3.T{sc.V(0, 0, 0), sc.V(1, 1, 0), sc.V(3, 1, 0), sc.V(4, 0, 0)}
	sp, err := NullSpline().Knots(knots...).CatmullRom()
	require.NoError(t, err)
	data := sp.Data()
	near(t, sc.V(1.5, 0.5, 0), data[0].D1(1), 1e-12)
	near(t, data[0].D1(1), data[1].D1(0), 1e-12)
	assert.Empty(t, sp.Kinks(sc.EpsilonAngle))
	assert.True(t, sp.IsFlat())
}

func TestBezierSpline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []vec3.T{
		sc.V(0, 0, 0), sc.V(1, 1, 0), sc.V(2, 1, 0),
		sc.V(3, 0, 0), sc.V(4, -1, 0), sc.V(5, -1, 1), sc.V(6, 0, 1),
	}
	sp, err := NullSpline().Knots(pts...).Bezier()
	require.NoError(t, err)
	assert.Equal(t, 2, sp.Len())
	got := BezierPoints(sp)
	require.Len(t, got, len(pts))
	for i := range pts {
		near(t, pts[i], got[i], 1e-12)
	}
	_, err = NullSpline().Knots(pts[:5]...).Bezier()
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}

func TestKnotEditing(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a, b, c, x := sc.V(0, 0, 0), sc.V(1, 0, 0), sc.V(2, 1, 0), sc.V(0.5, 0.5, 0)
	k := NullSpline().Knots(a, b, c)
	k.InsertKnot(1, x)
	assert.Equal(t, []vec3.T{a, x, b, c}, k.Points())
	k.RemoveKnot(2)
	assert.Equal(t, []vec3.T{a, x, c}, k.Points())
	k.InsertKnot(3, b)
	assert.Equal(t, 4, k.N())
	assert.Panics(t, func() { k.RemoveKnot(4) })
	_, err := NullSpline().Knot(a).Natural()
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	_, err = NullSpline().Knots(a, b, b).CatmullRom()
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}

// sCurve turns left on its first segment and right on its second.
func sCurve(t *testing.T, shift vec3.T) *Spline {
	t.Helper()
	sp, err := NewSpline([]CubicData{
		Hermite(sc.V(0, 0, 0), sc.V(1, 1, 0), sc.V(1.5, 0, 0), sc.V(0, 1.5, 0)),
		Hermite(sc.Add(sc.V(1, 1, 0), shift), sc.Add(sc.V(2, 2, 0), shift), sc.V(0, 1.5, 0), sc.V(1.5, 0, 0)),
	})
	require.NoError(t, err)
	return sp
}

func TestSplineZeroSet(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sp := sCurve(t, sc.Origin)
	_, s1 := sp.Segment(1)
	assert.Equal(t, []float64{s1}, slices.Collect(sp.ZeroSet()))
	assert.Less(t, sc.Dot(sp.Transition(s1-0.01).N, sp.Transition(s1+0.01).N), 0.0)
	assert.True(t, sp.IsFlat())
}

func TestGapsAndKinks(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sp := sCurve(t, sc.V(0.01, 0, 0))
	assert.Equal(t, []int{1}, sp.Gaps(1e-3))
	assert.Empty(t, sp.Gaps(0.1))
	kinked := MustSpline(NewSpline([]CubicData{
		Hermite(sc.V(0, 0, 0), sc.V(1, 0, 0), sc.V(1, 0, 0), sc.V(1, 0, 0)),
		Hermite(sc.V(1, 0, 0), sc.V(2, 1, 0), sc.V(1, 1, 0), sc.V(1, 1, 0)),
	}))
	assert.Empty(t, kinked.Gaps(sc.EpsilonLength))
	assert.Equal(t, []int{1}, kinked.Kinks(0.1))
	assert.Empty(t, kinked.Kinks(math.Pi/2))
}

func TestMustSplinePanics(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Panics(t, func() { MustSpline(NewSpline(nil)) })
	assert.NotPanics(t, func() { MustSpline(NullSpline().Knots(sc.Origin, sc.Ex).Natural()) })
}

func TestSplineMirrorAndClone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sp := sCurve(t, sc.Origin)
	cl := sp.Clone()
	assert.True(t, sc.Equals(sp, cl, sp.Range(), sc.EpsilonLength, sc.EpsilonAngle))
	plane := sc.Plane{P: sc.V(0, 0, 1), N: sc.V(0, 1, 1)}
	require.True(t, sp.Mirror(plane))
	for _, s := range []float64{0, 0.5, 1.5, 2} {
		near(t, plane.Reflect(cl.Position(s)), sp.Position(s), 1e-6)
	}
}

func TestFitSmallArcWithoutOptimizer(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := 1000 * sc.EpsilonLength
	arc, err := primitive.NewArc(1 / r)
	require.NoError(t, err)
	opt := DefaultFitOptions()
	res, err := Fit(arc, sc.Interval{Near: 0, Far: 0.3 * r}, opt)
	require.NoError(t, err)
	assert.Equal(t, 0, res.OptimizerRuns)
	assert.Equal(t, 1, res.Spline.Len())
	assert.LessOrEqual(t, res.Deviation, opt.MaxDeviation)
}

func TestFitHelix(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	h, err := primitive.NewHelix(0.5, 0.2)
	require.NoError(t, err)
	opt := DefaultFitOptions()
	opt.MaxDeviation = 1e-3
	opt.MaxDist = 2
	res, err := Fit(h, sc.Interval{Near: 0, Far: 10}, opt)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Deviation, opt.MaxDeviation)
	assert.GreaterOrEqual(t, res.Spline.Len(), 5)
	near(t, h.Position(0), res.Spline.Position(0), 1e-9)
	near(t, h.Position(10), res.Spline.Position(res.Spline.Range().Far), 1e-6)
	assert.Empty(t, res.Spline.Gaps(1e-9))
	assert.InDelta(t, 10.0, res.Spline.Range().Far, 1e-2)
}

func TestFitErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Fit(&primitive.Arc{}, sc.Interval{Near: 0, Far: 1}, DefaultFitOptions())
	assert.True(t, errors.Is(err, sc.ErrLogic))
	c, _ := primitive.NewClothoid(1)
	_, err = Fit(c, sc.Interval{Near: 0, Far: 10}, DefaultFitOptions())
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	_, err = Fit(c, sc.Interval{Near: 0, Far: 1}, FitOptions{})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}
