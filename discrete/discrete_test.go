package discrete

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/numeric"
	"github.com/npillmayer/spacecurve/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waypoints(c sc.Curve, from, to float64, n int) []Waypoint {
	wps := make([]Waypoint, n+1)
	for i := range wps {
		s := from + (to-from)*float64(i)/float64(n)
		wps[i] = Waypoint{P: c.Position(s), T: c.Tangent(s)}
	}
	return wps
}

// maxDeviation returns the largest distance of the dense samples from the
// polyline through the sparse ones.
func maxDeviation(dense, sparse []Sample) float64 {
	var dev float64
	for _, x := range dense {
		best := math.Inf(1)
		for i := 1; i < len(sparse); i++ {
			d := numeric.SegmentDistance(x.Frame.P, sparse[i-1].Frame.P, sparse[i].Frame.P)
			best = math.Min(best, d)
		}
		dev = math.Max(dev, best)
	}
	return dev
}

func assertOrthoNormal(t *testing.T, c sc.Curve) {
	t.Helper()
	r := c.Range()
	for i := 0; i <= 50; i++ {
		s := r.Near + r.Length()*float64(i)/50
		if f := c.Transition(s); !f.IsOrthoNormal(1e-9) {
			t.Errorf("frame at s=%g is not orthonormal: %s", s, f)
		}
	}
}

func TestPolygonalChainHelix(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	h, _ := primitive.NewHelix(0.5, 0.2)
	pc, err := NewPolygonalChain(waypoints(h, 0, 100, 1000))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, pc.Range().Far, 1e-2)
	assert.Len(t, pc.Samples(), 1001)
	assert.Empty(t, slices.Collect(pc.ZeroSet()))
	assert.False(t, pc.IsFlat())
	for _, s := range []float64{1.05, 33.33, 72.5} {
		assert.InDelta(t, 0.5, pc.Curvature(s), 1e-2)
		assert.InDelta(t, 0.2, pc.Torsion(s), 1e-2)
	}
	assert.InDelta(t, 0.0, sc.Distance(h.Position(100), pc.Position(pc.Range().Far)), 1e-9)
	assertOrthoNormal(t, pc)
}

func TestPolygonalChainSimplify(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	h, _ := primitive.NewHelix(0.5, 0.2)
	pc, err := NewPolygonalChain(waypoints(h, 0, 100, 1000))
	require.NoError(t, err)
	maxDev := 1e-2 // above the sagitta of two waypoint steps
	simple := pc.Simplify(maxDev)
	dense, sparse := pc.Samples(), simple.Samples()
	assert.Less(t, len(sparse), len(dense))
	assert.Equal(t, dense[0], sparse[0])
	assert.Equal(t, dense[len(dense)-1], sparse[len(sparse)-1])
	assert.LessOrEqual(t, maxDeviation(dense, sparse), maxDev)
}

func TestPolygonalChainZeroCrossing(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, _ := primitive.NewClothoid(2)
	pc, err := NewPolygonalChain(waypoints(c, -5, 5, 100))
	require.NoError(t, err)
	zeros := slices.Collect(pc.ZeroSet())
	require.Len(t, zeros, 1)
	z := zeros[0]
	assert.InDelta(t, pc.Range().Length()/2, z, 0.05)
	assert.Less(t, sc.Dot(pc.Transition(z-0.01).N, pc.Transition(z+0.01).N), 0.0)
	assert.True(t, pc.IsFlat())
	up, err := pc.LocalUp()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, math.Abs(up[2]), 1e-9)
	simple := pc.Simplify(0.01)
	assert.Equal(t, zeros, slices.Collect(simple.ZeroSet()))
	assertOrthoNormal(t, pc)
}

func TestPolygonalChainMirror(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	h, _ := primitive.NewHelix(0.5, 0.2)
	pc, err := NewPolygonalChain(waypoints(h, 0, 10, 100))
	require.NoError(t, err)
	orig := pc.Clone()
	plane := sc.Plane{P: sc.V(0, 0, 1), N: sc.Ex}
	require.True(t, pc.Mirror(plane))
	for _, s := range []float64{0, 2.5, 7.25} {
		assert.InDelta(t, 0.0, sc.Distance(plane.Reflect(orig.Position(s)), pc.Position(s)), 1e-9)
		assert.InDelta(t, -orig.Torsion(s), pc.Torsion(s), 1e-12)
	}
	assertOrthoNormal(t, pc)
}

func TestPolygonalChainErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := NewPolygonalChain([]Waypoint{{P: sc.Origin, T: sc.Ex}})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	_, err = NewPolygonalChain([]Waypoint{{P: sc.Origin, T: sc.Ex}, {P: sc.Origin, T: sc.Ex}})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	_, err = NewPolygonalChain([]Waypoint{{P: sc.Origin, T: sc.Origin}, {P: sc.Ex, T: sc.Ex}})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}

func TestUncreatedCurves(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, c := range []sc.Curve{&PolygonalChain{}, &SampledCurve{}} {
		assert.False(t, c.IsValid())
		assert.Equal(t, sc.Interval{}, c.Range())
		assert.Equal(t, 0.0, sc.Length(c))
		assert.Empty(t, slices.Collect(c.ZeroSet()))
		_, err := c.LocalUp()
		assert.True(t, errors.Is(err, sc.ErrLogic))
		_, err = sc.Transition(c, 0)
		assert.True(t, errors.Is(err, sc.ErrLogic))
		assert.False(t, c.Mirror(sc.Plane{N: sc.Ez}))
	}
}

func TestSampledHelix(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	h, _ := primitive.NewHelix(0.5, 0.2)
	opt := DefaultOptions()
	opt.MaxDist = 0.1
	c, err := NewSampledCurve(h, sc.Interval{Near: 0, Far: 100}, opt)
	require.NoError(t, err)
	dense := c.Samples()
	assert.GreaterOrEqual(t, len(dense), 1000)
	for _, s := range []float64{0.0123, 50.05, 99.99} {
		assert.InDelta(t, 0.0, sc.Distance(h.Position(s), c.Position(s)), opt.MaxDeviation)
		assert.InDelta(t, 0.5, c.Curvature(s), 1e-12)
		assert.InDelta(t, 0.2, c.Torsion(s), 1e-12)
	}
	assertOrthoNormal(t, c)

	maxDev := 1e-3
	simple := c.Simplify(maxDev)
	sparse := simple.Samples()
	assert.Less(t, len(sparse), len(dense))
	assert.Equal(t, 0.0, sparse[0].S)
	assert.Equal(t, 100.0, sparse[len(sparse)-1].S)
	assert.LessOrEqual(t, maxDeviation(dense, sparse), maxDev)
	// propagation reproduces the helix between sparse samples
	for _, s := range []float64{3.3, 47.1} {
		assert.InDelta(t, 0.0, sc.Distance(h.Position(s), simple.Position(s)), 1e-5)
	}
}

func TestSampledClothoidZeroCrossing(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cl, _ := primitive.NewClothoid(2)
	c, err := NewSampledCurve(cl, sc.Interval{Near: -5, Far: 5}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, slices.Collect(c.ZeroSet()))
	ss := c.Samples()
	i := slices.IndexFunc(ss, func(x Sample) bool { return x.S == 0 })
	require.GreaterOrEqual(t, i, 0)
	require.Equal(t, 0.0, ss[i+1].S)
	assert.InDelta(t, -1.0, sc.Dot(ss[i].Frame.N, ss[i+1].Frame.N), 1e-9)
	assert.Less(t, sc.Dot(c.Transition(-1e-3).N, c.Transition(1e-3).N), 0.0)
	assert.InDelta(t, 0.25, c.Curvature(1), 1e-9)
	for _, s := range []float64{-4.2, -0.5, 0.7, 3.9} {
		assert.InDelta(t, 0.0, sc.Distance(cl.Position(s), c.Position(s)), sc.EpsilonLength)
	}
	simple := c.Simplify(0.01)
	assert.Equal(t, []float64{0}, slices.Collect(simple.ZeroSet()))
	assert.True(t, simple.IsFlat())
}

func TestFromSamples(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f := sc.IdentityFrame()
	g := f
	g.P = sc.V(1, 0, 0)
	c, err := FromSamples([]Sample{{Frame: f, S: 0}, {Frame: g, S: 1}}, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sc.Distance(sc.V(0.5, 0, 0), c.Position(0.5)), 1e-12)
	_, err = FromSamples([]Sample{{Frame: g, S: 1}, {Frame: f, S: 0}}, 0.01)
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	_, err = FromSamples([]Sample{{Frame: f, S: 0}, {Frame: g, S: 0}}, 0.01)
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	bad := f
	bad.N = sc.V(1, 1, 0)
	_, err = FromSamples([]Sample{{Frame: bad, S: 0}, {Frame: g, S: 1}}, 0.01)
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}

func TestSampledCurveErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := NewSampledCurve(&primitive.Arc{}, sc.Interval{Near: 0, Far: 1}, DefaultOptions())
	assert.True(t, errors.Is(err, sc.ErrLogic))
	a, _ := primitive.NewArc(1)
	_, err = NewSampledCurve(a, sc.Interval{Near: 0, Far: 1}, Options{})
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	cl, _ := primitive.NewClothoid(1)
	_, err = NewSampledCurve(cl, sc.Interval{Near: 0, Far: 10}, DefaultOptions())
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
	_, err = NewSampledCurve(a, sc.Interval{Near: 1, Far: 1}, DefaultOptions())
	assert.True(t, errors.Is(err, sc.ErrInvalidArgument))
}
