package discrete

import (
	"fmt"
	"iter"

	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/cubic"
	"github.com/ungerik/go3d/float64/vec3"
)

// Waypoint is a position with a tangent direction.
type Waypoint struct {
	P vec3.T
	T vec3.T // needs not be normalized
}

// PolygonalChain is a curve through a sequence of waypoints. Between two
// samples it follows the Hermite cubic defined by positions and tangents;
// curvature and torsion are interpolated linearly.
//
// Curvature, normals and torsion at the waypoints are estimated from
// differences of neighbouring tangents. Where the estimated normal flips
// between two waypoints, a zero-crossing sample pair is inserted.
type PolygonalChain struct {
	ss    samples
	up    vec3.T
	flat  bool
	valid bool
}

// NewPolygonalChain creates a chain from waypoints.
func NewPolygonalChain(wps []Waypoint) (*PolygonalChain, error) {
	pc := &PolygonalChain{}
	if err := pc.Create(wps); err != nil {
		return nil, err
	}
	return pc, nil
}

// Create (re-)initializes the chain. At least two waypoints with non-zero
// tangents are required, and consecutive waypoints must not coincide.
func (pc *PolygonalChain) Create(wps []Waypoint) error {
	if len(wps) < 2 {
		return fmt.Errorf("%w: polygonal chain needs at least 2 waypoints", sc.ErrInvalidArgument)
	}
	ss := make(samples, len(wps))
	for i, w := range wps {
		t := w.T
		if !sc.IsFiniteV(w.P) || !(sc.Normalize(&t) > sc.EpsilonFactor) {
			return fmt.Errorf("%w: waypoint #%d %s/%s", sc.ErrInvalidArgument, i, sc.VString(w.P), sc.VString(w.T))
		}
		ss[i].Frame.P, ss[i].Frame.T = w.P, t
		if i > 0 {
			if sc.Distance(ss[i-1].Frame.P, w.P) <= sc.EpsilonLength {
				return fmt.Errorf("%w: waypoints #%d and #%d coincide", sc.ErrInvalidArgument, i-1, i)
			}
			ss[i].S = ss[i-1].S + segmentCubic(ss[i-1], ss[i]).Length()
		}
	}
	estimateCurvature(ss)
	ss = insertZeroCrossings(ss)
	pc.setSamples(ss)
	tracer().Debugf("polygonal chain with %d samples, length %.4f", len(ss), ss.rng().Length())
	return nil
}

func (pc *PolygonalChain) setSamples(ss samples) {
	pc.ss = ss
	pc.up, pc.flat = ss.plane()
	pc.valid = true
}

// segmentCubic is the Hermite cubic between two samples, with tangent
// magnitudes equal to the chord length.
func segmentCubic(a, b Sample) cubic.CubicData {
	c := sc.Distance(a.Frame.P, b.Frame.P)
	return cubic.Hermite(a.Frame.P, b.Frame.P, sc.Scale(a.Frame.T, c), sc.Scale(b.Frame.T, c))
}

// estimateCurvature derives κ⋅N from central differences of the tangents,
// and τ from differences of the binormals. Where curvature vanishes the
// normal of the previous sample is carried over.
func estimateCurvature(ss samples) {
	n := len(ss)
	span := func(i int) (int, int) {
		return max(0, i-1), min(n-1, i+1)
	}
	var prevN vec3.T
	for i := range ss {
		a, b := span(i)
		t := ss[i].Frame.T
		kv := sc.Scale(sc.Sub(ss[b].Frame.T, ss[a].Frame.T), 1/(ss[b].S-ss[a].S))
		kv = sc.AddScaled(kv, t, -sc.Dot(kv, t))
		k := sc.Norm(kv)
		var nv vec3.T
		switch {
		case k > sc.EpsilonAngle:
			nv = sc.Scale(kv, 1/k)
		case i > 0:
			nv = sc.AddScaled(prevN, t, -sc.Dot(prevN, t))
		default:
			nv = sc.Perpendicular(t)
		}
		if sc.IsNull(nv, sc.EpsilonFactor) {
			nv = sc.Perpendicular(t)
		}
		ss[i].Frame.N = sc.Unit(nv)
		ss[i].Frame.B = sc.Cross(t, ss[i].Frame.N)
		ss[i].K = k
		prevN = ss[i].Frame.N
	}
	// leading straight samples take the normal of the first curved one
	for f := range ss {
		if ss[f].K > sc.EpsilonAngle {
			for i := range f {
				setNormal(&ss[i].Frame, ss[f].Frame.N)
			}
			break
		}
	}
	for i := range ss {
		a, b := span(i)
		if ss[i].K <= sc.EpsilonAngle {
			continue
		}
		ba, bb := ss[a].Frame.B, ss[b].Frame.B
		if sc.Dot(ba, bb) < 0 { // across a flip
			bb = sc.Scale(bb, -1)
		}
		db := sc.Scale(sc.Sub(bb, ba), 1/(ss[b].S-ss[a].S))
		ss[i].Tau = -sc.Dot(db, ss[i].Frame.N)
	}
}

// insertZeroCrossings adds a sample pair wherever the normals of adjacent
// samples point to opposite sides. Signed curvature is assumed linear
// between the samples. A straight sample right at the flip is duplicated
// instead; its normal has been carried over from the curved side before it.
func insertZeroCrossings(ss samples) samples {
	out := make(samples, 0, len(ss))
	for i := range len(ss) - 1 {
		a, b := ss[i], ss[i+1]
		if b.K <= sc.EpsilonAngle || sc.Dot(a.Frame.N, b.Frame.N) >= 0 {
			out = append(out, a)
			continue
		}
		if a.K <= sc.EpsilonAngle {
			right := a
			setNormal(&right.Frame, b.Frame.N)
			out = append(out, a, right)
			tracer().Debugf("zero-crossing at sample #%d, s=%g", i, a.S)
			continue
		}
		u := a.K / (a.K + b.K)
		d := segmentCubic(a, b)
		z := Sample{S: lerp(a.S, b.S, u), Tau: lerp(a.Tau, b.Tau, u)}
		z.Frame.P = d.P(u)
		z.Frame.T = sc.Unit(d.D1(u))
		left, right := z, z
		setNormal(&left.Frame, a.Frame.N)
		setNormal(&right.Frame, b.Frame.N)
		out = append(out, a, left, right)
		tracer().Debugf("zero-crossing between samples #%d and #%d at s=%g", i, i+1, z.S)
	}
	return append(out, ss[len(ss)-1])
}

// Samples returns a copy of the samples, zero-crossings included.
func (pc *PolygonalChain) Samples() []Sample {
	return append([]Sample(nil), pc.ss...)
}

func (pc *PolygonalChain) IsValid() bool { return pc.valid }
func (pc *PolygonalChain) Range() sc.Interval { return pc.ss.rng() }
func (pc *PolygonalChain) ZeroSet() iter.Seq[float64] { return pc.ss.zeroSet() }
func (pc *PolygonalChain) IsFlat() bool { return pc.flat }

// interpolate evaluates the span containing s. The arc length fraction
// within the span serves as the cubic's parameter.
func (pc *PolygonalChain) interpolate(s float64) (sc.Frame, float64, float64) {
	i, u := pc.ss.locate(s)
	a, b := pc.ss[i], pc.ss[i+1]
	d := segmentCubic(a, b)
	f := sc.Frame{P: d.P(u), T: sc.Unit(d.D1(u))}
	setNormal(&f, sc.Lerp(a.Frame.N, b.Frame.N, u))
	return f, lerp(a.K, b.K, u), lerp(a.Tau, b.Tau, u)
}

// Position returns the point at arc length s.
func (pc *PolygonalChain) Position(s float64) vec3.T {
	f, _, _ := pc.interpolate(s)
	return f.P
}

// Tangent returns the unit tangent at s.
func (pc *PolygonalChain) Tangent(s float64) vec3.T {
	f, _, _ := pc.interpolate(s)
	return f.T
}

// Transition returns the interpolated frame at s.
func (pc *PolygonalChain) Transition(s float64) sc.Frame {
	f, _, _ := pc.interpolate(s)
	return f
}

// Curvature returns the interpolated curvature at s.
func (pc *PolygonalChain) Curvature(s float64) float64 {
	_, k, _ := pc.interpolate(s)
	return k
}

// Torsion returns the interpolated torsion at s.
func (pc *PolygonalChain) Torsion(s float64) float64 {
	_, _, tau := pc.interpolate(s)
	return tau
}

// LocalUp returns the normal of the chain's plane.
func (pc *PolygonalChain) LocalUp() (vec3.T, error) {
	if !pc.valid {
		return vec3.T{}, fmt.Errorf("%w: polygonal chain not created", sc.ErrLogic)
	}
	if !pc.flat {
		return vec3.T{}, fmt.Errorf("%w: polygonal chain is twisted", sc.ErrDomain)
	}
	return pc.up, nil
}

// Mirror reflects all samples across p.
func (pc *PolygonalChain) Mirror(p sc.Plane) bool {
	if !pc.valid {
		return false
	}
	pc.setSamples(pc.ss.mirrored(p))
	return true
}

// Clone returns an independent copy.
func (pc *PolygonalChain) Clone() sc.Curve {
	c := *pc
	c.ss = append(samples(nil), pc.ss...)
	return &c
}

// Simplify returns a chain of the subset of samples remaining after
// Douglas-Peucker simplification with tolerance maxDeviation. Endpoints and
// zero-crossings are kept.
func (pc *PolygonalChain) Simplify(maxDeviation float64) *PolygonalChain {
	s := &PolygonalChain{}
	s.setSamples(pc.ss.simplified(maxDeviation))
	return s
}

var _ sc.Curve = (*PolygonalChain)(nil)
