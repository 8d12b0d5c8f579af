package discrete

import (
	"iter"
	"math"
	"sort"

	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/numeric"
	"github.com/ungerik/go3d/float64/vec3"
)

// Sample is a point of a discrete curve. K is non-negative, Frame.N points
// towards the center of curvature where K > 0.
type Sample struct {
	Frame sc.Frame
	S     float64 // arc length
	K     float64 // curvature
	Tau   float64 // torsion
}

func samplePosition(x Sample) vec3.T {
	return x.Frame.P
}

// samples is ordered by S. Equal S of neighbours marks a zero-crossing.
type samples []Sample

func (ss samples) rng() sc.Interval {
	if len(ss) == 0 {
		return sc.Interval{}
	}
	return sc.Interval{Near: ss[0].S, Far: ss[len(ss)-1].S}
}

// locate returns i with ss[i].S ≤ s ≤ ss[i+1].S and ss[i].S < ss[i+1].S,
// together with the relative position u of s within that span. s outside
// the range is clamped.
func (ss samples) locate(s float64) (int, float64) {
	n := len(ss)
	i := sort.Search(n, func(i int) bool { return ss[i].S > s }) - 1
	i = max(0, min(i, n-2))
	for i > 0 && ss[i+1].S == ss[i].S { // s at a duplicate past the end
		i--
	}
	for i < n-2 && ss[i+1].S == ss[i].S {
		i++
	}
	d := ss[i+1].S - ss[i].S
	u := (s - ss[i].S) / d
	return i, math.Max(0, math.Min(1, u))
}

func (ss samples) isZeroCrossing(i int) bool {
	return i+1 < len(ss) && ss[i].S == ss[i+1].S
}

// zeroIndices returns the indices of both samples of every zero-crossing.
func (ss samples) zeroIndices() []int {
	var idx []int
	for i := range len(ss) - 1 {
		if ss.isZeroCrossing(i) {
			idx = append(idx, i, i+1)
		}
	}
	return idx
}

func (ss samples) zeroSet() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := range len(ss) - 1 {
			if ss.isZeroCrossing(i) && !yield(ss[i].S) {
				return
			}
		}
	}
}

// plane finds the common plane of all samples. It reports false for
// twisted sample sets.
func (ss samples) plane() (vec3.T, bool) {
	if len(ss) == 0 {
		return vec3.T{}, false
	}
	var up vec3.T
	found := false
	for _, x := range ss {
		if x.K > sc.EpsilonAngle {
			up, found = x.Frame.B, true
			break
		}
	}
	if !found {
		up = ss[0].Frame.B
	}
	p0 := ss[0].Frame.P
	for _, x := range ss {
		if math.Abs(sc.Dot(sc.Sub(x.Frame.P, p0), up)) > sc.EpsilonLength {
			return vec3.T{}, false
		}
		if math.Abs(sc.Dot(x.Frame.T, up)) > sc.EpsilonAngle {
			return vec3.T{}, false
		}
	}
	return up, true
}

// mirrored reflects the samples across p. Reflection reverses handedness,
// so the binormal is recomputed and torsion changes sign.
func (ss samples) mirrored(p sc.Plane) samples {
	m := make(samples, len(ss))
	for i, x := range ss {
		f := sc.Frame{
			P: p.Reflect(x.Frame.P),
			T: p.ReflectVector(x.Frame.T),
			N: p.ReflectVector(x.Frame.N),
		}
		f.B = sc.Cross(f.T, f.N)
		m[i] = Sample{Frame: f, S: x.S, K: x.K, Tau: -x.Tau}
	}
	return m
}

// simplified keeps the samples which survive Douglas-Peucker simplification,
// always including endpoints and zero-crossings.
func (ss samples) simplified(maxDeviation float64) samples {
	idx := numeric.Simplify(ss, samplePosition, maxDeviation, ss.zeroIndices()...)
	out := make(samples, len(idx))
	for j, i := range idx {
		out[j] = ss[i]
	}
	tracer().Debugf("simplified %d samples to %d", len(ss), len(out))
	return out
}

// blendFrame combines two estimates of a frame at the same point, weighted
// u towards b, and re-orthonormalizes the triad.
func blendFrame(a, b sc.Frame, u float64) sc.Frame {
	f := sc.Frame{
		P: sc.Lerp(a.P, b.P, u),
		T: sc.Unit(sc.Lerp(a.T, b.T, u)),
	}
	setNormal(&f, sc.Lerp(a.N, b.N, u))
	return f
}

// setNormal completes f from its tangent and an approximate normal n.
func setNormal(f *sc.Frame, n vec3.T) {
	n = sc.AddScaled(n, f.T, -sc.Dot(n, f.T))
	if sc.IsNull(n, sc.EpsilonFactor) {
		n = sc.Perpendicular(f.T)
	}
	f.N = sc.Unit(n)
	f.B = sc.Cross(f.T, f.N)
}

func lerp(a, b, u float64) float64 {
	return a + (b-a)*u
}
