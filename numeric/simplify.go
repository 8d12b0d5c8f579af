package numeric

import (
	"math"
	"slices"

	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// SegmentDistance returns the distance of p from the line segment a–b.
func SegmentDistance(p, a, b vec3.T) float64 {
	ab := sc.Sub(b, a)
	l2 := sc.Dot(ab, ab)
	if l2 == 0 {
		return sc.Distance(p, a)
	}
	t := sc.Dot(sc.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return sc.Distance(p, sc.AddScaled(a, ab, t))
}

// Simplify reduces a sequence of samples to a subset whose polyline deviates
// from every dropped sample by at most maxDeviation (Douglas-Peucker). The
// samples may be of any type; pos extracts a sample's position.
//
// The first and the last sample always survive, as do all samples at the
// indices listed in keep. Simplify returns the ascending indices of the
// surviving samples.
func Simplify[S any](samples []S, pos func(S) vec3.T, maxDeviation float64, keep ...int) []int {
	n := len(samples)
	if n <= 2 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	fixed := []int{0, n - 1}
	for _, k := range keep {
		if k > 0 && k < n-1 {
			fixed = append(fixed, k)
		}
	}
	slices.Sort(fixed)
	fixed = slices.Compact(fixed)
	result := []int{0}
	for i := 1; i < len(fixed); i++ {
		result = simplifyRange(samples, pos, maxDeviation, fixed[i-1], fixed[i], result)
		result = append(result, fixed[i])
	}
	tracer().Debugf("simplified %d samples to %d", n, len(result))
	return result
}

// simplifyRange appends the surviving indices strictly between first and last.
func simplifyRange[S any](samples []S, pos func(S) vec3.T, maxDeviation float64,
	first, last int, result []int) []int {
	if last-first < 2 {
		return result
	}
	a, b := pos(samples[first]), pos(samples[last])
	split, dmax := -1, -1.0
	for i := first + 1; i < last; i++ {
		if d := SegmentDistance(pos(samples[i]), a, b); d > dmax {
			split, dmax = i, d
		}
	}
	if dmax <= maxDeviation {
		return result
	}
	result = simplifyRange(samples, pos, maxDeviation, first, split, result)
	result = append(result, split)
	return simplifyRange(samples, pos, maxDeviation, split, last, result)
}

// PolylineDeviation returns the maximum distance of the points from the
// polyline through the selected indices. Useful to verify a simplification.
func PolylineDeviation[S any](samples []S, pos func(S) vec3.T, indices []int) float64 {
	var dmax float64
	for k := 1; k < len(indices); k++ {
		a, b := pos(samples[indices[k-1]]), pos(samples[indices[k]])
		for i := indices[k-1] + 1; i < indices[k]; i++ {
			dmax = math.Max(dmax, SegmentDistance(pos(samples[i]), a, b))
		}
	}
	return dmax
}
