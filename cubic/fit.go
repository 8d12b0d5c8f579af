package cubic

import (
	"fmt"
	"math"

	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/numeric"
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/optimize"
)

// FitOptions controls [Fit].
type FitOptions struct {
	MaxDeviation   float64 // allowed distance of source samples from the fit
	MinDist        float64 // no segment gets shorter, in arc length
	MaxDist        float64 // no segment gets longer, in arc length
	Samples        int     // source samples per segment for measuring deviation
	MaxEvaluations int     // cap on deviation evaluations per optimizer run
}

// DefaultFitOptions fits within the global length tolerance.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		MaxDeviation:   sc.EpsilonLength,
		MinDist:        10 * sc.EpsilonLength,
		MaxDist:        math.Inf(1),
		Samples:        32,
		MaxEvaluations: 200,
	}
}

// FitResult is the outcome of [Fit].
type FitResult struct {
	Spline        *Spline
	Deviation     float64 // maximum deviation over all segments
	OptimizerRuns int     // number of segments which needed the optimizer
}

// Fit approximates source over arc length range r by a spline.
//
// Each segment starts as the Hermite cubic between the source frames at its
// ends, with tangent magnitudes equal to the segment's arc length. If that
// deviates more than opt.MaxDeviation, a Nelder-Mead search scales the two
// tangent magnitudes. Nelder-Mead is a local method; it is restarted from
// shorter and longer initial magnitudes until one run meets the budget. If
// the deviation is still too large, the range is bisected and both halves are
// fitted recursively. Segments are not split below opt.MinDist; the deviation attained is reported in the result and
// may exceed the budget in that case.
func Fit(source sc.Curve, r sc.Interval, opt FitOptions) (FitResult, error) {
	if source == nil || !source.IsValid() {
		return FitResult{}, fmt.Errorf("%w: fit source not created", sc.ErrLogic)
	}
	rng := source.Range()
	if !r.IsFinite() || r.Length() <= sc.EpsilonLength ||
		!rng.Contains(r.Near, sc.EpsilonLength) || !rng.Contains(r.Far, sc.EpsilonLength) {
		return FitResult{}, fmt.Errorf("%w: fit range %s not inside %s", sc.ErrInvalidArgument, r, rng)
	}
	if opt.Samples < 2 || !(opt.MaxDeviation > 0) || opt.MinDist > opt.MaxDist {
		return FitResult{}, fmt.Errorf("%w: fit options %+v", sc.ErrInvalidArgument, opt)
	}
	f := &fitter{src: source, opt: opt}
	f.fit(r.Near, r.Far)
	sp, err := NewSpline(f.data)
	if err != nil {
		return FitResult{}, err
	}
	tracer().Debugf("fit %s with %d segments, deviation %g, %d optimizer runs",
		r, len(f.data), f.dev, f.runs)
	return FitResult{Spline: sp, Deviation: f.dev, OptimizerRuns: f.runs}, nil
}

type fitter struct {
	src  sc.Curve
	opt  FitOptions
	data []CubicData
	dev  float64
	runs int
}

func (f *fitter) accept(d CubicData, dev float64) {
	f.data = append(f.data, d)
	f.dev = math.Max(f.dev, dev)
}

func (f *fitter) fit(s0, s1 float64) {
	l := s1 - s0
	if l > f.opt.MaxDist && l/2 >= f.opt.MinDist {
		f.bisect(s0, s1)
		return
	}
	f0, f1 := f.src.Transition(s0), f.src.Transition(s1)
	samples := f.sample(s0, s1)
	d := HermiteFrames(f0, f1, l, l)
	dev := deviation(d, samples)
	if dev <= f.opt.MaxDeviation {
		f.accept(d, dev)
		return
	}
	f.runs++
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if x[0] <= 0 || x[1] <= 0 {
				return math.Inf(1)
			}
			return deviation(HermiteFrames(f0, f1, x[0]*l, x[1]*l), samples)
		},
	}
	for _, m := range restarts {
		settings := &optimize.Settings{FuncEvaluations: f.opt.MaxEvaluations}
		res, err := optimize.Minimize(problem, []float64{m, m}, settings, &optimize.NelderMead{})
		if err != nil {
			tracer().Debugf("fit optimizer on [%g,%g] from %g: %v", s0, s1, m, err)
		}
		if res != nil && res.F < dev && res.X[0] > 0 && res.X[1] > 0 {
			d, dev = HermiteFrames(f0, f1, res.X[0]*l, res.X[1]*l), res.F
		}
		if dev <= f.opt.MaxDeviation {
			break
		}
	}
	if dev <= f.opt.MaxDeviation || l/2 < f.opt.MinDist {
		f.accept(d, dev)
		return
	}
	f.bisect(s0, s1)
}

// restarts are the initial tangent magnitudes of the simplex searches,
// relative to the segment length.
var restarts = [...]float64{1, 0.5, 2}

func (f *fitter) bisect(s0, s1 float64) {
	m := 0.5 * (s0 + s1)
	f.fit(s0, m)
	f.fit(m, s1)
}

func (f *fitter) sample(s0, s1 float64) []vec3.T {
	n := f.opt.Samples
	pts := make([]vec3.T, n+1)
	for i := range pts {
		pts[i] = f.src.Position(s0 + (s1-s0)*float64(i)/float64(n))
	}
	return pts
}

// deviation is the largest distance of the samples from a dense polyline
// through the cubic.
func deviation(d CubicData, samples []vec3.T) float64 {
	n := 4 * len(samples)
	poly := make([]vec3.T, n+1)
	for i := range poly {
		poly[i] = d.P(float64(i) / float64(n))
	}
	var dev float64
	for _, q := range samples {
		best := math.Inf(1)
		for i := 1; i < len(poly); i++ {
			best = math.Min(best, numeric.SegmentDistance(q, poly[i-1], poly[i]))
		}
		dev = math.Max(dev, best)
	}
	if math.IsNaN(dev) {
		return math.Inf(1)
	}
	return dev
}
