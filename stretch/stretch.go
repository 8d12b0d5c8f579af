/*
Package stretch adjusts the curvature of a primitive curve so that it passes
through a given point.

A curve placed in space by a start frame is re-created with varying
curvature until its position at a fixed arc length lies on the target, as
seen along the curve's sensitivity direction. The sensitivity direction is
the column of the position's Jacobian with respect to the curvature
parameter, i.e. the direction in which the end point moves fastest when the
curve is bent.

Stretching never fails loudly. If no curvature can be found, or the one found
violates the configured limits, the original curvature is returned and
Result.Converged is false.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package stretch

import (
	"math"

	"github.com/npillmayer/schuko/tracing"
	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/numeric"
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// tracer writes to trace with key 'spacecurve'
func tracer() tracing.Trace {
	return tracing.Select("spacecurve")
}

// Parametric is a curve which can be re-created from a vector of
// construction parameters, one of which is its curvature.
// primitive.Arc and primitive.Helix implement it.
type Parametric interface {
	sc.Curve
	Parameters() []float64
	CurvatureIndex() int
	WithParameters(p []float64) (sc.Curve, error)
}

// Options controls [Stretch].
type Options struct {
	Limits    sc.Interval // acceptable curvature of a result
	Plausible sc.Interval // curvature range searched
	GrowUp    float64     // bracket growth towards higher curvature
	GrowDown  float64     // bracket growth towards lower curvature
	MaxIter   int         // cap on curve evaluations
	Tolerance float64     // curvature tolerance of the root
}

// DefaultOptions searches and accepts curvatures between EpsilonFactor and
// 1/EpsilonLength. Brackets grow faster towards higher curvature, as the
// position reacts less to changes of large curvatures.
func DefaultOptions() Options {
	r := sc.Interval{Near: sc.EpsilonFactor, Far: 1 / sc.EpsilonLength}
	return Options{
		Limits:    r,
		Plausible: r,
		GrowUp:    2,
		GrowDown:  1.5,
		MaxIter:   100,
		Tolerance: 1e-12,
	}
}

// Result is the outcome of [Stretch].
type Result struct {
	Curvature  float64 // the curvature found, or the original one
	Converged  bool    // whether Curvature is a solution
	Iterations int     // number of curve evaluations of the root finder
}

// Stretch finds the curvature for which c, placed at start, reaches target
// at arc length s. c's own curvature seeds the search.
func Stretch(c Parametric, start sc.Frame, s float64, target vec3.T, opt Options) Result {
	params := c.Parameters()
	ki := c.CurvatureIndex()
	k0 := params[ki]
	failed := Result{Curvature: k0}
	z := start.FromParent(target)
	dir, ok := sensitivity(c, params, ki, s)
	if !ok {
		tracer().Infof("stretch: curve insensitive to curvature at s=%g", s)
		return failed
	}
	eval := func(k float64) (vec3.T, bool) {
		p := append([]float64(nil), params...)
		p[ki] = k
		cv, err := c.WithParameters(p)
		if err != nil {
			return vec3.T{}, false
		}
		return cv.Position(s), true
	}
	f := func(k float64) float64 {
		k = opt.Plausible.Clamp(k)
		pos, ok := eval(k)
		if !ok {
			return math.Inf(1)
		}
		return sc.Dot(sc.Sub(pos, z), dir)
	}
	bopt := numeric.BracketOptions{
		Step:      math.Max(0.1*math.Abs(k0), opt.Tolerance),
		GrowUp:    opt.GrowUp,
		GrowDown:  opt.GrowDown,
		Min:       opt.Plausible.Near,
		Max:       opt.Plausible.Far,
		Tolerance: opt.Tolerance,
		MaxIter:   opt.MaxIter,
	}
	k, iter, ok := numeric.BracketAndSolve(f, opt.Plausible.Clamp(k0), bopt)
	failed.Iterations = iter
	if !ok {
		tracer().Infof("stretch: no curvature found after %d iterations, keeping %g", iter, k0)
		return failed
	}
	if !opt.Limits.Contains(k, 0) {
		tracer().Infof("stretch: curvature %g out of limits %s, keeping %g", k, opt.Limits, k0)
		return failed
	}
	tracer().Debugf("stretch: curvature %g -> %g in %d iterations", k0, k, iter)
	return Result{Curvature: k, Converged: true, Iterations: iter}
}

// sensitivity returns the normalized derivative of the position at s with
// respect to parameter ki, taken from the Jacobian of the position with
// respect to all parameters.
func sensitivity(c Parametric, params []float64, ki int, s float64) (vec3.T, bool) {
	failed := false
	pos := func(y, x []float64) {
		cv, err := c.WithParameters(x)
		if err != nil {
			failed = true
			return
		}
		p := cv.Position(s)
		copy(y, p[:])
	}
	jac := mat.NewDense(3, len(params), nil)
	h := 1e-6 * math.Max(1, math.Abs(params[ki]))
	formula := fd.Central
	if params[ki]-h <= 0 {
		formula = fd.Forward
	}
	fd.Jacobian(jac, pos, params, &fd.JacobianSettings{Formula: formula, Step: h})
	if failed {
		return vec3.T{}, false
	}
	dir := sc.V(jac.At(0, ki), jac.At(1, ki), jac.At(2, ki))
	if sc.Normalize(&dir) <= sc.EpsilonFactor*sc.EpsilonLength {
		return vec3.T{}, false
	}
	return dir, true
}
