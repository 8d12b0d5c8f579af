/*
Package arclen turns curve functions of an arbitrary parameter t ∈ [0,1] into
curves queryable by true arc length.

An [Adapter] integrates the speed |dP/dt| in adaptive steps and records the
parameter value at every multiple of a fixed arc length step ds. The forward
map t(s) is a direct table lookup, the inverse s(t) a binary search. [Curve]
wraps an adapter and derives Frenet quantities from the function's
derivatives by the chain rule. [FDFrenet] is a companion which estimates the
same quantities from a tangent function alone, by centered finite
differences.
*/
package arclen

import (
	"fmt"
	"math"
	"sort"

	"github.com/npillmayer/schuko/tracing"
	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'spacecurve'
func tracer() tracing.Trace {
	return tracing.Select("spacecurve")
}

// ParamFunc is a curve function of a unitless parameter t ∈ [0,1], together
// with its first three derivatives.
type ParamFunc interface {
	P(t float64) vec3.T
	D1(t float64) vec3.T
	D2(t float64) vec3.T
	D3(t float64) vec3.T
}

// Options are the tolerances of table construction.
type Options struct {
	Ds    float64 // arc length step of the table
	DtMin float64 // smallest parameter step
	DtMax float64 // largest parameter step
	DL    float64 // target positional error per integration step
}

// DefaultOptions derives table tolerances from the global length tolerance.
func DefaultOptions() Options {
	return Options{
		Ds:    100 * sc.EpsilonLength,
		DtMin: 1.0 / 10000,
		DtMax: 1.0 / 100,
		DL:    sc.EpsilonLength,
	}
}

func (opt Options) validate() error {
	if !(opt.Ds > 0) || !(opt.DtMin > 0) || !(opt.DtMax >= opt.DtMin) || !(opt.DL > 0) {
		return fmt.Errorf("%w: arc length options %+v", sc.ErrInvalidArgument, opt)
	}
	return nil
}

// Adapter maps arc length to the parameter of a [ParamFunc] and back.
// The zero value is not created; call Create.
type Adapter[F ParamFunc] struct {
	f      F
	opt    Options
	table  []float64 // table[i] = t(i⋅ds), strictly increasing
	length float64
	valid  bool
}

// Create integrates the arc length of f over [0,1] and builds the lookup
// table. On error the adapter keeps its previous state.
func (a *Adapter[F]) Create(f F, opt Options) error {
	if err := opt.validate(); err != nil {
		return err
	}
	table, length, err := buildTable(f, opt)
	if err != nil {
		return err
	}
	a.f, a.opt, a.table, a.length, a.valid = f, opt, table, length, true
	tracer().Debugf("arc length table: length=%g, %d entries", length, len(table))
	return nil
}

// Forward integration of |D1| with adaptive steps. At each step
//
//	dt = min(dtMax, 2⋅dL/|D2|), at least dtMin
//
// keeps the chord error of the step below dL. The speed of a step is taken at
// its midpoint.
func buildTable[F ParamFunc](f F, opt Options) ([]float64, float64, error) {
	table := []float64{0}
	var s, t float64
	next := opt.Ds
	for t < 1 {
		d2 := sc.Norm(f.D2(t))
		dt := opt.DtMax
		if d2 > 0 {
			dt = math.Min(opt.DtMax, 2*opt.DL/d2)
		}
		dt = math.Max(dt, opt.DtMin)
		dt = math.Min(dt, 1-t)
		speed := sc.Norm(f.D1(t + dt/2))
		if !(speed > 0) || !sc.IsFinite(speed) {
			return nil, 0, fmt.Errorf("%w: degenerate derivative at t=%g", sc.ErrInvalidArgument, t)
		}
		snext := s + speed*dt
		for snext >= next {
			tk := t + (next-s)/speed // back-interpolate with D1
			if tk <= table[len(table)-1] {
				return nil, 0, fmt.Errorf("%w: non-monotone parameter at s=%g", sc.ErrInvalidArgument, next)
			}
			table = append(table, tk)
			next = opt.Ds * float64(len(table))
		}
		s, t = snext, t+dt
		if 1-t < 1e-15 {
			t = 1
		}
	}
	if s <= sc.EpsilonLength {
		return nil, 0, fmt.Errorf("%w: curve has zero length", sc.ErrInvalidArgument)
	}
	if table[len(table)-1] >= 1 { // s landed on a multiple of ds
		table = table[:len(table)-1]
	}
	return table, s, nil
}

// IsValid reports whether Create succeeded.
func (a *Adapter[F]) IsValid() bool {
	return a.valid
}

// Func returns the wrapped curve function.
func (a *Adapter[F]) Func() F {
	return a.f
}

// Options returns the tolerances the table was built with.
func (a *Adapter[F]) Options() Options {
	return a.opt
}

// Length returns the total arc length of the function over [0,1].
func (a *Adapter[F]) Length() float64 {
	return a.length
}

// Table returns a copy of the sample table.
func (a *Adapter[F]) Table() []float64 {
	return append([]float64(nil), a.table...)
}

// T maps arc length s to the function parameter t. s is clamped to
// [0, Length()].
func (a *Adapter[F]) T(s float64) float64 {
	if s <= 0 {
		return 0
	}
	if s >= a.length {
		return 1
	}
	ds := a.opt.Ds
	i := int(s / ds)
	last := len(a.table) - 1
	if i >= last {
		i = last
		s0 := float64(last) * ds
		return a.table[last] + (1-a.table[last])*(s-s0)/(a.length-s0)
	}
	u := s/ds - float64(i)
	return a.table[i] + u*(a.table[i+1]-a.table[i])
}

// S maps the function parameter t to arc length s. t is clamped to [0,1].
func (a *Adapter[F]) S(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return a.length
	}
	ds := a.opt.Ds
	i := sort.SearchFloat64s(a.table, t) // table[i-1] < t <= table[i]
	if i >= len(a.table) {
		last := len(a.table) - 1
		s0 := float64(last) * ds
		return s0 + (a.length-s0)*(t-a.table[last])/(1-a.table[last])
	}
	if a.table[i] == t {
		return float64(i) * ds
	}
	return (float64(i-1) + (t-a.table[i-1])/(a.table[i]-a.table[i-1])) * ds
}
