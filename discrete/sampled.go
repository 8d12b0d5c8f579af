package discrete

import (
	"fmt"
	"iter"
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// Options controls the adaptive sampling of a [SampledCurve].
type Options struct {
	MaxDeviation float64 // allowed distance of interpolated from source positions
	MaxAngle     float64 // allowed angle between interpolated and source normals
	MinDist      float64 // smallest sample spacing
	MaxDist      float64 // largest sample spacing
	Step         float64 // step of the Frenet-Serret integration between samples
}

// DefaultOptions samples within the global length tolerance.
func DefaultOptions() Options {
	return Options{
		MaxDeviation: sc.EpsilonLength,
		MaxAngle:     1e-3,
		MinDist:      10 * sc.EpsilonLength,
		MaxDist:      1,
		Step:         100 * sc.EpsilonLength,
	}
}

func (opt Options) validate() error {
	if !(opt.MaxDeviation > 0) || !(opt.MaxAngle > 0) || !(opt.MinDist > 0) ||
		opt.MaxDist < opt.MinDist || !(opt.Step > 0) {
		return fmt.Errorf("%w: sampling options %+v", sc.ErrInvalidArgument, opt)
	}
	return nil
}

// SampledCurve is a curve given by samples with full Frenet frames.
// Between two samples, curvature and torsion are interpolated linearly and
// the frame is propagated by integrating the Frenet-Serret equations
//
//	dP/ds = T,  dT/ds = κN,  dN/ds = −κT + τB,  dB/ds = −τN
//
// forward from the left sample and backward from the right one; the two
// estimates are blended.
type SampledCurve struct {
	ss    samples
	step  float64
	up    vec3.T
	flat  bool
	valid bool
}

// NewSampledCurve samples source over range r.
func NewSampledCurve(source sc.Curve, r sc.Interval, opt Options) (*SampledCurve, error) {
	c := &SampledCurve{}
	if err := c.Create(source, r, opt); err != nil {
		return nil, err
	}
	return c, nil
}

// FromSamples creates a curve from samples ordered by arc length. A
// zero-crossing is given by two consecutive samples of equal arc length.
// step is the Frenet-Serret integration step.
func FromSamples(ss []Sample, step float64) (*SampledCurve, error) {
	if len(ss) < 2 {
		return nil, fmt.Errorf("%w: sampled curve needs at least 2 samples", sc.ErrInvalidArgument)
	}
	if !(step > 0) {
		return nil, fmt.Errorf("%w: integration step %g", sc.ErrInvalidArgument, step)
	}
	for i, x := range ss {
		if !x.Frame.IsOrthoNormal(sc.EpsilonFactor) || !(x.K >= 0) || !sc.IsFinite(x.K) || !sc.IsFinite(x.Tau) {
			return nil, fmt.Errorf("%w: sample #%d %+v", sc.ErrInvalidArgument, i, x)
		}
		if i > 0 && (x.S < ss[i-1].S || i > 1 && x.S == ss[i-1].S && x.S == ss[i-2].S) {
			return nil, fmt.Errorf("%w: sample #%d out of order at s=%g", sc.ErrInvalidArgument, i, x.S)
		}
	}
	if ss[0].S == ss[1].S || ss[len(ss)-1].S == ss[len(ss)-2].S {
		return nil, fmt.Errorf("%w: zero-crossing at curve end", sc.ErrInvalidArgument)
	}
	c := &SampledCurve{step: step}
	c.setSamples(append(samples(nil), ss...))
	return c, nil
}

func (c *SampledCurve) setSamples(ss samples) {
	c.ss = ss
	c.up, c.flat = ss.plane()
	c.valid = true
}

// Create (re-)samples source over range r. Spacing starts at opt.MinDist
// and doubles while the interpolation between samples stays within
// opt.MaxDeviation and opt.MaxAngle of the source, up to opt.MaxDist; it is
// halved again, down to opt.MinDist, where it does not. Zero-crossings of
// the source are sampled exactly, as duplicated samples.
func (c *SampledCurve) Create(source sc.Curve, r sc.Interval, opt Options) error {
	if source == nil || !source.IsValid() {
		return fmt.Errorf("%w: sampling source not created", sc.ErrLogic)
	}
	if err := opt.validate(); err != nil {
		return err
	}
	rng := source.Range()
	if !r.IsFinite() || r.Length() <= opt.MinDist ||
		!rng.Contains(r.Near, sc.EpsilonLength) || !rng.Contains(r.Far, sc.EpsilonLength) {
		return fmt.Errorf("%w: sampling range %s not inside %s", sc.ErrInvalidArgument, r, rng)
	}
	r = r.Intersect(rng)
	b := &builder{src: source, opt: opt, m: treemap.NewWith(utils.Float64Comparator)}
	b.seed(r)
	b.walk(r)
	ss := make(samples, 0, b.m.Size())
	for _, v := range b.m.Values() {
		ss = append(ss, v.([]Sample)...)
	}
	c.step = opt.Step
	c.setSamples(ss)
	tracer().Debugf("sampled %s with %d samples", r, len(ss))
	return nil
}

// builder collects samples keyed by arc length. Values are []Sample of
// length 1, or 2 at zero-crossings.
type builder struct {
	src sc.Curve
	opt Options
	m   *treemap.Map
}

func (b *builder) sampleAt(s float64) Sample {
	return Sample{
		Frame: b.src.Transition(s),
		S:     s,
		K:     b.src.Curvature(s),
		Tau:   b.src.Torsion(s),
	}
}

// seed puts the end samples and the zero-crossing pairs.
func (b *builder) seed(r sc.Interval) {
	b.m.Put(r.Near, []Sample{b.sampleAt(r.Near)})
	b.m.Put(r.Far, []Sample{b.sampleAt(r.Far)})
	delta := b.opt.MinDist / 2
	for z := range b.src.ZeroSet() {
		if z-delta <= r.Near || z+delta >= r.Far {
			continue
		}
		left, right := b.sampleAt(z), b.sampleAt(z)
		left.K, right.K = 0, 0
		setNormal(&left.Frame, b.src.Transition(z-delta).N)
		setNormal(&right.Frame, b.src.Transition(z+delta).N)
		b.m.Put(z, []Sample{left, right})
	}
}

// walk fills in samples between the seeded ones.
func (b *builder) walk(r sc.Interval) {
	s := r.Near
	h := b.opt.MinDist
	for s < r.Far {
		curv, _ := b.m.Get(s)
		cur := last(curv.([]Sample))
		key, val := b.m.Ceiling(math.Nextafter(s, math.Inf(1)))
		limit := key.(float64)
		h = math.Min(2*h, b.opt.MaxDist)
		var t float64
		var cand Sample
		for {
			t = math.Min(s+h, limit)
			if t == limit {
				cand = val.([]Sample)[0]
			} else {
				cand = b.sampleAt(t)
			}
			if h <= b.opt.MinDist || b.acceptable(cur, cand) {
				break
			}
			h = math.Max(h/2, b.opt.MinDist)
		}
		if t != limit {
			b.m.Put(t, []Sample{cand})
		}
		s = t
	}
}

// acceptable checks the interpolation between two samples against the
// source at inner points.
func (b *builder) acceptable(x, y Sample) bool {
	for _, u := range [3]float64{0.25, 0.5, 0.75} {
		s := lerp(x.S, y.S, u)
		f, _, _ := interpolate(x, y, s, b.opt.Step)
		g := b.src.Transition(s)
		if sc.Distance(f.P, g.P) > b.opt.MaxDeviation {
			return false
		}
		if b.src.Curvature(s) > sc.EpsilonAngle && sc.Angle(f.N, g.N) > b.opt.MaxAngle {
			return false
		}
	}
	return true
}

func last(ss []Sample) Sample {
	return ss[len(ss)-1]
}

// frenetState is position, tangent, normal and binormal.
type frenetState [4]vec3.T

func (x frenetState) addScaled(d frenetState, h float64) frenetState {
	for i := range x {
		x[i] = sc.AddScaled(x[i], d[i], h)
	}
	return x
}

// propagate integrates the Frenet-Serret equations from sample a to arc
// length s by the classical Runge-Kutta method, with curvature and torsion
// given as functions of s.
func propagate(a Sample, s float64, kappa, tau func(float64) float64, step float64) sc.Frame {
	x := frenetState{a.Frame.P, a.Frame.T, a.Frame.N, a.Frame.B}
	deriv := func(x frenetState, s float64) frenetState {
		k, t := kappa(s), tau(s)
		return frenetState{
			x[1],
			sc.Scale(x[2], k),
			sc.AddScaled(sc.Scale(x[1], -k), x[3], t),
			sc.Scale(x[2], -t),
		}
	}
	n := int(math.Ceil(math.Abs(s-a.S) / step))
	if n == 0 {
		return a.Frame
	}
	h := (s - a.S) / float64(n)
	u := a.S
	for range n {
		k1 := deriv(x, u)
		k2 := deriv(x.addScaled(k1, h/2), u+h/2)
		k3 := deriv(x.addScaled(k2, h/2), u+h/2)
		k4 := deriv(x.addScaled(k3, h), u+h)
		for i := range x {
			d := sc.Add(sc.Add(k1[i], sc.Scale(k2[i], 2)), sc.Add(sc.Scale(k3[i], 2), k4[i]))
			x[i] = sc.AddScaled(x[i], d, h/6)
		}
		u += h
	}
	return sc.Frame{P: x[0], T: x[1], N: x[2], B: x[3]}
}

// interpolate evaluates the span between samples a and b at s.
func interpolate(a, b Sample, s, step float64) (sc.Frame, float64, float64) {
	d := b.S - a.S
	u := math.Max(0, math.Min(1, (s-a.S)/d))
	kappa := func(s float64) float64 { return lerp(a.K, b.K, (s-a.S)/d) }
	tau := func(s float64) float64 { return lerp(a.Tau, b.Tau, (s-a.S)/d) }
	fwd := propagate(a, s, kappa, tau, step)
	bwd := propagate(b, s, kappa, tau, step)
	return blendFrame(fwd, bwd, u), kappa(s), tau(s)
}

func (c *SampledCurve) eval(s float64) (sc.Frame, float64, float64) {
	i, u := c.ss.locate(s)
	a, b := c.ss[i], c.ss[i+1]
	return interpolate(a, b, lerp(a.S, b.S, u), c.step)
}

// Samples returns a copy of the samples, zero-crossings included.
func (c *SampledCurve) Samples() []Sample {
	return append([]Sample(nil), c.ss...)
}

func (c *SampledCurve) IsValid() bool { return c.valid }
func (c *SampledCurve) Range() sc.Interval { return c.ss.rng() }
func (c *SampledCurve) ZeroSet() iter.Seq[float64] { return c.ss.zeroSet() }
func (c *SampledCurve) IsFlat() bool { return c.flat }

// Position returns the point at arc length s.
func (c *SampledCurve) Position(s float64) vec3.T {
	f, _, _ := c.eval(s)
	return f.P
}

// Tangent returns the unit tangent at s.
func (c *SampledCurve) Tangent(s float64) vec3.T {
	f, _, _ := c.eval(s)
	return f.T
}

// Transition returns the propagated frame at s.
func (c *SampledCurve) Transition(s float64) sc.Frame {
	f, _, _ := c.eval(s)
	return f
}

// Curvature returns the interpolated curvature at s.
func (c *SampledCurve) Curvature(s float64) float64 {
	_, k, _ := c.eval(s)
	return k
}

// Torsion returns the interpolated torsion at s.
func (c *SampledCurve) Torsion(s float64) float64 {
	_, _, tau := c.eval(s)
	return tau
}

// LocalUp returns the normal of the curve's plane.
func (c *SampledCurve) LocalUp() (vec3.T, error) {
	if !c.valid {
		return vec3.T{}, fmt.Errorf("%w: sampled curve not created", sc.ErrLogic)
	}
	if !c.flat {
		return vec3.T{}, fmt.Errorf("%w: sampled curve is twisted", sc.ErrDomain)
	}
	return c.up, nil
}

// Mirror reflects all samples across p.
func (c *SampledCurve) Mirror(p sc.Plane) bool {
	if !c.valid {
		return false
	}
	c.setSamples(c.ss.mirrored(p))
	return true
}

// Clone returns an independent copy.
func (c *SampledCurve) Clone() sc.Curve {
	cl := *c
	cl.ss = append(samples(nil), c.ss...)
	return &cl
}

// Simplify returns a curve of the subset of samples remaining after
// Douglas-Peucker simplification with tolerance maxDeviation. Endpoints and
// zero-crossings are kept.
func (c *SampledCurve) Simplify(maxDeviation float64) *SampledCurve {
	s := &SampledCurve{step: c.step}
	s.setSamples(c.ss.simplified(maxDeviation))
	return s
}

var _ sc.Curve = (*SampledCurve)(nil)
