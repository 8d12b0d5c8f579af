package cubic

import (
	"fmt"
	"iter"
	"math"
	"sort"

	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// Spline is a chain of cubic segments, parametrized by arc length over the
// sum of the segments' lengths. Adjacent segments are expected, not
// required, to join: see Gaps and Kinks.
type Spline struct {
	segs   []*Cubic
	starts []float64 // arc length at the start of each segment
	length float64
	valid  bool
}

// NewSpline creates a spline from segment data.
func NewSpline(data []CubicData) (*Spline, error) {
	sp := &Spline{}
	if err := sp.Create(data); err != nil {
		return nil, err
	}
	return sp, nil
}

// MustSpline panics if err is set, and returns sp otherwise.
func MustSpline(sp *Spline, err error) *Spline {
	if err != nil {
		panic(err)
	}
	return sp
}

// Create (re-)initializes the spline. On error the spline keeps its
// previous state.
func (sp *Spline) Create(data []CubicData) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: spline without segments", sc.ErrInvalidArgument)
	}
	segs := make([]*Cubic, len(data))
	starts := make([]float64, len(data))
	var s float64
	for i, d := range data {
		c, err := New(d)
		if err != nil {
			return fmt.Errorf("spline segment #%d: %w", i, err)
		}
		segs[i], starts[i] = c, s
		s += c.Length()
	}
	sp.segs, sp.starts, sp.length, sp.valid = segs, starts, s, true
	tracer().Debugf("spline with %d segments, length %.4f", len(segs), s)
	return nil
}

// Data returns a copy of the segment data.
func (sp *Spline) Data() []CubicData {
	data := make([]CubicData, len(sp.segs))
	for i, c := range sp.segs {
		data[i] = c.Data()
	}
	return data
}

// Len returns the number of segments.
func (sp *Spline) Len() int { return len(sp.segs) }

// Segment returns segment i and its start arc length.
func (sp *Spline) Segment(i int) (*Cubic, float64) { return sp.segs[i], sp.starts[i] }

func (sp *Spline) IsValid() bool { return sp.valid }
func (sp *Spline) Range() sc.Interval { return sc.Interval{Near: 0, Far: sp.length} }

func (sp *Spline) segment(s float64) (*Cubic, float64) {
	i := sort.Search(len(sp.starts), func(i int) bool { return sp.starts[i] > s }) - 1
	i = max(0, i)
	return sp.segs[i], s - sp.starts[i]
}

// Position returns the point at arc length s.
func (sp *Spline) Position(s float64) vec3.T {
	c, u := sp.segment(s)
	return c.Position(u)
}

// Tangent returns the unit tangent at s.
func (sp *Spline) Tangent(s float64) vec3.T {
	c, u := sp.segment(s)
	return c.Tangent(u)
}

// Transition returns the Frenet frame at s.
func (sp *Spline) Transition(s float64) sc.Frame {
	c, u := sp.segment(s)
	return c.Transition(u)
}

// Curvature returns the curvature at s.
func (sp *Spline) Curvature(s float64) float64 {
	c, u := sp.segment(s)
	return c.Curvature(u)
}

// Torsion returns the torsion at s.
func (sp *Spline) Torsion(s float64) float64 {
	c, u := sp.segment(s)
	return c.Torsion(u)
}

// ZeroSet yields the normal flips within segments and at joints where the
// normals of adjacent segments are antiparallel.
func (sp *Spline) ZeroSet() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i, c := range sp.segs {
			if i > 0 && sp.flipsAt(i) {
				if !yield(sp.starts[i]) {
					return
				}
			}
			for z := range c.ZeroSet() {
				if !yield(sp.starts[i] + z) {
					return
				}
			}
		}
	}
}

func (sp *Spline) flipsAt(i int) bool {
	l, r := sp.segs[i-1], sp.segs[i]
	sl := l.Length()
	if sc.IsAngle0(l.Curvature(sl)) || sc.IsAngle0(r.Curvature(0)) {
		return false
	}
	return 1+sc.Dot(l.Transition(sl).N, r.Transition(0).N) <= sc.EpsilonAngle
}

// Gaps returns the indices i of segments whose start is further than eps
// from the end of segment i−1.
func (sp *Spline) Gaps(eps float64) []int {
	var gaps []int
	for i := 1; i < len(sp.segs); i++ {
		if sc.Distance(sp.segs[i-1].Data().P(1), sp.segs[i].Data().P(0)) > eps {
			gaps = append(gaps, i)
		}
	}
	return gaps
}

// Kinks returns the indices i of segments whose start tangent deviates more
// than angle from the end tangent of segment i−1.
func (sp *Spline) Kinks(angle float64) []int {
	var kinks []int
	for i := 1; i < len(sp.segs); i++ {
		if sc.Angle(sp.segs[i-1].Data().D1(1), sp.segs[i].Data().D1(0)) > angle {
			kinks = append(kinks, i)
		}
	}
	return kinks
}

// IsFlat reports whether all segments lie in one common plane.
func (sp *Spline) IsFlat() bool {
	_, err := sp.LocalUp()
	return err == nil
}

// LocalUp returns the normal of the common plane of all segments.
func (sp *Spline) LocalUp() (vec3.T, error) {
	var up vec3.T
	found := false
	p0 := sp.segs[0].Data().A
	for i, c := range sp.segs {
		if !c.IsFlat() {
			return vec3.T{}, fmt.Errorf("%w: spline segment #%d is twisted", sc.ErrDomain, i)
		}
		u, _ := c.LocalUp()
		if sc.IsAngle0(c.Curvature(c.Length() / 2)) { // straight segment
			continue
		}
		if !found {
			up, found = u, true
			continue
		}
		if sc.Norm(sc.Cross(up, u)) > sc.EpsilonAngle {
			return vec3.T{}, fmt.Errorf("%w: spline segments in different planes", sc.ErrDomain)
		}
	}
	if !found {
		up = sc.Perpendicular(sp.segs[0].Tangent(0))
	}
	for i, c := range sp.segs {
		d := c.Data()
		for _, p := range [2]vec3.T{d.A, d.P(1)} {
			if math.Abs(sc.Dot(sc.Sub(p, p0), up)) > sc.EpsilonLength {
				return vec3.T{}, fmt.Errorf("%w: spline segment #%d off plane", sc.ErrDomain, i)
			}
		}
	}
	return up, nil
}

// Mirror reflects all segments across p.
func (sp *Spline) Mirror(p sc.Plane) bool {
	data := sp.Data()
	for i := range data {
		data[i] = data[i].Mirrored(p)
	}
	return sp.Create(data) == nil
}

// Clone returns an independent copy.
func (sp *Spline) Clone() sc.Curve {
	cl := &Spline{
		segs:   make([]*Cubic, len(sp.segs)),
		starts: append([]float64(nil), sp.starts...),
		length: sp.length,
		valid:  sp.valid,
	}
	for i, c := range sp.segs {
		cl.segs[i] = c.Clone().(*Cubic)
	}
	return cl
}

var _ sc.Curve = (*Spline)(nil)
