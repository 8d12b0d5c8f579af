package primitive

import (
	"fmt"
	"iter"
	"math"
	"sort"

	sc "github.com/npillmayer/spacecurve"
	"github.com/npillmayer/spacecurve/arclen"
	"github.com/ungerik/go3d/float64/vec3"
)

// RotatorLink is one segment of a rotator chain: over Length the tangent
// yaws by DA and pitches by DB, both at constant rate.
type RotatorLink struct {
	DA, DB float64
	Length float64
}

// RotatorChainData holds the start orientation and the chain links.
type RotatorChainData struct {
	A0, B0 float64 // yaw and pitch at s = 0
	Links  []RotatorLink
}

// RotatorChain concatenates rotator segments with continuous tangent. Before
// the first and beyond the last joint the outer segments extrapolate.
type RotatorChain struct {
	data    RotatorChainData
	segs    []Rotator
	starts  []float64 // arc length at the start of each segment
	offsets []vec3.T  // position at the start of each segment
	length  float64
	maxK    float64
	fd      arclen.FDFrenet
	valid   bool
}

// NewRotatorChain creates a chain from its data.
func NewRotatorChain(d RotatorChainData) (*RotatorChain, error) {
	c := &RotatorChain{}
	if err := c.Create(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Create (re-)initializes the chain. On error the previous state is kept.
func (c *RotatorChain) Create(d RotatorChainData) error {
	if len(d.Links) == 0 {
		return fmt.Errorf("%w: rotator chain without links", sc.ErrInvalidArgument)
	}
	if !sc.IsFinite(d.A0) || !sc.IsFinite(d.B0) {
		return fmt.Errorf("%w: rotator chain offsets (%g,%g)", sc.ErrInvalidArgument, d.A0, d.B0)
	}
	n := len(d.Links)
	segs := make([]Rotator, n)
	starts := make([]float64, n)
	offsets := make([]vec3.T, n)
	alpha, beta := d.A0, d.B0
	var s float64
	var p vec3.T
	var maxK float64
	for i, l := range d.Links {
		if !isPositive(l.Length) || !sc.IsFinite(l.DA) || !sc.IsFinite(l.DB) {
			return fmt.Errorf("%w: rotator link #%d %+v", sc.ErrInvalidArgument, i, l)
		}
		rd := RotatorData{A: l.DA / l.Length, B: l.DB / l.Length, A0: alpha, B0: beta}
		if err := segs[i].Create(rd); err != nil {
			return err
		}
		starts[i], offsets[i] = s, p
		maxK = math.Max(maxK, segmentMaxCurvature(rd, l.Length))
		p = sc.Add(p, segs[i].Position(l.Length))
		s += l.Length
		alpha += l.DA
		beta += l.DB
	}
	c.data = RotatorChainData{A0: d.A0, B0: d.B0, Links: append([]RotatorLink(nil), d.Links...)}
	c.segs, c.starts, c.offsets = segs, starts, offsets
	c.length, c.maxK = s, maxK
	c.fd = arclen.NewFDFrenet(c.Tangent, sc.Ez)
	c.valid = true
	tracer().Debugf("rotator chain with %d links, length %.4f, max curvature %.4f", n, s, maxK)
	return nil
}

// segmentMaxCurvature maximizes κ² = b² + a²⋅cos²β over a segment. cos²β
// peaks at β = k⋅π inside the pitch interval, else at one of its ends.
func segmentMaxCurvature(d RotatorData, l float64) float64 {
	b0, b1 := d.B0, d.B0+d.B*l
	if b0 > b1 {
		b0, b1 = b1, b0
	}
	c2 := math.Max(math.Pow(math.Cos(b0), 2), math.Pow(math.Cos(b1), 2))
	if math.Ceil(b0/math.Pi) <= math.Floor(b1/math.Pi) {
		c2 = 1
	}
	return math.Sqrt(d.B*d.B + d.A*d.A*c2)
}

// Data returns a copy of the construction data.
func (c *RotatorChain) Data() RotatorChainData {
	d := c.data
	d.Links = append([]RotatorLink(nil), c.data.Links...)
	return d
}

// MaxCurvature returns the largest curvature along the chain.
func (c *RotatorChain) MaxCurvature() float64 { return c.maxK }

func (c *RotatorChain) IsValid() bool { return c.valid }
func (c *RotatorChain) Range() sc.Interval { return sc.Interval{Near: 0, Far: c.length} }

// segment finds the segment for s and the local arc length within it.
func (c *RotatorChain) segment(s float64) (int, float64) {
	i := sort.SearchFloat64s(c.starts, s)
	if i == len(c.starts) || c.starts[i] > s {
		i--
	}
	i = max(0, min(i, len(c.segs)-1))
	return i, s - c.starts[i]
}

// Position returns the point at arc length s.
func (c *RotatorChain) Position(s float64) vec3.T {
	i, u := c.segment(s)
	return sc.Add(c.offsets[i], c.segs[i].Position(u))
}

// Tangent returns the unit tangent at s.
func (c *RotatorChain) Tangent(s float64) vec3.T {
	i, u := c.segment(s)
	return c.segs[i].Tangent(u)
}

// Curvature returns the closed form curvature of the segment at s.
func (c *RotatorChain) Curvature(s float64) float64 {
	i, u := c.segment(s)
	return c.segs[i].Curvature(u)
}

// Torsion is estimated by finite differences of the tangent across joints.
func (c *RotatorChain) Torsion(s float64) float64 {
	return c.fd.Torsion(s)
}

// Transition returns the Frenet frame of the segment at s.
func (c *RotatorChain) Transition(s float64) sc.Frame {
	i, u := c.segment(s)
	f := c.segs[i].Transition(u)
	f.P = sc.Add(c.offsets[i], f.P)
	return f
}

// ZeroSet yields the joints at which the normals of adjacent segments are
// antiparallel.
func (c *RotatorChain) ZeroSet() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := 1; i < len(c.segs); i++ {
			prev := &c.segs[i-1]
			if prev.Curvature(c.data.Links[i-1].Length) == 0 || c.segs[i].Curvature(0) == 0 {
				continue
			}
			nl := prev.Transition(c.data.Links[i-1].Length).N
			nr := c.segs[i].Transition(0).N
			if 1+sc.Dot(nl, nr) <= sc.EpsilonAngle {
				if !yield(c.starts[i]) {
					return
				}
			}
		}
	}
}

// IsFlat holds if all segments turn within one common plane.
func (c *RotatorChain) IsFlat() bool {
	yawOnly, pitchOnly := c.planarity()
	return yawOnly || pitchOnly
}

func (c *RotatorChain) planarity() (yawOnly, pitchOnly bool) {
	yawOnly, pitchOnly = c.data.B0 == 0, true
	for _, l := range c.data.Links {
		yawOnly = yawOnly && l.DB == 0
		pitchOnly = pitchOnly && l.DA == 0
	}
	return
}

// LocalUp returns the normal of the plane a flat chain lies in.
func (c *RotatorChain) LocalUp() (vec3.T, error) {
	yawOnly, pitchOnly := c.planarity()
	if !yawOnly && !pitchOnly {
		return vec3.T{}, fmt.Errorf("%w: rotator chain is twisted", sc.ErrDomain)
	}
	return planeUp(yawOnly, c.data.A0), nil
}

// Mirror supports only the local xz-plane, which flips the yaw.
func (c *RotatorChain) Mirror(p sc.Plane) bool {
	if !isLocalXZ(p) {
		return false
	}
	d := c.Data()
	d.A0 = -d.A0
	for i := range d.Links {
		d.Links[i].DA = -d.Links[i].DA
	}
	return c.Create(d) == nil
}

// Clone returns an independent copy.
func (c *RotatorChain) Clone() sc.Curve {
	cl := &RotatorChain{}
	if c.valid {
		_ = cl.Create(c.data)
	}
	return cl
}

var _ sc.Curve = (*RotatorChain)(nil)
