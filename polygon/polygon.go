/*
Package polygon works with plan-view polygons, i.e. projections of curves
onto the xy-plane.

Polygons are built either knot by knot,

	pg := NullPolygon().Knot(p0).Knot(p1).Knot(p2).Cycle()

or as the corridor a curve sweeps when widened sideways. Boolean operations
are delegated to polyclip.

BSD License

Copyright (c) 2017–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED
TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR
PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF
LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS
SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package polygon

import (
	"fmt"
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/schuko/tracing"
	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'spacecurve'
func tracer() tracing.Trace {
	return tracing.Select("spacecurve")
}

// Polygon is a set of closed contours in the xy-plane.
type Polygon struct {
	pg polyclip.Polygon
}

// Builder collects the knots of a single contour.
type Builder struct {
	contour polyclip.Contour
}

// NullPolygon starts an empty contour.
func NullPolygon() *Builder {
	return &Builder{}
}

// Knot appends a point. The z-coordinate is dropped.
func (b *Builder) Knot(p vec3.T) *Builder {
	b.contour.Add(polyclip.Point{X: p[0], Y: p[1]})
	return b
}

// Cycle closes the contour and returns it as a polygon.
func (b *Builder) Cycle() *Polygon {
	pg := &Polygon{}
	if len(b.contour) > 0 {
		pg.pg.Add(b.contour)
	}
	b.contour = nil
	return pg
}

// Box is the axis-parallel rectangle spanned by two corners.
func Box(a, b vec3.T) *Polygon {
	x0, x1 := math.Min(a[0], b[0]), math.Max(a[0], b[0])
	y0, y1 := math.Min(a[1], b[1]), math.Max(a[1], b[1])
	return NullPolygon().
		Knot(sc.V(x0, y0, 0)).Knot(sc.V(x1, y0, 0)).
		Knot(sc.V(x1, y1, 0)).Knot(sc.V(x0, y1, 0)).Cycle()
}

// N returns the number of vertices over all contours.
func (p *Polygon) N() int {
	return p.pg.NumVertices()
}

// Contours returns the number of contours.
func (p *Polygon) Contours() int {
	return len(p.pg)
}

// IsEmpty is true for a polygon without contours.
func (p *Polygon) IsEmpty() bool {
	return len(p.pg) == 0
}

// Clip exposes the underlying polyclip polygon.
func (p *Polygon) Clip() polyclip.Polygon {
	return p.pg
}

// Contains reports whether the projection of v lies inside the polygon.
// Contours nested an odd number of times count as holes.
func (p *Polygon) Contains(v vec3.T) bool {
	pt := polyclip.Point{X: v[0], Y: v[1]}
	inside := false
	for _, c := range p.pg {
		if c.Contains(pt) {
			inside = !inside
		}
	}
	return inside
}

// Area is the enclosed area, with holes subtracted.
func Area(p *Polygon) float64 {
	var area float64
	for i, c := range p.pg {
		a := math.Abs(shoelace(c))
		if len(c) > 0 && depth(p.pg, i)%2 == 1 {
			a = -a
		}
		area += a
	}
	return area
}

// depth counts the contours enclosing contour i.
func depth(pg polyclip.Polygon, i int) int {
	d := 0
	for j, c := range pg {
		if j != i && c.Contains(pg[i][0]) {
			d++
		}
	}
	return d
}

func shoelace(c polyclip.Contour) float64 {
	var a float64
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return a / 2
}

// Intersection returns the common area of a and b.
func Intersection(a, b *Polygon) *Polygon {
	if a.IsEmpty() || b.IsEmpty() {
		return &Polygon{}
	}
	return &Polygon{pg: a.pg.Construct(polyclip.INTERSECTION, b.pg)}
}

// Union returns the area covered by a or b.
func Union(a, b *Polygon) *Polygon {
	if a.IsEmpty() {
		return &Polygon{pg: b.pg.Clone()}
	}
	if b.IsEmpty() {
		return &Polygon{pg: a.pg.Clone()}
	}
	return &Polygon{pg: a.pg.Construct(polyclip.UNION, b.pg)}
}

// Overlaps is true if a and b share an area larger than EpsilonLength².
// Polygons touching along an edge do not overlap.
func Overlaps(a, b *Polygon) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	if !a.pg.BoundingBox().Overlaps(b.pg.BoundingBox()) {
		return false
	}
	return Area(Intersection(a, b)) > sc.EpsilonLength*sc.EpsilonLength
}

// Corridor returns the plan-view band of half width w around curve c over
// the finite range r. The curve is sampled at most step apart; at each
// sample the band extends w to both sides, perpendicular to the projected
// tangent. Vertical stretches of the curve inherit the sideways direction of
// their predecessor. Curves bending tighter than 1/w in plan view produce
// self-overlapping contours.
func Corridor(c sc.Curve, r sc.Interval, w, step float64) (*Polygon, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: corridor of invalid curve", sc.ErrLogic)
	}
	r = r.Intersect(c.Range())
	if !r.IsFinite() || r.Length() <= 0 {
		return nil, fmt.Errorf("%w: corridor range %s", sc.ErrInvalidArgument, r)
	}
	if !(w > 0) || !(step > 0) || !sc.IsFinite(w) {
		return nil, fmt.Errorf("%w: corridor width %g, step %g", sc.ErrInvalidArgument, w, step)
	}
	n := int(math.Ceil(r.Length() / step))
	left := make([]vec3.T, 0, n+1)
	right := make([]vec3.T, 0, n+1)
	var side vec3.T
	for i := 0; i <= n; i++ {
		s := r.Near + r.Length()*float64(i)/float64(n)
		t := c.Tangent(s)
		lat := sc.V(-t[1], t[0], 0)
		if sc.Normalize(&lat) > sc.EpsilonFactor {
			side = lat
		}
		if sc.IsNull(side, 0) {
			continue
		}
		p := c.Position(s)
		p[2] = 0
		left = append(left, sc.AddScaled(p, side, w))
		right = append(right, sc.AddScaled(p, side, -w))
	}
	if len(left) < 2 {
		return nil, fmt.Errorf("%w: curve has no plan-view extent", sc.ErrDomain)
	}
	b := NullPolygon()
	for _, p := range right {
		b.Knot(p)
	}
	for i := len(left) - 1; i >= 0; i-- {
		b.Knot(left[i])
	}
	tracer().Debugf("corridor over %s: %d vertices", r, 2*len(left))
	return b.Cycle(), nil
}

// AsString returns a readable list of contours.
func AsString(p *Polygon) string {
	var sb strings.Builder
	for i, c := range p.pg {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("[")
		for j, pt := range c {
			if j > 0 {
				sb.WriteString(" -- ")
			}
			fmt.Fprintf(&sb, "(%g,%g)", pt.X, pt.Y)
		}
		sb.WriteString(" -- cycle]")
	}
	return sb.String()
}
