package primitive

import (
	"fmt"
	"iter"
	"math"

	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// MaxClothoidAngle is the turning angle from the inflection point to either
// end of a clothoid's range. It bounds each branch separately; the tangent
// turns by 2⋅MaxClothoidAngle over the full range.
const MaxClothoidAngle = math.Pi

// ClothoidData is a clothoid in canonical position, given by its scale
// parameter A.
type ClothoidData struct {
	A float64
}

// Clothoid is an Euler spiral with curvature growing linearly with arc
// length, |κ(s)| = |s|/A². Its inflection point is at the origin, heading
// along x. The heading at s is θ(s) = s²/(2A²); the range is limited to
// |θ| ≤ MaxClothoidAngle, i.e. |s| ≤ A⋅√(2π).
//
// Positions are Fresnel integrals, evaluated by series expansion.
type Clothoid struct {
	data  ClothoidData
	a2    float64 // A²
	smax  float64
	valid bool
}

// NewClothoid creates a clothoid with scale parameter a.
func NewClothoid(a float64) (*Clothoid, error) {
	c := &Clothoid{}
	if err := c.Create(ClothoidData{A: a}); err != nil {
		return nil, err
	}
	return c, nil
}

// Create (re-)initializes the clothoid. A has to be positive.
func (c *Clothoid) Create(d ClothoidData) error {
	if !isPositive(d.A) {
		return fmt.Errorf("%w: clothoid parameter %g", sc.ErrInvalidArgument, d.A)
	}
	c.data, c.a2, c.valid = d, d.A*d.A, true
	c.smax = d.A * math.Sqrt(2*MaxClothoidAngle)
	return nil
}

// Data returns the construction data.
func (c *Clothoid) Data() ClothoidData { return c.data }

func (c *Clothoid) IsValid() bool { return c.valid }
func (c *Clothoid) Torsion(float64) float64 { return 0 }
func (c *Clothoid) IsFlat() bool { return true }
func (c *Clothoid) LocalUp() (vec3.T, error) { return sc.Ez, nil }

// Range is [−A⋅√(2π), A⋅√(2π)]. Both branches turn by MaxClothoidAngle.
func (c *Clothoid) Range() sc.Interval {
	return sc.Interval{Near: -c.smax, Far: c.smax}
}

// Curvature is |s|/A².
func (c *Clothoid) Curvature(s float64) float64 {
	return math.Abs(s) / c.a2
}

func (c *Clothoid) heading(s float64) float64 {
	return s * s / (2 * c.a2)
}

// Position evaluates the Fresnel integrals
//
//	x(s) = ∫₀ˢ cos(u²/2A²) du = s⋅Σ (−1)ⁿ θ²ⁿ   / ((2n)!   (4n+1))
//	y(s) = ∫₀ˢ sin(u²/2A²) du = s⋅Σ (−1)ⁿ θ²ⁿ⁺¹ / ((2n+1)! (4n+3))
//
// with θ = s²/2A². The terms θᵐ/m! are built incrementally from their
// predecessor, which avoids overflowing powers and factorials.
func (c *Clothoid) Position(s float64) vec3.T {
	theta := c.heading(s)
	var x, y float64
	term := 1.0 // θᵐ/m!
	for m := 0; m < 100; m++ {
		v := term / float64(2*m+1)
		switch m % 4 {
		case 0:
			x += v
		case 1:
			y += v
		case 2:
			x -= v
		case 3:
			y -= v
		}
		if term < 1e-17 && m > 2 {
			break
		}
		term *= theta / float64(m+1)
	}
	return sc.V(s*x, s*y, 0)
}

// Tangent returns the unit tangent at s.
func (c *Clothoid) Tangent(s float64) vec3.T {
	sin, cos := math.Sincos(c.heading(s))
	return sc.V(cos, sin, 0)
}

// Transition returns the Frenet frame at s. The normal points to the left
// of the heading for s ≥ 0 and to the right for s < 0.
func (c *Clothoid) Transition(s float64) sc.Frame {
	sin, cos := math.Sincos(c.heading(s))
	f := sc.Frame{
		P: c.Position(s),
		T: sc.V(cos, sin, 0),
		N: sc.V(-sin, cos, 0),
		B: sc.Ez,
	}
	if s < 0 {
		f.N = sc.Scale(f.N, -1)
		f.B = sc.Scale(f.B, -1)
	}
	return f
}

// ZeroSet yields the inflection point s = 0.
func (c *Clothoid) ZeroSet() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		yield(0)
	}
}

// Mirror is not supported for canonical clothoids.
func (c *Clothoid) Mirror(sc.Plane) bool { return false }

// Clone returns an independent copy.
func (c *Clothoid) Clone() sc.Curve {
	d := *c
	return &d
}

var _ sc.Curve = (*Clothoid)(nil)
