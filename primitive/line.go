package primitive

import (
	"fmt"
	"iter"

	sc "github.com/npillmayer/spacecurve"
	"github.com/ungerik/go3d/float64/vec3"
)

// LineData places a straight line in space.
type LineData struct {
	Start   vec3.T // position at s = 0
	Tangent vec3.T // direction, needs not be normalized
	Up      vec3.T // binormal hint, needs not be perpendicular to Tangent
}

// Line is a straight line of infinite extent. Curvature and torsion are zero
// everywhere and the frame is constant.
type Line struct {
	data  LineData
	frame sc.Frame
	valid bool
}

// NewLine creates a line from its data.
func NewLine(d LineData) (*Line, error) {
	l := &Line{}
	if err := l.Create(d); err != nil {
		return nil, err
	}
	return l, nil
}

// Create (re-)initializes the line. On error the line keeps its previous
// state.
func (l *Line) Create(d LineData) error {
	if !sc.IsFiniteV(d.Start) {
		return fmt.Errorf("%w: line start %s", sc.ErrInvalidArgument, sc.VString(d.Start))
	}
	f, err := sc.NewFrame(d.Start, d.Tangent, d.Up)
	if err != nil {
		return err
	}
	l.data, l.frame, l.valid = d, f, true
	return nil
}

// Data returns the construction data.
func (l *Line) Data() LineData { return l.data }

func (l *Line) IsValid() bool { return l.valid }
func (l *Line) Range() sc.Interval { return sc.Infinite }
func (l *Line) Curvature(float64) float64 { return 0 }
func (l *Line) Torsion(float64) float64 { return 0 }
func (l *Line) Tangent(float64) vec3.T { return l.frame.T }
func (l *Line) ZeroSet() iter.Seq[float64] { return noZeros }
func (l *Line) IsFlat() bool { return true }
func (l *Line) LocalUp() (vec3.T, error) { return l.frame.B, nil }

// Position returns start + s⋅T.
func (l *Line) Position(s float64) vec3.T {
	return sc.AddScaled(l.frame.P, l.frame.T, s)
}

// Transition returns the constant frame, moved to s.
func (l *Line) Transition(s float64) sc.Frame {
	f := l.frame
	f.P = l.Position(s)
	return f
}

// Mirror reflects start, tangent and up.
func (l *Line) Mirror(p sc.Plane) bool {
	d := LineData{
		Start:   p.Reflect(l.data.Start),
		Tangent: p.ReflectVector(l.data.Tangent),
		Up:      p.ReflectVector(l.data.Up),
	}
	return l.Create(d) == nil
}

// Clone returns an independent copy.
func (l *Line) Clone() sc.Curve {
	c := *l
	return &c
}

var _ sc.Curve = (*Line)(nil)
