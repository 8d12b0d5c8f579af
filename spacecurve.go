package spacecurve

import (
	"errors"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'spacecurve'
func tracer() tracing.Trace {
	return tracing.Select("spacecurve")
}

// === Tolerances ============================================================

// EpsilonLength : lengths below ε are considered 0 (in meters).
var EpsilonLength float64 = 1e-4

// EpsilonAngle : angles below ε are considered 0 (in radians).
var EpsilonAngle float64 = 1e-6

// EpsilonFactor is a unitless tolerance for normalized quantities, e.g. the
// deviation of a frame from orthonormality.
var EpsilonFactor float64 = 1e-6

// Is0 is a predicate: is n = 0 with respect to length tolerance?
func Is0(n float64) bool {
	return math.Abs(n) <= EpsilonLength
}

// IsAngle0 is a predicate: is angle a = 0 with respect to angle tolerance?
func IsAngle0(a float64) bool {
	return math.Abs(a) <= EpsilonAngle
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if math.Abs(n) <= EpsilonFactor*EpsilonLength {
		n = 0
	}
	return n
}

// IsFinite is a predicate: n is neither NaN nor ±Inf.
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// === Errors ================================================================

var (
	// ErrInvalidArgument indicates bad construction parameters: degenerate
	// tangents, non-positive radii, collocated points, non-orthonormal frames.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrLogic indicates an operation on a curve which has not been created,
	// or a query outside of the curve's range.
	ErrLogic = errors.New("logic error")
	// ErrDomain indicates a request for a quantity the curve does not define,
	// e.g. the local up direction of a twisted curve.
	ErrDomain = errors.New("domain error")
)
