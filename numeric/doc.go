/*
Package numeric is the numeric kernel of the curve packages: centered finite
differences of 6th and 8th order, recursive polyline simplification
(Douglas-Peucker), a 1-D bracket-and-solve root finder and a tridiagonal
equation sweep.

All routines are pure functions over caller supplied closures or slices and
hold no state between calls.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package numeric

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'spacecurve'
func tracer() tracing.Trace {
	return tracing.Select("spacecurve")
}
