/*
Package discrete implements curves given by a sequence of samples: the
PolygonalChain, built from positions and tangents, and the SampledCurve,
built by adaptively walking another curve and carrying a full Frenet frame
with curvature and torsion per sample.

Both representations interpolate between samples. Wherever the normal
vector flips, i.e. at a zero-crossing of the curvature, a sample is
duplicated: the two copies share arc length, position and tangent and carry
opposite normals. Interpolation therefore never averages normals across the
flip.

Dense sample sequences are thinned out with Simplify, which keeps the
endpoints and all zero-crossing samples and bounds the distance of every
dropped sample from the remaining polyline.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package discrete

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'spacecurve'
func tracer() tracing.Trace {
	return tracing.Select("spacecurve")
}
