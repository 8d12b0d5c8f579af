/*
Package spacecurve implements curves embedded in 3-D space: lines, circular
arcs, clothoids, helices, rotator chains, cubic splines and sampled curves.
All curves are queried by arc length through one uniform contract, [Curve].

The root package holds the shared vocabulary: tolerances, sentinel errors,
vector helpers on top of go3d's vec3.T, orthonormal frames, planes, affine
transforms, and the Frenet evaluation from parametric derivatives.
Sub-packages implement the curve variants:

	numeric    finite differences, polyline simplification, root finding
	arclen     arc-length reparametrization of parametric curve functions
	primitive  line, arc, clothoid, helix, rotator and rotator chain
	stretch    solving for the curvature that reaches a target point
	cubic      cubic segments, splines and curve fitting
	discrete   polygonal chains and sampled curves
	polygon    plan-view polygons and corridors of curves

Curves are value-like. A Create call rebuilds all internal state and is the
only mutating operation; queries are pure reads and may run concurrently on a
created curve. Create and queries on the same instance must not overlap.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spacecurve
