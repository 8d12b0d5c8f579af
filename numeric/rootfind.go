package numeric

import (
	"math"
)

// BracketOptions controls [BracketAndSolve].
type BracketOptions struct {
	Step      float64 // initial distance of the bracket ends from the guess
	GrowUp    float64 // growth factor of the step above the guess
	GrowDown  float64 // growth factor of the step below the guess
	Min, Max  float64 // plausible range of the root
	Tolerance float64 // width of the final bracket
	MaxIter   int     // cap on function evaluations
}

// DefaultBracketOptions are suitable for well-scaled problems around 1.
var DefaultBracketOptions = BracketOptions{
	Step:      0.1,
	GrowUp:    2,
	GrowDown:  1.5,
	Min:       math.Inf(-1),
	Max:       math.Inf(1),
	Tolerance: 1e-12,
	MaxIter:   100,
}

// BracketAndSolve finds a root of f near guess. It first grows a bracket
// around guess, with independent growth factors above and below, until f
// changes sign, and then narrows the bracket with the ITP method.
//
// Every evaluation of f counts against opt.MaxIter. BracketAndSolve does not
// fail loudly: if no sign change can be found within [opt.Min, opt.Max] or
// the iteration cap is hit, it returns ok = false together with the best
// estimate found so far.
func BracketAndSolve(f func(float64) float64, guess float64, opt BracketOptions) (root float64, iter int, ok bool) {
	fg := f(guess)
	iter = 1
	if fg == 0 {
		return guess, iter, true
	}
	best, fbest := guess, math.Abs(fg)
	track := func(x, fx float64) {
		if math.Abs(fx) < fbest {
			best, fbest = x, math.Abs(fx)
		}
	}
	up, down := opt.Step, opt.Step
	a, b := guess, guess
	fa, fb := fg, fg
	bracketed := false
	for !bracketed {
		grewAny := false
		if b < opt.Max && iter < opt.MaxIter {
			x := math.Min(guess+up, opt.Max)
			fx := f(x)
			iter++
			track(x, fx)
			if math.Signbit(fx) != math.Signbit(fg) || fx == 0 {
				a, fa, b, fb = b, fb, x, fx
				bracketed = true
				break
			}
			b, fb = x, fx
			up *= opt.GrowUp
			grewAny = true
		}
		if a > opt.Min && iter < opt.MaxIter {
			x := math.Max(guess-down, opt.Min)
			fx := f(x)
			iter++
			track(x, fx)
			if math.Signbit(fx) != math.Signbit(fg) || fx == 0 {
				b, fb, a, fa = a, fa, x, fx
				bracketed = true
				break
			}
			a, fa = x, fx
			down *= opt.GrowDown
			grewAny = true
		}
		if !grewAny {
			tracer().Debugf("no bracket found for root near %g after %d evaluations", guess, iter)
			return best, iter, false
		}
	}
	tracer().Debugf("bracketed root in [%g,%g] after %d evaluations", a, b, iter)
	if fa > 0 { // ITP expects f(a) < 0 < f(b)
		neg := func(x float64) float64 { return -f(x) }
		root, n, ok := SolveITP(neg, a, b, -fa, -fb, opt.Tolerance, opt.MaxIter-iter)
		return root, iter + n, ok
	}
	root, n, ok := SolveITP(f, a, b, fa, fb, opt.Tolerance, opt.MaxIter-iter)
	return root, iter + n, ok
}

// SolveITP narrows a bracket [a,b] with f(a) = ya < 0 < yb = f(b) down to a
// width of 2⋅epsilon by the [ITP method], using at most maxIter evaluations
// of f. It reports ok = false if the cap was hit before convergence, and
// returns the midpoint of the current bracket in either case.
//
// The parameters follow the suggestions of the paper: k1 = 0.2/(b-a), k2 = 2,
// n0 = 1.
//
// [ITP method]: https://en.wikipedia.org/wiki/ITP_Method
func SolveITP(f func(float64) float64, a, b, ya, yb, epsilon float64, maxIter int) (float64, int, bool) {
	if ya == 0 {
		return a, 0, true
	}
	if yb == 0 {
		return b, 0, true
	}
	k1 := 0.2 / (b - a)
	n1_2 := int(math.Max(math.Ceil(math.Log2((b-a)/epsilon))-1.0, 0.0))
	nmax := 1 + n1_2
	scaledEpsilon := epsilon * math.Ldexp(1, nmax)
	iter := 0
	for b-a > 2.0*epsilon {
		if iter >= maxIter {
			return 0.5 * (a + b), iter, false
		}
		x1_2 := 0.5 * (a + b)
		r := scaledEpsilon - 0.5*(b-a)
		xf := (yb*a - ya*b) / (yb - ya)
		sigma := x1_2 - xf
		delta := k1 * ((b - a) * (b - a))
		var xt float64
		if delta <= math.Abs(x1_2-xf) {
			xt = xf + math.Copysign(delta, sigma)
		} else {
			xt = x1_2
		}
		var xitp float64
		if math.Abs(xt-x1_2) <= r {
			xitp = xt
		} else {
			xitp = x1_2 - math.Copysign(r, sigma)
		}
		yitp := f(xitp)
		iter++
		if yitp > 0.0 {
			b, yb = xitp, yitp
		} else if yitp < 0.0 {
			a, ya = xitp, yitp
		} else {
			return xitp, iter, true
		}
		scaledEpsilon *= 0.5
	}
	return 0.5 * (a + b), iter, true
}
