// Package rootfind provides the derivative-free scalar root finder used by
// the breakpoint search.
package rootfind

import (
	"fmt"
	"math"

	"github.com/Yaojunyu0205/pwpfit/errs"
)

// Func is a scalar function whose root is sought.
type Func func(x float64) float64

// Finder locates a root of f inside [lo, hi]. Implementations must be
// deterministic: the same inputs always return the same root.
type Finder interface {
	Find(f Func, lo, hi float64) (float64, error)
}

const (
	defaultMaxIter   = 200
	defaultTol       = 1e-12
	bracketExpansion = 24
)

// Bisection is the default Finder: bracketing bisection with a secant
// acceleration step. If the initial interval does not bracket a sign change,
// it is expanded geometrically a bounded number of times before giving up.
//
// The zero value uses 200 iterations and a tolerance of 1e-12.
type Bisection struct {
	// MaxIter bounds the number of interval reductions.
	MaxIter int
	// Tol is the convergence tolerance on both |f(x)| and the interval width.
	Tol float64
}

var _ Finder = Bisection{}

// Find returns x in (or near) [lo, hi] with f(x) ≈ 0.
//
// Returns errs.ErrNoConvergence when no sign change can be bracketed or the
// iteration budget runs out before the interval collapses.
func (b Bisection) Find(f Func, lo, hi float64) (float64, error) {
	maxIter := b.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}
	tol := b.Tol
	if tol <= 0 {
		tol = defaultTol
	}

	if lo > hi {
		lo, hi = hi, lo
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, fmt.Errorf("%w: invalid bracket [%v, %v]", errs.ErrNoConvergence, lo, hi)
	}

	flo, fhi := f(lo), f(hi)
	if math.Abs(flo) <= tol {
		return lo, nil
	}
	if math.Abs(fhi) <= tol {
		return hi, nil
	}

	lo, hi, flo, fhi, ok := expandBracket(f, lo, hi, flo, fhi)
	if !ok {
		return 0, fmt.Errorf("%w: no sign change in bracket [%v, %v]", errs.ErrNoConvergence, lo, hi)
	}

	for iter := 0; iter < maxIter; iter++ {
		// Prefer the secant point when it falls safely inside the bracket,
		// fall back to the midpoint otherwise.
		mid := 0.5 * (lo + hi)
		x := mid
		if d := fhi - flo; d != 0 {
			s := hi - fhi*(hi-lo)/d
			if s > lo && s < hi {
				x = s
			}
		}

		fx := f(x)
		if math.Abs(fx) <= tol || hi-lo <= tol*math.Max(1, math.Abs(x)) {
			return x, nil
		}

		if (flo < 0) == (fx < 0) {
			lo, flo = x, fx
		} else {
			hi, fhi = x, fx
		}
	}

	return 0, fmt.Errorf("%w: %d iterations exhausted on [%v, %v]", errs.ErrNoConvergence, maxIter, lo, hi)
}

// expandBracket widens [lo, hi] geometrically until f changes sign across it.
func expandBracket(f Func, lo, hi, flo, fhi float64) (l, h, fl, fh float64, ok bool) {
	if (flo < 0) != (fhi < 0) {
		return lo, hi, flo, fhi, true
	}

	width := hi - lo
	if width == 0 {
		width = math.Max(1, math.Abs(lo)) * 1e-3
	}

	for i := 0; i < bracketExpansion; i++ {
		width *= 2
		lo -= width
		hi += width
		flo, fhi = f(lo), f(hi)
		if math.IsNaN(flo) || math.IsNaN(fhi) {
			return lo, hi, flo, fhi, false
		}
		if (flo < 0) != (fhi < 0) {
			return lo, hi, flo, fhi, true
		}
	}

	return lo, hi, flo, fhi, false
}
