package fit

import (
	"fmt"
	"time"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/errs"
	"github.com/Yaojunyu0205/pwpfit/internal/options"
	"github.com/Yaojunyu0205/pwpfit/rootfind"
)

// FitPiecewise fits two polynomial pieces of the same degree to the lower
// and upper samples, joined at a split value on the first input variable
// with continuity enforced on the whole split hyperplane.
//
// The split comes from WithSplit when supplied. Otherwise both pieces are
// pre-fitted against the first variable alone and the breakpoint is found by
// root-finding on their difference, inside the WithSplitBracket interval or,
// by default, the gap between the last lower-piece sample and the first
// upper-piece sample.
//
// Parameters:
//   - lower: Samples of the piece with x₁ ≤ split
//   - upper: Samples of the piece with x₁ > split
//   - degree: Polynomial degree, at least 1
//   - opts: WithSplit, WithSplitBracket, WithFinder, plus every plain-fit
//     option; WithZeroPoint applies to both pieces
//
// Returns:
//   - *Result: The piecewise result (Coeffs lower, UpperCoeffs upper)
//   - float64: The split value used
//   - error: errs.ErrUnderconstrainedSplit for degree 0,
//     errs.ErrNoConvergence when the breakpoint search fails, and the plain
//     fit errors otherwise
func FitPiecewise(lower, upper Samples, degree int, opts ...Option) (*Result, float64, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, 0, err
	}

	if err := lower.validate(); err != nil {
		return nil, 0, err
	}
	if err := upper.validate(); err != nil {
		return nil, 0, err
	}
	vars := lower.Vars()
	if upper.Vars() != vars {
		return nil, 0, fmt.Errorf("%w: lower piece has %d variables, upper has %d", errs.ErrDimensionMismatch, vars, upper.Vars())
	}

	labels, err := cfg.resolveLabels(vars)
	if err != nil {
		return nil, 0, err
	}

	if degree == 0 {
		return nil, 0, fmt.Errorf("%w: continuity on a degree-0 basis is trivial", errs.ErrUnderconstrainedSplit)
	}
	b, err := basis.New(degree, vars, cfg.policy)
	if err != nil {
		return nil, 0, err
	}

	lowerClean := lower.clean(cfg.weight)
	upperClean := upper.clean(cfg.weight)
	if lowerClean.Len() == 0 || upperClean.Len() == 0 {
		return nil, 0, fmt.Errorf("%w: a piece has no rows left after dropping NaN targets", errs.ErrDimensionMismatch)
	}

	split := cfg.split
	var searchTime time.Duration
	if !cfg.hasSplit {
		start := time.Now()
		split, err = searchSplit(lowerClean, upperClean, degree, cfg)
		if err != nil {
			return nil, 0, err
		}
		searchTime = time.Since(start)
	}

	start := time.Now()
	ca, da, err := assemble(b, lowerClean)
	if err != nil {
		return nil, 0, err
	}
	cb, db, err := assemble(b, upperClean)
	if err != nil {
		return nil, 0, err
	}
	c, d := blockDiag(ca, da, cb, db)

	cont, _, err := continuityRows(b, split)
	if err != nil {
		return nil, 0, err
	}
	pinned, err := zeroPinned(b, cfg.zeroPoint)
	if err != nil {
		return nil, 0, err
	}
	pins, _ := pinRows(pinned, 2*b.Len(), []int{0, b.Len()})
	aeq, beq := stackConstraints(2*b.Len(), cont, pins)
	assembleTime := time.Since(start)

	start = time.Now()
	q, resNorm, unreliable, err := solveConstrained(c, d, aeq, beq, cfg.solver)
	if err != nil {
		return nil, 0, err
	}
	solveTime := time.Since(start)

	r := b.Len()
	res := &Result{
		name:     cfg.name,
		labels:   labels,
		b:        b,
		coeffs:   q[:r],
		upper:    q[r:],
		split:    split,
		hasSplit: true,
		rmse:     rmse(resNorm, lowerClean.Len()+upperClean.Len()),
		resNorm:  resNorm,
		unrel:    unreliable,
		timing:   Timing{Assemble: assembleTime, Solve: solveTime, Search: searchTime},
	}

	return res, split, nil
}

// FindBreakpoint locates the value where two already-fitted single-variable
// pieces intersect, by root-finding on their difference inside [lo, hi]. A
// nil finder uses rootfind.Bisection defaults. Multiple intersections may
// exist; the finder returns the first root it isolates, so callers needing a
// specific one must narrow the bracket.
func FindBreakpoint(fa, fb func(float64) float64, lo, hi float64, finder rootfind.Finder) (float64, error) {
	if finder == nil {
		finder = rootfind.Bisection{}
	}

	return finder.Find(func(x float64) float64 {
		return fa(x) - fb(x)
	}, lo, hi)
}

// searchSplit discovers the natural breakpoint between the two pieces: each
// piece is pre-fitted as a single-variable polynomial of x₁ and the finder
// roots their difference.
func searchSplit(lower, upper Samples, degree int, cfg *config) (float64, error) {
	fa, loA, hiA, err := projectedFit(lower, degree, cfg)
	if err != nil {
		return 0, err
	}
	fb, loB, hiB, err := projectedFit(upper, degree, cfg)
	if err != nil {
		return 0, err
	}

	lo, hi := cfg.bracketLo, cfg.bracketHi
	if !cfg.hasBracket {
		// The natural transition lies between the pieces; an inverted gap
		// (overlapping pieces) falls back to the joint data range.
		lo, hi = hiA, loB
		if lo >= hi {
			lo, hi = loA, hiB
		}
	}

	return FindBreakpoint(fa, fb, lo, hi, cfg.finder)
}

// projectedFit fits z against the first input variable alone and returns the
// fitted curve plus the variable's data range.
func projectedFit(s Samples, degree int, cfg *config) (func(float64) float64, float64, float64, error) {
	proj := Samples{
		X: make([][]float64, s.Len()),
		Z: s.Z,
		W: s.W,
	}
	lo, hi := s.X[0][0], s.X[0][0]
	for i, row := range s.X {
		proj.X[i] = row[:1]
		lo = min(lo, row[0])
		hi = max(hi, row[0])
	}

	// A pre-fit steeper than the data supports would be underdetermined.
	d := degree
	if d > s.Len()-1 {
		d = s.Len() - 1
	}

	res, err := Fit(proj, d, WithSolver(cfg.solver))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("pre-fit for breakpoint search: %w", err)
	}

	return func(x float64) float64 { return res.Eval(x) }, lo, hi, nil
}
