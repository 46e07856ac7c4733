// Package fit fits multivariate polynomial functions to scattered, possibly
// weighted, data using constrained linear least squares.
//
// A fit is one batch computation: the design matrix is assembled from the
// monomial basis evaluated at every sample, zero-value and continuity
// requirements are translated into linear equality constraints on the
// coefficient vector, and the constrained system is solved in one call. The
// returned Result is immutable and owned by the caller; the intermediate
// matrices are discarded after the solve. Independent fits share no state
// and may run concurrently.
//
// # Plain Fits
//
//	samples := fit.Samples{
//	    X: [][]float64{{0}, {1}, {2}},
//	    Z: []float64{0, 1, 2},
//	}
//	res, err := fit.Fit(samples, 1)
//	if err != nil {
//	    return err
//	}
//	res.Eval(1.5) // ≈ 1.5
//
// A zero-value requirement pins every coefficient whose monomial survives
// restriction to the given sub-point, so the fitted surface is exactly zero
// on the matching hyperplane. Axes marked fit.Free are left unconstrained:
//
//	res, err := fit.Fit(samples, 2, fit.WithZeroPoint(fit.Free, 0))
//
// # Piecewise Fits
//
// FitPiecewise joins two polynomial pieces at a split value on the first
// variable and forces them to agree on the whole split hyperplane. When no
// split is supplied the breakpoint is discovered by root-finding on the
// difference of two single-variable pre-fits:
//
//	res, x0, err := fit.FitPiecewise(lower, upper, 2, fit.WithSplit(0))
//
// # Failure Modes
//
// Every failure is labeled with a sentinel from the errs package:
// errs.ErrInvalidDegree, errs.ErrDimensionMismatch,
// errs.ErrUnderconstrainedSplit, errs.ErrIllConditioned and
// errs.ErrNoConvergence. Rows whose target is NaN are silently dropped
// before solving; that is the only undetected data repair.
package fit
