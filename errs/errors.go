// Package errs defines the sentinel errors shared by all pwpfit packages.
//
// Callers can match failures with errors.Is regardless of the wrapping
// detail added at the detection site:
//
//	_, err := fit.Fit(samples, degree)
//	if errors.Is(err, errs.ErrIllConditioned) {
//	    // relax the constraint set or lower the degree and retry
//	}
package errs

import "errors"

var (
	// ErrInvalidDegree reports a malformed basis request: a negative degree
	// or fewer than one variable.
	ErrInvalidDegree = errors.New("invalid degree")

	// ErrDimensionMismatch reports a row- or column-count mismatch between
	// inputs, targets, weights, or the two pieces of a piecewise fit.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnderconstrainedSplit reports a continuity constraint requested on
	// a degree-0 basis, where continuity is trivially satisfied and the
	// constraint rows would be degenerate.
	ErrUnderconstrainedSplit = errors.New("underconstrained split")

	// ErrIllConditioned reports a solve that could not satisfy its equality
	// constraints within tolerance, returned a non-finite coefficient, or
	// exceeded the coefficient-magnitude bound.
	ErrIllConditioned = errors.New("ill-conditioned solve")

	// ErrNoConvergence reports a breakpoint search that failed to bracket a
	// root or exhausted its iteration budget.
	ErrNoConvergence = errors.New("no convergence")
)
