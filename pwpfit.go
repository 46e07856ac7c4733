// Package pwpfit fits multivariate polynomials, and piecewise polynomial
// pairs, to scattered sample data using constrained linear least squares.
//
// The package was built for identifying smooth models from measurement
// campaigns, for example aerodynamic coefficient tables sampled over angle
// of attack and Mach number, but it is domain agnostic: any scalar response
// observed over one or more real-valued variables can be fitted.
//
// # Core Features
//
//   - Deterministic monomial bases (total-degree, per-variable, additive)
//   - Weighted least squares with per-sample or scalar weights
//   - Zero-value constraints that pin the fit to vanish on a sub-point
//   - Piecewise fits with exact value continuity at the breakpoint
//   - Automatic breakpoint search when the split location is unknown
//   - QR and SVD solver backends with post-solve sanity checks
//   - Formula export (plain text, LaTeX, Go source) and binary archives
//
// # Basic Usage
//
// Fitting a surface to gridded samples:
//
//	import "github.com/Yaojunyu0205/pwpfit"
//
//	samples := pwpfit.Samples{
//	    X: [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
//	    Z: []float64{0, 1, 2, 3},
//	}
//	result, err := pwpfit.Fit(samples, 2,
//	    pwpfit.WithName("cl"),
//	    pwpfit.WithLabels("alpha", "mach"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Eval(0.5, 0.5))
//
// Fitting two pieces joined continuously at an unknown breakpoint:
//
//	result, split, err := pwpfit.FitPiecewise(lower, upper, 3)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the fit
// package, covering the most common use cases. For fine-grained control,
// and for the export and archive features, use the fit, export, and
// archive packages directly.
package pwpfit

import (
	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/fit"
	"github.com/Yaojunyu0205/pwpfit/rootfind"
)

// Samples is the input data for a fit. See fit.Samples.
type Samples = fit.Samples

// Result is an immutable fitted polynomial. See fit.Result.
type Result = fit.Result

// ResultSet groups named fit results that share variable labels.
type ResultSet = fit.ResultSet

// Option configures a fit. See the fit package for the full list.
type Option = fit.Option

// Free marks a variable as unconstrained in WithZeroPoint.
var Free = fit.Free

// Re-exported options for the common cases. Solver and bracket tuning
// options live in the fit package.
var (
	WithName      = fit.WithName
	WithLabels    = fit.WithLabels
	WithPolicy    = fit.WithPolicy
	WithZeroPoint = fit.WithZeroPoint
	WithWeight    = fit.WithWeight
	WithSplit     = fit.WithSplit
)

// Fit computes a least-squares polynomial fit of the given total degree.
//
// Parameters:
//   - samples: Sample points and target values (plus optional weights)
//   - degree: Maximum polynomial degree, must be >= 0
//   - opts: Optional configuration functions (see fit.Option)
//
// Returns:
//   - *Result: The fitted polynomial.
//   - error: An error if the inputs are invalid or the solve fails.
//
// Example:
//
//	result, err := pwpfit.Fit(samples, 3, pwpfit.WithName("cd"))
func Fit(samples Samples, degree int, opts ...Option) (*Result, error) {
	return fit.Fit(samples, degree, opts...)
}

// FitPiecewise fits two polynomial pieces over the first variable, joined
// continuously at a breakpoint.
//
// When no split is supplied via WithSplit, the breakpoint is located
// automatically by fitting each piece separately and searching for the
// crossing of the two projected curves.
//
// Parameters:
//   - lower: Samples for the piece below the breakpoint
//   - upper: Samples for the piece above the breakpoint
//   - degree: Maximum polynomial degree per piece, must be >= 1
//   - opts: Optional configuration functions (see fit.Option)
//
// Returns:
//   - *Result: The fitted piecewise polynomial.
//   - float64: The breakpoint used.
//   - error: An error if the inputs are invalid or the solve fails.
func FitPiecewise(lower, upper Samples, degree int, opts ...Option) (*Result, float64, error) {
	return fit.FitPiecewise(lower, upper, degree, opts...)
}

// FindBreakpoint locates the crossing of two scalar curves inside the
// given bracket. See fit.FindBreakpoint.
func FindBreakpoint(lower, upper func(float64) float64, lo, hi float64, finder rootfind.Finder) (float64, error) {
	return fit.FindBreakpoint(lower, upper, lo, hi, finder)
}

// NewBasis constructs the monomial basis used for a given degree, variable
// count, and admission policy. See basis.New.
func NewBasis(degree, vars int, policy basis.Policy) (*basis.Basis, error) {
	return basis.New(degree, vars, policy)
}
