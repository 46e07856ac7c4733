package fit

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/errs"
)

// Timing is the per-phase duration breakdown of a fit call.
type Timing struct {
	// Assemble covers design-matrix and constraint construction.
	Assemble time.Duration
	// Solve covers the constrained least-squares solve.
	Solve time.Duration
	// Search covers the breakpoint search, zero when a split was supplied.
	Search time.Duration
}

// Result is the immutable record of a successful fit: the basis, the
// coefficient vector(s), the split value for piecewise fits, and the
// goodness-of-fit. Accessors return copies of any mutable state, so a Result
// can be shared freely between goroutines.
type Result struct {
	name     string
	labels   []string
	b        *basis.Basis
	coeffs   []float64
	upper    []float64
	split    float64
	hasSplit bool
	rmse     float64
	resNorm  float64
	unrel    bool
	timing   Timing
}

// NewResult reconstructs a Result from its stored parts, validating the
// coefficient lengths against the basis. It exists for consumers that
// persist fitted surfaces (see the archive package); fits themselves create
// results internally.
func NewResult(name string, labels []string, b *basis.Basis, coeffs, upper []float64, split *float64, rmse float64) (*Result, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil basis", errs.ErrInvalidDegree)
	}
	if len(labels) != b.Vars() {
		return nil, fmt.Errorf("%w: %d labels for %d variables", errs.ErrDimensionMismatch, len(labels), b.Vars())
	}
	if len(coeffs) != b.Len() {
		return nil, fmt.Errorf("%w: %d coefficients, basis size %d", errs.ErrDimensionMismatch, len(coeffs), b.Len())
	}
	if upper != nil && len(upper) != b.Len() {
		return nil, fmt.Errorf("%w: %d upper coefficients, basis size %d", errs.ErrDimensionMismatch, len(upper), b.Len())
	}
	if upper != nil && split == nil {
		return nil, fmt.Errorf("%w: two pieces without a split value", errs.ErrUnderconstrainedSplit)
	}

	r := &Result{
		name:   name,
		labels: slices.Clone(labels),
		b:      b,
		coeffs: slices.Clone(coeffs),
		upper:  slices.Clone(upper),
		rmse:   rmse,
	}
	if split != nil {
		r.split = *split
		r.hasSplit = true
	}

	return r, nil
}

// Name returns the name given to the fit, possibly empty.
func (r *Result) Name() string { return r.name }

// Labels returns a copy of the variable labels.
func (r *Result) Labels() []string { return slices.Clone(r.labels) }

// Basis returns the basis the coefficients are indexed by.
func (r *Result) Basis() *basis.Basis { return r.b }

// Degree returns the basis degree.
func (r *Result) Degree() int { return r.b.Degree() }

// Coeffs returns a copy of the coefficient vector (the lower piece of a
// piecewise fit).
func (r *Result) Coeffs() []float64 { return slices.Clone(r.coeffs) }

// UpperCoeffs returns a copy of the upper-piece coefficients, or nil for a
// plain fit.
func (r *Result) UpperCoeffs() []float64 { return slices.Clone(r.upper) }

// Split returns the split value and whether the result is piecewise.
func (r *Result) Split() (float64, bool) { return r.split, r.hasSplit }

// RMSE returns the root mean square error of the fit over its samples.
func (r *Result) RMSE() float64 { return r.rmse }

// ResidualNorm returns the 2-norm of the least-squares residual.
func (r *Result) ResidualNorm() float64 { return r.resNorm }

// Unreliable reports whether the solver flagged the system as near-singular.
// The coefficients are still usable but callers should threshold on RMSE.
func (r *Result) Unreliable() bool { return r.unrel }

// Timing returns the per-phase duration breakdown.
func (r *Result) Timing() Timing { return r.timing }

// Eval evaluates the fitted function at the given point. Piecewise results
// dispatch on the first coordinate: x₁ ≤ split selects the lower piece.
// A point with the wrong number of coordinates evaluates to NaN.
func (r *Result) Eval(point ...float64) float64 {
	coeffs := r.coeffs
	if r.hasSplit && len(point) > 0 && point[0] > r.split {
		coeffs = r.upper
	}

	v, err := r.b.Eval(coeffs, point)
	if err != nil {
		return math.NaN()
	}

	return v
}

// String returns a one-line summary of the result.
func (r *Result) String() string {
	if r.hasSplit {
		return fmt.Sprintf("Result{Name: %s, Degree: %d, Split: %.4g, RMSE: %.4g}", r.name, r.b.Degree(), r.split, r.rmse)
	}

	return fmt.Sprintf("Result{Name: %s, Degree: %d, RMSE: %.4g}", r.name, r.b.Degree(), r.rmse)
}

// ResultSet is an append-only, order-preserving collection of results keyed
// by case identifier, all sharing the same variable labels. It groups the
// fitted surfaces of one physical configuration, one entry per coefficient.
type ResultSet struct {
	labels []string
	order  []string
	byCase map[string]*Result
}

// NewResultSet creates an empty collection whose entries must carry the
// given variable labels.
func NewResultSet(labels []string) *ResultSet {
	return &ResultSet{
		labels: slices.Clone(labels),
		byCase: make(map[string]*Result),
	}
}

// Add appends a result under the given case identifier. It rejects duplicate
// cases and results whose labels differ from the set's labels.
func (s *ResultSet) Add(caseID string, r *Result) error {
	if _, dup := s.byCase[caseID]; dup {
		return fmt.Errorf("duplicate case %q", caseID)
	}
	if !slices.Equal(r.labels, s.labels) {
		return fmt.Errorf("%w: case %q labels %v, set labels %v", errs.ErrDimensionMismatch, caseID, r.labels, s.labels)
	}

	s.order = append(s.order, caseID)
	s.byCase[caseID] = r

	return nil
}

// Get returns the result for a case identifier.
func (s *ResultSet) Get(caseID string) (*Result, bool) {
	r, ok := s.byCase[caseID]
	return r, ok
}

// Cases returns the case identifiers in insertion order.
func (s *ResultSet) Cases() []string { return slices.Clone(s.order) }

// Labels returns a copy of the shared variable labels.
func (s *ResultSet) Labels() []string { return slices.Clone(s.labels) }

// Len returns the number of results in the set.
func (s *ResultSet) Len() int { return len(s.order) }
