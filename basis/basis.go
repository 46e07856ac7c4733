// Package basis builds the ordered monomial bases used as regression
// features by the fit package.
//
// A basis is fixed once constructed: the same (degree, vars, policy) request
// always produces the same terms in the same order, since coefficient
// vectors and constraint rows index terms positionally.
//
// # Basic Usage
//
//	b, err := basis.New(2, 2, basis.TotalDegree)
//	if err != nil {
//	    return err
//	}
//	row := make([]float64, b.Len())
//	b.Row(row, []float64{x, y}) // [1, y, x, y², x·y, x²]
//
// Terms are ordered by ascending total degree, then lexicographically on the
// exponent tuple, so the single-variable basis is always 1, x, x², …, xⁿ.
package basis

import (
	"fmt"
	"slices"

	"github.com/Yaojunyu0205/pwpfit/errs"
)

// Policy selects which cross terms a multivariate basis contains.
type Policy uint8

const (
	// TotalDegree keeps terms whose exponents sum to at most the degree.
	TotalDegree Policy = 0x1
	// PerVariable keeps the full tensor basis: every exponent is bounded by
	// the degree independently.
	PerVariable Policy = 0x2
	// Additive keeps only single-variable terms, yielding a model with no
	// cross terms at all.
	Additive Policy = 0x3
)

func (p Policy) String() string {
	switch p {
	case TotalDegree:
		return "TotalDegree"
	case PerVariable:
		return "PerVariable"
	case Additive:
		return "Additive"
	default:
		return "Unknown"
	}
}

func (p Policy) valid() bool {
	return p == TotalDegree || p == PerVariable || p == Additive
}

// Term is the multi-index of one monomial: one non-negative exponent per
// variable.
type Term []int

// TotalDegree returns the sum of the term's exponents.
func (t Term) TotalDegree() int {
	sum := 0
	for _, e := range t {
		sum += e
	}

	return sum
}

// Basis is an immutable ordered sequence of monomial terms.
type Basis struct {
	degree int
	vars   int
	policy Policy
	terms  []Term
}

// New builds the basis for the given degree, variable count and cross-term
// policy. The constant term is always present.
//
// Parameters:
//   - degree: Maximum degree (total or per-variable, depending on policy)
//   - vars: Number of input variables (m ≥ 1)
//   - policy: Cross-term policy (TotalDegree, PerVariable, Additive)
//
// Returns:
//   - *Basis: The ordered basis
//   - error: errs.ErrInvalidDegree when degree < 0, vars < 1, or the policy
//     is unknown
func New(degree, vars int, policy Policy) (*Basis, error) {
	if degree < 0 {
		return nil, fmt.Errorf("%w: degree %d", errs.ErrInvalidDegree, degree)
	}
	if vars < 1 {
		return nil, fmt.Errorf("%w: %d variables", errs.ErrInvalidDegree, vars)
	}
	if !policy.valid() {
		return nil, fmt.Errorf("%w: unknown policy %d", errs.ErrInvalidDegree, policy)
	}

	return &Basis{
		degree: degree,
		vars:   vars,
		policy: policy,
		terms:  enumerate(degree, vars, policy),
	}, nil
}

// enumerate lists every admissible exponent tuple in the canonical order:
// ascending total degree, then lexicographic on the tuple.
func enumerate(degree, vars int, policy Policy) []Term {
	var terms []Term
	cur := make(Term, vars)

	for {
		if admissible(cur, degree, policy) {
			terms = append(terms, slices.Clone(cur))
		}

		// Mixed-radix increment over [0, degree] per axis.
		i := vars - 1
		for i >= 0 && cur[i] == degree {
			cur[i] = 0
			i--
		}
		if i < 0 {
			break
		}
		cur[i]++
	}

	slices.SortStableFunc(terms, func(a, b Term) int {
		if d := a.TotalDegree() - b.TotalDegree(); d != 0 {
			return d
		}

		return slices.Compare(a, b)
	})

	return terms
}

func admissible(t Term, degree int, policy Policy) bool {
	switch policy {
	case TotalDegree:
		return t.TotalDegree() <= degree
	case PerVariable:
		return true // the counter already bounds each exponent
	case Additive:
		nonzero := 0
		for _, e := range t {
			if e > 0 {
				nonzero++
			}
		}

		return nonzero <= 1
	default:
		return false
	}
}

// Count returns the closed-form size of the basis for the given request,
// without enumerating it. It returns 0 for invalid requests.
func Count(degree, vars int, policy Policy) int {
	if degree < 0 || vars < 1 {
		return 0
	}

	switch policy {
	case TotalDegree:
		// C(degree+vars, vars)
		n := 1
		for i := 1; i <= vars; i++ {
			n = n * (degree + i) / i
		}

		return n
	case PerVariable:
		n := 1
		for i := 0; i < vars; i++ {
			n *= degree + 1
		}

		return n
	case Additive:
		return degree*vars + 1
	default:
		return 0
	}
}

// Len returns the number of terms in the basis.
func (b *Basis) Len() int { return len(b.terms) }

// Degree returns the degree the basis was built for.
func (b *Basis) Degree() int { return b.degree }

// Vars returns the number of input variables.
func (b *Basis) Vars() int { return b.vars }

// Policy returns the cross-term policy the basis was built with.
func (b *Basis) Policy() Policy { return b.policy }

// Terms returns a copy of the ordered term list.
func (b *Basis) Terms() []Term {
	terms := make([]Term, len(b.terms))
	for i, t := range b.terms {
		terms[i] = slices.Clone(t)
	}

	return terms
}

// Term returns the i-th term. The returned slice must not be modified.
func (b *Basis) Term(i int) Term { return b.terms[i] }

// Row evaluates every term at the given point into dst, which must have
// length Len(). The point must have one value per variable.
//
// Each term costs one multiplication per unit of exponent, so a full row is
// O(r·m·degree) with small constants and no allocation.
func (b *Basis) Row(dst, point []float64) error {
	if len(dst) != len(b.terms) {
		return fmt.Errorf("%w: dst length %d, basis size %d", errs.ErrDimensionMismatch, len(dst), len(b.terms))
	}
	if len(point) != b.vars {
		return fmt.Errorf("%w: point has %d values, basis has %d variables", errs.ErrDimensionMismatch, len(point), b.vars)
	}

	for i, t := range b.terms {
		dst[i] = evalTerm(t, point)
	}

	return nil
}

// Eval evaluates the polynomial with the given coefficients at point.
// Coefficient order follows the basis term order.
func (b *Basis) Eval(coeffs, point []float64) (float64, error) {
	if len(coeffs) != len(b.terms) {
		return 0, fmt.Errorf("%w: %d coefficients, basis size %d", errs.ErrDimensionMismatch, len(coeffs), len(b.terms))
	}
	if len(point) != b.vars {
		return 0, fmt.Errorf("%w: point has %d values, basis has %d variables", errs.ErrDimensionMismatch, len(point), b.vars)
	}

	sum := 0.0
	for i, t := range b.terms {
		sum += coeffs[i] * evalTerm(t, point)
	}

	return sum, nil
}

// evalTerm computes the product of per-variable integer powers by repeated
// multiplication, which stays exact for the small exponents in play.
func evalTerm(t Term, point []float64) float64 {
	v := 1.0
	for j, e := range t {
		for ; e > 0; e-- {
			v *= point[j]
		}
	}

	return v
}
