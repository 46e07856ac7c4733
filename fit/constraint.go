package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/errs"
)

// zeroPinned returns the indices of basis terms whose coefficients must be
// zero for the fitted function to vanish on the hyperplane marked by y0.
//
// Each term is evaluated symbolically at y0: free (NaN) axes contribute a
// factor of 1, every constrained axis contributes its value raised to the
// term's exponent. A term that evaluates to zero carries a factor of the
// marked variable and already vanishes on the whole hyperplane, so it is
// dropped from the constraint set; a term that stays nonzero would survive
// the restriction and its coefficient is pinned to zero. With y0ⱼ = 0 on the
// constrained axes this enforces f(…, xⱼ = 0, …) = 0 for every value of the
// free variables.
//
// A nil or all-free y0 pins nothing.
func zeroPinned(b *basis.Basis, y0 []float64) ([]int, error) {
	if y0 == nil {
		return nil, nil
	}
	if len(y0) != b.Vars() {
		return nil, fmt.Errorf("%w: zero point has %d values, basis has %d variables", errs.ErrDimensionMismatch, len(y0), b.Vars())
	}

	free := true
	for _, v := range y0 {
		if !math.IsNaN(v) {
			free = false
			break
		}
	}
	if free {
		return nil, nil
	}

	var pinned []int
	for i := 0; i < b.Len(); i++ {
		term := b.Term(i)
		v := 1.0
		for j, e := range term {
			if math.IsNaN(y0[j]) {
				continue
			}
			for ; e > 0; e-- {
				v *= y0[j]
			}
		}
		if v != 0 {
			pinned = append(pinned, i)
		}
	}

	return pinned, nil
}

// pinRows turns pinned term indices into identity equality rows q[i] = 0
// over a coefficient vector of the given width. For a piecewise fit the same
// indices are pinned in both pieces via the offsets.
func pinRows(pinned []int, width int, offsets []int) (*mat.Dense, *mat.VecDense) {
	if len(pinned) == 0 {
		return nil, nil
	}

	rows := len(pinned) * len(offsets)
	aeq := mat.NewDense(rows, width, nil)
	j := 0
	for _, off := range offsets {
		for _, i := range pinned {
			aeq.Set(j, off+i, 1)
			j++
		}
	}

	return aeq, mat.NewVecDense(rows, nil)
}

// continuityRows builds the equality rows forcing two pieces that share the
// basis to agree on the whole hyperplane x₁ = x0. Terms are grouped by their
// exponents on the non-split variables; within a group only the
// split-variable component differs, so evaluating it at x0 and equating the
// grouped sums of the two pieces matches the restricted polynomials
// coefficient by coefficient. For one variable there is a single group and
// the row reduces to [p(x0), −p(x0)].
//
// The stacked coefficient vector is [qa; qb] with r columns per piece.
func continuityRows(b *basis.Basis, x0 float64) (*mat.Dense, *mat.VecDense, error) {
	if b.Degree() == 0 {
		return nil, nil, fmt.Errorf("%w: continuity on a degree-0 basis is trivial", errs.ErrUnderconstrainedSplit)
	}

	r := b.Len()
	groups := make(map[string]int)
	var order []string
	rowOf := make([]int, r)

	for i := 0; i < r; i++ {
		key := groupKey(b.Term(i))
		g, ok := groups[key]
		if !ok {
			g = len(order)
			groups[key] = g
			order = append(order, key)
		}
		rowOf[i] = g
	}

	aeq := mat.NewDense(len(order), 2*r, nil)
	for i := 0; i < r; i++ {
		v := 1.0
		for e := b.Term(i)[0]; e > 0; e-- {
			v *= x0
		}
		aeq.Set(rowOf[i], i, v)
		aeq.Set(rowOf[i], r+i, -v)
	}

	return aeq, mat.NewVecDense(len(order), nil), nil
}

// groupKey identifies the exponent tuple on the non-split variables.
func groupKey(t basis.Term) string {
	key := make([]byte, 0, 2*len(t))
	for _, e := range t[1:] {
		key = append(key, byte(e), ':')
	}

	return string(key)
}

// stackConstraints concatenates constraint blocks row-wise. Nil blocks are
// skipped; an entirely empty set yields (nil, nil).
func stackConstraints(width int, blocks ...*mat.Dense) (*mat.Dense, *mat.VecDense) {
	rows := 0
	for _, blk := range blocks {
		if blk != nil {
			n, _ := blk.Dims()
			rows += n
		}
	}
	if rows == 0 {
		return nil, nil
	}

	aeq := mat.NewDense(rows, width, nil)
	j := 0
	for _, blk := range blocks {
		if blk == nil {
			continue
		}
		n, _ := blk.Dims()
		for i := 0; i < n; i++ {
			copy(aeq.RawRowView(j), blk.RawRowView(i))
			j++
		}
	}

	return aeq, mat.NewVecDense(rows, nil)
}
