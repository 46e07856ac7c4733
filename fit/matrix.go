package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/errs"
)

// assemble builds the k×r design matrix and the k-vector of targets from
// already-cleaned samples. Row j is the basis evaluated at X[j], and both
// the row and its target are scaled by W[j], so the solve minimizes the
// weighted residuals directly. Weight 1 is the explicit no-weighting case.
func assemble(b *basis.Basis, s Samples) (*mat.Dense, *mat.VecDense, error) {
	k := s.Len()
	r := b.Len()
	if k == 0 {
		return nil, nil, fmt.Errorf("%w: no rows left after dropping NaN targets", errs.ErrDimensionMismatch)
	}

	c := mat.NewDense(k, r, nil)
	d := mat.NewVecDense(k, nil)

	for j := 0; j < k; j++ {
		row := c.RawRowView(j)
		if err := b.Row(row, s.X[j]); err != nil {
			return nil, nil, err
		}

		w := s.W[j]
		if w != 1 {
			for i := range row {
				row[i] *= w
			}
		}
		d.SetVec(j, s.Z[j]*w)
	}

	return c, d, nil
}

// blockDiag stacks two design matrices into the block-diagonal system of a
// piecewise fit: [Ca 0; 0 Cb] with the targets concatenated.
func blockDiag(ca *mat.Dense, da *mat.VecDense, cb *mat.Dense, db *mat.VecDense) (*mat.Dense, *mat.VecDense) {
	ka, r := ca.Dims()
	kb, _ := cb.Dims()

	c := mat.NewDense(ka+kb, 2*r, nil)
	d := mat.NewVecDense(ka+kb, nil)

	for j := 0; j < ka; j++ {
		copy(c.RawRowView(j)[:r], ca.RawRowView(j))
		d.SetVec(j, da.AtVec(j))
	}
	for j := 0; j < kb; j++ {
		copy(c.RawRowView(ka + j)[r:], cb.RawRowView(j))
		d.SetVec(ka+j, db.AtVec(j))
	}

	return c, d
}
