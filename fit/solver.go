package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Yaojunyu0205/pwpfit/errs"
)

// Algorithm selects how the (reduced) least-squares system is solved.
type Algorithm uint8

const (
	// AlgorithmQR solves the reduced system by QR factorization. It is the
	// default and matches the usual full-rank case.
	AlgorithmQR Algorithm = 0x1
	// AlgorithmSVD solves through a truncated SVD pseudo-inverse, tolerating
	// rank-deficient design matrices at extra cost.
	AlgorithmSVD Algorithm = 0x2
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmQR:
		return "QR"
	case AlgorithmSVD:
		return "SVD"
	default:
		return "Unknown"
	}
}

// SolverConfig carries the numerical settings of the constrained solve.
type SolverConfig struct {
	// Algorithm picks the least-squares method. Zero value means QR.
	Algorithm Algorithm
	// Bound caps the 1-norm of the coefficient vector. A solution beyond the
	// bound is reported as ill-conditioned; the cap is a stability guard, not
	// a physically meaningful limit. Zero value means 1e4.
	Bound float64
	// Tol is the relative tolerance for the equality-constraint residual and
	// for rank decisions. Zero value means 1e-8.
	Tol float64
}

// DefaultSolverConfig returns the documented default configuration:
// QR solve, coefficient bound 1e4, tolerance 1e-8.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{Algorithm: AlgorithmQR, Bound: 1e4, Tol: 1e-8}
}

func (cfg SolverConfig) withDefaults() SolverConfig {
	if cfg.Algorithm == 0 {
		cfg.Algorithm = AlgorithmQR
	}
	if cfg.Bound <= 0 {
		cfg.Bound = 1e4
	}
	if cfg.Tol <= 0 {
		cfg.Tol = 1e-8
	}

	return cfg
}

// solveConstrained minimizes ‖C·q − d‖₂ subject to Aeq·q = beq.
//
// Equality constraints are eliminated through the SVD of Aeq: the
// minimum-norm particular solution satisfies the constraints, the remaining
// freedom lives in the null space, and the reduced unconstrained problem is
// solved there. With no constraints the system is solved directly.
//
// The solution is verified after the solve: non-finite coefficients, an
// equality residual beyond tolerance, or a coefficient 1-norm beyond the
// bound all yield errs.ErrIllConditioned. A near-singular system that still
// produced a solution is returned with unreliable set instead.
func solveConstrained(c *mat.Dense, d *mat.VecDense, aeq *mat.Dense, beq *mat.VecDense, cfg SolverConfig) (q []float64, resNorm float64, unreliable bool, err error) {
	cfg = cfg.withDefaults()
	_, width := c.Dims()

	var sol *mat.VecDense
	if aeq == nil {
		sol, unreliable, err = lsq(c, d, cfg)
		if err != nil {
			return nil, 0, false, err
		}
	} else {
		sol, unreliable, err = eliminate(c, d, aeq, beq, cfg)
		if err != nil {
			return nil, 0, false, err
		}
	}

	q = make([]float64, width)
	for i := range q {
		q[i] = sol.AtVec(i)
	}

	var res mat.VecDense
	res.MulVec(c, sol)
	res.SubVec(&res, d)
	resNorm = mat.Norm(&res, 2)

	if err := verify(q, aeq, beq, sol, cfg); err != nil {
		return q, resNorm, true, err
	}

	return q, resNorm, unreliable, nil
}

// eliminate reduces the equality-constrained problem to an unconstrained one
// on the null space of Aeq and solves it there.
func eliminate(c *mat.Dense, d *mat.VecDense, aeq *mat.Dense, beq *mat.VecDense, cfg SolverConfig) (*mat.VecDense, bool, error) {
	rows, width := aeq.Dims()

	var svd mat.SVD
	if !svd.Factorize(aeq, mat.SVDFull) {
		return nil, false, fmt.Errorf("%w: SVD of the constraint matrix failed", errs.ErrIllConditioned)
	}

	s := svd.Values(nil)
	rank := numericalRank(s, rows, width)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// Minimum-norm particular solution via the truncated pseudo-inverse.
	q0 := mat.NewVecDense(width, nil)
	for i := 0; i < rank; i++ {
		coef := mat.Dot(u.ColView(i), beq) / s[i]
		q0.AddScaledVec(q0, coef, v.ColView(i))
	}

	if rank == width {
		// The constraints determine every coefficient.
		return q0, false, nil
	}

	// Reduced problem over the null-space basis N: C·(q0 + N·z) ≈ d.
	null := v.Slice(0, width, rank, width)

	var cn mat.Dense
	cn.Mul(c, null)

	var cq0 mat.VecDense
	cq0.MulVec(c, q0)

	k, _ := c.Dims()
	rhs := mat.NewVecDense(k, nil)
	rhs.SubVec(d, &cq0)

	z, unreliable, err := lsq(&cn, rhs, cfg)
	if err != nil {
		return nil, false, err
	}

	var nz mat.VecDense
	nz.MulVec(null, z)
	q0.AddVec(q0, &nz)

	return q0, unreliable, nil
}

// lsq solves the unconstrained least-squares problem per the configured
// algorithm. A near-singular QR solve keeps its solution but is flagged.
func lsq(a mat.Matrix, b *mat.VecDense, cfg SolverConfig) (*mat.VecDense, bool, error) {
	if cfg.Algorithm == AlgorithmSVD {
		return lsqSVD(a, b, cfg)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return &x, true, nil
		}

		return nil, false, fmt.Errorf("%w: %v", errs.ErrIllConditioned, err)
	}

	return &x, false, nil
}

func lsqSVD(a mat.Matrix, b *mat.VecDense, cfg SolverConfig) (*mat.VecDense, bool, error) {
	rows, cols := a.Dims()

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false, fmt.Errorf("%w: SVD of the design matrix failed", errs.ErrIllConditioned)
	}

	s := svd.Values(nil)
	rank := numericalRank(s, rows, cols)
	if rank == 0 {
		return mat.NewVecDense(cols, nil), true, nil
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	x := mat.NewVecDense(cols, nil)
	for i := 0; i < rank; i++ {
		coef := mat.Dot(u.ColView(i), b) / s[i]
		x.AddScaledVec(x, coef, v.ColView(i))
	}

	return x, rank < min(rows, cols), nil
}

// numericalRank counts singular values above the standard threshold
// eps·max(dims)·s₀.
func numericalRank(s []float64, rows, cols int) int {
	if len(s) == 0 || s[0] == 0 {
		return 0
	}

	tol := float64(max(rows, cols)) * s[0] * 2.220446049250313e-16
	rank := 0
	for _, v := range s {
		if v > tol {
			rank++
		}
	}

	return rank
}

// verify rejects solutions the caller must not silently accept.
func verify(q []float64, aeq *mat.Dense, beq, sol *mat.VecDense, cfg SolverConfig) error {
	for _, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coefficient %v", errs.ErrIllConditioned, v)
		}
	}

	if norm1 := floats.Norm(q, 1); norm1 > cfg.Bound {
		return fmt.Errorf("%w: coefficient 1-norm %.4g exceeds bound %.4g", errs.ErrIllConditioned, norm1, cfg.Bound)
	}

	if aeq == nil {
		return nil
	}

	var res mat.VecDense
	res.MulVec(aeq, sol)
	res.SubVec(&res, beq)
	eqRes := mat.Norm(&res, math.Inf(1))
	limit := cfg.Tol * math.Max(1, mat.Norm(beq, math.Inf(1)))
	if eqRes > limit {
		return fmt.Errorf("%w: equality residual %.4g exceeds %.4g", errs.ErrIllConditioned, eqRes, limit)
	}

	return nil
}
