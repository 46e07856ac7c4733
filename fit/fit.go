package fit

import (
	"math"
	"time"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/internal/options"
)

// Fit fits a polynomial of the given degree to the samples by constrained
// linear least squares.
//
// Parameters:
//   - samples: Input tuples, targets and optional per-row weights
//   - degree: Polynomial degree (interpretation depends on the policy)
//   - opts: WithZeroPoint, WithWeight, WithName, WithLabels, WithPolicy,
//     WithSolver
//
// Returns:
//   - *Result: The immutable fitted polynomial
//   - error: errs.ErrInvalidDegree, errs.ErrDimensionMismatch or
//     errs.ErrIllConditioned, labeled with the failing check
//
// Rows with a NaN target are dropped before solving. The goodness-of-fit is
// reported as RMSE over the remaining rows.
func Fit(samples Samples, degree int, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := samples.validate(); err != nil {
		return nil, err
	}
	vars := samples.Vars()

	labels, err := cfg.resolveLabels(vars)
	if err != nil {
		return nil, err
	}

	b, err := basis.New(degree, vars, cfg.policy)
	if err != nil {
		return nil, err
	}

	pinned, err := zeroPinned(b, cfg.zeroPoint)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cleaned := samples.clean(cfg.weight)
	c, d, err := assemble(b, cleaned)
	if err != nil {
		return nil, err
	}
	aeq, beq := pinRows(pinned, b.Len(), []int{0})
	assembleTime := time.Since(start)

	start = time.Now()
	q, resNorm, unreliable, err := solveConstrained(c, d, aeq, beq, cfg.solver)
	if err != nil {
		return nil, err
	}
	solveTime := time.Since(start)

	return &Result{
		name:    cfg.name,
		labels:  labels,
		b:       b,
		coeffs:  q,
		rmse:    rmse(resNorm, cleaned.Len()),
		resNorm: resNorm,
		unrel:   unreliable,
		timing:  Timing{Assemble: assembleTime, Solve: solveTime},
	}, nil
}

// rmse converts a residual 2-norm into the root mean square error over k
// rows.
func rmse(resNorm float64, k int) float64 {
	if k == 0 {
		return 0
	}

	return resNorm / math.Sqrt(float64(k))
}
