package fit

import (
	"fmt"
	"math"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/errs"
	"github.com/Yaojunyu0205/pwpfit/internal/options"
	"github.com/Yaojunyu0205/pwpfit/rootfind"
)

// Free marks an axis of a zero point as unconstrained.
var Free = math.NaN()

// config collects every per-fit setting. The zero value plus defaults()
// reproduces the documented default behavior.
type config struct {
	name      string
	labels    []string
	policy    basis.Policy
	zeroPoint []float64
	weight    float64
	solver    SolverConfig

	// Piecewise-only settings.
	split      float64
	hasSplit   bool
	bracketLo  float64
	bracketHi  float64
	hasBracket bool
	finder     rootfind.Finder
}

func defaultConfig() *config {
	return &config{
		policy: basis.TotalDegree,
		weight: 1,
		solver: DefaultSolverConfig(),
		finder: rootfind.Bisection{},
	}
}

// Option is a functional option for a fit call.
type Option = options.Option[*config]

// WithName attaches a name to the fitted result, used by formatters.
func WithName(name string) Option {
	return options.NoError(func(c *config) {
		c.name = name
	})
}

// WithLabels sets the variable labels, one per input variable. The default
// labels are x1 … xm.
func WithLabels(labels ...string) Option {
	return options.NoError(func(c *config) {
		c.labels = labels
	})
}

// WithPolicy sets the cross-term policy of the basis. The default is
// basis.TotalDegree.
func WithPolicy(policy basis.Policy) Option {
	return options.NoError(func(c *config) {
		c.policy = policy
	})
}

// WithZeroPoint requires the fitted function to vanish on the hyperplane
// marked by y0: one value per variable, with Free (NaN) entries leaving the
// axis unconstrained. A nil or all-Free y0 adds no constraint.
func WithZeroPoint(y0 ...float64) Option {
	return options.NoError(func(c *config) {
		c.zeroPoint = y0
	})
}

// WithWeight applies the same weight to every sample row. Rows keep their
// individual Samples.W weights when those are present.
func WithWeight(w float64) Option {
	return options.New(func(c *config) error {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight %v must be positive and finite", errs.ErrDimensionMismatch, w)
		}
		c.weight = w

		return nil
	})
}

// WithSolver overrides the solver configuration for this fit.
func WithSolver(cfg SolverConfig) Option {
	return options.NoError(func(c *config) {
		c.solver = cfg
	})
}

// WithSplit fixes the split value of a piecewise fit, skipping the
// breakpoint search. Ignored by plain fits.
func WithSplit(x0 float64) Option {
	return options.New(func(c *config) error {
		if math.IsNaN(x0) || math.IsInf(x0, 0) {
			return fmt.Errorf("%w: split %v", errs.ErrUnderconstrainedSplit, x0)
		}
		c.split = x0
		c.hasSplit = true

		return nil
	})
}

// WithSplitBracket sets the search interval for the breakpoint search of a
// piecewise fit. Without it the bracket spans the gap between the last
// lower-piece sample and the first upper-piece sample.
func WithSplitBracket(lo, hi float64) Option {
	return options.New(func(c *config) error {
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return fmt.Errorf("%w: bracket [%v, %v]", errs.ErrNoConvergence, lo, hi)
		}
		c.bracketLo, c.bracketHi = lo, hi
		c.hasBracket = true

		return nil
	})
}

// WithFinder replaces the root finder used by the breakpoint search. The
// default is rootfind.Bisection with its default budget.
func WithFinder(f rootfind.Finder) Option {
	return options.NoError(func(c *config) {
		if f != nil {
			c.finder = f
		}
	})
}

// resolveLabels returns the configured labels or the x1…xm defaults,
// validating the count against the variable count.
func (c *config) resolveLabels(vars int) ([]string, error) {
	if c.labels == nil {
		labels := make([]string, vars)
		for i := range labels {
			labels[i] = fmt.Sprintf("x%d", i+1)
		}

		return labels, nil
	}
	if len(c.labels) != vars {
		return nil, fmt.Errorf("%w: %d labels for %d variables", errs.ErrDimensionMismatch, len(c.labels), vars)
	}

	return c.labels, nil
}
