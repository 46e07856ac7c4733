package fit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Yaojunyu0205/pwpfit/errs"
	"github.com/Yaojunyu0205/pwpfit/rootfind"
)

func TestFitPiecewise_SuppliedSplit(t *testing.T) {
	// y = x for x ≤ 0 and y = 2x for x > 0, split supplied at 0.
	lower := Samples{X: [][]float64{{-2}, {-1}, {0}}, Z: []float64{-2, -1, 0}}
	upper := Samples{X: [][]float64{{1}, {2}}, Z: []float64{2, 4}}

	res, split, err := FitPiecewise(lower, upper, 1, WithSplit(0))
	require.NoError(t, err)
	require.Zero(t, split)

	lo, up := res.Coeffs(), res.UpperCoeffs()
	require.InDelta(t, 0, lo[0], 1e-9, "lower intercept")
	require.InDelta(t, 1, lo[1], 1e-9, "lower slope")
	require.InDelta(t, 0, up[0], 1e-9, "upper intercept")
	require.InDelta(t, 2, up[1], 1e-9, "upper slope")
	require.InDelta(t, 0, res.RMSE(), 1e-9)

	// Eval dispatches on the split.
	require.InDelta(t, -1.5, res.Eval(-1.5), 1e-9)
	require.InDelta(t, 3, res.Eval(1.5), 1e-9)

	got, ok := res.Split()
	require.True(t, ok)
	require.Zero(t, got)
}

func TestFitPiecewise_ContinuityAtSplit(t *testing.T) {
	// Noisy data with mismatched pieces: whatever the solver settles on, the
	// two pieces must agree at the split for any degree ≥ 1.
	lower := Samples{
		X: [][]float64{{-3}, {-2}, {-1}, {-0.5}, {0.2}},
		Z: []float64{4.1, 1.8, 0.9, 1.3, 2.2},
	}
	upper := Samples{
		X: [][]float64{{0.6}, {1}, {1.7}, {2.5}, {3}},
		Z: []float64{-0.4, 0.8, 2.9, 7.5, 11.1},
	}

	for degree := 1; degree <= 3; degree++ {
		res, split, err := FitPiecewise(lower, upper, degree, WithSplit(0.4))
		require.NoError(t, err)
		require.InDelta(t, 0.4, split, 1e-12)

		b := res.Basis()
		at := func(coeffs []float64) float64 {
			v, err := b.Eval(coeffs, []float64{split})
			require.NoError(t, err)
			return v
		}
		require.InDelta(t, at(res.Coeffs()), at(res.UpperCoeffs()), 1e-8, "degree %d", degree)
	}
}

func TestFitPiecewise_BreakpointSearch(t *testing.T) {
	// Lower piece follows 1+x, upper follows 1−x; the natural breakpoint is
	// their intersection at 0, discovered without a supplied split.
	lower := Samples{X: [][]float64{{-3}, {-2}, {-1}}, Z: []float64{-2, -1, 0}}
	upper := Samples{X: [][]float64{{1}, {2}, {3}}, Z: []float64{0, -1, -2}}

	res, split, err := FitPiecewise(lower, upper, 1)
	require.NoError(t, err)
	require.InDelta(t, 0, split, 1e-8)
	require.InDelta(t, 0, res.RMSE(), 1e-8)
	require.Greater(t, res.Timing().Search, time.Duration(0))

	// Identical inputs rediscover the identical breakpoint.
	_, again, err := FitPiecewise(lower, upper, 1)
	require.NoError(t, err)
	require.Equal(t, split, again)
}

func TestFitPiecewise_ExplicitBracket(t *testing.T) {
	lower := Samples{X: [][]float64{{-3}, {-2}, {-1}}, Z: []float64{-2, -1, 0}}
	upper := Samples{X: [][]float64{{1}, {2}, {3}}, Z: []float64{0, -1, -2}}

	_, split, err := FitPiecewise(lower, upper, 1, WithSplitBracket(-0.5, 0.5))
	require.NoError(t, err)
	require.InDelta(t, 0, split, 1e-8)
}

func TestFitPiecewise_Surface(t *testing.T) {
	// z = x + y below x = 1 and z = 2x + y − 1 above; the pieces agree on
	// the whole hyperplane x = 1, and so must the fit.
	var lower, upper Samples
	for x := -1.0; x <= 1; x += 0.5 {
		for y := 0.0; y <= 2; y += 0.5 {
			lower.X = append(lower.X, []float64{x, y})
			lower.Z = append(lower.Z, x+y)
		}
	}
	for x := 1.5; x <= 3; x += 0.5 {
		for y := 0.0; y <= 2; y += 0.5 {
			upper.X = append(upper.X, []float64{x, y})
			upper.Z = append(upper.Z, 2*x+y-1)
		}
	}

	res, split, err := FitPiecewise(lower, upper, 2, WithSplit(1))
	require.NoError(t, err)
	require.InDelta(t, 1.0, split, 1e-12)
	require.InDelta(t, 0, res.RMSE(), 1e-8)

	b := res.Basis()
	for y := -2.0; y <= 4; y += 0.5 {
		va, err := b.Eval(res.Coeffs(), []float64{split, y})
		require.NoError(t, err)
		vb, err := b.Eval(res.UpperCoeffs(), []float64{split, y})
		require.NoError(t, err)
		require.InDelta(t, va, vb, 1e-8, "y=%v", y)
	}

	require.InDelta(t, -0.5, res.Eval(-1, 0.5), 1e-8)
	require.InDelta(t, 4.5, res.Eval(2.5, 0.5), 1e-8)
}

func TestFitPiecewise_ZeroPointBothPieces(t *testing.T) {
	// Both pieces constrained to vanish at x₂ = 0.
	var lower, upper Samples
	for x := -2.0; x <= 0; x += 0.5 {
		for y := -2.0; y <= 2; y++ {
			lower.X = append(lower.X, []float64{x, y})
			lower.Z = append(lower.Z, x*y)
		}
	}
	for x := 0.5; x <= 2; x += 0.5 {
		for y := -2.0; y <= 2; y++ {
			upper.X = append(upper.X, []float64{x, y})
			upper.Z = append(upper.Z, 2*x*y)
		}
	}

	res, _, err := FitPiecewise(lower, upper, 2,
		WithSplit(0), WithZeroPoint(Free, 0))
	require.NoError(t, err)

	for x := -2.0; x <= 2; x += 0.3 {
		require.InDelta(t, 0, res.Eval(x, 0), 1e-9, "x=%v", x)
	}
}

func TestFitPiecewise_Errors(t *testing.T) {
	lower := Samples{X: [][]float64{{-1}, {0}}, Z: []float64{-1, 0}}
	upper := Samples{X: [][]float64{{1}, {2}}, Z: []float64{2, 4}}

	t.Run("degree zero split", func(t *testing.T) {
		_, _, err := FitPiecewise(lower, upper, 0, WithSplit(0))
		require.ErrorIs(t, err, errs.ErrUnderconstrainedSplit)
	})

	t.Run("variable count mismatch", func(t *testing.T) {
		bad := Samples{X: [][]float64{{1, 2}, {2, 3}}, Z: []float64{2, 4}}
		_, _, err := FitPiecewise(lower, bad, 1, WithSplit(0))
		require.ErrorIs(t, err, errs.ErrDimensionMismatch)
	})

	t.Run("search cannot bracket", func(t *testing.T) {
		// Parallel pieces never intersect.
		par := Samples{X: [][]float64{{1}, {2}}, Z: []float64{3, 4}}
		_, _, err := FitPiecewise(lower, par, 1,
			WithFinder(rootfind.Bisection{MaxIter: 16}))
		require.ErrorIs(t, err, errs.ErrNoConvergence)
	})
}

func TestFindBreakpoint(t *testing.T) {
	fa := func(x float64) float64 { return x * x }
	fb := func(x float64) float64 { return 2*x + 3 }

	// Intersections at -1 and 3; the bracket picks one.
	x0, err := FindBreakpoint(fa, fb, 0, 5, nil)
	require.NoError(t, err)
	require.InDelta(t, 3, x0, 1e-9)

	x0, err = FindBreakpoint(fa, fb, -2, 0, rootfind.Bisection{})
	require.NoError(t, err)
	require.InDelta(t, -1, x0, 1e-9)
}
