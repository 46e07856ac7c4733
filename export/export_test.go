package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/fit"
)

func plainResult(t *testing.T) *fit.Result {
	t.Helper()

	b, err := basis.New(2, 2, basis.TotalDegree)
	require.NoError(t, err)
	// Term order: (0,0) (0,1) (1,0) (0,2) (1,1) (2,0).
	coeffs := []float64{1, 0, 2, 0, 0, -0.5}
	r, err := fit.NewResult("cl", []string{"alpha", "mach"}, b, coeffs, nil, nil, 0)
	require.NoError(t, err)

	return r
}

func piecewiseResult(t *testing.T) *fit.Result {
	t.Helper()

	b, err := basis.New(1, 1, basis.TotalDegree)
	require.NoError(t, err)
	split := 0.5
	r, err := fit.NewResult("cd", []string{"x"}, b, []float64{0, 1}, []float64{0, 2}, &split, 0)
	require.NoError(t, err)

	return r
}

func TestText(t *testing.T) {
	require.Equal(t, "cl(alpha, mach) = 1 + 2*alpha - 0.5*alpha^2", Text(plainResult(t)))
}

func TestText_Piecewise(t *testing.T) {
	got := Text(piecewiseResult(t))
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "cd(x) = 1*x  (x <= 0.5)", lines[0])
	require.Equal(t, "cd(x) = 2*x  (x > 0.5)", lines[1])
}

func TestText_ZeroPolynomial(t *testing.T) {
	b, err := basis.New(1, 1, basis.TotalDegree)
	require.NoError(t, err)
	r, err := fit.NewResult("", []string{"x"}, b, []float64{0, 0}, nil, nil, 0)
	require.NoError(t, err)

	require.Equal(t, "f(x) = 0", Text(r))
}

func TestLaTeX(t *testing.T) {
	got := LaTeX(plainResult(t))
	require.Equal(t, "cl(alpha, mach) = 1 + 2 \\, alpha - 0.5 \\, alpha^{2}", got)
}

func TestLaTeX_Piecewise(t *testing.T) {
	got := LaTeX(piecewiseResult(t))
	require.Contains(t, got, "\\begin{cases}")
	require.Contains(t, got, "x \\le 0.5")
	require.Contains(t, got, "x > 0.5")
	require.Contains(t, got, "\\end{cases}")
}

func TestGoSource(t *testing.T) {
	got := GoSource(plainResult(t), "liftCoeff")
	require.Contains(t, got, "func liftCoeff(alpha, mach float64) float64 {")
	require.Contains(t, got, "return 1 + 2*alpha + -0.5*alpha*alpha")
}

func TestGoSource_Piecewise(t *testing.T) {
	got := GoSource(piecewiseResult(t), "")
	require.Contains(t, got, "func eval(x float64) float64 {")
	require.Contains(t, got, "if x <= 0.5 {")
	require.Contains(t, got, "return 1*x")
	require.Contains(t, got, "return 2*x")
}
