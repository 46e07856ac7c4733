package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/errs"
)

func TestZeroPinned(t *testing.T) {
	b, err := basis.New(2, 2, basis.TotalDegree)
	require.NoError(t, err)
	// Term order: (0,0) (0,1) (1,0) (0,2) (1,1) (2,0).

	t.Run("nil pins nothing", func(t *testing.T) {
		pinned, err := zeroPinned(b, nil)
		require.NoError(t, err)
		require.Empty(t, pinned)
	})

	t.Run("all free pins nothing", func(t *testing.T) {
		pinned, err := zeroPinned(b, []float64{math.NaN(), math.NaN()})
		require.NoError(t, err)
		require.Empty(t, pinned)
	})

	t.Run("second axis zero", func(t *testing.T) {
		// Terms without a y factor survive the restriction and are pinned.
		pinned, err := zeroPinned(b, []float64{Free, 0})
		require.NoError(t, err)
		require.Equal(t, []int{0, 2, 5}, pinned)
	})

	t.Run("both axes zero", func(t *testing.T) {
		// Only the constant survives at the origin.
		pinned, err := zeroPinned(b, []float64{0, 0})
		require.NoError(t, err)
		require.Equal(t, []int{0}, pinned)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := zeroPinned(b, []float64{0})
		require.ErrorIs(t, err, errs.ErrDimensionMismatch)
	})
}

func TestContinuityRows_SingleVariable(t *testing.T) {
	b, err := basis.New(2, 1, basis.TotalDegree)
	require.NoError(t, err)

	aeq, beq, err := continuityRows(b, 2)
	require.NoError(t, err)

	rows, cols := aeq.Dims()
	require.Equal(t, 1, rows, "m=1 has a single constraint row")
	require.Equal(t, 6, cols)

	// [p(x0), −p(x0)] with p(2) = [1, 2, 4].
	require.Equal(t, []float64{1, 2, 4, -1, -2, -4}, aeq.RawRowView(0))
	require.Zero(t, beq.AtVec(0))
}

func TestContinuityRows_Surface(t *testing.T) {
	b, err := basis.New(2, 2, basis.TotalDegree)
	require.NoError(t, err)

	aeq, _, err := continuityRows(b, 3)
	require.NoError(t, err)

	rows, cols := aeq.Dims()
	require.Equal(t, 3, rows, "one row per non-split exponent group")
	require.Equal(t, 12, cols)

	// Every row must encode qa-group(x0) − qb-group(x0) = 0.
	r := b.Len()
	for i := 0; i < rows; i++ {
		row := aeq.RawRowView(i)
		for j := 0; j < r; j++ {
			require.Equal(t, row[j], -row[r+j], "row %d column %d", i, j)
		}
	}
}

func TestContinuityRows_DegreeZero(t *testing.T) {
	b, err := basis.New(0, 1, basis.TotalDegree)
	require.NoError(t, err)

	_, _, err = continuityRows(b, 1)
	require.ErrorIs(t, err, errs.ErrUnderconstrainedSplit)
}

func TestPinRows(t *testing.T) {
	aeq, beq := pinRows([]int{1, 3}, 5, []int{0})
	rows, cols := aeq.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 5, cols)
	require.Equal(t, []float64{0, 1, 0, 0, 0}, aeq.RawRowView(0))
	require.Equal(t, []float64{0, 0, 0, 1, 0}, aeq.RawRowView(1))
	require.Zero(t, beq.AtVec(0))

	t.Run("both pieces", func(t *testing.T) {
		aeq, _ := pinRows([]int{1}, 6, []int{0, 3})
		rows, _ := aeq.Dims()
		require.Equal(t, 2, rows)
		require.Equal(t, []float64{0, 1, 0, 0, 0, 0}, aeq.RawRowView(0))
		require.Equal(t, []float64{0, 0, 0, 0, 1, 0}, aeq.RawRowView(1))
	})

	t.Run("empty", func(t *testing.T) {
		aeq, beq := pinRows(nil, 5, []int{0})
		require.Nil(t, aeq)
		require.Nil(t, beq)
	})
}
