package fit

import (
	"fmt"
	"math"

	"github.com/Yaojunyu0205/pwpfit/errs"
)

// Samples is an ordered set of data rows: one input tuple and one target per
// row, with optional per-row weights. A nil W means every row has weight 1.
type Samples struct {
	// X holds one input tuple per row; all rows must have the same length.
	X [][]float64
	// Z holds one target per row.
	Z []float64
	// W optionally holds one weight per row.
	W []float64
}

// Len returns the number of rows.
func (s Samples) Len() int { return len(s.X) }

// Vars returns the number of input variables, 0 for an empty set.
func (s Samples) Vars() int {
	if len(s.X) == 0 {
		return 0
	}

	return len(s.X[0])
}

// validate checks the row-count invariants eagerly, before any matrix is
// assembled.
func (s Samples) validate() error {
	if len(s.X) == 0 {
		return fmt.Errorf("%w: no sample rows", errs.ErrDimensionMismatch)
	}
	if len(s.Z) != len(s.X) {
		return fmt.Errorf("%w: %d input rows, %d targets", errs.ErrDimensionMismatch, len(s.X), len(s.Z))
	}
	if s.W != nil && len(s.W) != len(s.X) {
		return fmt.Errorf("%w: %d input rows, %d weights", errs.ErrDimensionMismatch, len(s.X), len(s.W))
	}

	vars := len(s.X[0])
	for i, row := range s.X {
		if len(row) != vars {
			return fmt.Errorf("%w: row %d has %d values, row 0 has %d", errs.ErrDimensionMismatch, i, len(row), vars)
		}
	}

	return nil
}

// clean returns the samples with NaN-target rows removed and weights
// resolved: per-row weights from W when present, otherwise the scalar
// weight broadcast to every row. Removal is a documented data-cleaning
// policy, not an error.
func (s Samples) clean(scalar float64) Samples {
	w := s.W
	if w == nil {
		w = make([]float64, len(s.X))
		for i := range w {
			w[i] = scalar
		}
	}

	kept := 0
	for _, z := range s.Z {
		if !math.IsNaN(z) {
			kept++
		}
	}
	if kept == len(s.Z) {
		return Samples{X: s.X, Z: s.Z, W: w}
	}

	out := Samples{
		X: make([][]float64, 0, kept),
		Z: make([]float64, 0, kept),
		W: make([]float64, 0, kept),
	}
	for i, z := range s.Z {
		if math.IsNaN(z) {
			continue
		}
		out.X = append(out.X, s.X[i])
		out.Z = append(out.Z, z)
		out.W = append(out.W, w[i])
	}

	return out
}
