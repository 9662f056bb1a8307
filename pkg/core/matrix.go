package core

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned when two operands disagree on their dimensions.
var ErrShape = errors.New("dimension mismatch")

// FromRows creates a dense matrix from a nested slice (copies the data).
// All rows must have the same length.
func FromRows(a [][]float64) (*mat.Dense, error) {
	r := len(a)
	if r == 0 {
		return nil, errors.New("no rows")
	}
	c := len(a[0])
	if c == 0 {
		return nil, errors.New("zero width rows")
	}
	data := make([]float64, 0, r*c)
	for i, row := range a {
		if len(row) != c {
			return nil, errors.Wrapf(ErrShape, "row %d has %d columns, want %d", i, len(row), c)
		}
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data), nil
}

// Clone deep copies m.
func Clone(m mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(m)
}

// Stack returns a on top of b. Both must have the same number of columns.
func Stack(a, b mat.Matrix) (*mat.Dense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != bc {
		return nil, errors.Wrapf(ErrShape, "cannot stack %d and %d columns", ac, bc)
	}
	if ar+br == 0 || ac == 0 {
		return nil, errors.New("cannot stack empty matrices")
	}
	out := mat.NewDense(ar+br, ac, nil)
	out.Stack(a, b)
	return out, nil
}

// SelectRows copies the rows of m at idx, in order, into a new matrix.
func SelectRows(m mat.Matrix, idx []int) *mat.Dense {
	_, c := m.Dims()
	if len(idx) == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(len(idx), c, nil)
	row := make([]float64, c)
	for i, j := range idx {
		mat.Row(row, j, m)
		out.SetRow(i, row)
	}
	return out
}

// SameWidth returns ErrShape unless every matrix has the same number of columns.
func SameWidth(ms ...mat.Matrix) error {
	if len(ms) == 0 {
		return nil
	}
	_, want := ms[0].Dims()
	for i, m := range ms[1:] {
		if _, c := m.Dims(); c != want {
			return errors.Wrapf(ErrShape, "operand %d has %d columns, want %d", i+1, c, want)
		}
	}
	return nil
}

// Vec returns the elements of a vector as a new slice.
func Vec(v mat.Vector) []float64 {
	n := v.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = v.AtVec(i)
	}
	return out
}
