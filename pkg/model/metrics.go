package model

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Accuracy is the fraction of positions where yPred equals yTrue.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ArgMaxRows returns the column index of the largest value in every row.
// The first column wins on ties.
func ArgMaxRows(m *mat.Dense) []int {
	r, _ := m.Dims()
	out := make([]int, r)
	for i := range r {
		out[i] = floats.MaxIdx(m.RawRowView(i))
	}
	return out
}
