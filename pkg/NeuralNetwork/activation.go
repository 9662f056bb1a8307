package NeuralNetwork

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func ReLU(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func ReLUPrime(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// ReLUInPlace applies ReLU to every element of m.
func ReLUInPlace(m *mat.Dense) {
	m.Apply(func(_, _ int, v float64) float64 { return ReLU(v) }, m)
}

// MaskReLU zeroes grad wherever the pre-activation z was not positive.
func MaskReLU(grad, z *mat.Dense) {
	grad.Apply(func(i, j int, g float64) float64 { return g * ReLUPrime(z.At(i, j)) }, grad)
}

// Softmax normalizes each row of m into a probability distribution, in place.
// The row maximum is subtracted first so large logits do not overflow.
func Softmax(m *mat.Dense) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		mx := floats.Max(row)
		for j := range row {
			row[j] = math.Exp(row[j] - mx)
		}
		floats.Scale(1/floats.Sum(row), row)
	}
}
