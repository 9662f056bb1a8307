package NeuralNetwork

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestReLU(t *testing.T) {
	assert.Equal(t, 0.0, ReLU(-1))
	assert.Equal(t, 2.0, ReLU(2))
	assert.Equal(t, 0.0, ReLUPrime(0))
	assert.Equal(t, 1.0, ReLUPrime(0.1))

	m := mat.NewDense(1, 3, []float64{-1, 0, 3})
	ReLUInPlace(m)
	assert.Equal(t, []float64{0, 0, 3}, m.RawRowView(0))

	g := mat.NewDense(1, 3, []float64{5, 5, 5})
	MaskReLU(g, mat.NewDense(1, 3, []float64{-1, 0, 3}))
	assert.Equal(t, []float64{0, 0, 5}, g.RawRowView(0))
}

func TestSoftmax(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		0, 0,
		1000, 0,
		1, 2,
	})
	Softmax(m)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1.0, floats.Sum(m.RawRowView(i)), 1e-12)
	}
	assert.InDelta(t, 0.5, m.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, m.At(1, 0), 1e-12)
	assert.False(t, math.IsNaN(m.At(1, 1)))
	assert.InDelta(t, 1/(1+math.E), m.At(2, 0), 1e-12)
}

func TestCrossEntropy(t *testing.T) {
	probs := mat.NewDense(2, 2, []float64{
		0.25, 0.75,
		0.5, 0.5,
	})
	loss, grad := CrossEntropy([]int{1, 0}, probs)
	assert.InDelta(t, -(math.Log(0.75)+math.Log(0.5))/2, loss, 1e-12)
	// gradient w.r.t. logits is (p - onehot) / n
	assert.InDelta(t, 0.125, grad.At(0, 0), 1e-12)
	assert.InDelta(t, -0.125, grad.At(0, 1), 1e-12)
	assert.InDelta(t, -0.25, grad.At(1, 0), 1e-12)
	assert.InDelta(t, 0.25, grad.At(1, 1), 1e-12)
	// input untouched
	assert.Equal(t, 0.25, probs.At(0, 0))
}

func TestNLL(t *testing.T) {
	assert.Equal(t, 0.0, NLL(1))
	assert.InDelta(t, -math.Log(probFloor), NLL(0), 1e-9)
}
