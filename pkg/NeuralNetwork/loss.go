package NeuralNetwork

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const probFloor = 1e-12

// CrossEntropy returns the mean categorical cross-entropy of softmax outputs
// probs against integer labels, and its gradient with respect to the logits.
// Use this loss for softmax classifiers with one output unit per class.
func CrossEntropy(labels []int, probs *mat.Dense) (float64, *mat.Dense) {
	n, k := probs.Dims()
	grad := mat.NewDense(n, k, nil)
	grad.Copy(probs)
	s := 0.0
	for i, y := range labels {
		s -= math.Log(math.Max(probs.At(i, y), probFloor))
		grad.Set(i, y, grad.At(i, y)-1)
	}
	grad.Scale(1/float64(n), grad)
	return s / float64(n), grad
}

// NLL is the negative log likelihood of a single predicted probability.
func NLL(p float64) float64 {
	return -math.Log(math.Min(math.Max(p, probFloor), 1))
}
