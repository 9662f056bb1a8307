package dev

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/stellaxu/DEV/pkg/model"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

// blob draws n rows around center with unit Gaussian noise.
func blob(rng *rand.Rand, n int, center ...float64) *mat.Dense {
	d := len(center)
	m := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			m.Set(i, j, center[j]+rng.NormFloat64())
		}
	}
	return m
}

// indexed returns an n x d matrix whose row i is filled with i.
func indexed(n, d int) *mat.Dense {
	m := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			m.Set(i, j, float64(i))
		}
	}
	return m
}

func testEstimator(seed uint64, opts ...Option) *WeightEstimator {
	base := []Option{
		WithMLPOptions(
			model.WithEpochs(80),
			model.WithBatchSize(32),
			model.WithLearningRate(1e-2),
		),
	}
	return NewWeightEstimator(newRand(seed), append(base, opts...)...)
}
