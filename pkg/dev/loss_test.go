package dev

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLossFuncs(t *testing.T) {
	assert.Equal(t, 2.0, AbsoluteLoss(3, 1))
	assert.Equal(t, 0.0, AbsoluteLoss(1, 1))
	assert.Equal(t, 0.0, ZeroOneLoss(4, 4))
	assert.Equal(t, 1.0, ZeroOneLoss(4, 2))
	assert.InDelta(t, math.Log(2), CrossEntropyLoss(0, 0.5), 1e-12)
	assert.Equal(t, 0.0, CrossEntropyLoss(0, 1))
	assert.False(t, math.IsInf(CrossEntropyLoss(0, 0), 0))
}

func TestLossByName(t *testing.T) {
	for _, n := range LossNames() {
		fn, err := LossByName(n)
		require.NoError(t, err, n)
		assert.NotNil(t, fn)
	}
	_, err := LossByName("hinge")
	assert.Error(t, err)
	assert.Equal(t, []string{"absolute", "cross-entropy", "zero-one"}, LossNames())
}

func TestLossVector(t *testing.T) {
	v, err := LossVector(ZeroOneLoss, []float64{1, 1, 2}, []float64{1, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, v.RawVector().Data)

	_, err = LossVector(ZeroOneLoss, []float64{1, 1}, []float64{1})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	_, err = LossVector(ZeroOneLoss, nil, nil)
	assert.True(t, errors.Is(err, ErrInsufficientSamples))
}
