package dev

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestEstimateDimensionMismatch(t *testing.T) {
	rng := newRand(3)
	est := testEstimator(3)

	_, err := est.Estimate(context.Background(), blob(rng, 10, 0, 0, 0), blob(rng, 10, 1, 1), blob(rng, 5, 1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	_, err = est.Estimate(context.Background(), blob(rng, 10, 0, 0), blob(rng, 10, 1, 1), blob(rng, 5, 1, 1, 1))
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestEstimateEmpty(t *testing.T) {
	rng := newRand(3)
	_, err := testEstimator(3).Estimate(context.Background(), &mat.Dense{}, blob(rng, 10, 1, 1), blob(rng, 5, 1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientSamples))
}

func TestEstimateSeparatedDomains(t *testing.T) {
	rng := newRand(11)
	source := blob(rng, 120, -3, -3)
	target := blob(rng, 120, 3, 3)
	validation := blob(rng, 40, 3, 3)

	res, err := testEstimator(11).Estimate(context.Background(), source, target, validation)
	require.NoError(t, err)

	require.Len(t, res.Scores, len(DefaultDecays))
	for i, s := range res.Scores {
		assert.Equal(t, DefaultDecays[i], s.Decay)
	}
	assert.GreaterOrEqual(t, res.BestScore().Accuracy, 0.95)
	assert.Equal(t, 120, res.SourceCount)
	assert.Equal(t, 120, res.TrainedSourceCount)

	require.Equal(t, 40, res.Weights.Len())
	for i := 0; i < res.Weights.Len(); i++ {
		w := res.Weights.AtVec(i)
		assert.GreaterOrEqual(t, w, 0.0)
		assert.Less(t, w, 1.0, "target-like row %d should look unlike the source", i)
	}

	// every validation row classified correctly: the risk vanishes
	risk, err := EstimateRisk(res.Weights, mat.NewVecDense(40, nil))
	require.NoError(t, err)
	assert.InDelta(t, 0, risk, 1e-9)
}

func TestEstimateSourceLikeValidation(t *testing.T) {
	rng := newRand(5)
	source := blob(rng, 100, -3, -3)
	target := blob(rng, 100, 3, 3)
	validation := blob(rng, 30, -3, -3)

	res, err := testEstimator(5).Estimate(context.Background(), source, target, validation)
	require.NoError(t, err)
	for i := 0; i < res.Weights.Len(); i++ {
		assert.Greater(t, res.Weights.AtVec(i), 1.0)
	}
}

func TestEstimateSubsamplesLargeSource(t *testing.T) {
	rng := newRand(9)
	source := blob(rng, 100, -3, -3)
	target := blob(rng, 20, 3, 3)
	validation := blob(rng, 10, 3, 3)

	res, err := testEstimator(9).Estimate(context.Background(), source, target, validation)
	require.NoError(t, err)
	assert.Equal(t, 100, res.SourceCount)
	assert.Equal(t, 20, res.TargetCount)
	assert.Equal(t, 40, res.TrainedSourceCount)
}

func TestEstimateDeterministic(t *testing.T) {
	rng := newRand(21)
	source := blob(rng, 60, -1, 0)
	target := blob(rng, 60, 1, 0)
	validation := blob(rng, 20, 0, 0)

	a, err := testEstimator(4, WithWorkers(4)).Estimate(context.Background(), source, target, validation)
	require.NoError(t, err)
	b, err := testEstimator(4, WithWorkers(1)).Estimate(context.Background(), source, target, validation)
	require.NoError(t, err)

	assert.Equal(t, a.Scores, b.Scores)
	assert.Equal(t, a.Best, b.Best)
	assert.True(t, mat.Equal(a.Weights, b.Weights))
}

func TestEstimateCanceled(t *testing.T) {
	rng := newRand(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testEstimator(2).Estimate(ctx, blob(rng, 20, 0), blob(rng, 20, 1), blob(rng, 5, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSelectBestFirstWins(t *testing.T) {
	assert.Equal(t, 0, selectBest([]float64{0.5}))
	assert.Equal(t, 1, selectBest([]float64{0.5, 0.9, 0.9, 0.7}))
	assert.Equal(t, 0, selectBest([]float64{1, 1, 1}))
	assert.Equal(t, 3, selectBest([]float64{0.1, 0.2, 0.3, 0.4}))
}

func TestImportanceWeights(t *testing.T) {
	// column 0 is the target probability, column 1 the source probability
	proba := mat.NewDense(3, 2, []float64{
		0.5, 0.5,
		0.8, 0.2,
		0.25, 0.75,
	})
	w, err := importanceWeights(proba, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, w.AtVec(0), 1e-12)
	assert.InDelta(t, 0.5, w.AtVec(1), 1e-12)
	assert.InDelta(t, 6.0, w.AtVec(2), 1e-12)
}

func TestImportanceWeightsZeroTarget(t *testing.T) {
	proba := mat.NewDense(2, 2, []float64{
		0.5, 0.5,
		0, 1,
	})
	_, err := importanceWeights(proba, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateProbability))
}

func TestEstimatePreprocessing(t *testing.T) {
	rng := newRand(17)
	source := blob(rng, 80, -3, -3)
	target := blob(rng, 80, 3, 3)
	validation := blob(rng, 20, 3, 3)
	source.Set(4, 0, math.NaN())
	target.Set(7, 1, math.NaN())
	validation.Set(0, 0, math.NaN())

	est := testEstimator(17, withDecays(1e-3), WithImpute("mean"), WithClip(0.01, 0.99), WithStandardize(true))
	res, err := est.Estimate(context.Background(), source, target, validation)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.BestScore().Accuracy, 0.9)
	for i := 0; i < res.Weights.Len(); i++ {
		assert.False(t, math.IsNaN(res.Weights.AtVec(i)))
	}
	// inputs untouched
	assert.True(t, math.IsNaN(validation.At(0, 0)))
}

func TestEstimateBadPreprocessing(t *testing.T) {
	rng := newRand(5)
	s, tg, v := blob(rng, 10, 0), blob(rng, 10, 1), blob(rng, 4, 1)

	_, err := testEstimator(5, WithImpute("knn")).Estimate(context.Background(), s, tg, v)
	assert.Error(t, err)

	_, err = testEstimator(5, WithClip(0.9, 0.1)).Estimate(context.Background(), s, tg, v)
	assert.Error(t, err)
}

func TestNewWeightEstimatorSearchesFullGrid(t *testing.T) {
	est := NewWeightEstimator(newRand(1), WithWorkers(2), WithStandardize(true))
	assert.Equal(t, DefaultDecays, est.decays)
	assert.Len(t, est.decays, 9)
}

func TestEstimateMissingFeatures(t *testing.T) {
	rng := newRand(21)
	source, target, validation := blob(rng, 20, 0, 0), blob(rng, 20, 1, 1), blob(rng, 5, 1, 1)
	validation.Set(2, 1, math.NaN())

	_, err := testEstimator(21, withDecays(1e-3)).Estimate(context.Background(), source, target, validation)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFeatures))
	assert.False(t, errors.Is(err, ErrDegenerateProbability))
	assert.Contains(t, err.Error(), "validation")

	target.Set(0, 0, math.NaN())
	_, err = testEstimator(21, withDecays(1e-3)).Estimate(context.Background(), source, target, validation)
	assert.True(t, errors.Is(err, ErrMissingFeatures))
	assert.Contains(t, err.Error(), "target")
}
