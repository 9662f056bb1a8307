package dev

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/stellaxu/DEV/pkg/core"
)

// NeedsSubsample reports whether the source set is more than twice the size
// of the target set.
func NeedsSubsample(nSource, nTarget int) bool {
	return nSource > 2*nTarget
}

// SubsampleSource returns 2*targetCount rows of source: row 0 followed by
// 2*targetCount-1 distinct rows drawn uniformly from the remaining ones.
// When the source is at most twice targetCount it returns a copy of source.
func SubsampleSource(source mat.Matrix, targetCount int, rng *rand.Rand) (*mat.Dense, error) {
	n, _ := source.Dims()
	if n == 0 || targetCount < 1 {
		return nil, errors.Wrapf(ErrInsufficientSamples, "subsample %d source rows for %d target rows", n, targetCount)
	}
	if !NeedsSubsample(n, targetCount) {
		return core.Clone(source), nil
	}
	return drawSource(source, targetCount, rng)
}

func drawSource(source mat.Matrix, targetCount int, rng *rand.Rand) (*mat.Dense, error) {
	n, _ := source.Dims()
	k := 2*targetCount - 1
	if k < 1 || k > n-1 {
		return nil, errors.Wrapf(ErrInsufficientSamples, "need %d rows besides row 0, have %d", k, n-1)
	}
	idx := make([]int, 0, k+1)
	idx = append(idx, 0)
	for _, i := range rng.Perm(n - 1)[:k] {
		idx = append(idx, i+1)
	}
	return core.SelectRows(source, idx), nil
}
