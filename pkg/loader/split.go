package loader

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/stellaxu/DEV/pkg/core"
)

// Split holds the two partitions produced by TrainTestSplit.
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest []int
}

// TrainTestSplit shuffles the rows of X (and Y in unison) and puts the first
// trainFraction of them, rounded down, in the train partition. Both partitions
// must end up non-empty.
func TrainTestSplit(X mat.Matrix, Y []int, trainFraction float64, rng *rand.Rand) (*Split, error) {
	n, _ := X.Dims()
	if n != len(Y) {
		return nil, errors.Wrapf(core.ErrShape, "%d rows but %d labels", n, len(Y))
	}
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, errors.Errorf("train fraction %v not in (0, 1)", trainFraction)
	}
	nTrain := int(float64(n) * trainFraction)
	if nTrain == 0 || nTrain == n {
		return nil, errors.Errorf("cannot split %d rows with train fraction %v", n, trainFraction)
	}

	indices := rng.Perm(n)
	s := &Split{
		XTrain: core.SelectRows(X, indices[:nTrain]),
		XTest:  core.SelectRows(X, indices[nTrain:]),
		YTrain: make([]int, 0, nTrain),
		YTest:  make([]int, 0, n-nTrain),
	}
	for _, i := range indices[:nTrain] {
		s.YTrain = append(s.YTrain, Y[i])
	}
	for _, i := range indices[nTrain:] {
		s.YTest = append(s.YTest, Y[i])
	}
	return s, nil
}

// Batches cuts idx into consecutive chunks of at most size elements.
func Batches(idx []int, size int) [][]int {
	if len(idx) == 0 {
		return nil
	}
	if size <= 0 || size > len(idx) {
		size = len(idx)
	}
	out := make([][]int, 0, (len(idx)+size-1)/size)
	for s := 0; s < len(idx); s += size {
		out = append(out, idx[s:min(s+size, len(idx))])
	}
	return out
}
