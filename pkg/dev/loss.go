package dev

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/stellaxu/DEV/pkg/NeuralNetwork"
)

// LossFunc scores one validation prediction against its ground truth.
type LossFunc func(truth, pred float64) float64

// AbsoluteLoss is |truth - pred|.
func AbsoluteLoss(truth, pred float64) float64 { return math.Abs(truth - pred) }

// ZeroOneLoss is 0 for a correct prediction and 1 otherwise.
func ZeroOneLoss(truth, pred float64) float64 {
	if truth == pred {
		return 0
	}
	return 1
}

// CrossEntropyLoss treats pred as the predicted probability of the true
// class and ignores truth.
func CrossEntropyLoss(_, pred float64) float64 { return NeuralNetwork.NLL(pred) }

var losses = map[string]LossFunc{
	"absolute":      AbsoluteLoss,
	"zero-one":      ZeroOneLoss,
	"cross-entropy": CrossEntropyLoss,
}

// LossNames lists the names accepted by LossByName.
func LossNames() []string {
	names := make([]string, 0, len(losses))
	for k := range losses {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func LossByName(name string) (LossFunc, error) {
	fn, ok := losses[name]
	if !ok {
		return nil, errors.Errorf("unknown loss %q, want one of %v", name, LossNames())
	}
	return fn, nil
}

// LossVector applies fn to every (truth, pred) pair.
func LossVector(fn LossFunc, truth, pred []float64) (*mat.VecDense, error) {
	if len(truth) != len(pred) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d labels but %d predictions", len(truth), len(pred))
	}
	if len(truth) == 0 {
		return nil, errors.Wrap(ErrInsufficientSamples, "no predictions")
	}
	v := mat.NewVecDense(len(truth), nil)
	for i := range truth {
		v.SetVec(i, fn(truth[i], pred[i]))
	}
	return v, nil
}
