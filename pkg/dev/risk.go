package dev

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/stellaxu/DEV/pkg/core"
)

// EstimateRisk returns the control variate corrected importance weighted risk
//
//	mean(w*l) + eta*(mean(w) - 1),  eta = -Cov(w*l, w) / Var(w)
//
// with unbiased (N-1) covariance and variance. The weights have expectation 1
// under a correct density ratio, which makes the correction unbiased.
func EstimateRisk(weight, loss mat.Vector) (float64, error) {
	n := weight.Len()
	if loss.Len() != n {
		return 0, errors.Wrapf(ErrDimensionMismatch, "%d weights but %d losses", n, loss.Len())
	}
	if n < 2 {
		return 0, errors.Wrapf(ErrDegenerateVariance, "variance of %d weights is undefined", n)
	}

	w := core.Vec(weight)
	we := make([]float64, n)
	for i := range we {
		l := loss.AtVec(i)
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return 0, errors.Wrapf(ErrNonFiniteLoss, "loss %d is %v", i, l)
		}
		we[i] = w[i] * l
	}

	varW := stat.Variance(w, nil)
	if !(varW > 0) || math.IsInf(varW, 0) {
		return 0, errors.Wrapf(ErrDegenerateVariance, "weight variance is %v", varW)
	}
	eta := -stat.Covariance(we, w, nil) / varW
	risk := stat.Mean(we, nil) + eta*(stat.Mean(w, nil)-1)
	if math.IsNaN(risk) || math.IsInf(risk, 0) {
		return 0, errors.Wrapf(ErrDegenerateVariance, "risk is %v", risk)
	}
	return risk, nil
}
