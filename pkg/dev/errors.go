package dev

import (
	"github.com/pkg/errors"

	"github.com/stellaxu/DEV/pkg/core"
)

var (
	// ErrDimensionMismatch is returned when weight and loss vectors differ in
	// length or feature sets differ in width.
	ErrDimensionMismatch = core.ErrShape
	// ErrInsufficientSamples is returned when a set is empty or subsampling
	// asks for more rows than the source has.
	ErrInsufficientSamples = errors.New("insufficient samples")
	// ErrDegenerateVariance is returned when the weights have no variance,
	// leaving the control variate coefficient undefined.
	ErrDegenerateVariance = errors.New("degenerate weight variance")
	// ErrDegenerateProbability is returned when the domain classifier gives a
	// validation row zero probability of being target domain.
	ErrDegenerateProbability = errors.New("degenerate target probability")
	// ErrNonFiniteLoss is returned when a loss value is NaN or infinite.
	ErrNonFiniteLoss = errors.New("non-finite loss")
	// ErrMissingFeatures is returned when features hold NaN values and no
	// impute strategy is set.
	ErrMissingFeatures = errors.New("missing feature values")
)
